package mapper

import (
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) PolicyChunkToEntity(c *model.PolicyChunk) *entity.PolicyChunk {
	if c == nil {
		return nil
	}
	return &entity.PolicyChunk{
		Id:             c.Id,
		PolicyId:       c.PolicyId,
		ChunkIndex:     c.ChunkIndex,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *ChunkMapper) PolicyChunkToModel(c *entity.PolicyChunk) *model.PolicyChunk {
	if c == nil {
		return nil
	}
	return &model.PolicyChunk{
		Id:             c.Id,
		PolicyId:       c.PolicyId,
		ChunkIndex:     c.ChunkIndex,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *ChunkMapper) LegalChunkToEntity(c *model.LegalChunk) *entity.LegalChunk {
	if c == nil {
		return nil
	}
	return &entity.LegalChunk{
		Id:             c.Id,
		Source:         c.Source,
		Article:        c.Article,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *ChunkMapper) LegalChunkToModel(c *entity.LegalChunk) *model.LegalChunk {
	if c == nil {
		return nil
	}
	return &model.LegalChunk{
		Id:             c.Id,
		Source:         c.Source,
		Article:        c.Article,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:      c.CreatedAt,
	}
}
