package implementation

import (
	"context"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/mapper"
	"github.com/Hirdyansh9/priv-lens/internal/model"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type LegalChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewLegalChunkRepository(db *gorm.DB) contract.LegalChunkRepository {
	return &LegalChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *LegalChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LegalChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.LegalChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.LegalChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.LegalChunkToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.LegalChunkToEntity(m)
	}
	return nil
}

func (r *LegalChunkRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	return r.db.WithContext(ctx).Where("source = ?", source).Delete(&model.LegalChunk{}).Error
}

func (r *LegalChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalChunk, error) {
	var models []*model.LegalChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.LegalChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.LegalChunkToEntity(m)
	}
	return entities, nil
}

func (r *LegalChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.LegalChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LegalChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, source string) ([]*contract.ScoredLegalChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.LegalChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("legal_chunks").
		Select("legal_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector)
	if source != "" {
		query = query.Where("source = ?", source)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredLegalChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredLegalChunk{
			Chunk:      r.mapper.LegalChunkToEntity(&res.LegalChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
