package contract

import (
	"context"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
)

type ScoredLegalChunk struct {
	Chunk      *entity.LegalChunk
	Similarity float64
}

type LegalChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.LegalChunk) error
	DeleteBySource(ctx context.Context, source string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar retrieves top-k chunks; source "" searches all corpora.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, source string) ([]*ScoredLegalChunk, error)
}
