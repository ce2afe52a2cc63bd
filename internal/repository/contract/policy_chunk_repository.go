package contract

import (
	"context"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
)

// ScoredPolicyChunk pairs a chunk with its cosine similarity to a query.
type ScoredPolicyChunk struct {
	Chunk      *entity.PolicyChunk
	Similarity float64
}

type PolicyChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.PolicyChunk) error
	DeleteByPolicyId(ctx context.Context, policyId uint) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int, policyId uint) ([]*ScoredPolicyChunk, error)
}
