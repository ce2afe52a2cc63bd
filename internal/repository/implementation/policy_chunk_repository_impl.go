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

type PolicyChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewPolicyChunkRepository(db *gorm.DB) contract.PolicyChunkRepository {
	return &PolicyChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *PolicyChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.PolicyChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.PolicyChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.PolicyChunkToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.PolicyChunkToEntity(m)
	}
	return nil
}

func (r *PolicyChunkRepositoryImpl) DeleteByPolicyId(ctx context.Context, policyId uint) error {
	return r.db.WithContext(ctx).Where("policy_id = ?", policyId).Delete(&model.PolicyChunk{}).Error
}

func (r *PolicyChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error) {
	var models []*model.PolicyChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PolicyChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PolicyChunkToEntity(m)
	}
	return entities, nil
}

func (r *PolicyChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PolicyChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PolicyChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, policyId uint) ([]*contract.ScoredPolicyChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// pgvector cosine distance: similarity = 1 - (embedding_value <=> query)
	type result struct {
		model.PolicyChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("policy_chunks").
		Select("policy_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("policy_id = ?", policyId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPolicyChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPolicyChunk{
			Chunk:      r.mapper.PolicyChunkToEntity(&res.PolicyChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
