package implementation

import (
	"context"
	"errors"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/mapper"
	"github.com/Hirdyansh9/priv-lens/internal/model"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"

	"gorm.io/gorm"
)

type PolicyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PolicyMapper
}

func NewPolicyRepository(db *gorm.DB) contract.PolicyRepository {
	return &PolicyRepositoryImpl{
		db:     db,
		mapper: mapper.NewPolicyMapper(),
	}
}

func (r *PolicyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PolicyRepositoryImpl) Create(ctx context.Context, policy *entity.Policy) error {
	m := r.mapper.ToModel(policy)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*policy = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyRepositoryImpl) Update(ctx context.Context, policy *entity.Policy) error {
	m := r.mapper.ToModel(policy)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*policy = *r.mapper.ToEntity(m)
	return nil
}

func (r *PolicyRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Policy{}, id).Error
}

func (r *PolicyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error) {
	var m model.Policy
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PolicyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error) {
	var models []*model.Policy
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PolicyRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Policy{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PolicyRepositoryImpl) UpdateTitle(ctx context.Context, id uint, title string) error {
	return r.db.WithContext(ctx).Model(&model.Policy{}).
		Where("id = ?", id).
		Update("title", title).Error
}
