package contract

import (
	"context"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
)

type PolicyRepository interface {
	Create(ctx context.Context, policy *entity.Policy) error
	Update(ctx context.Context, policy *entity.Policy) error
	Delete(ctx context.Context, id uint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateTitle(ctx context.Context, id uint, title string) error
}
