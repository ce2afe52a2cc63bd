package contract

import (
	"context"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPolicyId(ctx context.Context, policyId uint) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
