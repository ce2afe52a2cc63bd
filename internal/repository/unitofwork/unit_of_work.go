package unitofwork

import (
	"context"

	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PolicyRepository() contract.PolicyRepository
	ChatMessageRepository() contract.ChatMessageRepository
	PolicyChunkRepository() contract.PolicyChunkRepository
	LegalChunkRepository() contract.LegalChunkRepository
}
