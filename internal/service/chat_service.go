package service

import (
	"context"
	"errors"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/pkg/qna"

	"github.com/google/uuid"
)

var ErrChatQuotaExceeded = errors.New("daily message limit reached. Please try again tomorrow")

type IChatService interface {
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	policyService IPolicyService
	engine        *qna.Engine
	dailyQuota    int
	logger        logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	policyService IPolicyService,
	engine *qna.Engine,
	dailyQuota int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		policyService: policyService,
		engine:        engine,
		dailyQuota:    dailyQuota,
		logger:        log,
	}
}

func (s *chatService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	policyId, err := ParsePolicyId(req.PolicyId)
	if err != nil {
		return nil, err
	}
	if _, err := s.policyService.FindOwned(ctx, userId, policyId); err != nil {
		return nil, err
	}

	if err := s.consumeQuota(ctx, userId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	userMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		PolicyId:  policyId,
		UserId:    userId,
		Text:      req.Question,
		IsUser:    true,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	reply, err := s.engine.Answer(ctx, policyId, req.Question)
	if err != nil {
		return nil, err
	}

	assistantMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		PolicyId:  policyId,
		UserId:    userId,
		Text:      reply,
		IsUser:    false,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	return &dto.ChatResponse{Reply: reply}, nil
}

// consumeQuota enforces the per-user daily message allowance. The counter
// resets on the first message of a new calendar day.
func (s *chatService) consumeQuota(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	now := time.Now()
	usage := user.ChatDailyUsage
	lastReset := user.ChatDailyUsageLastReset

	if !sameDay(lastReset, now) {
		usage = 0
		lastReset = now
	}

	if usage >= s.dailyQuota {
		s.logger.Info("ChatService", "daily quota exhausted", map[string]interface{}{
			"user_id": userId.String(),
			"usage":   usage,
		})
		return ErrChatQuotaExceeded
	}

	return uow.UserRepository().UpdateChatUsage(ctx, userId, usage+1, lastReset)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
