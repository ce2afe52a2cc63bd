package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/mailer"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/pkg/events"
	pktNats "github.com/Hirdyansh9/priv-lens/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type IAuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Session(ctx context.Context, userId string) (*dto.SessionResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	jwtSecret      string
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	jwtSecret string,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		jwtSecret:      jwtSecret,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:                      uuid.New(),
		Username:                req.Username,
		PasswordHash:            &hashStr,
		Role:                    entity.UserRoleUser,
		ChatDailyUsageLastReset: time.Now(),
		CreatedAt:               time.Now(),
		UpdatedAt:               time.Now(),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return err
	}

	// Welcome mail is best effort; signup never fails on SMTP trouble.
	if user.Email != nil && s.emailService != nil {
		if err := s.emailService.SendWelcome(*user.Email, user.Username); err != nil {
			fmt.Printf("[WARN] Failed to send welcome email: %v\n", err)
		}
	}

	return nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: req.Username})
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "USER_LOGIN",
			Data: map[string]interface{}{
				"user_id": user.Id,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserPayload{
			Username: user.Username,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *authService) Session(ctx context.Context, userId string) (*dto.SessionResponse, error) {
	if userId == "" {
		return &dto.SessionResponse{IsLoggedIn: false}, nil
	}

	uid, err := uuid.Parse(userId)
	if err != nil {
		return &dto.SessionResponse{IsLoggedIn: false}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: uid})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.SessionResponse{IsLoggedIn: false}, nil
	}

	return &dto.SessionResponse{
		IsLoggedIn: true,
		User: &dto.UserPayload{
			Username: user.Username,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *authService) signToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
