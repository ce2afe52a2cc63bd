package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/config"
	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory unitofwork.RepositoryFactory
	googleConf *oauth2.Config
	jwtSecret  string
	logger     logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, cfg *config.Config, log logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory: uowFactory,
		googleConf: conf,
		jwtSecret:  cfg.App.JWTSecret,
		logger:     log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != "google" {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	if provider != "google" {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %v", err)
	}

	googleUser, err := fetchGoogleUser(token.AccessToken)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Returning users are matched on the provider identity first, then on
	// a verified email from a password signup.
	var user *entity.User
	existingProvider, err := uow.UserRepository().FindProvider(ctx, specification.ByProvider{
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
	})
	if err != nil {
		return nil, err
	}
	if existingProvider != nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByID{ID: existingProvider.UserId})
		if err != nil {
			return nil, err
		}
	}
	if user == nil && googleUser.Email != "" {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: googleUser.Email})
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		username, err := s.pickUsername(ctx, uow, googleUser)
		if err != nil {
			return nil, err
		}

		user = &entity.User{
			Id:                      uuid.New(),
			Username:                username,
			Role:                    entity.UserRoleUser,
			ChatDailyUsageLastReset: time.Now(),
			CreatedAt:               time.Now(),
			UpdatedAt:               time.Now(),
		}
		if googleUser.Email != "" {
			user.Email = &googleUser.Email
		}
		if googleUser.Picture != "" {
			user.AvatarURL = &googleUser.Picture
		}

		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("OAuth", "new user created from google login", map[string]interface{}{
			"user_id": user.Id.String(),
		})
	}

	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   "google",
		ProviderUserId: googleUser.ID,
		AvatarURL:      googleUser.Picture,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %v", err)
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: signed,
		User: dto.UserPayload{
			Username: user.Username,
			Role:     string(user.Role),
		},
	}, nil
}

// pickUsername derives a username from the Google account, suffixed with
// part of the provider id when the plain form is taken.
func (s *oauthService) pickUsername(ctx context.Context, uow unitofwork.UnitOfWork, gu *googleUserInfo) (string, error) {
	base := strings.Split(gu.Email, "@")[0]
	if base == "" {
		base = strings.ReplaceAll(strings.ToLower(gu.Name), " ", "")
	}
	if base == "" {
		base = "user"
	}

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: base})
	if err != nil {
		return "", err
	}
	if existing == nil {
		return base, nil
	}

	suffix := gu.ID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return base + "_" + suffix, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func fetchGoogleUser(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %v", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %v", err)
	}

	var gu googleUserInfo
	if err := json.Unmarshal(content, &gu); err != nil {
		return nil, err
	}
	return &gu, nil
}
