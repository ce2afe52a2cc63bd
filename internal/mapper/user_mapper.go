package mapper

import (
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                      u.Id,
		Username:                u.Username,
		Email:                   u.Email,
		PasswordHash:            u.PasswordHash,
		AvatarURL:               u.AvatarURL,
		Role:                    entity.UserRole(u.Role),
		ChatDailyUsage:          u.ChatDailyUsage,
		ChatDailyUsageLastReset: u.ChatDailyUsageLastReset,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                      u.Id,
		Username:                u.Username,
		Email:                   u.Email,
		PasswordHash:            u.PasswordHash,
		AvatarURL:               u.AvatarURL,
		Role:                    string(u.Role),
		ChatDailyUsage:          u.ChatDailyUsage,
		ChatDailyUsageLastReset: u.ChatDailyUsageLastReset,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func (m *UserMapper) ProviderToEntity(p *model.UserProvider) *entity.UserProvider {
	if p == nil {
		return nil
	}
	return &entity.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}

func (m *UserMapper) ProviderToModel(p *entity.UserProvider) *model.UserProvider {
	if p == nil {
		return nil
	}
	return &model.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}
