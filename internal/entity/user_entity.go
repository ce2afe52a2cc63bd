package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	Id           uuid.UUID
	Username     string
	Email        *string
	PasswordHash *string
	AvatarURL    *string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Daily QnA quota bookkeeping. Resets on the first question of a new day.
	ChatDailyUsage          int
	ChatDailyUsageLastReset time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}
