package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username                string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Email                   *string   `gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash            *string   `gorm:"type:varchar(255)"`
	AvatarURL               *string   `gorm:"type:text"`
	Role                    string    `gorm:"type:varchar(20);not null;default:'user'"`
	ChatDailyUsage          int       `gorm:"default:0"`
	ChatDailyUsageLastReset time.Time
	CreatedAt               time.Time      `gorm:"autoCreateTime"`
	UpdatedAt               time.Time      `gorm:"autoUpdateTime"`
	DeletedAt               gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type UserProvider struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProviderName   string    `gorm:"type:varchar(50);not null"`
	ProviderUserId string    `gorm:"type:varchar(255);not null"`
	AvatarURL      string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (UserProvider) TableName() string {
	return "user_providers"
}
