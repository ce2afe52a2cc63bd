package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Policy struct {
	Id           uint      `gorm:"primaryKey;autoIncrement"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Title        string    `gorm:"type:varchar(255);not null"`
	SourceType   string    `gorm:"type:varchar(10);not null;default:'text'"`
	SourceURL    *string   `gorm:"type:text"`
	PolicyText   string    `gorm:"type:text;not null"`
	CompanyName  string    `gorm:"type:varchar(255)"`
	RiskScore    float64   `gorm:"type:numeric(4,2);default:0"`
	FinalSummary string    `gorm:"type:text"`
	// Full analysis document as produced by the pipeline, kept verbatim.
	Analysis  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Policy) TableName() string {
	return "policies"
}
