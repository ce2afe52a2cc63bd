package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PolicyChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyId       uint            `gorm:"not null;index"`
	ChunkIndex     int             `gorm:"default:0"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimensionality
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (PolicyChunk) TableName() string {
	return "policy_chunks"
}

type LegalChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source         string          `gorm:"type:varchar(20);not null;index"`
	Article        string          `gorm:"type:varchar(100)"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (LegalChunk) TableName() string {
	return "legal_chunks"
}
