package entity

import (
	"time"

	"github.com/google/uuid"
)

// PolicyChunk is one embedded slice of a policy document.
type PolicyChunk struct {
	Id             uuid.UUID
	PolicyId       uint
	ChunkIndex     int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}

// LegalChunk is one embedded slice of a regulation corpus (GDPR, COPPA).
type LegalChunk struct {
	Id             uuid.UUID
	Source         string
	Article        string
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
