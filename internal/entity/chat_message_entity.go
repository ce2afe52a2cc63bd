package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id       uuid.UUID
	PolicyId uint
	UserId   uuid.UUID
	Text     string
	IsUser   bool
	// Set when the message was produced by a specialist agent run.
	AgentKey  *string
	CreatedAt time.Time
}
