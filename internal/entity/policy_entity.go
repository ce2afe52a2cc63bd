package entity

import (
	"time"

	"github.com/google/uuid"
)

type PolicySourceType string

const (
	PolicySourceText PolicySourceType = "text"
	PolicySourceURL  PolicySourceType = "url"
)

// Policy is an analyzed privacy policy. Ids are sequential integers so they
// can double as URL fragments on the client.
type Policy struct {
	Id         uint
	UserId     uuid.UUID
	Title      string
	SourceType PolicySourceType
	SourceURL  *string
	PolicyText string

	// Structured output of the initial analysis pipeline.
	CompanyName  string
	RiskScore    float64
	FinalSummary string
	Analysis     map[string]interface{}

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
