package events

import "time"

// Event is the contract for everything published on the bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "ANALYSIS_DONE").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a plain implementation for ad-hoc events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// AnalysisDone is emitted when a policy finishes the analysis pipeline.
func AnalysisDone(userId string, policyId uint, companyName string, riskScore float64) Event {
	return BaseEvent{
		Type: "ANALYSIS_DONE",
		Data: map[string]interface{}{
			"user_id":      userId,
			"policy_id":    policyId,
			"company_name": companyName,
			"risk_score":   riskScore,
		},
		OccurredAt: time.Now(),
	}
}
