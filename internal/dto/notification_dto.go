package dto

import "time"

// NotificationPayload is pushed to connected websocket clients when a
// background event completes.
type NotificationPayload struct {
	Type        string    `json:"type"`
	PolicyId    string    `json:"policy_id,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	RiskScore   float64   `json:"risk_score,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}
