package dto

// Policy ids travel as strings on the wire even though they are integers in
// storage; the client uses them verbatim as URL fragments.

type AnalyzeRequest struct {
	SourceType string `json:"source_type" validate:"required,oneof=text url"`
	Data       string `json:"data" validate:"required"`
}

type AnalyzeResponse struct {
	PolicyId string `json:"policy_id"`
}

type PolicyListItem struct {
	PolicyId string `json:"policy_id"`
	Title    string `json:"title"`
}

type AnalysisPayload struct {
	CompanyName  string  `json:"company_name"`
	RiskScore    float64 `json:"risk_score"`
	FinalSummary string  `json:"final_summary"`
}

type HistoryEntry struct {
	Text   string `json:"text"`
	IsUser bool   `json:"is_user"`
}

type PolicyDetailResponse struct {
	PolicyId   string          `json:"policy_id"`
	PolicyText string          `json:"policy_text"`
	Analysis   AnalysisPayload `json:"analysis"`
	History    []HistoryEntry  `json:"history"`
}

type RenamePolicyRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// PublishEmbedPolicyMessage is the embedding pipeline work item.
type PublishEmbedPolicyMessage struct {
	PolicyId uint `json:"policy_id"`
}
