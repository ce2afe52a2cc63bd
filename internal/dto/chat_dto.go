package dto

type ChatRequest struct {
	Question string `json:"question" validate:"required"`
	PolicyId string `json:"policy_id" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
