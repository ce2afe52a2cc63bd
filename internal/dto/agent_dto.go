package dto

import "encoding/json"

type AgentInfoPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type RunAgentRequest struct {
	PolicyId   string            `json:"policy_id"`
	PolicyText string            `json:"policy_text"`
	Params     map[string]string `json:"params"`
}

// Result is either a JSON string (narrative) or a flat JSON object
// (structured indicators); it is passed through untouched.
type RunAgentResponse struct {
	Result json.RawMessage `json:"result"`
	Agent  string          `json:"agent"`
}

type ComparePoliciesRequest struct {
	PolicyIdA string `json:"policy_id_a" validate:"required"`
	PolicyIdB string `json:"policy_id_b" validate:"required"`
}

type ComparePoliciesResponse struct {
	Result string `json:"result"`
}
