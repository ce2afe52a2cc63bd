package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/pkg/llm"
	"github.com/Hirdyansh9/priv-lens/pkg/utils"
)

// ErrUnstructuredOutput is returned when the model cannot produce the
// required JSON for the given input, typically because the text is too
// short or is not a privacy policy at all.
var ErrUnstructuredOutput = errors.New("model could not structure the analysis output")

// Result is the structured outcome of a full policy analysis.
type Result struct {
	CompanyName          string   `json:"company_name"`
	PiiCollected         []string `json:"pii_collected"`
	DataSharingPractices string   `json:"data_sharing_practices"`
	RetentionSummary     string   `json:"retention_summary"`
	RiskScore            int      `json:"risk_score"`
	FinalSummary         string   `json:"final_summary"`
}

const analysisPrompt = `You are an expert privacy analyst. Your task is to conduct a rigorous analysis of the provided privacy policy. Your analysis must be based solely on the text of the policy.

**Instructions:**
1.  **Identify Company:** Extract the name of the company the policy belongs to.
2.  **PII Collection:** List all types of Personal Identifiable Information (PII) mentioned.
3.  **Data Retention:** Summarize the company's data retention policy. If it's not mentioned, state that clearly.
4.  **Data Sharing:** Summarize with whom the company shares user data (e.g., third parties, affiliates, advertisers).
5.  **Risk Score:** Calculate an overall risk score from 1 (low risk) to 10 (high risk) based on factors like data sensitivity, sharing practices, and policy clarity.
6.  **Summarize:** Write a concise, high-level summary for a non-technical user, including a justification for the risk score.

**Output Format:** You MUST provide your response as a single JSON object with exactly these keys:
{
  "company_name": "string, the name of the company",
  "pii_collected": ["list of strings, PII types the policy says the company collects"],
  "data_sharing_practices": "string, summary of data sharing",
  "retention_summary": "string, summary of data retention",
  "risk_score": "integer from 1 to 10",
  "final_summary": "string, overall summary with risk score justification"
}

Respond with the JSON object only. Do not add any other text.

**Privacy Policy Text to Analyze:**
%s`

// Analyzer runs the full structured analysis of a policy document. It uses
// the quality model at temperature zero and retries once when the model
// fails to return parseable JSON.
type Analyzer struct {
	llm    llm.LLMProvider
	model  string
	logger logger.ILogger
}

func NewAnalyzer(provider llm.LLMProvider, model string, log logger.ILogger) *Analyzer {
	return &Analyzer{
		llm:    provider,
		model:  model,
		logger: log,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, policyText string) (*Result, error) {
	prompt := fmt.Sprintf(analysisPrompt, policyText)

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		raw, err := a.llm.Generate(ctx, prompt,
			llm.WithModel(a.model),
			llm.WithTemperature(0),
		)
		if err != nil {
			return nil, fmt.Errorf("generate analysis: %w", err)
		}

		result, err := parseResult(raw)
		if err == nil {
			a.logger.Info("Analysis", "policy analysis complete", map[string]interface{}{
				"company":    result.CompanyName,
				"risk_score": result.RiskScore,
				"attempt":    attempt,
			})
			return result, nil
		}

		lastErr = err
		a.logger.Warn("Analysis", "model output not parseable, retrying", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	return nil, fmt.Errorf("%w: %v", ErrUnstructuredOutput, lastErr)
}

func parseResult(raw string) (*Result, error) {
	jsonStr, err := utils.ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}

	if strings.TrimSpace(result.FinalSummary) == "" {
		return nil, errors.New("analysis missing final summary")
	}
	if result.RiskScore < 1 {
		result.RiskScore = 1
	}
	if result.RiskScore > 10 {
		result.RiskScore = 10
	}

	return &result, nil
}
