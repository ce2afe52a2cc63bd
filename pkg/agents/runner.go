package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/pkg/llm"
	"github.com/Hirdyansh9/priv-lens/pkg/retrieval"
	"github.com/Hirdyansh9/priv-lens/pkg/utils"
)

var (
	ErrUnknownAgent = errors.New("unknown agent type")

	// ErrMalformedOutput is returned when a structured agent cannot
	// produce parseable JSON even after a retry.
	ErrMalformedOutput = errors.New("agent produced malformed output")
)

// Input is one agent invocation. PolicyId of zero means no stored policy
// is available, so retrieval-backed agents fall back to the full text.
type Input struct {
	PolicyId   uint
	PolicyText string
	Params     map[string]string
}

// Runner executes privacy agents. Structured agents return a JSON object,
// narrative agents return a JSON-encoded string; callers can distinguish
// the two by the leading token of the raw message.
type Runner struct {
	llm      llm.LLMProvider
	model    string
	policies *retrieval.PolicyRetriever
	legal    *retrieval.LegalRetriever
	logger   logger.ILogger
}

func NewRunner(
	provider llm.LLMProvider,
	model string,
	policies *retrieval.PolicyRetriever,
	legal *retrieval.LegalRetriever,
	log logger.ILogger,
) *Runner {
	return &Runner{
		llm:      provider,
		model:    model,
		policies: policies,
		legal:    legal,
		logger:   log,
	}
}

func (r *Runner) Run(ctx context.Context, key string, in Input) (json.RawMessage, error) {
	s, ok := registry[key]
	if !ok {
		return nil, ErrUnknownAgent
	}

	data := promptData{
		policyText:    in.PolicyText,
		policyContext: in.PolicyText,
		params:        in.Params,
	}

	if s.policyK > 0 && in.PolicyId != 0 {
		docs, err := r.policies.Search(ctx, in.PolicyId, in.PolicyText, s.policyK)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			data.policyContext = retrieval.FormatSections(docs)
		}
	}

	if s.legalSource != "" {
		chunks, err := r.legal.Search(ctx, s.legalSource, s.legalQuery, s.legalK)
		if err != nil {
			return nil, err
		}
		data.legalContext = retrieval.FormatLegalContext(chunks)
	}

	prompt := buildPrompt(key, data)

	if !s.structured {
		text, err := r.llm.Generate(ctx, prompt,
			llm.WithModel(r.model),
			llm.WithTemperature(0),
		)
		if err != nil {
			return nil, fmt.Errorf("run agent %s: %w", key, err)
		}
		return json.Marshal(strings.TrimSpace(text))
	}

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		raw, err := r.llm.Generate(ctx, prompt,
			llm.WithModel(r.model),
			llm.WithTemperature(0),
		)
		if err != nil {
			return nil, fmt.Errorf("run agent %s: %w", key, err)
		}

		jsonStr, err := utils.ExtractJSONObject(raw)
		if err == nil && json.Valid([]byte(jsonStr)) {
			r.logger.Info("Agents", "agent run complete", map[string]interface{}{
				"agent":     key,
				"policy_id": in.PolicyId,
				"attempt":   attempt,
			})
			return json.RawMessage(jsonStr), nil
		}

		lastErr = err
		if lastErr == nil {
			lastErr = errors.New("extracted object is not valid JSON")
		}
		r.logger.Warn("Agents", "agent output not parseable, retrying", map[string]interface{}{
			"agent":   key,
			"attempt": attempt,
		})
	}

	return nil, fmt.Errorf("%w: %s: %v", ErrMalformedOutput, key, lastErr)
}

// ComparePolicies produces a narrative comparison of two or more policies.
func (r *Runner) ComparePolicies(ctx context.Context, policyTexts []string) (string, error) {
	if len(policyTexts) < 2 {
		return "", errors.New("at least 2 policies required for comparison")
	}

	labeled := make([]string, 0, len(policyTexts))
	for i, text := range policyTexts {
		labeled = append(labeled, fmt.Sprintf("Policy %d:\n%s", i+1, text))
	}

	prompt := fmt.Sprintf(comparePrompt, strings.Join(labeled, "\n\n"))

	result, err := r.llm.Generate(ctx, prompt,
		llm.WithModel(r.model),
		llm.WithTemperature(0),
	)
	if err != nil {
		return "", fmt.Errorf("compare policies: %w", err)
	}
	return strings.TrimSpace(result), nil
}
