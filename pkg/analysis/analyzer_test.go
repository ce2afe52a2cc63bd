package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/pkg/llm"
)

type fakeLLM struct {
	responses []string
	calls     int
	err       error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	return f.responses[idx], nil
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, "", options...)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = nopLogger{}

const validAnalysis = `{
	"company_name": "Acme Corp",
	"pii_collected": ["email address", "location data"],
	"data_sharing_practices": "Shares with advertising partners.",
	"retention_summary": "Kept for two years after account closure.",
	"risk_score": 7,
	"final_summary": "High sharing, long retention. Score reflects broad ad partner access."
}`

func TestAnalyzeParsesStructuredOutput(t *testing.T) {
	provider := &fakeLLM{responses: []string{"Here you go:\n```json\n" + validAnalysis + "\n```"}}
	analyzer := NewAnalyzer(provider, "test-model", nopLogger{})

	result, err := analyzer.Analyze(context.Background(), "We collect your email.")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", result.CompanyName)
	assert.Equal(t, []string{"email address", "location data"}, result.PiiCollected)
	assert.Equal(t, 7, result.RiskScore)
	assert.Equal(t, 1, provider.calls)
}

func TestAnalyzeRetriesOnceOnBadOutput(t *testing.T) {
	provider := &fakeLLM{responses: []string{"I cannot analyze this.", validAnalysis}}
	analyzer := NewAnalyzer(provider, "test-model", nopLogger{})

	result, err := analyzer.Analyze(context.Background(), "We collect your email.")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, "Acme Corp", result.CompanyName)
}

func TestAnalyzeGivesUpAfterSecondFailure(t *testing.T) {
	provider := &fakeLLM{responses: []string{"not json", "still not json"}}
	analyzer := NewAnalyzer(provider, "test-model", nopLogger{})

	_, err := analyzer.Analyze(context.Background(), "gibberish input")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnstructuredOutput))
	assert.Equal(t, 2, provider.calls)
}

func TestAnalyzeClampsRiskScore(t *testing.T) {
	provider := &fakeLLM{responses: []string{`{
		"company_name": "Acme",
		"pii_collected": [],
		"data_sharing_practices": "None stated.",
		"retention_summary": "Not mentioned.",
		"risk_score": 14,
		"final_summary": "Sparse policy."
	}`}}
	analyzer := NewAnalyzer(provider, "test-model", nopLogger{})

	result, err := analyzer.Analyze(context.Background(), "short policy")
	require.NoError(t, err)
	assert.Equal(t, 10, result.RiskScore)
}

func TestAnalyzePropagatesProviderError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("upstream down")}
	analyzer := NewAnalyzer(provider, "test-model", nopLogger{})

	_, err := analyzer.Analyze(context.Background(), "text")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnstructuredOutput))
}
