package qna

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
	"github.com/Hirdyansh9/priv-lens/pkg/llm"
	"github.com/Hirdyansh9/priv-lens/pkg/retrieval"
)

type fakeLLM struct {
	responses []string
	prompts   []string
	calls     int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
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

type fakeEmbedder struct{}

func (fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.5}},
	}, nil
}

type fakeChunkRepo struct {
	docs []string
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.PolicyChunk) error {
	return nil
}

func (f *fakeChunkRepo) DeleteByPolicyId(ctx context.Context, policyId uint) error { return nil }

func (f *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error) {
	return nil, nil
}

func (f *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, emb []float32, limit int, policyId uint) ([]*contract.ScoredPolicyChunk, error) {
	out := make([]*contract.ScoredPolicyChunk, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, &contract.ScoredPolicyChunk{
			Chunk: &entity.PolicyChunk{PolicyId: policyId, Document: d},
		})
	}
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestEngine(provider *fakeLLM, docs []string) *Engine {
	policies := retrieval.NewPolicyRetriever(&fakeChunkRepo{docs: docs}, fakeEmbedder{}, nopLogger{})
	return NewEngine(provider, "fast-model", "quality-model", policies, nopLogger{})
}

func TestAnswerGreetingSkipsRetrieval(t *testing.T) {
	provider := &fakeLLM{responses: []string{"Hello! Ask me anything about this policy."}}
	engine := newTestEngine(provider, []string{"chunk"})

	reply, err := engine.Answer(context.Background(), 7, "Hi!")
	require.NoError(t, err)
	assert.Equal(t, "Hello! Ask me anything about this policy.", reply)

	// Static greeting match means a single LLM call, with no router and
	// no document context in the prompt.
	require.Equal(t, 1, provider.calls)
	assert.NotContains(t, provider.prompts[0], "retrieved context")
}

func TestAnswerPolicyQuestionUsesRetrievedContext(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"POLICY",
		"Your data is kept for two years.",
	}}
	engine := newTestEngine(provider, []string{"Data is retained for two years."})

	reply, err := engine.Answer(context.Background(), 7, "How long does this policy retain my data?")
	require.NoError(t, err)
	assert.Equal(t, "Your data is kept for two years.", reply)

	require.Equal(t, 2, provider.calls)
	assert.Contains(t, provider.prompts[1], "Data is retained for two years.")
	assert.Contains(t, provider.prompts[1], "How long does this policy retain my data?")
}

func TestAnswerGeneralQuestionSkipsDocument(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"GENERAL",
		"GDPR is an EU regulation.",
	}}
	engine := newTestEngine(provider, []string{"irrelevant chunk"})

	reply, err := engine.Answer(context.Background(), 7, "What is GDPR?")
	require.NoError(t, err)
	assert.Equal(t, "GDPR is an EU regulation.", reply)
	assert.NotContains(t, provider.prompts[1], "irrelevant chunk")
}

func TestAnswerUnembeddedPolicyStillAnswers(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"POLICY",
		"The information is not found in the document.",
	}}
	engine := newTestEngine(provider, nil)

	reply, err := engine.Answer(context.Background(), 7, "What does the document say about cookies?")
	require.NoError(t, err)
	assert.Equal(t, "The information is not found in the document.", reply)
	assert.Contains(t, provider.prompts[1], "No relevant sections were found")
}

func TestAnswerGarbledRouterDefaultsToPolicy(t *testing.T) {
	provider := &fakeLLM{responses: []string{
		"I think this might be about the document?",
		"Answer from document.",
	}}
	engine := newTestEngine(provider, []string{"some chunk"})

	reply, err := engine.Answer(context.Background(), 7, "tell me about data sharing")
	require.NoError(t, err)
	assert.Equal(t, "Answer from document.", reply)
	assert.Contains(t, provider.prompts[1], "some chunk")
}
