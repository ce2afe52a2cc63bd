package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/pkg/analysis"

	"github.com/google/uuid"
)

const analyzerResponse = `{
	"company_name": "Acme Corp",
	"pii_collected": ["email", "location"],
	"data_sharing_practices": "Shares data with advertising partners.",
	"retention_summary": "Data kept for one year.",
	"risk_score": 6,
	"final_summary": "Moderate risk. Broad sharing with third parties."
}`

type policyFixture struct {
	uow       *fakeUow
	svc       IPolicyService
	publisher *fakePublisher
	fetcher   *fakeFetcher
	userId    uuid.UUID
}

func newPolicyFixture(t *testing.T, llmResponses ...string) *policyFixture {
	t.Helper()

	uow := newFakeUow()
	factory := &fakeFactory{uow: uow}

	userId := uuid.New()
	require.NoError(t, uow.users.Create(context.Background(), &entity.User{
		Id:       userId,
		Username: "alice",
	}))

	analyzer := analysis.NewAnalyzer(&fakeLLM{responses: llmResponses}, "quality-model", nopLogger{})
	publisher := &fakePublisher{}
	fetcher := &fakeFetcher{}

	svc := NewPolicyService(factory, analyzer, fetcher, publisher, nil, 10_000, nopLogger{})

	return &policyFixture{
		uow:       uow,
		svc:       svc,
		publisher: publisher,
		fetcher:   fetcher,
		userId:    userId,
	}
}

func TestAnalyzeTextPersistsPolicy(t *testing.T) {
	fx := newPolicyFixture(t, analyzerResponse)

	res, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "text",
		Data:       "We collect your email address and location.",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", res.PolicyId)

	policy := fx.uow.polcs.policies[1]
	require.NotNil(t, policy)
	assert.Equal(t, "Acme Corp", policy.Title)
	assert.Equal(t, "Acme Corp", policy.CompanyName)
	assert.Equal(t, 6.0, policy.RiskScore)
	assert.Equal(t, entity.PolicySourceText, policy.SourceType)
	assert.Nil(t, policy.SourceURL)
	assert.Contains(t, policy.FinalSummary, "Moderate risk")

	// The embedding worker must have received the new policy id.
	require.Len(t, fx.publisher.payloads, 1)
	var msg dto.PublishEmbedPolicyMessage
	require.NoError(t, json.Unmarshal(fx.publisher.payloads[0], &msg))
	assert.Equal(t, uint(1), msg.PolicyId)
}

func TestAnalyzeFallsBackToUntitled(t *testing.T) {
	blank := strings.Replace(analyzerResponse, `"Acme Corp"`, `""`, 2)
	fx := newPolicyFixture(t, blank)

	_, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "text",
		Data:       "Some policy text.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Untitled Policy", fx.uow.polcs.policies[1].Title)
}

func TestAnalyzeRejectsUnstructuredOutput(t *testing.T) {
	fx := newPolicyFixture(t, "I cannot analyze that, it is not a privacy policy.")

	_, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "text",
		Data:       "lorem ipsum",
	})
	assert.ErrorIs(t, err, ErrNotAPolicy)
	assert.Empty(t, fx.uow.polcs.policies)
}

func TestAnalyzeRejectsOversizedText(t *testing.T) {
	fx := newPolicyFixture(t, analyzerResponse)

	_, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "text",
		Data:       strings.Repeat("a", 10_001),
	})
	assert.ErrorIs(t, err, ErrPolicyTooLarge)
}

func TestAnalyzeURLStoresSource(t *testing.T) {
	fx := newPolicyFixture(t, analyzerResponse)
	fx.fetcher.text = strings.Repeat("We collect data. ", 20)

	_, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "url",
		Data:       "https://acme.example/privacy",
	})
	require.NoError(t, err)

	policy := fx.uow.polcs.policies[1]
	assert.Equal(t, entity.PolicySourceURL, policy.SourceType)
	require.NotNil(t, policy.SourceURL)
	assert.Equal(t, "https://acme.example/privacy", *policy.SourceURL)
}

func TestAnalyzeURLFetchFailure(t *testing.T) {
	fx := newPolicyFixture(t, analyzerResponse)
	fx.fetcher.err = assert.AnError

	_, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "url",
		Data:       "https://acme.example/privacy",
	})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestAnalyzeURLTooShortPage(t *testing.T) {
	fx := newPolicyFixture(t, analyzerResponse)
	fx.fetcher.text = "404 not found"

	_, err := fx.svc.Analyze(context.Background(), fx.userId, &dto.AnalyzeRequest{
		SourceType: "url",
		Data:       "https://acme.example/privacy",
	})
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestListReturnsNewestFirst(t *testing.T) {
	fx := newPolicyFixture(t)

	older := &entity.Policy{UserId: fx.userId, Title: "Older", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &entity.Policy{UserId: fx.userId, Title: "Newer", CreatedAt: time.Now()}
	foreign := &entity.Policy{UserId: uuid.New(), Title: "Foreign", CreatedAt: time.Now()}
	for _, p := range []*entity.Policy{older, newer, foreign} {
		require.NoError(t, fx.uow.polcs.Create(context.Background(), p))
	}

	items, err := fx.svc.List(context.Background(), fx.userId)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Newer", items[0].Title)
	assert.Equal(t, "Older", items[1].Title)
}

func TestGetIncludesHistory(t *testing.T) {
	fx := newPolicyFixture(t)

	policy := &entity.Policy{
		UserId:       fx.userId,
		Title:        "Acme Corp",
		PolicyText:   "We collect your email.",
		CompanyName:  "Acme Corp",
		RiskScore:    6,
		FinalSummary: "Moderate risk.",
	}
	require.NoError(t, fx.uow.polcs.Create(context.Background(), policy))
	require.NoError(t, fx.uow.msgs.Create(context.Background(), &entity.ChatMessage{
		PolicyId: policy.Id, UserId: fx.userId, Text: "What do they collect?", IsUser: true,
	}))
	require.NoError(t, fx.uow.msgs.Create(context.Background(), &entity.ChatMessage{
		PolicyId: policy.Id, UserId: fx.userId, Text: "Your email address.", IsUser: false,
	}))

	res, err := fx.svc.Get(context.Background(), fx.userId, policy.Id)
	require.NoError(t, err)
	assert.Equal(t, FormatPolicyId(policy.Id), res.PolicyId)
	assert.Equal(t, "We collect your email.", res.PolicyText)
	assert.Equal(t, "Acme Corp", res.Analysis.CompanyName)
	require.Len(t, res.History, 2)
	assert.True(t, res.History[0].IsUser)
	assert.Equal(t, "Your email address.", res.History[1].Text)
}

func TestGetRejectsForeignPolicy(t *testing.T) {
	fx := newPolicyFixture(t)

	policy := &entity.Policy{UserId: uuid.New(), Title: "Foreign"}
	require.NoError(t, fx.uow.polcs.Create(context.Background(), policy))

	_, err := fx.svc.Get(context.Background(), fx.userId, policy.Id)
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestDeleteRemovesMessagesAndChunks(t *testing.T) {
	fx := newPolicyFixture(t)

	policy := &entity.Policy{UserId: fx.userId, Title: "Acme Corp"}
	require.NoError(t, fx.uow.polcs.Create(context.Background(), policy))
	require.NoError(t, fx.uow.msgs.Create(context.Background(), &entity.ChatMessage{
		PolicyId: policy.Id, UserId: fx.userId, Text: "hi", IsUser: true,
	}))
	require.NoError(t, fx.uow.chunks.CreateBulk(context.Background(), []*entity.PolicyChunk{
		{PolicyId: policy.Id, Document: "chunk"},
	}))

	require.NoError(t, fx.svc.Delete(context.Background(), fx.userId, policy.Id))

	assert.Empty(t, fx.uow.polcs.policies)
	assert.Empty(t, fx.uow.msgs.messages)
	assert.Empty(t, fx.uow.chunks.docs)
}

func TestRenameUpdatesTitle(t *testing.T) {
	fx := newPolicyFixture(t)

	policy := &entity.Policy{UserId: fx.userId, Title: "Acme Corp"}
	require.NoError(t, fx.uow.polcs.Create(context.Background(), policy))

	require.NoError(t, fx.svc.Rename(context.Background(), fx.userId, policy.Id, "Renamed"))
	assert.Equal(t, "Renamed", fx.uow.polcs.policies[policy.Id].Title)
}

func TestParsePolicyId(t *testing.T) {
	id, err := ParsePolicyId("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "abc", "0", "-1", "1.5"} {
		_, err := ParsePolicyId(raw)
		assert.ErrorIs(t, err, ErrPolicyNotFound, "raw %q", raw)
	}

	assert.Equal(t, "42", FormatPolicyId(42))
}
