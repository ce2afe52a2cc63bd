package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/pkg/qna"
	"github.com/Hirdyansh9/priv-lens/pkg/retrieval"

	"github.com/google/uuid"
)

const testQuota = 3

type chatFixture struct {
	uow     *fakeUow
	svc     IChatService
	llm     *fakeLLM
	userId  uuid.UUID
	policy  *entity.Policy
	service IPolicyService
}

func newChatFixture(t *testing.T, llmResponses ...string) *chatFixture {
	t.Helper()

	uow := newFakeUow()
	factory := &fakeFactory{uow: uow}

	userId := uuid.New()
	require.NoError(t, uow.users.Create(context.Background(), &entity.User{
		Id:                      userId,
		Username:                "alice",
		Role:                    entity.UserRoleUser,
		ChatDailyUsageLastReset: time.Now(),
	}))

	policy := &entity.Policy{
		UserId:     userId,
		Title:      "Acme Corp",
		PolicyText: "We collect your email address.",
	}
	require.NoError(t, uow.polcs.Create(context.Background(), policy))
	require.NoError(t, uow.chunks.CreateBulk(context.Background(), []*entity.PolicyChunk{
		{PolicyId: policy.Id, Document: "We collect your email address."},
	}))

	mockLLM := &fakeLLM{responses: llmResponses}
	retriever := retrieval.NewPolicyRetriever(uow.chunks, fakeEmbedder{}, nopLogger{})
	engine := qna.NewEngine(mockLLM, "fast-model", "quality-model", retriever, nopLogger{})

	policyService := NewPolicyService(factory, nil, nil, &fakePublisher{}, nil, 1_000_000, nopLogger{})
	svc := NewChatService(factory, policyService, engine, testQuota, nopLogger{})

	return &chatFixture{
		uow:     uow,
		svc:     svc,
		llm:     mockLLM,
		userId:  userId,
		policy:  policy,
		service: policyService,
	}
}

func TestChatPersistsBothMessages(t *testing.T) {
	fx := newChatFixture(t, "POLICY", "They collect your email address.")

	res, err := fx.svc.Chat(context.Background(), fx.userId, &dto.ChatRequest{
		Question: "What data does this policy collect?",
		PolicyId: FormatPolicyId(fx.policy.Id),
	})
	require.NoError(t, err)
	assert.Equal(t, "They collect your email address.", res.Reply)

	require.Len(t, fx.uow.msgs.messages, 2)
	assert.True(t, fx.uow.msgs.messages[0].IsUser)
	assert.Equal(t, "What data does this policy collect?", fx.uow.msgs.messages[0].Text)
	assert.False(t, fx.uow.msgs.messages[1].IsUser)
	assert.Equal(t, "They collect your email address.", fx.uow.msgs.messages[1].Text)

	// Retrieved context must have reached the answering prompt.
	require.Len(t, fx.llm.prompts, 2)
	assert.Contains(t, fx.llm.prompts[1], "We collect your email address.")
}

func TestChatIncrementsQuota(t *testing.T) {
	fx := newChatFixture(t, "hello! ask me about the policy")

	_, err := fx.svc.Chat(context.Background(), fx.userId, &dto.ChatRequest{
		Question: "hi",
		PolicyId: FormatPolicyId(fx.policy.Id),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fx.uow.users.users[fx.userId].ChatDailyUsage)
}

func TestChatEnforcesDailyQuota(t *testing.T) {
	fx := newChatFixture(t, "hello!")
	fx.uow.users.users[fx.userId].ChatDailyUsage = testQuota

	_, err := fx.svc.Chat(context.Background(), fx.userId, &dto.ChatRequest{
		Question: "hi",
		PolicyId: FormatPolicyId(fx.policy.Id),
	})
	assert.ErrorIs(t, err, ErrChatQuotaExceeded)
	assert.Empty(t, fx.uow.msgs.messages)
}

func TestChatQuotaResetsOnNewDay(t *testing.T) {
	fx := newChatFixture(t, "hello!")
	user := fx.uow.users.users[fx.userId]
	user.ChatDailyUsage = testQuota
	user.ChatDailyUsageLastReset = time.Now().AddDate(0, 0, -1)

	_, err := fx.svc.Chat(context.Background(), fx.userId, &dto.ChatRequest{
		Question: "hi",
		PolicyId: FormatPolicyId(fx.policy.Id),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fx.uow.users.users[fx.userId].ChatDailyUsage)
}

func TestChatRejectsForeignPolicy(t *testing.T) {
	fx := newChatFixture(t, "hello!")

	_, err := fx.svc.Chat(context.Background(), uuid.New(), &dto.ChatRequest{
		Question: "hi",
		PolicyId: FormatPolicyId(fx.policy.Id),
	})
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}

func TestChatRejectsMalformedPolicyId(t *testing.T) {
	fx := newChatFixture(t, "hello!")

	for _, raw := range []string{"", "abc", "0", "-1"} {
		_, err := fx.svc.Chat(context.Background(), fx.userId, &dto.ChatRequest{
			Question: "hi",
			PolicyId: raw,
		})
		assert.ErrorIs(t, err, ErrPolicyNotFound, "policy id %q", raw)
	}
}
