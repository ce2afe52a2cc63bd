package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/repository/contract"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
	"github.com/Hirdyansh9/priv-lens/pkg/llm"

	"github.com/google/uuid"
)

// Shared in-memory test doubles for the service layer. The repository fakes
// interpret the typed specifications directly instead of building SQL.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeLLM struct {
	responses []string
	prompts   []string
	err       error
	calls     int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
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

type fakeEmbedder struct{}

func (fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) FetchText(url string) (string, error) {
	return f.text, f.err
}

type fakePublisher struct {
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeMailer struct {
	sentTo []string
	err    error
}

func (f *fakeMailer) SendWelcome(toEmail, username string) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = append(f.sentTo, toEmail)
	return nil
}

// memUserRepo

type memUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		if userMatches(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if userMatches(u, specs) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *memUserRepo) UpdateChatUsage(ctx context.Context, userId uuid.UUID, usage int, lastReset time.Time) error {
	u, ok := r.users[userId]
	if !ok {
		return errors.New("user not found")
	}
	u.ChatDailyUsage = usage
	u.ChatDailyUsageLastReset = lastReset
	return nil
}

func (r *memUserRepo) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return nil
}

func (r *memUserRepo) FindProvider(ctx context.Context, specs ...specification.Specification) (*entity.UserProvider, error) {
	return nil, nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.ByUsername:
			if u.Username != sp.Username {
				return false
			}
		case specification.ByEmail:
			if u.Email == nil || *u.Email != sp.Email {
				return false
			}
		}
	}
	return true
}

// memPolicyRepo

type memPolicyRepo struct {
	policies map[uint]*entity.Policy
	nextId   uint
}

func newMemPolicyRepo() *memPolicyRepo {
	return &memPolicyRepo{policies: make(map[uint]*entity.Policy), nextId: 1}
}

func (r *memPolicyRepo) Create(ctx context.Context, policy *entity.Policy) error {
	policy.Id = r.nextId
	r.nextId++
	cp := *policy
	r.policies[policy.Id] = &cp
	return nil
}

func (r *memPolicyRepo) Update(ctx context.Context, policy *entity.Policy) error {
	cp := *policy
	r.policies[policy.Id] = &cp
	return nil
}

func (r *memPolicyRepo) Delete(ctx context.Context, id uint) error {
	delete(r.policies, id)
	return nil
}

func (r *memPolicyRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Policy, error) {
	for _, p := range r.policies {
		if policyMatches(p, specs) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPolicyRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Policy, error) {
	var out []*entity.Policy
	for _, p := range r.policies {
		if policyMatches(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	for _, s := range specs {
		if ob, ok := s.(specification.OrderBy); ok && ob.Field == "created_at" {
			sort.Slice(out, func(i, j int) bool {
				if ob.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	return out, nil
}

func (r *memPolicyRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *memPolicyRepo) UpdateTitle(ctx context.Context, id uint, title string) error {
	p, ok := r.policies[id]
	if !ok {
		return errors.New("policy not found")
	}
	p.Title = title
	return nil
}

func policyMatches(p *entity.Policy, specs []specification.Specification) bool {
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByPolicyID:
			if p.Id != sp.PolicyID {
				return false
			}
		case specification.OwnedByUser:
			if p.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

// memChatMessageRepo

type memChatMessageRepo struct {
	messages []*entity.ChatMessage
}

func (r *memChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	cp := *message
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memChatMessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	out := r.messages[:0]
	for _, m := range r.messages {
		if m.Id != id {
			out = append(out, m)
		}
	}
	r.messages = out
	return nil
}

func (r *memChatMessageRepo) DeleteByPolicyId(ctx context.Context, policyId uint) error {
	out := r.messages[:0]
	for _, m := range r.messages {
		if m.PolicyId != policyId {
			out = append(out, m)
		}
	}
	r.messages = out
	return nil
}

func (r *memChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range r.messages {
		keep := true
		for _, s := range specs {
			if sp, ok := s.(specification.ForPolicy); ok && m.PolicyId != sp.PolicyID {
				keep = false
			}
		}
		if keep {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// memPolicyChunkRepo serves the retrieval fakes; SearchSimilar just returns
// everything stored for the policy.

type memPolicyChunkRepo struct {
	docs map[uint][]string
}

func newMemPolicyChunkRepo() *memPolicyChunkRepo {
	return &memPolicyChunkRepo{docs: make(map[uint][]string)}
}

func (r *memPolicyChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.PolicyChunk) error {
	for _, c := range chunks {
		r.docs[c.PolicyId] = append(r.docs[c.PolicyId], c.Document)
	}
	return nil
}

func (r *memPolicyChunkRepo) DeleteByPolicyId(ctx context.Context, policyId uint) error {
	delete(r.docs, policyId)
	return nil
}

func (r *memPolicyChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyChunk, error) {
	return nil, nil
}

func (r *memPolicyChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *memPolicyChunkRepo) SearchSimilar(ctx context.Context, emb []float32, limit int, policyId uint) ([]*contract.ScoredPolicyChunk, error) {
	var out []*contract.ScoredPolicyChunk
	for _, doc := range r.docs[policyId] {
		if len(out) >= limit {
			break
		}
		out = append(out, &contract.ScoredPolicyChunk{
			Chunk:      &entity.PolicyChunk{PolicyId: policyId, Document: doc},
			Similarity: 0.9,
		})
	}
	return out, nil
}

type memLegalChunkRepo struct {
	chunks []*entity.LegalChunk
}

func (r *memLegalChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.LegalChunk) error {
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *memLegalChunkRepo) DeleteBySource(ctx context.Context, source string) error {
	return nil
}

func (r *memLegalChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LegalChunk, error) {
	return r.chunks, nil
}

func (r *memLegalChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.chunks)), nil
}

func (r *memLegalChunkRepo) SearchSimilar(ctx context.Context, emb []float32, limit int, source string) ([]*contract.ScoredLegalChunk, error) {
	var out []*contract.ScoredLegalChunk
	for _, c := range r.chunks {
		if source != "" && c.Source != source {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, &contract.ScoredLegalChunk{Chunk: c, Similarity: 0.9})
	}
	return out, nil
}

// fakeUow wires the fakes into the UnitOfWork shape.

type fakeUow struct {
	users  *memUserRepo
	polcs  *memPolicyRepo
	msgs   *memChatMessageRepo
	chunks *memPolicyChunkRepo
	legal  *memLegalChunkRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:  newMemUserRepo(),
		polcs:  newMemPolicyRepo(),
		msgs:   &memChatMessageRepo{},
		chunks: newMemPolicyChunkRepo(),
		legal:  &memLegalChunkRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository               { return u.users }
func (u *fakeUow) PolicyRepository() contract.PolicyRepository           { return u.polcs }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return u.msgs }
func (u *fakeUow) PolicyChunkRepository() contract.PolicyChunkRepository { return u.chunks }
func (u *fakeUow) LegalChunkRepository() contract.LegalChunkRepository   { return u.legal }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}
