package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/pkg/agents"

	"github.com/google/uuid"
)

var (
	ErrUnknownAgent   = errors.New("invalid agent type")
	ErrNoPolicyText   = errors.New("no policy text provided")
	ErrAgentRunFailed = errors.New("agent analysis failed")
)

type IAgentService interface {
	ListAgents() map[string]dto.AgentInfoPayload
	RunAgent(ctx context.Context, userId uuid.UUID, agentKey string, req *dto.RunAgentRequest) (*dto.RunAgentResponse, error)
	ComparePolicies(ctx context.Context, userId uuid.UUID, req *dto.ComparePoliciesRequest) (*dto.ComparePoliciesResponse, error)
}

type agentService struct {
	uowFactory    unitofwork.RepositoryFactory
	policyService IPolicyService
	runner        *agents.Runner
	logger        logger.ILogger
}

func NewAgentService(
	uowFactory unitofwork.RepositoryFactory,
	policyService IPolicyService,
	runner *agents.Runner,
	log logger.ILogger,
) IAgentService {
	return &agentService{
		uowFactory:    uowFactory,
		policyService: policyService,
		runner:        runner,
		logger:        log,
	}
}

func (s *agentService) ListAgents() map[string]dto.AgentInfoPayload {
	defs := agents.Definitions()
	out := make(map[string]dto.AgentInfoPayload, len(defs))
	for key, info := range defs {
		out[key] = dto.AgentInfoPayload{
			Name:        info.Name,
			Description: info.Description,
			Icon:        info.Icon,
		}
	}
	return out
}

func (s *agentService) RunAgent(ctx context.Context, userId uuid.UUID, agentKey string, req *dto.RunAgentRequest) (*dto.RunAgentResponse, error) {
	info, ok := agents.Lookup(agentKey)
	if !ok {
		return nil, ErrUnknownAgent
	}

	var policyId uint
	policyText := req.PolicyText

	if req.PolicyId != "" {
		id, err := ParsePolicyId(req.PolicyId)
		if err != nil {
			return nil, err
		}
		policy, err := s.policyService.FindOwned(ctx, userId, id)
		if err != nil {
			return nil, err
		}
		policyId = id
		if policyText == "" {
			policyText = policy.PolicyText
		}
	}

	if policyText == "" {
		return nil, ErrNoPolicyText
	}

	result, err := s.runner.Run(ctx, agentKey, agents.Input{
		PolicyId:   policyId,
		PolicyText: policyText,
		Params:     req.Params,
	})
	if err != nil {
		s.logger.Error("AgentService", "agent run failed", map[string]interface{}{
			"agent":     agentKey,
			"policy_id": policyId,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrAgentRunFailed, err)
	}

	// Agent runs against a stored policy become part of its chat history.
	if policyId != 0 {
		if err := s.recordAgentRun(ctx, userId, policyId, agentKey, info.Name, result); err != nil {
			s.logger.Warn("AgentService", "failed to record agent run in history", map[string]interface{}{
				"agent":     agentKey,
				"policy_id": policyId,
				"error":     err.Error(),
			})
		}
	}

	return &dto.RunAgentResponse{Result: result, Agent: agentKey}, nil
}

func (s *agentService) recordAgentRun(ctx context.Context, userId uuid.UUID, policyId uint, agentKey, agentName string, result json.RawMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	userMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		PolicyId:  policyId,
		UserId:    userId,
		Text:      fmt.Sprintf("[Agent: %s]", agentName),
		IsUser:    true,
		AgentKey:  &agentKey,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return err
	}

	assistantMsg := &entity.ChatMessage{
		Id:        uuid.New(),
		PolicyId:  policyId,
		UserId:    userId,
		Text:      renderResultForHistory(result),
		IsUser:    false,
		AgentKey:  &agentKey,
		CreatedAt: time.Now(),
	}
	return uow.ChatMessageRepository().Create(ctx, assistantMsg)
}

// renderResultForHistory stores structured results as indented JSON and
// narrative results as their plain text.
func renderResultForHistory(result json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(result, &asString); err == nil {
		return asString
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err == nil {
		return pretty.String()
	}
	return string(result)
}

func (s *agentService) ComparePolicies(ctx context.Context, userId uuid.UUID, req *dto.ComparePoliciesRequest) (*dto.ComparePoliciesResponse, error) {
	idA, err := ParsePolicyId(req.PolicyIdA)
	if err != nil {
		return nil, err
	}
	idB, err := ParsePolicyId(req.PolicyIdB)
	if err != nil {
		return nil, err
	}

	policyA, err := s.policyService.FindOwned(ctx, userId, idA)
	if err != nil {
		return nil, err
	}
	policyB, err := s.policyService.FindOwned(ctx, userId, idB)
	if err != nil {
		return nil, err
	}

	result, err := s.runner.ComparePolicies(ctx, []string{policyA.PolicyText, policyB.PolicyText})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAgentRunFailed, err)
	}

	return &dto.ComparePoliciesResponse{Result: result}, nil
}
