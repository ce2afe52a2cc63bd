package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/pkg/analysis"
	"github.com/Hirdyansh9/priv-lens/pkg/events"
	"github.com/Hirdyansh9/priv-lens/pkg/ingest"
	pktNats "github.com/Hirdyansh9/priv-lens/pkg/nats"

	"github.com/google/uuid"
)

var (
	ErrPolicyNotFound = errors.New("chat not found or access denied")

	// ErrNotAPolicy covers input the model cannot structure: too short,
	// not a policy, or otherwise unusable.
	ErrNotAPolicy = errors.New("the provided input does not appear to be a valid privacy policy. Please paste the full text of a policy to continue")

	ErrSourceUnavailable = errors.New("could not load content from the provided URL")
	ErrPolicyTooLarge    = errors.New("policy text exceeds the maximum allowed size")
)

// Extracted pages shorter than this are almost never an actual policy;
// usually the URL pointed at a login wall or an error page.
const minFetchedPolicyChars = 100

type IPolicyService interface {
	Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.PolicyListItem, error)
	Get(ctx context.Context, userId uuid.UUID, policyId uint) (*dto.PolicyDetailResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, policyId uint, title string) error
	Delete(ctx context.Context, userId uuid.UUID, policyId uint) error

	// FindOwned resolves a policy for the given user, or ErrPolicyNotFound.
	FindOwned(ctx context.Context, userId uuid.UUID, policyId uint) (*entity.Policy, error)
}

type policyService struct {
	uowFactory       unitofwork.RepositoryFactory
	analyzer         *analysis.Analyzer
	fetcher          ingest.Fetcher
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	maxPolicyBytes   int
	logger           logger.ILogger
}

func NewPolicyService(
	uowFactory unitofwork.RepositoryFactory,
	analyzer *analysis.Analyzer,
	fetcher ingest.Fetcher,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	maxPolicyBytes int,
	log logger.ILogger,
) IPolicyService {
	return &policyService{
		uowFactory:       uowFactory,
		analyzer:         analyzer,
		fetcher:          fetcher,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		maxPolicyBytes:   maxPolicyBytes,
		logger:           log,
	}
}

func (s *policyService) Analyze(ctx context.Context, userId uuid.UUID, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	policyText, sourceURL, err := s.resolveSource(req)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, policyText)
	if err != nil {
		if errors.Is(err, analysis.ErrUnstructuredOutput) {
			return nil, ErrNotAPolicy
		}
		return nil, err
	}

	title := result.CompanyName
	if strings.TrimSpace(title) == "" {
		title = "Untitled Policy"
	}

	policy := &entity.Policy{
		UserId:       userId,
		Title:        title,
		SourceType:   entity.PolicySourceType(req.SourceType),
		SourceURL:    sourceURL,
		PolicyText:   policyText,
		CompanyName:  result.CompanyName,
		RiskScore:    float64(result.RiskScore),
		FinalSummary: result.FinalSummary,
		Analysis: map[string]interface{}{
			"company_name":           result.CompanyName,
			"pii_collected":          result.PiiCollected,
			"data_sharing_practices": result.DataSharingPractices,
			"retention_summary":      result.RetentionSummary,
			"risk_score":             result.RiskScore,
			"final_summary":          result.FinalSummary,
		},
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PolicyRepository().Create(ctx, policy); err != nil {
		return nil, err
	}

	// Hand the text to the embedding pipeline so QnA retrieval works as
	// soon as the worker catches up.
	payload, err := json.Marshal(dto.PublishEmbedPolicyMessage{PolicyId: policy.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.AnalysisDone(userId.String(), policy.Id, result.CompanyName, float64(result.RiskScore))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PolicyService", "failed to publish ANALYSIS_DONE event", map[string]interface{}{
				"policy_id": policy.Id,
				"error":     err.Error(),
			})
		}
	}

	s.logger.Info("PolicyService", "policy analyzed", map[string]interface{}{
		"policy_id":  policy.Id,
		"company":    result.CompanyName,
		"risk_score": result.RiskScore,
	})

	return &dto.AnalyzeResponse{PolicyId: FormatPolicyId(policy.Id)}, nil
}

func (s *policyService) resolveSource(req *dto.AnalyzeRequest) (string, *string, error) {
	switch entity.PolicySourceType(req.SourceType) {
	case entity.PolicySourceText:
		text := strings.TrimSpace(req.Data)
		if len(text) > s.maxPolicyBytes {
			return "", nil, ErrPolicyTooLarge
		}
		return text, nil, nil

	case entity.PolicySourceURL:
		text, err := s.fetcher.FetchText(req.Data)
		if err != nil {
			s.logger.Warn("PolicyService", "url fetch failed", map[string]interface{}{
				"url":   req.Data,
				"error": err.Error(),
			})
			return "", nil, ErrSourceUnavailable
		}
		if len(text) < minFetchedPolicyChars {
			return "", nil, fmt.Errorf("%w: the page might not be a valid privacy policy page", ErrSourceUnavailable)
		}
		if len(text) > s.maxPolicyBytes {
			return "", nil, ErrPolicyTooLarge
		}
		url := req.Data
		return text, &url, nil

	default:
		return "", nil, errors.New("invalid source_type specified")
	}
}

func (s *policyService) List(ctx context.Context, userId uuid.UUID) ([]dto.PolicyListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policies, err := uow.PolicyRepository().FindAll(ctx,
		specification.OwnedByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PolicyListItem, 0, len(policies))
	for _, p := range policies {
		items = append(items, dto.PolicyListItem{
			PolicyId: FormatPolicyId(p.Id),
			Title:    p.Title,
		})
	}
	return items, nil
}

func (s *policyService) Get(ctx context.Context, userId uuid.UUID, policyId uint) (*dto.PolicyDetailResponse, error) {
	policy, err := s.FindOwned(ctx, userId, policyId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ForPolicy{PolicyID: policyId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := make([]dto.HistoryEntry, 0, len(messages))
	for _, m := range messages {
		history = append(history, dto.HistoryEntry{
			Text:   m.Text,
			IsUser: m.IsUser,
		})
	}

	return &dto.PolicyDetailResponse{
		PolicyId:   FormatPolicyId(policy.Id),
		PolicyText: policy.PolicyText,
		Analysis: dto.AnalysisPayload{
			CompanyName:  policy.CompanyName,
			RiskScore:    policy.RiskScore,
			FinalSummary: policy.FinalSummary,
		},
		History: history,
	}, nil
}

func (s *policyService) Rename(ctx context.Context, userId uuid.UUID, policyId uint, title string) error {
	if _, err := s.FindOwned(ctx, userId, policyId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PolicyRepository().UpdateTitle(ctx, policyId, title)
}

func (s *policyService) Delete(ctx context.Context, userId uuid.UUID, policyId uint) error {
	if _, err := s.FindOwned(ctx, userId, policyId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByPolicyId(ctx, policyId); err != nil {
		return err
	}
	if err := uow.PolicyChunkRepository().DeleteByPolicyId(ctx, policyId); err != nil {
		return err
	}
	if err := uow.PolicyRepository().Delete(ctx, policyId); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *policyService) FindOwned(ctx context.Context, userId uuid.UUID, policyId uint) (*entity.Policy, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByPolicyID{PolicyID: policyId})
	if err != nil {
		return nil, err
	}
	if policy == nil || policy.UserId != userId {
		return nil, ErrPolicyNotFound
	}
	return policy, nil
}

// ParsePolicyId converts the wire representation of a policy id back to
// its storage form.
func ParsePolicyId(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrPolicyNotFound
	}
	return uint(id), nil
}

// FormatPolicyId renders a policy id the way the API exposes it.
func FormatPolicyId(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
