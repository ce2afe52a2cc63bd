package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/pkg/events"
	pktNats "github.com/Hirdyansh9/priv-lens/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery pushes real-time updates to connected clients.
// Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.NotificationPayload)
	Broadcast(notification dto.NotificationPayload)
}

// NotificationService bridges the event bus to websocket delivery: analysis
// completions published over NATS become push notifications for the owner.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "lens-notify-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "failed to start subscriber", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.logger.Info("NotificationService", "listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	switch typeCode {
	case "ANALYSIS_DONE":
		userIdStr, _ := payload["user_id"].(string)
		uid, err := uuid.Parse(userIdStr)
		if err != nil {
			s.logger.Warn("NotificationService", "event carries no valid user id", map[string]interface{}{
				"type": typeCode,
			})
			return nil
		}

		company, _ := payload["company_name"].(string)
		riskScore, _ := payload["risk_score"].(float64)
		// NATS round-trips integers through float64; policy_id follows.
		policyId, _ := payload["policy_id"].(float64)

		s.delivery.Send(uid, dto.NotificationPayload{
			Type:        "analysis_done",
			PolicyId:    FormatPolicyId(uint(policyId)),
			CompanyName: company,
			RiskScore:   riskScore,
			Message:     fmt.Sprintf("Analysis of %s is ready", company),
			CreatedAt:   time.Now(),
		})

	default:
		s.logger.Debug("NotificationService", "event ignored", map[string]interface{}{
			"type": typeCode,
		})
	}

	return nil
}
