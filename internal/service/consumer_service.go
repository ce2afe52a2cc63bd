package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/internal/repository/specification"
	"github.com/Hirdyansh9/priv-lens/internal/repository/unitofwork"
	"github.com/Hirdyansh9/priv-lens/pkg/embedding"
	"github.com/Hirdyansh9/priv-lens/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	embedChunkSize    = 1000
	embedChunkOverlap = 100
)

// IConsumerService drains the embedding pipeline: for each analyzed policy
// it splits the text, embeds every chunk and stores the vectors for
// retrieval.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedPolicyMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "failed to unmarshal embed message", map[string]interface{}{
			"error": err.Error(),
		})
		// Invalid payloads are acked so they never loop forever.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByPolicyID{PolicyID: payload.PolicyId})
	if err != nil {
		cs.logger.Error("Consumer", "failed to load policy", map[string]interface{}{
			"policy_id": payload.PolicyId,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}
	if policy == nil {
		// Deleted before the worker got to it.
		msg.Ack()
		return
	}

	chunks := utils.SplitText(policy.PolicyText, embedChunkSize, embedChunkOverlap)

	entities := make([]*entity.PolicyChunk, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := cs.embeddingProvider.Generate(chunk, embedding.TaskDocument)
		if err != nil {
			cs.logger.Error("Consumer", "embedding failed", map[string]interface{}{
				"policy_id": payload.PolicyId,
				"chunk":     i,
				"error":     err.Error(),
			})
			msg.Nack()
			return
		}
		entities = append(entities, &entity.PolicyChunk{
			Id:             uuid.New(),
			PolicyId:       policy.Id,
			ChunkIndex:     i,
			Document:       chunk,
			EmbeddingValue: resp.Embedding.Values,
			CreatedAt:      time.Now(),
		})
	}

	// Re-embedding replaces the previous vectors.
	if err := uow.PolicyChunkRepository().DeleteByPolicyId(ctx, policy.Id); err != nil {
		cs.logger.Error("Consumer", "failed to clear stale chunks", map[string]interface{}{
			"policy_id": policy.Id,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}
	if err := uow.PolicyChunkRepository().CreateBulk(ctx, entities); err != nil {
		cs.logger.Error("Consumer", "failed to store chunks", map[string]interface{}{
			"policy_id": policy.Id,
			"error":     err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("Consumer", "policy embedded", map[string]interface{}{
		"policy_id": policy.Id,
		"chunks":    len(entities),
	})
	msg.Ack()
}
