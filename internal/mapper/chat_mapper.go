package mapper

import (
	"github.com/Hirdyansh9/priv-lens/internal/entity"
	"github.com/Hirdyansh9/priv-lens/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:        c.Id,
		PolicyId:  c.PolicyId,
		UserId:    c.UserId,
		Text:      c.Text,
		IsUser:    c.IsUser,
		AgentKey:  c.AgentKey,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatMapper) ToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:        c.Id,
		PolicyId:  c.PolicyId,
		UserId:    c.UserId,
		Text:      c.Text,
		IsUser:    c.IsUser,
		AgentKey:  c.AgentKey,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatMapper) ToEntities(messages []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(messages))
	for i, c := range messages {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
