package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub tracks connected clients and fans notifications out to them. When
// Redis is configured, notifications are also relayed across instances
// over a pub/sub channel.
type Hub struct {
	// UserID -> connections; a user can be connected from several devices.
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

const clusterChannel = "lens_cluster_events"

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a notification to every connection of one user.
func (h *Hub) Send(userID uuid.UUID, notification dto.NotificationPayload) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	// The unregister path in Run owns closing client.Send; closing here
	// too would double-close the channel.
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "send buffer full, dropping client", map[string]interface{}{"user_id": userID})
			h.unregister <- client
		}
	}

	// Relay so instances holding the user's other connections deliver too.
	if h.rdb != nil {
		h.publishToCluster(userID.String(), data)
	}
}

// Broadcast delivers a notification to every connected client.
func (h *Hub) Broadcast(notification dto.NotificationPayload) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.mu.RLock()
	var full []*Client
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				full = append(full, client)
			}
		}
	}
	h.mu.RUnlock()

	// Unregister outside the read lock; Run needs the write lock to
	// drain h.unregister.
	for _, client := range full {
		h.unregister <- client
	}

	if h.rdb != nil {
		h.publishToCluster("*", data)
	}
}

func (h *Hub) publishToCluster(target string, data []byte) {
	payload, _ := json.Marshal(map[string]interface{}{
		"target_user_id": target,
		"message":        json.RawMessage(data),
	})
	h.rdb.Publish(context.Background(), clusterChannel, payload)
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "bad cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}

		h.mu.RLock()
		if payload.TargetUserID == "*" {
			for _, clients := range h.clients {
				for _, client := range clients {
					select {
					case client.Send <- payload.Message:
					default:
					}
				}
			}
		} else if uid, err := uuid.Parse(payload.TargetUserID); err == nil {
			for _, client := range h.clients[uid] {
				select {
				case client.Send <- payload.Message:
				default:
				}
			}
		}
		h.mu.RUnlock()
	}
}
