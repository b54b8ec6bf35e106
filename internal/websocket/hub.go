package websocket

import (
	"encoding/json"
	"sync"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/pkg/logger"
)

// Hub fans recorded activity entries out to connected admin dashboards.
// There is a single feed; every subscriber sees every entry.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run processes registrations and broadcasts until the process exits.
// Call it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Activity feed client connected", map[string]interface{}{
				"user_id":     client.UserID,
				"subscribers": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Activity feed client disconnected", map[string]interface{}{
				"user_id":     client.UserID,
				"subscribers": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Send buffer full; drop the slow subscriber
					go h.Unregister(client)
					logger.Warn("Activity feed client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a subscriber.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a subscriber.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish pushes a recorded activity entry to every subscriber. It satisfies
// the activity service's publisher interface; a full broadcast queue drops
// the entry rather than blocking the recording path.
func (h *Hub) Publish(entry *model.ActivityLog) {
	data, err := json.Marshal(entry)
	if err != nil {
		logger.Error("Failed to marshal activity entry", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Activity feed broadcast queue full, dropping entry", map[string]interface{}{
			"action": entry.Action,
		})
	}
}

// SubscriberCount reports the number of connected feed clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
