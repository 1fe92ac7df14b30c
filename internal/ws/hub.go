package ws

import (
	"VoiceCart/entity"
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	EventCartUpdated = "cart_updated"
	EventCartCleared = "cart_cleared"
)

// Event represents a WebSocket event sent to live cart viewers.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub maintains the set of active WebSocket clients and broadcasts cart events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.log.Warn("failed to marshal ws event", slog.String("error", err.Error()))
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(event.SessionID) {
					continue
				}
				select {
				case client.send <- data:
				default:
					// slow consumer
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastCartUpdate sends the current cart of a session to its viewers.
func (h *Hub) BroadcastCartUpdate(summary *entity.CartSummary) {
	h.broadcast <- &Event{
		Type:      EventCartUpdated,
		SessionID: summary.SessionID,
		Data:      summary,
	}
}

// BroadcastCartCleared tells viewers that the session's cart is gone.
func (h *Hub) BroadcastCartCleared(sessionID string) {
	h.broadcast <- &Event{
		Type:      EventCartCleared,
		SessionID: sessionID,
	}
}
