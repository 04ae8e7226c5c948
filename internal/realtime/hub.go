package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event is the JSON message pushed to every connected client.
type Event struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub maintains active connections and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[Client]struct{}
	now     func() time.Time

	// sendMu serializes broadcasts; a client never sees concurrent Send calls.
	sendMu sync.Mutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[Client]struct{}),
		now:     time.Now,
	}
}

// Register adds a client.
func (h *Hub) Register(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes a client.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to all clients. It returns how many accepted it;
// failed clients are cleaned up by their handler.
func (h *Hub) Broadcast(message []byte) int {
	h.sendMu.Lock()
	defer h.sendMu.Unlock()
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.clients {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish encodes an event and broadcasts it. Safe on a nil hub.
func (h *Hub) Publish(eventType string, data map[string]any) {
	if h == nil {
		return
	}
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: h.now().UTC()})
	if err != nil {
		return
	}
	h.Broadcast(msg)
}
