package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to dashboards
const (
	EventArticlePublished = "article.published"
)

// Hub maintains the set of connected dashboards and broadcasts events to them
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for readers outside Run
	mu sync.RWMutex

	logger zerolog.Logger
}

// Event is the envelope written to every connected dashboard
type Event struct {
	Type       string          `json:"type"`
	Connection string          `json:"connection,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Timestamp  time.Time       `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled.
// Remaining clients are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.broadcastData(data)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Int64("userID", client.userID).
			Str("addr", client.remoteAddr()).
			Msg("Client unregistered")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// broadcastData runs on the Run goroutine. Slow clients are dropped in place
// instead of being sent back through unregister, which Run itself reads.
func (h *Hub) broadcastData(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn().
				Int64("userID", client.userID).
				Msg("Dropped slow websocket client")
		}
	}

	h.logger.Debug().
		Int("clientCount", len(h.clients)).
		Msg("Event broadcasted")
}

// Broadcast marshals the payload into an Event and queues it for every client.
// It does not block; when the hub is backed up the event is discarded and false is returned.
func (h *Hub) Broadcast(eventType, connection string, payload any) (bool, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	data, err := json.Marshal(Event{
		Type:       eventType,
		Connection: connection,
		Payload:    raw,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}

	select {
	case h.broadcast <- data:
		return true, nil
	default:
		h.logger.Warn().Str("type", eventType).Msg("Hub broadcast buffer full, event discarded")
		return false, nil
	}
}

func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
