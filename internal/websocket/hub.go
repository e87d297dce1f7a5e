package websocket

import (
	"context"
	"log/slog"
	"sync"
)

// Hub maintains the spectators of each game and broadcasts envelopes to them.
type Hub struct {
	// Registered clients by game_id
	games map[string]map[*Client]bool

	broadcast  chan *BroadcastMessage
	register   chan *Client
	unregister chan *Client
	// done is closed when Run returns.
	done chan struct{}

	eventHandler *EventHandler
	logger       *slog.Logger

	mu sync.RWMutex
}

// BroadcastMessage is an envelope addressed to the spectators of a game.
// A non-nil Target restricts delivery to that one client.
type BroadcastMessage struct {
	GameID        string
	Envelope      *ServerEnvelope
	ExcludeClient *Client
	Target        *Client
}

// NewHub creates a new Hub. A nil logger discards output.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		games:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *BroadcastMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SetEventHandler sets the handler for client messages.
func (h *Hub) SetEventHandler(handler *EventHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.eventHandler = handler
}

func (h *Hub) handler() *EventHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.eventHandler
}

// Run is the hub's main loop. It returns when ctx is done, after closing every client.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for gameID, clients := range h.games {
				for client := range clients {
					close(client.send)
				}
				delete(h.games, gameID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.games[client.GameID] == nil {
				h.games[client.GameID] = make(map[*Client]bool)
			}
			h.games[client.GameID][client] = true
			total := len(h.games[client.GameID])
			h.mu.Unlock()
			h.logger.Info("ws spectator registered", "game_id", client.GameID, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.games[client.GameID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.games, client.GameID)
					}
				}
			}
			h.mu.Unlock()
			h.logger.Info("ws spectator unregistered", "game_id", client.GameID)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.games[message.GameID] {
				if client == message.ExcludeClient || (message.Target != nil && client != message.Target) {
					continue
				}
				select {
				case client.send <- message.Envelope:
				default:
					// Slow consumer.
					close(client.send)
					delete(h.games[message.GameID], client)
				}
			}
			if clients, ok := h.games[message.GameID]; ok && len(clients) == 0 {
				delete(h.games, message.GameID)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEnvelope sends an envelope to all spectators of a game.
func (h *Hub) BroadcastEnvelope(gameID string, envelope *ServerEnvelope) {
	h.send(&BroadcastMessage{GameID: gameID, Envelope: envelope})
}

// BroadcastEnvelopeExcept sends an envelope to all spectators of a game except one.
func (h *Hub) BroadcastEnvelopeExcept(gameID string, envelope *ServerEnvelope, excludeClient *Client) {
	h.send(&BroadcastMessage{GameID: gameID, Envelope: envelope, ExcludeClient: excludeClient})
}

// SendTo queues an envelope for a single client. It is dropped if the client is no longer registered.
func (h *Hub) SendTo(client *Client, envelope *ServerEnvelope) {
	h.send(&BroadcastMessage{GameID: client.GameID, Envelope: envelope, Target: client})
}

// send drops the message once the hub has stopped.
func (h *Hub) send(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Register adds a client, or reports false when the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of spectators of a game.
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
