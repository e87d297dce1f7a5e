package websocket

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/ratelimit"
)

// StateSource loads the latest state of a game. *games.Engine satisfies it.
type StateSource interface {
	GetState(ctx context.Context, gameID string) (*games.GameState, error)
}

// EventHandler answers spectator messages and publishes engine results to spectators.
type EventHandler struct {
	hub         *Hub
	states      StateSource
	rateLimiter ratelimit.Limiter
	logger      *slog.Logger
}

// NewEventHandler creates a new EventHandler. rateLimiter is optional; when set, client
// messages are limited by client key (IP).
func NewEventHandler(hub *Hub, states StateSource, rateLimiter ratelimit.Limiter, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventHandler{hub: hub, states: states, rateLimiter: rateLimiter, logger: logger}
}

// HandleClientMessage processes one spectator message. Unknown types get an error envelope.
func (h *EventHandler) HandleClientMessage(ctx context.Context, client *Client, msg *ClientInMessage) {
	if msg == nil || len(msg.Type) > MaxClientMessageTypeLength || !ValidClientMessageTypes[msg.Type] {
		sendErrorToClient(client, "unsupported message type")
		return
	}
	if h.rateLimiter != nil && client.RateLimitKey != "" {
		if allowed, _ := h.rateLimiter.Allow(client.RateLimitKey); !allowed {
			sendErrorToClient(client, "rate limit exceeded; try again later")
			return
		}
	}
	switch msg.Type {
	case ClientMessageTypeSyncState:
		h.SendState(ctx, client, msg.CorrelationID)
	case ClientMessageTypePing:
		sendEnvelopeToClient(client, &ServerEnvelope{Type: ServerTypeEvent, Event: ServerEventPong, CorrelationID: msg.CorrelationID})
	}
}

// SendState sends the public view of the client's game to that client only.
func (h *EventHandler) SendState(ctx context.Context, client *Client, correlationID string) {
	state, err := h.states.GetState(ctx, client.GameID)
	if err != nil {
		if !errors.Is(err, games.ErrGameNotFound) {
			h.logger.ErrorContext(ctx, "load state for spectator", "game_id", client.GameID, "error", err)
		}
		sendErrorToClient(client, "failed to load state")
		return
	}
	env := StateEnvelope(client.GameID, state)
	env.CorrelationID = correlationID
	sendEnvelopeToClient(client, env)
}

// Publish broadcasts the public engine events of a command, then the new public state.
func (h *EventHandler) Publish(gameID string, state *games.GameState, events []games.BroadcastEvent) {
	for _, ev := range events {
		if privateEvents[ev.Event] {
			continue
		}
		h.hub.BroadcastEnvelope(gameID, &ServerEnvelope{Type: ServerTypeEvent, Event: ev.Event, Payload: ev.Payload})
	}
	if state != nil {
		h.hub.BroadcastEnvelope(gameID, StateEnvelope(gameID, state))
	}
}

// StateEnvelope wraps the spectator view of state.
func StateEnvelope(gameID string, state *games.GameState) *ServerEnvelope {
	return &ServerEnvelope{
		Type:  ServerTypeState,
		Event: ServerEventState,
		Payload: map[string]interface{}{
			"game_id": gameID,
			"state":   games.PublicView(state),
		},
	}
}
