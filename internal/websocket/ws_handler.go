package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/ratelimit"
)

// JoinCodeResolver maps a spectator join code to a game id. *store.GameStore satisfies it.
type JoinCodeResolver interface {
	GameIDByJoinCode(ctx context.Context, code string) (string, error)
}

// WSHandler upgrades spectator connections.
type WSHandler struct {
	hub      *Hub
	events   *EventHandler
	resolver JoinCodeResolver
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a new WSHandler. resolver may be nil when join codes are not served.
func NewWSHandler(hub *Hub, events *EventHandler, resolver JoinCodeResolver, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WSHandler{
		hub:      hub,
		events:   events,
		resolver: resolver,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024, CheckOrigin: originChecker(nil)},
		logger:   logger,
	}
}

// AllowOrigins restricts browser upgrades to the given origins. No origins, or "*", allows any.
func (h *WSHandler) AllowOrigins(origins ...string) *WSHandler {
	h.upgrader.CheckOrigin = originChecker(origins)
	return h
}

// HandleGameWebSocket handles GET /ws/games/{game_id}.
func (h *WSHandler) HandleGameWebSocket(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, chi.URLParam(r, "game_id"))
}

// HandleJoinWebSocket handles GET /ws/join/{code}.
func (h *WSHandler) HandleJoinWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		http.Error(w, "join codes are not available", http.StatusNotFound)
		return
	}
	gameID, err := h.resolver.GameIDByJoinCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "resolve join code", "error", err)
		http.Error(w, "failed to resolve join code", http.StatusInternalServerError)
		return
	}
	h.serve(w, r, gameID)
}

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, gameID string) {
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}
	if _, err := h.events.states.GetState(r.Context(), gameID); err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "load game for spectator", "game_id", gameID, "error", err)
		http.Error(w, "failed to load game", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("spectator upgrade failed", "game_id", gameID, "error", err)
		return
	}
	client := newClient(h.hub, conn, gameID, "ip:"+ratelimit.ClientIP(r))
	if !h.hub.Register(client) {
		client.cancel()
		_ = conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()

	h.events.SendState(client.ctx, client, "")
}
