package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vntrieu/mafia/internal/games"
)

// contextKey type for request context keys (avoids collisions with other packages).
type contextKey string

// GameIDContextKey is the context key for the game a moderator token grants (set by RequireModerator).
const GameIDContextKey contextKey = "game_id"

// GameIDFromRequest returns the authenticated moderator's game id, or "".
func GameIDFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(GameIDContextKey).(string)
	return id
}

// Engine is the part of *games.Engine the handlers use.
type Engine interface {
	NewGame(ctx context.Context, names []string, scenario games.Scenario) (string, *games.GameState, error)
	GetState(ctx context.Context, gameID string) (*games.GameState, error)
	Apply(ctx context.Context, gameID string, cmd games.Command) games.ApplyResult
	Reset(ctx context.Context, gameID string) error
}

// Credentials stores moderator passphrases. *store.GameStore satisfies it.
type Credentials interface {
	SetPassphrase(ctx context.Context, gameID, passphrase string) error
	VerifyPassphrase(ctx context.Context, gameID, passphrase string) (bool, error)
}

// JoinCodes maps games to spectator join codes. *store.GameStore satisfies it.
type JoinCodes interface {
	JoinCode(ctx context.Context, gameID string) (string, error)
	GameIDByJoinCode(ctx context.Context, code string) (string, error)
}

// Publisher pushes command results to spectators. *websocket.EventHandler satisfies it.
type Publisher interface {
	Publish(gameID string, state *games.GameState, events []games.BroadcastEvent)
}

// requestID returns the request ID from chi's context for logging.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
