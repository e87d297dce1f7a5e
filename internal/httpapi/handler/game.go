package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vntrieu/mafia/internal/auth"
	"github.com/vntrieu/mafia/internal/games"
)

// Request limits.
const (
	MaxPlayers       = 64
	MaxPlayerNameLen = 64
	PassphraseMinLen = 4
	PassphraseMaxLen = 128
)

// CreateGameRequest is the body for POST /api/games.
type CreateGameRequest struct {
	PlayerNames []string `json:"player_names"`
	Scenario    string   `json:"scenario"`
	Passphrase  string   `json:"passphrase,omitempty"`
}

// CreateGameResponse is returned by POST /api/games.
type CreateGameResponse struct {
	GameID    string           `json:"game_id"`
	JoinCode  string           `json:"join_code,omitempty"`
	Token     string           `json:"token,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	State     *games.GameState `json:"state"`
}

// GameResponse is returned by GET /api/games/{game_id}.
type GameResponse struct {
	GameID string           `json:"game_id"`
	State  *games.GameState `json:"state"`
	Winner games.Team       `json:"winner,omitempty"`
}

// CommandResponse is returned by POST /api/games/{game_id}/commands.
type CommandResponse struct {
	State   *games.GameState       `json:"state"`
	Changed bool                   `json:"changed"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Events  []games.BroadcastEvent `json:"events"`
}

// GameHandler serves the moderator game endpoints.
type GameHandler struct {
	engine      Engine
	credentials Credentials
	joinCodes   JoinCodes
	publisher   Publisher
	tokenSecret []byte
	logger      *slog.Logger
}

// NewGameHandler creates a new GameHandler. credentials, joinCodes and publisher are optional.
// Without tokenSecret, create responses carry no token.
func NewGameHandler(engine Engine, credentials Credentials, joinCodes JoinCodes, publisher Publisher, tokenSecret []byte, logger *slog.Logger) *GameHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GameHandler{
		engine:      engine,
		credentials: credentials,
		joinCodes:   joinCodes,
		publisher:   publisher,
		tokenSecret: tokenSecret,
		logger:      logger,
	}
}

func validateCreateGame(req *CreateGameRequest) string {
	if len(req.PlayerNames) == 0 {
		return "player_names is required"
	}
	if len(req.PlayerNames) > MaxPlayers {
		return fmt.Sprintf("at most %d players are allowed", MaxPlayers)
	}
	for _, name := range req.PlayerNames {
		if len(strings.TrimSpace(name)) > MaxPlayerNameLen {
			return fmt.Sprintf("player names must be at most %d characters", MaxPlayerNameLen)
		}
	}
	if req.Passphrase != "" && (len(req.Passphrase) < PassphraseMinLen || len(req.Passphrase) > PassphraseMaxLen) {
		return fmt.Sprintf("passphrase must be %d-%d characters", PassphraseMinLen, PassphraseMaxLen)
	}
	return ""
}

// CreateGame handles POST /api/games.
//
// @Summary      Create game
// @Description  Deal roles for the given players and scenario. Returns a moderator token for the new game.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        body  body      CreateGameRequest   true  "Players and scenario"
// @Success      201   {object}  CreateGameResponse
// @Failure      400   {string}  string  "Invalid scenario or player count"
// @Failure      429   {string}  string  "Rate limit exceeded"
// @Failure      500   {string}  string  "Server error"
// @Router       /api/games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var body CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateCreateGame(&body); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	scenario, err := games.ParseScenario(body.Scenario)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gameID, state, err := h.engine.NewGame(r.Context(), body.PlayerNames, scenario)
	if err != nil {
		var verr *games.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(r.Context(), "create game", "request_id", requestID(r), "error", err)
		http.Error(w, "failed to create game", http.StatusInternalServerError)
		return
	}

	resp := CreateGameResponse{GameID: gameID, State: state}
	if body.Passphrase != "" && h.credentials != nil {
		if err := h.credentials.SetPassphrase(r.Context(), gameID, body.Passphrase); err != nil {
			h.logger.ErrorContext(r.Context(), "store passphrase", "request_id", requestID(r), "game_id", gameID, "error", err)
		}
	}
	if h.joinCodes != nil {
		if code, err := h.joinCodes.JoinCode(r.Context(), gameID); err == nil {
			resp.JoinCode = code
		} else {
			h.logger.WarnContext(r.Context(), "load join code", "request_id", requestID(r), "game_id", gameID, "error", err)
		}
	}
	if len(h.tokenSecret) > 0 {
		token, exp, err := auth.GenerateToken(gameID, h.tokenSecret, auth.DefaultTokenExpiry)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "generate token", "request_id", requestID(r), "error", err)
			http.Error(w, "failed to generate token", http.StatusInternalServerError)
			return
		}
		resp.Token, resp.ExpiresAt = token, &exp
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetGame handles GET /api/games/{game_id}.
//
// @Summary      Get game
// @Description  Full moderator view of the game, including hidden roles.
// @Tags         games
// @Produce      json
// @Param        game_id  path      string  true  "Game ID"
// @Success      200      {object}  GameResponse
// @Failure      401      {string}  string  "Unauthorized"
// @Failure      404      {string}  string  "Game not found"
// @Security     BearerAuth
// @Router       /api/games/{game_id} [get]
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	state, err := h.engine.GetState(r.Context(), gameID)
	if err != nil {
		h.writeError(w, r, err, "failed to load game")
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{GameID: gameID, State: state, Winner: games.Winner(state)})
}

// ApplyCommand handles POST /api/games/{game_id}/commands.
//
// @Summary      Apply command
// @Description  Apply one moderator command. Commands the rules refuse return changed=false.
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        game_id  path      string         true  "Game ID"
// @Param        body     body      games.Command  true  "Command"
// @Success      200      {object}  CommandResponse
// @Failure      400      {string}  string  "Malformed or unknown command"
// @Failure      401      {string}  string  "Unauthorized"
// @Failure      404      {string}  string  "Game not found"
// @Failure      409      {string}  string  "State changed concurrently"
// @Failure      429      {string}  string  "Rate limit exceeded"
// @Security     BearerAuth
// @Router       /api/games/{game_id}/commands [post]
func (h *GameHandler) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	var cmd games.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res := h.engine.Apply(r.Context(), gameID, cmd)
	if res.Error != nil {
		h.writeError(w, r, res.Error, "failed to apply command")
		return
	}
	if res.Changed && h.publisher != nil {
		h.publisher.Publish(gameID, res.State, res.Events)
	}
	events := res.Events
	if events == nil {
		events = []games.BroadcastEvent{}
	}
	writeJSON(w, http.StatusOK, CommandResponse{State: res.State, Changed: res.Changed, Result: res.Result, Events: events})
}

// ResetGame handles DELETE /api/games/{game_id}.
//
// @Summary      Reset game
// @Description  Discard the game and its history.
// @Tags         games
// @Param        game_id  path  string  true  "Game ID"
// @Success      204
// @Failure      401  {string}  string  "Unauthorized"
// @Failure      404  {string}  string  "Game not found"
// @Security     BearerAuth
// @Router       /api/games/{game_id} [delete]
func (h *GameHandler) ResetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	if err := h.engine.Reset(r.Context(), gameID); err != nil {
		h.writeError(w, r, err, "failed to reset game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps engine errors to status codes.
func (h *GameHandler) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, games.ErrGameNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
	case errors.Is(err, games.ErrStaleState):
		http.Error(w, "game state changed; reload and retry", http.StatusConflict)
	case errors.Is(err, games.ErrUnknownCommand), errors.Is(err, games.ErrInvalidCommand):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(r.Context(), fallback, "request_id", requestID(r), "error", err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
