package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vntrieu/mafia/internal/auth"
	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/store"
)

// TokenRequest is the body for POST /api/games/{game_id}/token.
type TokenRequest struct {
	Passphrase string `json:"passphrase"`
}

// TokenResponse carries a fresh moderator token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthHandler re-issues moderator tokens against the game passphrase.
type AuthHandler struct {
	credentials Credentials
	tokenSecret []byte
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(credentials Credentials, tokenSecret []byte, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthHandler{credentials: credentials, tokenSecret: tokenSecret, logger: logger}
}

// IssueToken handles POST /api/games/{game_id}/token.
//
// @Summary      Recover moderator token
// @Description  Exchange the passphrase set at creation for a new moderator token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        game_id  path      string        true  "Game ID"
// @Param        body     body      TokenRequest  true  "Passphrase"
// @Success      200      {object}  TokenResponse
// @Failure      400      {string}  string  "Invalid body"
// @Failure      401      {string}  string  "Wrong passphrase"
// @Failure      403      {string}  string  "Game has no passphrase"
// @Failure      404      {string}  string  "Game not found"
// @Failure      429      {string}  string  "Rate limit exceeded"
// @Failure      503      {string}  string  "Tokens are not configured"
// @Router       /api/games/{game_id}/token [post]
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.credentials == nil || len(h.tokenSecret) == 0 {
		http.Error(w, "moderator tokens are not configured", http.StatusServiceUnavailable)
		return
	}
	gameID := chi.URLParam(r, "game_id")
	var body TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Passphrase == "" {
		http.Error(w, "passphrase is required", http.StatusBadRequest)
		return
	}
	if len(body.Passphrase) > PassphraseMaxLen {
		http.Error(w, "passphrase is too long", http.StatusBadRequest)
		return
	}

	ok, err := h.credentials.VerifyPassphrase(r.Context(), gameID, body.Passphrase)
	switch {
	case errors.Is(err, games.ErrGameNotFound):
		http.Error(w, "game not found", http.StatusNotFound)
		return
	case errors.Is(err, store.ErrNoPassphrase):
		http.Error(w, "game has no passphrase", http.StatusForbidden)
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "verify passphrase", "request_id", requestID(r), "error", err)
		http.Error(w, "failed to verify passphrase", http.StatusInternalServerError)
		return
	case !ok:
		http.Error(w, "invalid passphrase", http.StatusUnauthorized)
		return
	}

	token, exp, err := auth.GenerateToken(gameID, h.tokenSecret, auth.DefaultTokenExpiry)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "generate token", "request_id", requestID(r), "error", err)
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: exp})
}
