package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/vntrieu/mafia/internal/games"
)

// QRCodeSize is the edge length of generated QR images in pixels.
const QRCodeSize = 256

// JoinResponse is the spectator view returned by GET /api/join/{code}.
type JoinResponse struct {
	GameID string            `json:"game_id"`
	State  games.PublicState `json:"state"`
}

// SpectatorHandler serves the public, join-code based endpoints.
type SpectatorHandler struct {
	engine    Engine
	joinCodes JoinCodes
	publicURL string
	logger    *slog.Logger
}

// NewSpectatorHandler creates a new SpectatorHandler. publicURL is the externally reachable
// base URL used in QR codes; when empty it is derived from the request.
func NewSpectatorHandler(engine Engine, joinCodes JoinCodes, publicURL string, logger *slog.Logger) *SpectatorHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SpectatorHandler{engine: engine, joinCodes: joinCodes, publicURL: strings.TrimRight(publicURL, "/"), logger: logger}
}

// JoinGame handles GET /api/join/{code}.
//
// @Summary      Spectate game
// @Description  Public view of a game by join code: roles stay hidden until revealed.
// @Tags         spectators
// @Produce      json
// @Param        code  path      string  true  "Join code (6 alphanumeric)"
// @Success      200   {object}  JoinResponse
// @Failure      404   {string}  string  "Game not found"
// @Router       /api/join/{code} [get]
func (h *SpectatorHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	if h.joinCodes == nil {
		http.Error(w, "join codes are not available", http.StatusNotFound)
		return
	}
	gameID, err := h.joinCodes.GameIDByJoinCode(r.Context(), chi.URLParam(r, "code"))
	if err == nil {
		var state *games.GameState
		if state, err = h.engine.GetState(r.Context(), gameID); err == nil {
			writeJSON(w, http.StatusOK, JoinResponse{GameID: gameID, State: games.PublicView(state)})
			return
		}
	}
	if errors.Is(err, games.ErrGameNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "join game", "request_id", requestID(r), "error", err)
	http.Error(w, "failed to load game", http.StatusInternalServerError)
}

// QRCode handles GET /api/games/{game_id}/qr.
//
// @Summary      Spectator QR code
// @Description  PNG QR code pointing at the game's public join URL.
// @Tags         spectators
// @Produce      png
// @Param        game_id  path  string  true  "Game ID"
// @Success      200
// @Failure      401  {string}  string  "Unauthorized"
// @Failure      404  {string}  string  "Game not found"
// @Security     BearerAuth
// @Router       /api/games/{game_id}/qr [get]
func (h *SpectatorHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if h.joinCodes == nil {
		http.Error(w, "join codes are not available", http.StatusNotFound)
		return
	}
	code, err := h.joinCodes.JoinCode(r.Context(), chi.URLParam(r, "game_id"))
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "load join code", "request_id", requestID(r), "error", err)
		http.Error(w, "failed to load join code", http.StatusInternalServerError)
		return
	}
	png, err := qrcode.Encode(h.JoinURL(r, code), qrcode.Medium, QRCodeSize)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "encode qr code", "request_id", requestID(r), "error", err)
		http.Error(w, "failed to encode qr code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// JoinURL is the public URL spectators open for a join code.
func (h *SpectatorHandler) JoinURL(r *http.Request, code string) string {
	base := h.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/api/join/" + code
}
