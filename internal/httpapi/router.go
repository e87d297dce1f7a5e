package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vntrieu/mafia/internal/httpapi/handler"
	"github.com/vntrieu/mafia/internal/ratelimit"
	"github.com/vntrieu/mafia/internal/websocket"

	_ "github.com/vntrieu/mafia/docs" // swagger spec registration
)

// Deps are the collaborators the router wires together. Credentials and JoinCodes are optional;
// without them passphrase recovery, join codes and QR codes answer 404/503.
type Deps struct {
	Engine      handler.Engine
	States      websocket.StateSource
	Credentials handler.Credentials
	JoinCodes   JoinCodeStore
	Hub         *websocket.Hub
	TokenSecret []byte
	// RateLimiter limits game creation, token recovery and commands. Nil disables limiting.
	RateLimiter    ratelimit.Limiter
	PublicURL      string
	AllowedOrigins []string
	HealthChecks   map[string]handler.CheckFunc
	Logger         *slog.Logger
}

// JoinCodeStore serves both the HTTP join endpoints and the join WebSocket.
type JoinCodeStore interface {
	handler.JoinCodes
	websocket.JoinCodeResolver
}

// NewRouter builds the root HTTP router. The caller runs deps.Hub.
//
// @title            Mafia API
// @version          1.0
// @description      Moderator API for Mafia party games (Classic, Capo, Zodiac and Jack scenarios).
// @BasePath         /
// @SecurityDefinitions.apikey  BearerAuth
// @in               header
// @name             Authorization
func NewRouter(deps Deps) http.Handler {
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handler.Healthz(deps.HealthChecks))

	// Swagger UI and spec
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	var joinCodes handler.JoinCodes
	var resolver websocket.JoinCodeResolver
	if deps.JoinCodes != nil {
		joinCodes, resolver = deps.JoinCodes, deps.JoinCodes
	}

	states := deps.States
	if states == nil {
		states = deps.Engine
	}
	var publisher handler.Publisher
	if deps.Hub != nil {
		events := websocket.NewEventHandler(deps.Hub, states, limiter, logger)
		deps.Hub.SetEventHandler(events)
		publisher = events

		ws := websocket.NewWSHandler(deps.Hub, events, resolver, logger).AllowOrigins(deps.AllowedOrigins...)
		r.Get("/ws/games/{game_id}", ws.HandleGameWebSocket)
		r.Get("/ws/join/{code}", ws.HandleJoinWebSocket)
	}

	games := handler.NewGameHandler(deps.Engine, deps.Credentials, joinCodes, publisher, deps.TokenSecret, logger)
	authHandler := handler.NewAuthHandler(deps.Credentials, deps.TokenSecret, logger)
	spectators := handler.NewSpectatorHandler(deps.Engine, joinCodes, deps.PublicURL, logger)

	rateLimitByIP := RateLimitMiddleware(limiter, RateLimitKeyByIP)
	rateLimitByGame := RateLimitMiddleware(limiter, RateLimitKeyByGame)

	r.Get("/api/join/{code}", spectators.JoinGame)

	r.Route("/api/games", func(r chi.Router) {
		r.Use(LimitRequestBody(DefaultMaxBodyBytes))
		r.With(rateLimitByIP).Post("/", games.CreateGame)

		r.Route("/{game_id}", func(r chi.Router) {
			r.With(rateLimitByIP).Post("/token", authHandler.IssueToken)

			r.Group(func(r chi.Router) {
				r.Use(RequireModerator(deps.TokenSecret))
				r.Get("/", games.GetGame)
				r.Delete("/", games.ResetGame)
				r.With(rateLimitByGame).Post("/commands", games.ApplyCommand)
				r.Get("/qr", spectators.QRCode)
			})
		})
	})

	return r
}

// DefaultRateLimiter returns an in-memory limiter allowing perMinute requests per key.
// For multi-instance deployments, replace with a shared limiter.
func DefaultRateLimiter(perMinute int) ratelimit.Limiter {
	return ratelimit.NewPerKey(perMinute, time.Minute)
}
