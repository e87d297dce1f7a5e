package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vntrieu/mafia/internal/config"
	"github.com/vntrieu/mafia/internal/database"
	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/httpapi"
	"github.com/vntrieu/mafia/internal/httpapi/handler"
	"github.com/vntrieu/mafia/internal/ratelimit"
	"github.com/vntrieu/mafia/internal/store"
	"github.com/vntrieu/mafia/internal/store/cache"
	"github.com/vntrieu/mafia/internal/telemetry"
	"github.com/vntrieu/mafia/internal/websocket"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		config.Exitf("config: %v", err)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, "mafia-server", cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	applied, err := database.Migrate(ctx, pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	logger.Info("migrations up to date", "applied", applied)

	pgGames := store.NewGameStore(pool)
	checks := map[string]handler.CheckFunc{"postgres": pool.Ping}

	var snapshots games.GameStore = pgGames
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		snapshots = cache.New(pgGames, client, cache.DefaultTTL, logger)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("snapshot cache enabled", "redis_addr", cfg.RedisAddr)
	}

	engine := games.NewEngine(snapshots, store.NewEventStore(pool), logger)

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	var limiter ratelimit.Limiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = httpapi.DefaultRateLimiter(cfg.RateLimitPerMinute)
	}
	if cfg.UsesDevSecret() {
		logger.Warn("MAFIA_TOKEN_SECRET is not set; using the development secret")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Engine:         engine,
		Credentials:    pgGames,
		JoinCodes:      pgGames,
		Hub:            hub,
		TokenSecret:    []byte(cfg.TokenSecret),
		RateLimiter:    limiter,
		PublicURL:      cfg.PublicURL,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthChecks:   checks,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mafia backend listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}
	return nil
}
