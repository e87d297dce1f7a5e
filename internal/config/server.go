// Package config loads server and CLI configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DevTokenSecret is used when MAFIA_TOKEN_SECRET is unset. Never rely on it in production.
const DevTokenSecret = "dev-secret-change-in-production"

// Server is the configuration of cmd/server.
type Server struct {
	HTTPAddr           string   `env:"MAFIA_HTTP_ADDR" envDefault:":8080"`
	DatabaseURL        string   `env:"DATABASE_URL,required,notEmpty"`
	MigrationsDir      string   `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	TokenSecret        string   `env:"MAFIA_TOKEN_SECRET" envDefault:"dev-secret-change-in-production"`
	RedisAddr          string   `env:"REDIS_ADDR"`
	PublicURL          string   `env:"MAFIA_PUBLIC_URL"`
	RateLimitPerMinute int      `env:"MAFIA_RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	AllowedOrigins     []string `env:"MAFIA_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint       string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadServer reads an optional .env file and then parses the environment.
func LoadServer(envFiles ...string) (Server, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RateLimitPerMinute < 0 {
		return Server{}, fmt.Errorf("MAFIA_RATE_LIMIT_PER_MINUTE must not be negative, got %d", cfg.RateLimitPerMinute)
	}
	return cfg, nil
}

// UsesDevSecret reports whether the built-in development token secret is in use.
func (s Server) UsesDevSecret() bool {
	return s.TokenSecret == DevTokenSecret
}
