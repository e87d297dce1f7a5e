// Package cache keeps the latest snapshot of each game in Redis in front of a games.GameStore.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vntrieu/mafia/internal/games"
)

// DefaultTTL is how long an untouched snapshot stays cached.
const DefaultTTL = 6 * time.Hour

// Store is a read-through, write-through snapshot cache. Redis failures are logged and the
// inner store is used, so the cache never decides the outcome of a command.
type Store struct {
	inner  games.GameStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ games.GameStore = (*Store)(nil)

// Connect opens a Redis client and checks it with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// New wraps inner with a Redis cache. A ttl <= 0 uses DefaultTTL.
func New(inner games.GameStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{inner: inner, client: client, ttl: ttl, logger: logger}
}

func snapshotKey(gameID string) string {
	return "mafia:game:" + gameID + ":snapshot"
}

// GetLatestSnapshot serves from Redis when possible and fills the cache on a miss.
func (s *Store) GetLatestSnapshot(ctx context.Context, gameID string) (*games.GameState, error) {
	raw, err := s.client.Get(ctx, snapshotKey(gameID)).Bytes()
	switch {
	case err == nil:
		state, derr := games.Decode(raw)
		if derr == nil {
			return state, nil
		}
		s.logger.WarnContext(ctx, "dropping undecodable cached snapshot", "game_id", gameID, "error", derr)
		s.evict(ctx, gameID)
	case !errors.Is(err, redis.Nil):
		s.logger.WarnContext(ctx, "redis get failed", "game_id", gameID, "error", err)
	}

	state, err := s.inner.GetLatestSnapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, gameID, state)
	return state, nil
}

// SaveSnapshot writes through to the inner store and then refreshes the cache.
func (s *Store) SaveSnapshot(ctx context.Context, gameID string, expectedVersion int, state *games.GameState) (int, error) {
	version, err := s.inner.SaveSnapshot(ctx, gameID, expectedVersion, state)
	if err != nil {
		if errors.Is(err, games.ErrStaleState) {
			s.evict(ctx, gameID)
		}
		return 0, err
	}
	cached := state.Clone()
	cached.Version = version
	s.put(ctx, gameID, cached)
	return version, nil
}

// DeleteGame evicts the cached snapshot and deletes the game.
func (s *Store) DeleteGame(ctx context.Context, gameID string) error {
	s.evict(ctx, gameID)
	return s.inner.DeleteGame(ctx, gameID)
}

func (s *Store) put(ctx context.Context, gameID string, state *games.GameState) {
	raw, err := games.Encode(state)
	if err != nil {
		s.logger.WarnContext(ctx, "encode snapshot for cache", "game_id", gameID, "error", err)
		return
	}
	if err := s.client.Set(ctx, snapshotKey(gameID), raw, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis set failed", "game_id", gameID, "error", err)
	}
}

func (s *Store) evict(ctx context.Context, gameID string) {
	if err := s.client.Del(ctx, snapshotKey(gameID)).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis del failed", "game_id", gameID, "error", err)
	}
}
