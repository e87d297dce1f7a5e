package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vntrieu/mafia/internal/games"
)

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// GameStore persists games and their versioned state snapshots in PostgreSQL.
type GameStore struct {
	pool *pgxpool.Pool
}

// NewGameStore creates a new GameStore.
func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

var _ games.GameStore = (*GameStore)(nil)

// GetLatestSnapshot returns the highest-versioned snapshot of a game.
func (s *GameStore) GetLatestSnapshot(ctx context.Context, gameID string) (*games.GameState, error) {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return nil, games.ErrGameNotFound
	}
	var (
		version int
		raw     []byte
	)
	err = s.pool.QueryRow(ctx,
		`SELECT version, state FROM game_state_snapshots WHERE game_id = $1 ORDER BY version DESC LIMIT 1`,
		id,
	).Scan(&version, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	state, err := games.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	state.Version = version
	return state, nil
}

// SaveSnapshot inserts state as version expectedVersion+1. The first snapshot (expectedVersion 0)
// also creates the game row and its join code. A concurrent writer that already took the version
// makes the primary key conflict, reported as games.ErrStaleState.
func (s *GameStore) SaveSnapshot(ctx context.Context, gameID string, expectedVersion int, state *games.GameState) (int, error) {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return 0, fmt.Errorf("invalid game_id: %w", err)
	}
	raw, err := games.Encode(state)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if expectedVersion == 0 {
		code, err := uniqueJoinCode(ctx, tx)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO games (id, scenario, join_code) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			id, string(state.Scenario), code,
		); err != nil {
			return 0, fmt.Errorf("insert game: %w", err)
		}
	}

	version := expectedVersion + 1
	if _, err := tx.Exec(ctx,
		`INSERT INTO game_state_snapshots (game_id, version, state) VALUES ($1, $2, $3)`,
		id, version, raw,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case codeUniqueViolation:
				return 0, games.ErrStaleState
			case codeForeignKeyViolation:
				return 0, games.ErrGameNotFound
			}
		}
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}

// DeleteGame removes the game together with its snapshots and events.
func (s *GameStore) DeleteGame(ctx context.Context, gameID string) error {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return games.ErrGameNotFound
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return games.ErrGameNotFound
	}
	return nil
}
