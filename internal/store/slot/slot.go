// Package slot keeps a single local game in a SQLite file for the mafiactl CLI.
package slot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/vntrieu/mafia/internal/games"
)

// Key is the fixed slot the CLI stores its game under.
const Key = "mafiaGameState"

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	version    INTEGER NOT NULL,
	state      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS slot_events (
	id         TEXT PRIMARY KEY,
	slot_key   TEXT NOT NULL,
	type       TEXT NOT NULL,
	command    TEXT,
	version    INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_slot_events_key ON slot_events (slot_key, version);
`

// Store is a SQLite-backed games.GameStore and games.EventStore where the game id is the slot key.
//
// A slot's version never goes back: a discarded game leaves an empty row behind and the next
// game continues from its version, so a writer holding a version of an older game is stale.
type Store struct {
	db *sqlx.DB
}

var (
	_ games.GameStore  = (*Store)(nil)
	_ games.EventStore = (*Store)(nil)
)

// Open opens (and creates) the SQLite file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type slotRow struct {
	Version int    `db:"version"`
	State   string `db:"state"`
}

// GetLatestSnapshot loads the slot, or games.ErrGameNotFound when it is empty.
func (s *Store) GetLatestSnapshot(ctx context.Context, key string) (*games.GameState, error) {
	var row slotRow
	if err := s.db.GetContext(ctx, &row, `SELECT version, state FROM slots WHERE key = ?`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if row.State == "" {
		return nil, games.ErrGameNotFound
	}
	state, err := games.Decode([]byte(row.State))
	if err != nil {
		return nil, err
	}
	state.Version = row.Version
	return state, nil
}

// SaveSnapshot overwrites the slot when its version still equals expectedVersion.
// Starting a new game (expectedVersion 0) replaces whatever the slot held.
func (s *Store) SaveSnapshot(ctx context.Context, key string, expectedVersion int, state *games.GameState) (int, error) {
	raw, err := games.Encode(state)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current slotRow
	found := true
	if err := tx.GetContext(ctx, &current, `SELECT version, state FROM slots WHERE key = ?`, key); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("read slot version: %w", err)
		}
		found = false
	}

	version := expectedVersion + 1
	if expectedVersion == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM slot_events WHERE slot_key = ?`, key); err != nil {
			return 0, fmt.Errorf("clear slot events: %w", err)
		}
		version = current.Version + 1
	} else {
		if !found || current.State == "" {
			return 0, games.ErrGameNotFound
		}
		if current.Version != expectedVersion {
			return 0, games.ErrStaleState
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO slots (key, version, state, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET version = excluded.version, state = excluded.state, updated_at = excluded.updated_at`,
		key, version, string(raw), time.Now().UTC().UnixMilli(),
	); err != nil {
		return 0, fmt.Errorf("write slot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}

// DeleteGame empties the slot and clears its events. The slot keeps its version.
func (s *Store) DeleteGame(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE slots SET state = '', version = version + 1, updated_at = ? WHERE key = ? AND state <> ''`,
		time.Now().UTC().UnixMilli(), key,
	)
	if err != nil {
		return fmt.Errorf("clear slot: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slot_events WHERE slot_key = ?`, key); err != nil {
		return fmt.Errorf("clear slot events: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return games.ErrGameNotFound
	}
	return nil
}

// AppendEvent records one command of the slot's game.
func (s *Store) AppendEvent(ctx context.Context, ev games.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	var cmd sql.NullString
	if ev.Command != nil {
		b, err := json.Marshal(ev.Command)
		if err != nil {
			return fmt.Errorf("marshal command: %w", err)
		}
		cmd = sql.NullString{String: string(b), Valid: true}
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO slot_events (id, slot_key, type, command, version, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.GameID, ev.Type, cmd, ev.Version, ev.CreatedAt.UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert slot event: %w", err)
	}
	return nil
}

type eventRow struct {
	ID        string         `db:"id"`
	Type      string         `db:"type"`
	Command   sql.NullString `db:"command"`
	Version   int            `db:"version"`
	CreatedAt int64          `db:"created_at"`
}

// ListEvents returns the slot's events in version order.
func (s *Store) ListEvents(ctx context.Context, key string) ([]games.Event, error) {
	var rows []eventRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, type, command, version, created_at FROM slot_events WHERE slot_key = ? ORDER BY version, created_at`,
		key,
	); err != nil {
		return nil, fmt.Errorf("list slot events: %w", err)
	}
	out := make([]games.Event, 0, len(rows))
	for _, r := range rows {
		ev := games.Event{ID: r.ID, GameID: key, Type: r.Type, Version: r.Version,
			CreatedAt: time.UnixMilli(r.CreatedAt).UTC()}
		if r.Command.Valid {
			ev.Command = &games.Command{}
			if err := json.Unmarshal([]byte(r.Command.String), ev.Command); err != nil {
				return nil, fmt.Errorf("decode command: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, nil
}
