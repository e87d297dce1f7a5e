package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vntrieu/mafia/internal/games"
)

// EventStore persists the command log of each game.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

var _ games.EventStore = (*EventStore)(nil)

// AppendEvent inserts one event. The command is stored as JSONB, or NULL for lifecycle events.
func (s *EventStore) AppendEvent(ctx context.Context, ev games.Event) error {
	gameID, err := uuid.Parse(ev.GameID)
	if err != nil {
		return fmt.Errorf("invalid game_id: %w", err)
	}
	id := uuid.New()
	if ev.ID != "" {
		if id, err = uuid.Parse(ev.ID); err != nil {
			return fmt.Errorf("invalid event id: %w", err)
		}
	}
	var cmd []byte
	if ev.Command != nil {
		if cmd, err = json.Marshal(ev.Command); err != nil {
			return fmt.Errorf("marshal command: %w", err)
		}
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO game_events (id, game_id, type, command, version, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, gameID, ev.Type, cmd, ev.Version, ev.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert game event: %w", err)
	}
	return nil
}

// ListEvents returns a game's events in version order.
func (s *EventStore) ListEvents(ctx context.Context, gameID string) ([]games.Event, error) {
	id, err := uuid.Parse(gameID)
	if err != nil {
		return nil, games.ErrGameNotFound
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, type, command, version, created_at FROM game_events WHERE game_id = $1 ORDER BY version, created_at`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list game events: %w", err)
	}
	defer rows.Close()

	var out []games.Event
	for rows.Next() {
		var (
			ev  games.Event
			eid uuid.UUID
			cmd []byte
		)
		if err := rows.Scan(&eid, &ev.Type, &cmd, &ev.Version, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game event: %w", err)
		}
		ev.ID = eid.String()
		ev.GameID = gameID
		if len(cmd) > 0 {
			ev.Command = &games.Command{}
			if err := json.Unmarshal(cmd, ev.Command); err != nil {
				return nil, fmt.Errorf("decode command: %w", err)
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game events: %w", err)
	}
	return out, nil
}
