package games

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vntrieu/mafia/internal/games"

// ApplyResult is returned by Apply: new state, events to broadcast, and optional error.
type ApplyResult struct {
	State   *GameState
	Changed bool
	Result  map[string]interface{}
	Events  []BroadcastEvent
	Error   error
}

// BroadcastEvent represents an event to broadcast (type + payload).
type BroadcastEvent struct {
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

// Event is one entry of a game's command log.
type Event struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Type      string    `json:"type"`
	Command   *Command  `json:"command,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// GameStore persists versioned snapshots.
type GameStore interface {
	// GetLatestSnapshot returns ErrGameNotFound when the game has no snapshot.
	GetLatestSnapshot(ctx context.Context, gameID string) (*GameState, error)
	// SaveSnapshot writes state as version expectedVersion+1 and returns the new version.
	// It returns ErrStaleState when that version already exists. With expectedVersion 0 a
	// store that reuses ids may continue from the id's previous version instead of 1.
	SaveSnapshot(ctx context.Context, gameID string, expectedVersion int, state *GameState) (int, error)
	DeleteGame(ctx context.Context, gameID string) error
}

// EventStore appends to the command log.
type EventStore interface {
	AppendEvent(ctx context.Context, ev Event) error
}

// Engine loads a game, applies a command and persists the result.
type Engine struct {
	store  GameStore
	events EventStore
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewEngine creates an engine with the given stores. A nil logger discards output.
func NewEngine(store GameStore, events EventStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		store:  store,
		events: events,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// NewGame deals roles, writes the first snapshot and returns the new game id.
func (e *Engine) NewGame(ctx context.Context, names []string, scenario Scenario) (string, *GameState, error) {
	gameID := uuid.NewString()
	state, err := e.NewGameWithID(ctx, gameID, names, scenario)
	if err != nil {
		return "", nil, err
	}
	return gameID, state, nil
}

// NewGameWithID is NewGame for a caller-chosen id, such as the CLI's fixed slot key.
// An existing game under that id is replaced when the store allows it.
func (e *Engine) NewGameWithID(ctx context.Context, gameID string, names []string, scenario Scenario) (*GameState, error) {
	ctx, span := e.tracer.Start(ctx, "games.NewGame", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("game.scenario", string(scenario)),
		attribute.Int("game.players", len(names)),
	))
	defer span.End()

	state, err := CreateNewGame(names, scenario)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	version, err := e.store.SaveSnapshot(ctx, gameID, 0, state)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}
	state.Version = version
	if err := e.events.AppendEvent(ctx, e.event(gameID, "game_created", nil, version)); err != nil {
		return nil, fmt.Errorf("persist event: %w", err)
	}
	e.logger.InfoContext(ctx, "game created", "game_id", gameID, "scenario", scenario, "players", len(names))
	return state, nil
}

// GetState loads the latest snapshot for the game.
func (e *Engine) GetState(ctx context.Context, gameID string) (*GameState, error) {
	state, err := e.store.GetLatestSnapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Apply dispatches cmd against the latest snapshot and persists the new state.
// Refused commands are returned with Changed == false and nothing is written.
func (e *Engine) Apply(ctx context.Context, gameID string, cmd Command) ApplyResult {
	ctx, span := e.tracer.Start(ctx, "games.Apply", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("command.type", string(cmd.Type)),
	))
	defer span.End()

	fail := func(err error) ApplyResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ApplyResult{Error: err}
	}

	state, err := e.GetState(ctx, gameID)
	if err != nil {
		if errors.Is(err, ErrGameNotFound) {
			return fail(err)
		}
		return fail(fmt.Errorf("get state: %w", err))
	}
	out, err := Dispatch(state, cmd)
	if err != nil {
		return fail(err)
	}
	if !out.Changed {
		e.logger.DebugContext(ctx, "command refused", "game_id", gameID, "type", cmd.Type)
		return ApplyResult{State: state, Result: out.Result}
	}

	next := out.State
	version, err := e.store.SaveSnapshot(ctx, gameID, state.Version, next)
	if err != nil {
		if errors.Is(err, ErrStaleState) {
			return fail(err)
		}
		return fail(fmt.Errorf("persist snapshot: %w", err))
	}
	next.Version = version
	if err := e.events.AppendEvent(ctx, e.event(gameID, string(cmd.Type), &cmd, version)); err != nil {
		return fail(fmt.Errorf("persist event: %w", err))
	}
	span.SetAttributes(attribute.Int("game.version", version))
	e.logger.InfoContext(ctx, "command applied", "game_id", gameID, "type", cmd.Type, "version", version,
		"phase", next.Phase, "round", next.Round)

	return ApplyResult{State: next, Changed: true, Result: out.Result, Events: diffEvents(state, next)}
}

// Reset discards the game.
func (e *Engine) Reset(ctx context.Context, gameID string) error {
	if err := e.store.DeleteGame(ctx, gameID); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	e.logger.InfoContext(ctx, "game reset", "game_id", gameID)
	return nil
}

func (e *Engine) event(gameID, typ string, cmd *Command, version int) Event {
	return Event{ID: uuid.NewString(), GameID: gameID, Type: typ, Command: cmd, Version: version, CreatedAt: e.now().UTC()}
}

// diffEvents describes what changed between two states for broadcast.
func diffEvents(prev, next *GameState) []BroadcastEvent {
	var events []BroadcastEvent
	if prev.Phase != next.Phase || prev.Round != next.Round {
		events = append(events, BroadcastEvent{Event: "phase_changed", Payload: map[string]interface{}{
			"phase": next.Phase, "round": next.Round}})
	}
	for i := range next.Players {
		if i < len(prev.Players) && prev.Players[i].IsAlive && !next.Players[i].IsAlive {
			events = append(events, BroadcastEvent{Event: "player_eliminated", Payload: map[string]interface{}{
				"player_id": next.Players[i].ID, "name": next.Players[i].Name}})
		}
		if i < len(prev.Players) && !prev.Players[i].IsRevealed && next.Players[i].IsRevealed {
			events = append(events, BroadcastEvent{Event: "role_revealed", Payload: map[string]interface{}{
				"player_id": next.Players[i].ID, "role": next.Players[i].Role.Name}})
		}
	}
	if w := Winner(next); w != "" && Winner(prev) == "" {
		events = append(events, BroadcastEvent{Event: "game_over", Payload: map[string]interface{}{"winner": w}})
	}
	if len(next.GameLog) > len(prev.GameLog) {
		events = append(events, BroadcastEvent{Event: "log_appended", Payload: map[string]interface{}{
			"entries": next.GameLog[len(prev.GameLog):]}})
	}
	return events
}
