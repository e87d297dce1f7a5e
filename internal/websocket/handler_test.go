package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/ratelimit"
)

type fakeStates struct {
	states map[string]*games.GameState
	err    error
}

func (f *fakeStates) GetState(_ context.Context, id string) (*games.GameState, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.states[id]
	if !ok {
		return nil, games.ErrGameNotFound
	}
	return s, nil
}

func classicState(t *testing.T) *games.GameState {
	t.Helper()
	s, err := games.CreateNewGame([]string{"A", "B", "C", "D", "E", "F"}, games.ScenarioClassic)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func registeredClient(t *testing.T, gameID string) *Client {
	t.Helper()
	hub := startHub(t)
	client := testClient(hub, gameID)
	if !hub.Register(client) {
		t.Fatal("hub refused client")
	}
	return client
}

func TestHandleClientMessage_SyncState(t *testing.T) {
	state := classicState(t)
	h := NewEventHandler(nil, &fakeStates{states: map[string]*games.GameState{"g": state}}, nil, nil)
	client := registeredClient(t, "g")

	h.HandleClientMessage(context.Background(), client, &ClientInMessage{Type: ClientMessageTypeSyncState, CorrelationID: "c1"})

	env := receive(t, client)
	if env.Type != ServerTypeState || env.CorrelationID != "c1" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	view, ok := env.Payload["state"].(games.PublicState)
	if !ok {
		t.Fatalf("state payload has type %T", env.Payload["state"])
	}
	if len(view.Players) != 6 {
		t.Errorf("expected 6 players, got %d", len(view.Players))
	}
	for _, p := range view.Players {
		if p.Role != nil {
			t.Errorf("unrevealed role leaked for %s", p.Name)
		}
	}
}

func TestHandleClientMessage_Rejects(t *testing.T) {
	h := NewEventHandler(nil, &fakeStates{}, nil, nil)
	client := registeredClient(t, "g")

	h.HandleClientMessage(context.Background(), client, &ClientInMessage{Type: "vote"})
	if env := receive(t, client); env.Type != ServerTypeError {
		t.Errorf("expected error for unknown type, got %+v", env)
	}

	h.HandleClientMessage(context.Background(), client, &ClientInMessage{Type: ClientMessageTypeSyncState})
	if env := receive(t, client); env.Type != ServerTypeError {
		t.Errorf("expected error for missing game, got %+v", env)
	}

	h = NewEventHandler(nil, &fakeStates{err: errors.New("db down")}, nil, nil)
	h.HandleClientMessage(context.Background(), client, &ClientInMessage{Type: ClientMessageTypeSyncState})
	if env := receive(t, client); env.Type != ServerTypeError {
		t.Errorf("expected error on store failure, got %+v", env)
	}
}

func TestHandleClientMessage_RateLimited(t *testing.T) {
	h := NewEventHandler(nil, &fakeStates{}, ratelimit.NewPerKey(1, time.Hour), nil)
	client := registeredClient(t, "g")
	client.RateLimitKey = "1.2.3.4"

	h.HandleClientMessage(context.Background(), client, &ClientInMessage{Type: ClientMessageTypePing})
	if env := receive(t, client); env.Event != ServerEventPong {
		t.Fatalf("expected pong, got %+v", env)
	}
	h.HandleClientMessage(context.Background(), client, &ClientInMessage{Type: ClientMessageTypePing})
	env := receive(t, client)
	if env.Type != ServerTypeError || env.Payload["message"] != "rate limit exceeded; try again later" {
		t.Errorf("expected rate limit error, got %+v", env)
	}
}

func TestPublish_FiltersPrivateEvents(t *testing.T) {
	hub := startHub(t)
	client := testClient(hub, "g")
	hub.register <- client
	waitFor(t, func() bool { return hub.ClientCount("g") == 1 })

	h := NewEventHandler(hub, &fakeStates{}, nil, nil)
	h.Publish("g", classicState(t), []games.BroadcastEvent{
		{Event: "log_appended", Payload: map[string]interface{}{"entries": []string{"secret"}}},
		{Event: "phase_changed", Payload: map[string]interface{}{"phase": "night"}},
	})

	if env := receive(t, client); env.Event != "phase_changed" {
		t.Errorf("expected phase_changed first, got %+v", env)
	}
	if env := receive(t, client); env.Type != ServerTypeState {
		t.Errorf("expected state envelope, got %+v", env)
	}
}
