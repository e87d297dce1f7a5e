package games

import (
	"fmt"
	"testing"
)

// buildGame seats one player per role key, in order, with ids p1, p2, ...
func buildGame(t *testing.T, s Scenario, keys ...RoleKey) *GameState {
	t.Helper()
	players := make([]Player, len(keys))
	for i, k := range keys {
		r, ok := LookupRole(s, k)
		if !ok {
			t.Fatalf("role %s not in %s catalog", k, s)
		}
		players[i] = Player{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1), Role: r, IsAlive: true}
	}
	return newGameFromPlayers(players, s)
}

func at(s *GameState, p Phase, round int) *GameState {
	s.Phase = p
	s.Round = round
	return s
}

func mustPlayer(t *testing.T, s *GameState, id string) Player {
	t.Helper()
	p, ok := s.Player(id)
	if !ok {
		t.Fatalf("player %s not found", id)
	}
	return p
}

func lastLog(s *GameState) string {
	if len(s.GameLog) == 0 {
		return ""
	}
	return s.GameLog[len(s.GameLog)-1]
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Player %d", i+1)
	}
	return out
}
