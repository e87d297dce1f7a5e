package games

import (
	"encoding/json"
	"fmt"
)

// CreateNewGame deals roles and builds the initial state in the setup phase.
func CreateNewGame(names []string, s Scenario) (*GameState, error) {
	players, err := AssignRoles(names, s)
	if err != nil {
		return nil, err
	}
	return newGameFromPlayers(players, s), nil
}

func newGameFromPlayers(players []Player, s Scenario) *GameState {
	state := &GameState{
		Scenario: s,
		Players:  players,
		Phase:    PhaseSetup,
		Round:    0,
		GameLog:  []string{fmt.Sprintf("Game started with %d players in %s scenario.", len(players), s)},
	}

	switch s {
	case ScenarioZodiac:
		for i := range state.Players {
			state.Players[i].Zodiac = &ZodiacPlayer{HasVest: state.has(i, CapStartsWithVest)}
		}
		state.Zodiac = &ZodiacScenario{RoleInquiriesLeft: 2}
	case ScenarioCapo:
		for i := range state.Players {
			state.Players[i].Capo = &CapoPlayer{}
		}
		state.Capo = &CapoScenario{}
	case ScenarioJack:
		for i := range state.Players {
			jp := &JackPlayer{HasVest: state.has(i, CapStartsWithVest), CanUseAbility: true}
			if state.has(i, CapCurser) {
				jp.Cursed = []string{}
			}
			state.Players[i].Jack = jp
		}
		state.Jack = &JackScenario{}
	}
	return state
}

// Encode serializes the state for persistence.
func Encode(s *GameState) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return b, nil
}

// Decode restores a state written by Encode.
func Decode(b []byte) (*GameState, error) {
	var s GameState
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	if !s.Scenario.Valid() {
		return nil, fmt.Errorf("decode game state: unknown scenario %q", s.Scenario)
	}
	return &s, nil
}

// Winner reports the winning team, or "" while the game is undecided.
// Citizens win once no mafia is alive; the Mafia win once they hold at least half of the living seats.
func Winner(s *GameState) Team {
	if s == nil || s.Phase == PhaseSetup {
		return ""
	}
	alive, mafia := 0, 0
	for _, p := range s.Players {
		if !p.IsAlive {
			continue
		}
		alive++
		if p.Role.Team == TeamMafia {
			mafia++
		}
	}
	if alive == 0 {
		return ""
	}
	if mafia == 0 {
		return TeamCitizen
	}
	if mafia*2 >= alive {
		return TeamMafia
	}
	return ""
}

// PublicPlayer is the spectator view of a player: unrevealed roles are hidden.
type PublicPlayer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsAlive    bool   `json:"is_alive"`
	IsRevealed bool   `json:"is_revealed"`
	Role       *Role  `json:"role,omitempty"`
}

// PublicState is what spectator screens receive.
type PublicState struct {
	Scenario Scenario       `json:"scenario"`
	Phase    Phase          `json:"phase"`
	Round    int            `json:"round"`
	Players  []PublicPlayer `json:"players"`
	Winner   Team           `json:"winner,omitempty"`
	Version  int            `json:"version"`
}

// PublicView masks the state for spectators.
func PublicView(s *GameState) PublicState {
	out := PublicState{Scenario: s.Scenario, Phase: s.Phase, Round: s.Round, Version: s.Version, Winner: Winner(s)}
	out.Players = make([]PublicPlayer, 0, len(s.Players))
	for _, p := range s.Players {
		pp := PublicPlayer{ID: p.ID, Name: p.Name, IsAlive: p.IsAlive, IsRevealed: p.IsRevealed}
		if p.IsRevealed {
			r := p.Role
			pp.Role = &r
		}
		out.Players = append(out.Players, pp)
	}
	return out
}
