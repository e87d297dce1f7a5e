package games

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError is returned when a roster cannot be assigned for a scenario.
type ValidationError struct {
	Scenario Scenario
	Reason   string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func countError(s Scenario, cfg RulesConfig) *ValidationError {
	if cfg.MaxPlayers == 0 {
		return &ValidationError{Scenario: s, Reason: fmt.Sprintf("%s scenario requires at least %d players", s, cfg.MinPlayers)}
	}
	return &ValidationError{Scenario: s, Reason: fmt.Sprintf("%s scenario requires %d-%d players", s, cfg.MinPlayers, cfg.MaxPlayers)}
}

// RoleCount is one entry of a role distribution.
type RoleCount struct {
	Key   RoleKey `json:"key"`
	Count int     `json:"count"`
}

// RoleDistribution computes how many players receive each role for n players, in catalog order.
// It does not check headcount bounds.
func RoleDistribution(s Scenario, n int) []RoleCount {
	if s == ScenarioClassic {
		mafia := n / 3
		citizens := n - mafia - 2
		if citizens < 0 {
			citizens = 0
		}
		return []RoleCount{
			{Key: RoleDonMafia, Count: 1},
			{Key: RoleMafia, Count: mafia - 1},
			{Key: RoleDetective, Count: 1},
			{Key: RoleDoctor, Count: 1},
			{Key: RoleCitizen, Count: citizens},
		}
	}

	out := make([]RoleCount, 0, len(catalogs[s]))
	specials := 0
	for _, d := range catalogs[s] {
		if d.role.Key == RoleCitizen {
			continue
		}
		if d.minPlayers > 0 && n < d.minPlayers {
			continue
		}
		out = append(out, RoleCount{Key: d.role.Key, Count: 1})
		specials++
	}
	citizens := n - specials
	if citizens < 0 {
		citizens = 0
	}
	return append(out, RoleCount{Key: RoleCitizen, Count: citizens})
}

// AssignRoles validates the roster for the scenario and deals one role to each player.
func AssignRoles(names []string, s Scenario) ([]Player, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return AssignRolesWithRand(names, s, rng)
}

// AssignRolesWithRand is AssignRoles with an explicit random source.
func AssignRolesWithRand(names []string, s Scenario, rng *rand.Rand) ([]Player, error) {
	if !s.Valid() {
		return nil, &ValidationError{Scenario: s, Reason: fmt.Sprintf("unknown scenario %q", s)}
	}
	cfg := RulesFor(s)
	n := len(names)
	if n < cfg.MinPlayers || (cfg.MaxPlayers > 0 && n > cfg.MaxPlayers) {
		return nil, countError(s, cfg)
	}
	cleaned := make([]string, n)
	for i, name := range names {
		cleaned[i] = strings.TrimSpace(name)
		if cleaned[i] == "" {
			return nil, &ValidationError{Scenario: s, Reason: fmt.Sprintf("player %d has an empty name", i+1)}
		}
	}

	keys := make([]RoleKey, 0, n)
	for _, rc := range RoleDistribution(s, n) {
		for i := 0; i < rc.Count; i++ {
			keys = append(keys, rc.Key)
		}
	}
	// Fisher-Yates
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	players := make([]Player, n)
	for i, name := range cleaned {
		role, _ := LookupRole(s, keys[i])
		players[i] = Player{
			ID:      uuid.NewString(),
			Name:    name,
			Role:    role,
			IsAlive: true,
		}
	}
	return players, nil
}
