package games

// PhaseDef is one entry of the phase table: a phase and the phase that follows it.
type PhaseDef struct {
	Name Phase `json:"name"`
	Next Phase `json:"next"`
	// Wraps marks the transition that starts a new round.
	Wraps bool `json:"wraps,omitempty"`
}

// RulesConfig holds the phase table and headcount bounds of a scenario.
type RulesConfig struct {
	Scenario   Scenario   `json:"scenario"`
	Phases     []PhaseDef `json:"phases"`
	MinPlayers int        `json:"min_players"`
	// MaxPlayers of 0 means no upper bound.
	MaxPlayers int `json:"max_players"`
}

// DefaultPhases is the night/day cycle shared by every scenario.
var DefaultPhases = []PhaseDef{
	{Name: PhaseSetup, Next: PhaseNight},
	{Name: PhaseNight, Next: PhaseDay},
	{Name: PhaseDay, Next: PhaseVoting},
	{Name: PhaseVoting, Next: PhaseResults},
	{Name: PhaseResults, Next: PhaseNight, Wraps: true},
}

// RulesFor returns the rules of a scenario. Unknown scenarios get zero bounds.
func RulesFor(s Scenario) RulesConfig {
	cfg := RulesConfig{Scenario: s, Phases: DefaultPhases}
	switch s {
	case ScenarioClassic:
		cfg.MinPlayers = 6
	case ScenarioCapo:
		cfg.MinPlayers, cfg.MaxPlayers = 12, 13
	case ScenarioZodiac:
		cfg.MinPlayers, cfg.MaxPlayers = 9, 12
	case ScenarioJack:
		cfg.MinPlayers, cfg.MaxPlayers = 9, 12
	}
	return cfg
}

// next looks up the phase following p. ok is false if p is not in the table.
func (c RulesConfig) next(p Phase) (PhaseDef, bool) {
	for _, d := range c.Phases {
		if d.Name == p {
			return d, true
		}
	}
	return PhaseDef{}, false
}
