package games

// Bomb defuse codes run from 1 to 4.
const (
	MinBombCode = 1
	MaxBombCode = 4
)

// MaxOceanAwakenings bounds the Ocean's wake-ups per game.
const MaxOceanAwakenings = 2

// PlaceBomb plants the Bomber's bomb on a living player. A new bomb replaces the active one.
func PlaceBomb(state *GameState, targetID string, code int) *GameState {
	ti := state.indexOf(targetID)
	if ti < 0 || state.Zodiac == nil {
		return state
	}
	if !state.Players[ti].IsAlive || code < MinBombCode || code > MaxBombCode {
		return state
	}
	next := state.Clone()
	if prev := next.indexOf(next.Zodiac.BombTarget); prev >= 0 && next.Players[prev].Zodiac != nil {
		next.Players[prev].Zodiac.HasBomb = false
		next.Players[prev].Zodiac.BombCode = 0
	}
	target := &next.Players[ti]
	target.Zodiac.HasBomb = true
	target.Zodiac.BombCode = code
	next.Zodiac.BombActive = true
	next.Zodiac.BombTarget = target.ID
	next.Zodiac.BombCode = code
	next.logf("A bomb was placed on %s.", target.Name)
	return next
}

// AttemptDefuseBomb checks a guessed code against the active bomb. On a miss only the log
// changes; eliminating the bomb holder after the last miss is up to the caller.
func AttemptDefuseBomb(state *GameState, guessedCode int) (*GameState, bool) {
	if state.Zodiac == nil || !state.Zodiac.BombActive {
		return state, false
	}
	ti := state.indexOf(state.Zodiac.BombTarget)
	if ti < 0 {
		return state, false
	}
	next := state.Clone()
	name := next.Players[ti].Name
	if guessedCode != next.Zodiac.BombCode {
		next.logf("Defusing the bomb on %s failed.", name)
		return next, false
	}
	next.Players[ti].Zodiac.HasBomb = false
	next.Players[ti].Zodiac.BombCode = 0
	next.Zodiac.BombActive = false
	next.Zodiac.BombTarget = ""
	next.Zodiac.BombCode = 0
	next.logf("The bomb on %s was defused.", name)
	return next, true
}

// CheckPlayerRole spends a role inquiry to reveal an eliminated, unrevealed player.
func CheckPlayerRole(state *GameState, targetID string) *GameState {
	ti := state.indexOf(targetID)
	if ti < 0 || state.Zodiac == nil || state.Zodiac.RoleInquiriesLeft <= 0 {
		return state
	}
	if state.Players[ti].IsAlive || state.Players[ti].IsRevealed {
		return state
	}
	next := state.Clone()
	next.Zodiac.RoleInquiriesLeft--
	next.reveal(ti)
	next.logf("%d role checks remaining.", next.Zodiac.RoleInquiriesLeft)
	return next
}

// ZodiacKill resolves the Zodiac's shot. Odd rounds are refused with a log entry.
// Shooting the Protector eliminates the Zodiac instead.
func ZodiacKill(state *GameState, targetID string) *GameState {
	ti := state.indexOf(targetID)
	if ti < 0 || state.Scenario != ScenarioZodiac || !state.Players[ti].IsAlive {
		return state
	}
	zi := state.indexOfRole(RoleZodiac)
	if zi < 0 || !state.Players[zi].IsAlive || zi == ti {
		return state
	}
	next := state.Clone()
	if next.Round <= 0 || next.Round%2 != 0 {
		next.logf("Zodiac cannot shoot in round %d.", next.Round)
		return next
	}
	if next.has(ti, CapZodiacShield) {
		next.logf("Zodiac shot the %s.", next.Players[ti].Role.Name)
		next.eliminate(zi)
		return next
	}
	next.eliminate(ti)
	return next
}

// OceanAwaken records the Ocean waking a player. Waking a Mafia member or a serial killer
// schedules the Ocean's own elimination for the next day.
func OceanAwaken(state *GameState, oceanID, targetID string) *GameState {
	oi, ti := state.indexOf(oceanID), state.indexOf(targetID)
	if oi < 0 || ti < 0 || state.Zodiac == nil {
		return state
	}
	ocean := state.Players[oi]
	if oi == ti || ocean.Role.Key != RoleOcean || !ocean.IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	if state.Zodiac.OceanAwakenings >= MaxOceanAwakenings {
		return state
	}
	next := state.Clone()
	next.Zodiac.OceanAwakenings++
	target := next.Players[ti]
	if target.Role.Team != TeamMafia && !next.has(ti, CapSerialKiller) {
		next.logf("%s was awakened by the Ocean.", target.Name)
		return next
	}
	next.logf("%s was awakened by the Ocean; the Ocean will die the next day.", target.Name)
	for _, e := range next.PendingEffects {
		if e.Kind == EffectEliminate && e.PlayerID == ocean.ID {
			return next
		}
	}
	next.PendingEffects = append(next.PendingEffects, PendingEffect{
		Kind:     EffectEliminate,
		PlayerID: ocean.ID,
		DuePhase: PhaseDay,
		DueRound: next.nextOccurrence(PhaseDay),
		Reason:   ocean.Name + " did not survive waking the wrong player.",
	})
	return next
}
