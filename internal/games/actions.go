package games

import "strings"

// Every action takes the current state and returns the next one. A refused action returns
// the input state itself; callers detect refusals with state == next.

// EliminatePlayer marks a player dead. Eliminating a dead player changes nothing.
func EliminatePlayer(state *GameState, playerID string) *GameState {
	i := state.indexOf(playerID)
	if i < 0 || !state.Players[i].IsAlive {
		return state
	}
	next := state.Clone()
	next.eliminate(i)
	return next
}

// SavePlayer marks a player saved for the night. The caller checks the flag before eliminating.
func SavePlayer(state *GameState, playerID string) *GameState {
	i := state.indexOf(playerID)
	if i < 0 || state.Players[i].IsSaved {
		return state
	}
	next := state.Clone()
	next.Players[i].IsSaved = true
	next.logf("%s was saved.", next.Players[i].Name)
	return next
}

// RevealPlayerRole makes a player's role public. A revealed role stays revealed.
func RevealPlayerRole(state *GameState, playerID string) *GameState {
	i := state.indexOf(playerID)
	if i < 0 || state.Players[i].IsRevealed {
		return state
	}
	next := state.Clone()
	next.reveal(i)
	return next
}

// BlockPlayerAbility blocks a player until the next night begins.
func BlockPlayerAbility(state *GameState, playerID string) *GameState {
	i := state.indexOf(playerID)
	if i < 0 || state.Players[i].IsBlocked {
		return state
	}
	next := state.Clone()
	next.Players[i].IsBlocked = true
	next.logf("%s's ability was blocked.", next.Players[i].Name)
	return next
}

// AddToGameLog appends a moderator note.
func AddToGameLog(state *GameState, entry string) *GameState {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return state
	}
	next := state.Clone()
	next.GameLog = append(next.GameLog, entry)
	return next
}

// DetectiveCheck reports whether the target reads negative (innocent). The faction boss
// always reads negative, as does everyone outside the Mafia. ok is false for unknown ids.
func DetectiveCheck(state *GameState, targetID string) (negative bool, ok bool) {
	i := state.indexOf(targetID)
	if i < 0 {
		return false, false
	}
	if state.has(i, CapDetectiveNegative) {
		return true, true
	}
	return state.Players[i].Role.Team != TeamMafia, true
}

// ProfessionalShoot resolves a day shot by the Professional (Zodiac) or Leon (Jack).
// A mafia target is eliminated. Otherwise the shooter pays: a vest is consumed if held,
// else the shooter is eliminated.
func ProfessionalShoot(state *GameState, shooterID, targetID string) *GameState {
	si, ti := state.indexOf(shooterID), state.indexOf(targetID)
	if si < 0 || ti < 0 {
		return state
	}
	if si == ti || !state.has(si, CapShooter) || !state.Players[si].IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	next := state.Clone()
	shooter, target := next.Players[si], next.Players[ti]
	if target.Role.Team == TeamMafia {
		if next.has(ti, CapDetectiveNegative) {
			next.logf("%s shot %s, the %s.", shooter.Name, target.Name, target.Role.Name)
		}
		next.eliminate(ti)
		return next
	}
	if next.hasVest(si) {
		next.setVest(si, false)
		next.logf("%s shot %s, a citizen, and lost the vest.", shooter.Name, target.Name)
		return next
	}
	next.logf("%s shot %s, a citizen.", shooter.Name, target.Name)
	next.eliminate(si)
	return next
}
