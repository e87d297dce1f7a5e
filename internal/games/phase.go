package games

import "fmt"

// AdvancePhase moves the game to the next phase of the cycle.
//
// The first night is round 1; afterwards the round only grows on the results->night wrap.
// Entering a night clears the per-night saved and blocked flags. Pending effects that are
// due are applied and dropped from the queue in the returned state.
func AdvancePhase(state *GameState) *GameState {
	def, ok := RulesFor(state.Scenario).next(state.Phase)
	if !ok {
		return state
	}
	next := state.Clone()
	next.Phase = def.Next
	round := next.Round
	if def.Wraps || (state.Phase == PhaseSetup && round == 0) {
		round++
	}
	entry := fmt.Sprintf("Phase changed to %s", next.Phase)
	if round > next.Round {
		entry += fmt.Sprintf(" (Round %d)", round)
	}
	next.Round = round
	next.GameLog = append(next.GameLog, entry)

	if next.Phase == PhaseNight {
		for i := range next.Players {
			next.Players[i].IsSaved = false
			next.Players[i].IsBlocked = false
		}
	}
	next.applyDueEffects()
	return next
}

func (s *GameState) applyDueEffects() {
	if len(s.PendingEffects) == 0 {
		return
	}
	var remaining []PendingEffect
	for _, e := range s.PendingEffects {
		if e.DuePhase != s.Phase || e.DueRound > s.Round {
			remaining = append(remaining, e)
			continue
		}
		switch e.Kind {
		case EffectEliminate:
			if i := s.indexOf(e.PlayerID); i >= 0 && s.Players[i].IsAlive {
				if e.Reason != "" {
					s.logf("%s", e.Reason)
				}
				s.eliminate(i)
			}
		}
	}
	s.PendingEffects = remaining
}

// nextOccurrence returns the round in which phase p next begins, counting from the current phase.
func (s *GameState) nextOccurrence(p Phase) int {
	order := map[Phase]int{PhaseNight: 0, PhaseDay: 1, PhaseVoting: 2, PhaseResults: 3}
	cur, ok := order[s.Phase]
	if !ok {
		// setup: the first night opens round 1
		return 1
	}
	if order[p] > cur {
		return s.Round
	}
	return s.Round + 1
}
