package games

// CursePlayer adds a target to Jack Sparrow's curse list. Curses accumulate for the whole game.
func CursePlayer(state *GameState, jackID, targetID string) *GameState {
	ji, ti := state.indexOf(jackID), state.indexOf(targetID)
	if ji < 0 || ti < 0 || ji == ti {
		return state
	}
	jack := state.Players[ji]
	if jack.Jack == nil || !state.has(ji, CapCurser) || !jack.IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	for _, id := range jack.Jack.Cursed {
		if id == targetID {
			return state
		}
	}
	next := state.Clone()
	next.Players[ji].Jack.Cursed = append(next.Players[ji].Jack.Cursed, targetID)
	next.logf("%s cursed %s.", jack.Name, next.Players[ti].Name)
	return next
}

// cardTargets is how many targets each Last Action card takes.
var cardTargets = map[LastActionCard]int{
	CardSilenceOfTheLambs: 1,
	CardIdentityReveal:    1,
	CardBeautifulMind:     1,
	CardHandcuffs:         1,
	CardFaceSwap:          2,
	CardDuel:              1,
}

// UseLastActionCard plays a one-shot card. A second play of the same card is refused.
func UseLastActionCard(state *GameState, card LastActionCard, targetIDs ...string) *GameState {
	want, ok := cardTargets[card]
	if !ok || state.Jack == nil || state.Jack.LastActionCards.used(card) || len(targetIDs) != want {
		return state
	}
	idx := make([]int, len(targetIDs))
	for n, id := range targetIDs {
		idx[n] = state.indexOf(id)
		if idx[n] < 0 {
			return state
		}
	}
	if card == CardFaceSwap && idx[0] == idx[1] {
		return state
	}
	if card == CardBeautifulMind && !state.Players[idx[0]].IsAlive {
		return state
	}

	next := state.Clone()
	cards := &next.Jack.LastActionCards
	cards.markUsed(card)
	t := &next.Players[idx[0]]
	switch card {
	case CardSilenceOfTheLambs:
		if t.Jack != nil {
			t.Jack.Silenced = true
		}
		cards.SilencedPlayers = append(cards.SilencedPlayers, t.ID)
		next.logf("Silence of the Lambs: %s is silenced.", t.Name)
	case CardIdentityReveal:
		next.logf("Identity Reveal played on %s.", t.Name)
		next.reveal(idx[0])
	case CardBeautifulMind:
		next.Jack.BeautifulMindUsed = true
		if t.Role.Key != RoleJackSparrow {
			next.logf("Beautiful Mind: %s is not Jack Sparrow.", t.Name)
			break
		}
		next.logf("Beautiful Mind: %s is Jack Sparrow.", t.Name)
		next.Jack.RevealedJack = true
		next.Players[idx[0]].IsRevealed = true
		next.eliminate(idx[0])
	case CardHandcuffs:
		t.IsBlocked = true
		if t.Jack != nil {
			t.Jack.CanUseAbility = false
		}
		cards.HandcuffedPlayer = t.ID
		next.logf("Handcuffs: %s loses their ability.", t.Name)
	case CardFaceSwap:
		u := &next.Players[idx[1]]
		t.Role, u.Role = u.Role, t.Role
		// The vest and the curse list are bound to the role.
		if t.Jack != nil && u.Jack != nil {
			t.Jack.HasVest, u.Jack.HasVest = u.Jack.HasVest, t.Jack.HasVest
			t.Jack.Cursed, u.Jack.Cursed = u.Jack.Cursed, t.Jack.Cursed
		}
		next.logf("Face Swap: %s and %s exchanged roles.", t.Name, u.Name)
	case CardDuel:
		cards.DuelPlayer = t.ID
		next.logf("Duel: %s is challenged.", t.Name)
	}
	return next
}

// UseMafiaNightAction applies the Mafia's one action for the current night.
// A shot at Jack Sparrow reveals him instead of killing him; a vest absorbs a shot.
// The sixth sense removes the target when guess names its role. Recruiting goes through Saul Goodman;
// a failed recruit still counts as the night's action.
func UseMafiaNightAction(state *GameState, action NightAction, targetID, guess string) *GameState {
	ti := state.indexOf(targetID)
	if ti < 0 || state.Jack == nil || state.Phase != PhaseNight {
		return state
	}
	if state.Jack.NightActionRound == state.Round || !state.Players[ti].IsAlive {
		return state
	}
	next := state.Clone()
	target := &next.Players[ti]
	switch action {
	case NightActionShot:
		switch {
		case next.has(ti, CapNightImmune):
			next.Jack.RevealedJack = true
			next.logf("The Mafia shot %s, who survived.", target.Name)
			next.reveal(ti)
		case next.hasVest(ti):
			next.setVest(ti, false)
			next.logf("The Mafia shot %s; the vest absorbed it.", target.Name)
		default:
			next.eliminate(ti)
		}
	case NightActionSixthSense:
		if MatchRole(target.Role, guess) {
			next.logf("The Godfather's sixth sense named %s correctly.", target.Name)
			next.eliminate(ti)
		} else {
			next.logf("The Godfather's sixth sense missed %s.", target.Name)
		}
	case NightActionRecruit:
		si := next.indexOfRole(RoleSaulGoodman)
		if si < 0 || !next.Players[si].IsAlive || next.Jack.RecruitUsed || si == ti {
			return state
		}
		// A failed attempt still spends the night; Saul keeps his recruit.
		next.recruit(ti)
	default:
		return state
	}
	next.Jack.NightAction = action
	next.Jack.NightActionRound = next.Round
	return next
}

// CitizenKaneGuess lets Citizen Kane expose one player once per game. A mafia target is revealed.
func CitizenKaneGuess(state *GameState, kaneID, targetID string) *GameState {
	ki, ti := state.indexOf(kaneID), state.indexOf(targetID)
	if ki < 0 || ti < 0 || ki == ti || state.Jack == nil || state.Jack.KaneUsed {
		return state
	}
	if state.Players[ki].Role.Key != RoleCitizenKane || !state.Players[ki].IsAlive {
		return state
	}
	next := state.Clone()
	next.Jack.KaneUsed = true
	if next.Players[ti].Role.Team != TeamMafia {
		next.logf("Citizen Kane's guess on %s was wrong.", next.Players[ti].Name)
		return next
	}
	next.reveal(ti)
	return next
}
