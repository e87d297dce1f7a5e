package games

// MaxChiefLinks is how many players the Village Chief may link with.
const MaxChiefLinks = 2

// LinkVillageChief links the Village Chief with a target. Linking a mafia member other than
// the Informant eliminates the Chief and then every linked player, and clears the links.
func LinkVillageChief(state *GameState, chiefID, targetID string) *GameState {
	ci, ti := state.indexOf(chiefID), state.indexOf(targetID)
	if ci < 0 || ti < 0 || state.Capo == nil {
		return state
	}
	chief := state.Players[ci]
	if ci == ti || chief.Role.Key != RoleVillageChief || !chief.IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	for _, id := range state.Capo.ChiefLinks {
		if id == targetID {
			return state
		}
	}
	target := state.Players[ti]
	if target.Role.Team == TeamMafia && !state.has(ti, CapChiefImmune) {
		next := state.Clone()
		next.logf("The Village Chief linked with %s, a Mafia member.", target.Name)
		next.eliminate(ci)
		for _, id := range next.Capo.ChiefLinks {
			if li := next.indexOf(id); li >= 0 {
				next.eliminate(li)
			}
		}
		next.Capo.ChiefLinks = nil
		return next
	}
	if len(state.Capo.ChiefLinks) >= MaxChiefLinks {
		return state
	}
	next := state.Clone()
	next.Capo.ChiefLinks = append(next.Capo.ChiefLinks, target.ID)
	next.logf("The Village Chief linked with %s.", target.Name)
	return next
}

func trusteeWindow(state *GameState) bool {
	return state.Capo != nil && state.Phase == PhaseDay && state.Round == 1 && !state.Capo.Trustee.Fired
}

// SelectTrustee names the day-one trustee. Re-selecting clears targets and bullet.
func SelectTrustee(state *GameState, trusteeID string) *GameState {
	i := state.indexOf(trusteeID)
	if i < 0 || !trusteeWindow(state) || !state.Players[i].IsAlive {
		return state
	}
	next := state.Clone()
	next.Capo.Trustee = Trustee{TrusteeID: trusteeID}
	next.logf("%s was chosen as trustee.", next.Players[i].Name)
	return next
}

// AddTrusteeTarget adds one of the two trustee targets.
func AddTrusteeTarget(state *GameState, targetID string) *GameState {
	i := state.indexOf(targetID)
	if i < 0 || !trusteeWindow(state) {
		return state
	}
	t := state.Capo.Trustee
	if t.TrusteeID == "" || t.TrusteeID == targetID || len(t.Targets) >= 2 || !state.Players[i].IsAlive {
		return state
	}
	for _, id := range t.Targets {
		if id == targetID {
			return state
		}
	}
	next := state.Clone()
	next.Capo.Trustee.Targets = append(next.Capo.Trustee.Targets, targetID)
	next.logf("The trustee picked %s.", next.Players[i].Name)
	return next
}

// ChooseFirstBullet sets the load of the first target's bullet. The second is its complement.
func ChooseFirstBullet(state *GameState, b Bullet) *GameState {
	if !trusteeWindow(state) || len(state.Capo.Trustee.Targets) != 2 {
		return state
	}
	if b != BulletReal && b != BulletBlank {
		return state
	}
	next := state.Clone()
	next.Capo.Trustee.FirstBullet = b
	next.logf("The trustee loaded the bullets.")
	return next
}

// FireTrusteeShot fires at Targets[targetIndex]. Index 0 takes the first bullet, index 1 its complement.
func FireTrusteeShot(state *GameState, targetIndex int) *GameState {
	if !trusteeWindow(state) {
		return state
	}
	t := state.Capo.Trustee
	if len(t.Targets) != 2 || t.FirstBullet == "" || targetIndex < 0 || targetIndex > 1 {
		return state
	}
	ti := state.indexOf(t.Targets[targetIndex])
	if ti < 0 || !state.Players[ti].IsAlive {
		return state
	}
	bullet := t.FirstBullet
	if targetIndex == 1 {
		bullet = bullet.Complement()
	}
	next := state.Clone()
	next.Capo.Trustee.Fired = true
	target := next.Players[ti]
	if bullet == BulletBlank {
		next.logf("%s was shot with a blank and survived.", target.Name)
		return next
	}
	next.logf("%s was shot with a real bullet.", target.Name)
	if target.Role.Key == RoleDonMafia {
		next.logf("The Don Mafia fell; the antidote passes to the next Mafia member.")
	}
	next.eliminate(ti)
	return next
}

// Poison marks a player as poisoned by the Herbalist and opens the antidote vote.
func Poison(state *GameState, herbalistID, targetID string) *GameState {
	hi, ti := state.indexOf(herbalistID), state.indexOf(targetID)
	if hi < 0 || ti < 0 || state.Capo == nil || state.Capo.Poison != nil {
		return state
	}
	if state.Players[hi].Role.Key != RoleHerbalist || !state.Players[hi].IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	next := state.Clone()
	next.Capo.Poison = &PoisonVote{TargetID: targetID, Votes: map[string]bool{}}
	next.logf("%s was poisoned.", next.Players[ti].Name)
	return next
}

// CastPoisonVote records one yes/no antidote vote. Once every other living player has voted,
// the antidote is given when the yes votes reach floor(voters/2)+1; otherwise the target dies.
// Deaths during the vote shrink the electorate, which may settle it without a further vote.
func CastPoisonVote(state *GameState, voterID string, antidote bool) *GameState {
	vi := state.indexOf(voterID)
	if vi < 0 || state.Capo == nil || state.Capo.Poison == nil {
		return state
	}
	pv := state.Capo.Poison
	if voterID == pv.TargetID || !state.Players[vi].IsAlive {
		return state
	}
	if _, voted := pv.Votes[voterID]; voted {
		return state
	}
	next := state.Clone()
	next.Capo.Poison.Votes[voterID] = antidote
	next.finalizePoison()
	return next
}

func (s *GameState) finalizePoison() {
	pv := s.Capo.Poison
	voters, yes := 0, 0
	for _, p := range s.Players {
		if !p.IsAlive || p.ID == pv.TargetID {
			continue
		}
		v, ok := pv.Votes[p.ID]
		if !ok {
			return
		}
		voters++
		if v {
			yes++
		}
	}
	ti := s.indexOf(pv.TargetID)
	s.Capo.Poison = nil
	if ti < 0 {
		return
	}
	if yes >= voters/2+1 {
		s.logf("%s received the antidote (%d of %d votes).", s.Players[ti].Name, yes, voters)
		return
	}
	s.logf("The antidote for %s was denied (%d of %d votes).", s.Players[ti].Name, yes, voters)
	s.eliminate(ti)
}

// Recruit converts a recruitable citizen to the Mafia. In Capo the Don Mafia recruits,
// in Jack Saul Goodman does, once per game. A failed attempt only logs.
func Recruit(state *GameState, recruiterID, targetID string) *GameState {
	ri, ti := state.indexOf(recruiterID), state.indexOf(targetID)
	if ri < 0 || ti < 0 || ri == ti {
		return state
	}
	recruiter := state.Players[ri]
	switch state.Scenario {
	case ScenarioCapo:
		if recruiter.Role.Key != RoleDonMafia {
			return state
		}
	case ScenarioJack:
		if recruiter.Role.Key != RoleSaulGoodman || state.Jack == nil || state.Jack.RecruitUsed {
			return state
		}
	default:
		return state
	}
	if !recruiter.IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	next := state.Clone()
	next.recruit(ti)
	return next
}

// recruit applies the conversion rule to seat i of a cloned state.
func (s *GameState) recruit(i int) bool {
	p := &s.Players[i]
	if p.Role.Team != TeamCitizen || !s.has(i, CapRecruitable) {
		s.logf("Recruiting %s failed.", p.Name)
		return false
	}
	p.Role.Team = TeamMafia
	switch {
	case p.Capo != nil:
		p.Capo.ConvertedToMafia = true
	case p.Jack != nil:
		p.Jack.ConvertedToMafia = true
	}
	if s.Jack != nil {
		s.Jack.RecruitUsed = true
	}
	s.logf("%s was recruited to the Mafia.", p.Name)
	return true
}

// ExecutionerGuess eliminates the target when the Executioner names its role.
func ExecutionerGuess(state *GameState, executionerID, targetID, guess string) *GameState {
	ei, ti := state.indexOf(executionerID), state.indexOf(targetID)
	if ei < 0 || ti < 0 || state.Capo == nil || ei == ti {
		return state
	}
	if state.Players[ei].Role.Key != RoleExecutioner || !state.Players[ei].IsAlive || !state.Players[ti].IsAlive {
		return state
	}
	next := state.Clone()
	if !MatchRole(next.Players[ti].Role, guess) {
		next.logf("The Executioner guessed wrong about %s.", next.Players[ti].Name)
		return next
	}
	next.eliminate(ti)
	return next
}
