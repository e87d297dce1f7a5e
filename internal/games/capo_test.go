package games

import "testing"

func capoTable(t *testing.T) *GameState {
	return buildGame(t, ScenarioCapo,
		RoleVillageChief, // p1
		RoleCitizen,      // p2
		RoleSuspect,      // p3
		RoleWizard,       // p4
		RoleInformant,    // p5
		RoleDonMafia,     // p6
		RoleHerbalist,    // p7
		RoleExecutioner,  // p8
		RoleDetective,    // p9
	)
}

func TestLinkVillageChief_FanOut(t *testing.T) {
	s := capoTable(t)
	s = LinkVillageChief(s, "p1", "p2")
	s = LinkVillageChief(s, "p1", "p3")
	if len(s.Capo.ChiefLinks) != 2 {
		t.Fatalf("links: %v", s.Capo.ChiefLinks)
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		if !mustPlayer(t, s, id).IsAlive {
			t.Fatalf("%s should be alive", id)
		}
	}

	s = LinkVillageChief(s, "p1", "p4")
	for _, id := range []string{"p1", "p2", "p3"} {
		if mustPlayer(t, s, id).IsAlive {
			t.Errorf("%s should be eliminated", id)
		}
	}
	if !mustPlayer(t, s, "p4").IsAlive {
		t.Error("the mafia member is not harmed")
	}
	if len(s.Capo.ChiefLinks) != 0 {
		t.Error("links should be cleared")
	}
	wantOrder := []string{"Player 1 (Village Chief) was eliminated.", "Player 2 (Simple Citizen) was eliminated.", "Player 3 (Suspect) was eliminated."}
	tail := s.GameLog[len(s.GameLog)-3:]
	for i := range wantOrder {
		if tail[i] != wantOrder[i] {
			t.Errorf("log[%d] = %q want %q", i, tail[i], wantOrder[i])
		}
	}
}

func TestLinkVillageChief_InformantAndCap(t *testing.T) {
	s := capoTable(t)
	s = LinkVillageChief(s, "p1", "p5")
	if !mustPlayer(t, s, "p1").IsAlive || len(s.Capo.ChiefLinks) != 1 {
		t.Fatal("informant link should succeed")
	}
	if LinkVillageChief(s, "p1", "p5") != s {
		t.Error("duplicate link should be refused")
	}
	s = LinkVillageChief(s, "p1", "p2")
	if LinkVillageChief(s, "p1", "p9") != s {
		t.Error("third citizen link should be refused")
	}
	if LinkVillageChief(s, "p2", "p9") != s {
		t.Error("only the village chief links")
	}
}

func TestTrustee_BulletComplement(t *testing.T) {
	s := at(capoTable(t), PhaseDay, 1)
	if FireTrusteeShot(s, 0) != s {
		t.Fatal("firing before setup should be refused")
	}
	s = SelectTrustee(s, "p9")
	if AddTrusteeTarget(s, "p9") != s {
		t.Error("trustee cannot target themselves")
	}
	s = AddTrusteeTarget(s, "p2")
	if ChooseFirstBullet(s, BulletReal) != s {
		t.Error("bullet needs both targets first")
	}
	s = AddTrusteeTarget(s, "p6")
	if AddTrusteeTarget(s, "p3") != s {
		t.Error("third target should be refused")
	}
	s = ChooseFirstBullet(s, BulletBlank)

	shot := FireTrusteeShot(s, 1)
	if mustPlayer(t, shot, "p6").IsAlive {
		t.Error("second target should take the real bullet")
	}
	if !mustPlayer(t, shot, "p2").IsAlive {
		t.Error("first target is untouched")
	}
	if FireTrusteeShot(shot, 0) != shot {
		t.Error("trustee fires once")
	}

	blank := FireTrusteeShot(s, 0)
	if !mustPlayer(t, blank, "p2").IsAlive {
		t.Error("blank should not kill")
	}
}

func TestTrustee_OnlyOnFirstDay(t *testing.T) {
	s := at(capoTable(t), PhaseDay, 2)
	if SelectTrustee(s, "p9") != s {
		t.Error("trustee only on day of round 1")
	}
	s = at(capoTable(t), PhaseNight, 1)
	if SelectTrustee(s, "p9") != s {
		t.Error("trustee only by day")
	}
}

func TestTrustee_DeadTargetIsRefused(t *testing.T) {
	s := at(capoTable(t), PhaseDay, 1)
	s = SelectTrustee(s, "p9")
	s = AddTrusteeTarget(s, "p2")
	s = AddTrusteeTarget(s, "p6")
	s = ChooseFirstBullet(s, BulletReal)
	s = EliminatePlayer(s, "p2")
	if FireTrusteeShot(s, 0) != s {
		t.Error("shooting an eliminated target should change nothing")
	}
	if s.Capo.Trustee.Fired {
		t.Error("the shot is still available")
	}
}

func poisonTable(t *testing.T) *GameState {
	// herbalist + target + 5 voters (herbalist included)
	return buildGame(t, ScenarioCapo, RoleHerbalist, RoleCitizen, RoleSuspect, RoleWizard, RoleDetective, RoleHeir)
}

func TestPoisonVote_Majority(t *testing.T) {
	s := Poison(poisonTable(t), "p1", "p2")
	if s.Capo.Poison == nil || s.Capo.Poison.TargetID != "p2" {
		t.Fatal("poison not recorded")
	}
	votes := map[string]bool{"p1": true, "p3": true, "p4": false, "p5": true, "p6": false}
	for _, id := range []string{"p1", "p3", "p4", "p5"} {
		s = CastPoisonVote(s, id, votes[id])
		if s.Capo.Poison == nil {
			t.Fatal("decision finalized before all voted")
		}
	}
	s = CastPoisonVote(s, "p6", votes["p6"])
	if s.Capo.Poison != nil {
		t.Fatal("decision should be final")
	}
	if !mustPlayer(t, s, "p2").IsAlive {
		t.Error("3 of 5 reaches majority; target should survive")
	}
}

func TestPoisonVote_MajorityMissed(t *testing.T) {
	s := Poison(poisonTable(t), "p1", "p2")
	votes := map[string]bool{"p1": true, "p3": true, "p4": false, "p5": false, "p6": false}
	for id, v := range votes {
		s = CastPoisonVote(s, id, v)
	}
	if mustPlayer(t, s, "p2").IsAlive {
		t.Error("2 of 5 misses majority; target should die")
	}
}

func TestPoisonVote_Refusals(t *testing.T) {
	s := Poison(poisonTable(t), "p1", "p2")
	if CastPoisonVote(s, "p2", true) != s {
		t.Error("target cannot vote")
	}
	s = CastPoisonVote(s, "p3", true)
	if CastPoisonVote(s, "p3", false) != s {
		t.Error("double vote should be refused")
	}
	if Poison(s, "p1", "p4") != s {
		t.Error("only one poison at a time")
	}
	base := poisonTable(t)
	if Poison(base, "p3", "p4") != base {
		t.Error("only the herbalist poisons")
	}
}

func TestRecruit_Capo(t *testing.T) {
	s := capoTable(t)
	s = Recruit(s, "p6", "p3")
	p3 := mustPlayer(t, s, "p3")
	if p3.Role.Team != TeamMafia || !p3.Capo.ConvertedToMafia {
		t.Fatalf("suspect should be converted: %+v", p3)
	}
	logLen := len(s.GameLog)
	s = Recruit(s, "p6", "p9")
	if mustPlayer(t, s, "p9").Role.Team != TeamCitizen {
		t.Error("detective cannot be recruited")
	}
	if len(s.GameLog) != logLen+1 {
		t.Error("failed recruit should log")
	}
	if Recruit(s, "p4", "p2") != s {
		t.Error("only the don recruits")
	}
}

func TestExecutionerGuess(t *testing.T) {
	s := capoTable(t)
	miss := ExecutionerGuess(s, "p8", "p9", "Doctor")
	if !mustPlayer(t, miss, "p9").IsAlive {
		t.Error("wrong guess should not kill")
	}
	hit := ExecutionerGuess(s, "p8", "p9", "detective")
	if mustPlayer(t, hit, "p9").IsAlive {
		t.Error("right guess should kill")
	}
	hit = ExecutionerGuess(s, "p8", "p1", "village chief")
	if mustPlayer(t, hit, "p1").IsAlive {
		t.Error("display-name guess should kill")
	}
}

func TestPoisonVote_SettlesWhenLastVoterDies(t *testing.T) {
	s := Poison(poisonTable(t), "p1", "p2")
	for _, id := range []string{"p1", "p3", "p4", "p5"} {
		s = CastPoisonVote(s, id, true)
	}
	if s.Capo.Poison == nil {
		t.Fatal("p6 has not voted yet")
	}
	s = EliminatePlayer(s, "p6")
	if s.Capo.Poison != nil {
		t.Fatal("vote should settle once no living voter is outstanding")
	}
	if !mustPlayer(t, s, "p2").IsAlive {
		t.Error("4 of 4 reaches majority; target should survive")
	}
	if next := Poison(s, "p1", "p3"); next == s || next.Capo.Poison == nil {
		t.Error("a new poison should be possible after the vote settled")
	}
}

func TestPoisonVote_DeathCanDenyAntidote(t *testing.T) {
	s := Poison(poisonTable(t), "p1", "p2")
	s = CastPoisonVote(s, "p1", true)
	s = CastPoisonVote(s, "p3", false)
	s = CastPoisonVote(s, "p4", false)
	s = CastPoisonVote(s, "p5", false)
	s = EliminatePlayer(s, "p6")
	if s.Capo.Poison != nil || mustPlayer(t, s, "p2").IsAlive {
		t.Error("1 of 4 misses majority; target should die")
	}
}

func TestPoisonVote_CancelledWhenTargetDies(t *testing.T) {
	s := Poison(poisonTable(t), "p1", "p2")
	s = CastPoisonVote(s, "p3", true)
	s = EliminatePlayer(s, "p2")
	if s.Capo.Poison != nil {
		t.Fatal("vote should be cancelled with its target gone")
	}
	if lastLog(s) != "The antidote vote for Player 2 was cancelled." {
		t.Errorf("unexpected log %q", lastLog(s))
	}
	if CastPoisonVote(s, "p4", true) != s {
		t.Error("no vote is pending")
	}
}
