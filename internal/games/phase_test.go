package games

import "testing"

func TestAdvancePhase_Cycle(t *testing.T) {
	s := buildGame(t, ScenarioClassic, RoleDonMafia, RoleMafia, RoleDetective, RoleDoctor, RoleCitizen, RoleCitizen)

	s = AdvancePhase(s)
	if s.Phase != PhaseNight || s.Round != 1 {
		t.Fatalf("after setup: got %s round %d", s.Phase, s.Round)
	}
	if got := lastLog(s); got != "Phase changed to night (Round 1)" {
		t.Errorf("log: %q", got)
	}

	want := []Phase{PhaseDay, PhaseVoting, PhaseResults}
	for _, p := range want {
		s = AdvancePhase(s)
		if s.Phase != p || s.Round != 1 {
			t.Fatalf("expected %s round 1, got %s round %d", p, s.Phase, s.Round)
		}
		if got := lastLog(s); got != "Phase changed to "+string(p) {
			t.Errorf("log: %q", got)
		}
	}

	s = AdvancePhase(s)
	if s.Phase != PhaseNight || s.Round != 2 {
		t.Fatalf("after wrap: got %s round %d", s.Phase, s.Round)
	}
	if got := lastLog(s); got != "Phase changed to night (Round 2)" {
		t.Errorf("log: %q", got)
	}
}

func TestAdvancePhase_FiveStepsReturnToNight(t *testing.T) {
	s := at(buildGame(t, ScenarioClassic, RoleDonMafia, RoleCitizen), PhaseNight, 3)
	for i := 0; i < 4; i++ {
		s = AdvancePhase(s)
	}
	if s.Phase != PhaseNight || s.Round != 4 {
		t.Errorf("got %s round %d, want night round 4", s.Phase, s.Round)
	}
}

func TestAdvancePhase_DoesNotMutateInput(t *testing.T) {
	s := buildGame(t, ScenarioClassic, RoleDonMafia, RoleCitizen)
	logLen := len(s.GameLog)
	next := AdvancePhase(s)
	if s.Phase != PhaseSetup || s.Round != 0 || len(s.GameLog) != logLen {
		t.Error("input state was mutated")
	}
	if next == s {
		t.Error("expected a new state")
	}
}

func TestAdvancePhase_ClearsNightFlags(t *testing.T) {
	s := at(buildGame(t, ScenarioClassic, RoleDonMafia, RoleDoctor, RoleCitizen), PhaseDay, 1)
	s = SavePlayer(s, "p3")
	s = BlockPlayerAbility(s, "p2")

	s = AdvancePhase(s) // voting
	if !mustPlayer(t, s, "p3").IsSaved || !mustPlayer(t, s, "p2").IsBlocked {
		t.Fatal("flags should survive until the next night")
	}
	s = AdvancePhase(AdvancePhase(s)) // results, night
	if mustPlayer(t, s, "p3").IsSaved || mustPlayer(t, s, "p2").IsBlocked {
		t.Error("flags should be cleared on entering night")
	}
}

func TestAdvancePhase_AppliesPendingEffectOnce(t *testing.T) {
	s := at(buildGame(t, ScenarioZodiac, RoleOcean, RoleAlCapone, RoleCitizen), PhaseNight, 1)
	s.PendingEffects = []PendingEffect{{Kind: EffectEliminate, PlayerID: "p1", DuePhase: PhaseDay, DueRound: 1}}

	day := AdvancePhase(s)
	if mustPlayer(t, day, "p1").IsAlive {
		t.Fatal("pending elimination not applied")
	}
	if len(day.PendingEffects) != 0 {
		t.Errorf("effect should be removed, got %v", day.PendingEffects)
	}
	if len(s.PendingEffects) != 1 || !mustPlayer(t, s, "p1").IsAlive {
		t.Error("input state was mutated")
	}

	// retrying the transition from the same snapshot yields the same result
	again := AdvancePhase(s)
	if len(again.GameLog) != len(day.GameLog) {
		t.Errorf("retry produced different log: %d vs %d", len(again.GameLog), len(day.GameLog))
	}
}

func TestAdvancePhase_KeepsEffectsNotYetDue(t *testing.T) {
	s := at(buildGame(t, ScenarioZodiac, RoleOcean, RoleCitizen), PhaseResults, 1)
	s.PendingEffects = []PendingEffect{{Kind: EffectEliminate, PlayerID: "p1", DuePhase: PhaseDay, DueRound: 2}}
	s = AdvancePhase(s) // night 2
	if len(s.PendingEffects) != 1 || !mustPlayer(t, s, "p1").IsAlive {
		t.Fatal("effect applied too early")
	}
	s = AdvancePhase(s) // day 2
	if mustPlayer(t, s, "p1").IsAlive {
		t.Error("effect not applied on day 2")
	}
}

func TestAdvancePhase_SkipsEffectForDeadPlayer(t *testing.T) {
	s := at(buildGame(t, ScenarioZodiac, RoleOcean, RoleAlCapone, RoleCitizen), PhaseNight, 1)
	s = OceanAwaken(s, "p1", "p2")
	s = EliminatePlayer(s, "p1")

	day := AdvancePhase(s)
	if len(day.PendingEffects) != 0 {
		t.Errorf("effect should be dropped, got %v", day.PendingEffects)
	}
	for _, entry := range day.GameLog[len(s.GameLog):] {
		if entry != "Phase changed to day" {
			t.Errorf("unexpected log entry %q", entry)
		}
	}
}
