package games

import "testing"

func jackTable(t *testing.T) *GameState {
	return buildGame(t, ScenarioJack,
		RoleJackSparrow, // p1
		RoleGodfather,   // p2
		RoleSaulGoodman, // p3
		RoleLeon,        // p4
		RoleCitizen,     // p5
		RoleCitizenKane, // p6
		RoleDrWatson,    // p7
	)
}

func TestCursePlayer_Accumulates(t *testing.T) {
	s := jackTable(t)
	s = CursePlayer(s, "p1", "p5")
	s = CursePlayer(s, "p1", "p7")
	if got := mustPlayer(t, s, "p1").Jack.Cursed; len(got) != 2 || got[0] != "p5" || got[1] != "p7" {
		t.Fatalf("cursed: %v", got)
	}
	if CursePlayer(s, "p1", "p5") != s {
		t.Error("cursing the same player twice should be refused")
	}
	if CursePlayer(s, "p2", "p5") != s {
		t.Error("only jack sparrow curses")
	}
	s = AdvancePhase(AdvancePhase(s))
	if len(mustPlayer(t, s, "p1").Jack.Cursed) != 2 {
		t.Error("curses are never cleared")
	}
}

func TestUseLastActionCard_OncePerGame(t *testing.T) {
	s := jackTable(t)
	s = UseLastActionCard(s, CardIdentityReveal, "p2")
	if !mustPlayer(t, s, "p2").IsRevealed || !s.Jack.LastActionCards.IdentityReveal {
		t.Fatal("identity reveal not applied")
	}
	if UseLastActionCard(s, CardIdentityReveal, "p3") != s {
		t.Error("card reuse should be refused")
	}
	if UseLastActionCard(s, CardFaceSwap, "p3") != s {
		t.Error("face swap needs two targets")
	}
	if UseLastActionCard(s, CardDuel, "nobody") != s {
		t.Error("unknown target should be a no-op")
	}
}

func TestUseLastActionCard_Effects(t *testing.T) {
	s := jackTable(t)

	s = UseLastActionCard(s, CardSilenceOfTheLambs, "p5")
	if !mustPlayer(t, s, "p5").Jack.Silenced || len(s.Jack.LastActionCards.SilencedPlayers) != 1 {
		t.Error("silence not applied")
	}

	s = UseLastActionCard(s, CardHandcuffs, "p7")
	p7 := mustPlayer(t, s, "p7")
	if !p7.IsBlocked || p7.Jack.CanUseAbility || s.Jack.LastActionCards.HandcuffedPlayer != "p7" {
		t.Errorf("handcuffs not applied: %+v", p7)
	}

	s = UseLastActionCard(s, CardFaceSwap, "p4", "p5")
	if mustPlayer(t, s, "p4").Role.Key != RoleCitizen || mustPlayer(t, s, "p5").Role.Key != RoleLeon {
		t.Error("roles not swapped")
	}
	if mustPlayer(t, s, "p4").Jack.HasVest || !mustPlayer(t, s, "p5").Jack.HasVest {
		t.Error("the vest should follow the leon role")
	}

	s = UseLastActionCard(s, CardDuel, "p2")
	if s.Jack.LastActionCards.DuelPlayer != "p2" {
		t.Error("duel target not recorded")
	}
}

func TestUseLastActionCard_BeautifulMind(t *testing.T) {
	miss := UseLastActionCard(jackTable(t), CardBeautifulMind, "p2")
	if !mustPlayer(t, miss, "p2").IsAlive || !miss.Jack.BeautifulMindUsed {
		t.Error("a miss uses the card without eliminating")
	}
	if UseLastActionCard(miss, CardBeautifulMind, "p1") != miss {
		t.Error("card already used")
	}

	hit := UseLastActionCard(jackTable(t), CardBeautifulMind, "p1")
	if mustPlayer(t, hit, "p1").IsAlive || !hit.Jack.RevealedJack {
		t.Error("beautiful mind should remove jack sparrow")
	}
}

func TestUseLastActionCard_FaceSwapMovesCurses(t *testing.T) {
	s := CursePlayer(jackTable(t), "p1", "p5")
	s = UseLastActionCard(s, CardFaceSwap, "p1", "p7")
	jack := mustPlayer(t, s, "p7")
	if jack.Role.Key != RoleJackSparrow || len(jack.Jack.Cursed) != 1 || jack.Jack.Cursed[0] != "p5" {
		t.Errorf("curses should follow jack sparrow: %+v", jack.Jack)
	}
	if got := mustPlayer(t, s, "p1").Jack.Cursed; len(got) != 0 {
		t.Errorf("old seat kept curses: %v", got)
	}
}

func TestUseLastActionCard_BeautifulMindOnDeadPlayerIsRefused(t *testing.T) {
	s := EliminatePlayer(jackTable(t), "p1")
	if UseLastActionCard(s, CardBeautifulMind, "p1") != s {
		t.Error("beautiful mind on an eliminated player should change nothing")
	}
}

func TestMafiaNightAction_OnePerNight(t *testing.T) {
	s := at(jackTable(t), PhaseNight, 1)
	day := at(jackTable(t), PhaseDay, 1)
	if UseMafiaNightAction(day, NightActionShot, "p5", "") != day {
		t.Error("mafia acts only at night")
	}
	s = UseMafiaNightAction(s, NightActionShot, "p5", "")
	if mustPlayer(t, s, "p5").IsAlive {
		t.Fatal("shot should eliminate a citizen")
	}
	if s.Jack.NightAction != NightActionShot || s.Jack.NightActionRound != 1 {
		t.Errorf("night action not tracked: %+v", s.Jack)
	}
	if UseMafiaNightAction(s, NightActionSixthSense, "p7", "Dr. Watson") != s {
		t.Error("second action in the same night should be refused")
	}
	s = AdvancePhase(AdvancePhase(AdvancePhase(AdvancePhase(s))))
	if s.Phase != PhaseNight || s.Round != 2 {
		t.Fatalf("expected night 2, got %s %d", s.Phase, s.Round)
	}
	s = UseMafiaNightAction(s, NightActionSixthSense, "p7", "dr. watson")
	if mustPlayer(t, s, "p7").IsAlive {
		t.Error("correct sixth sense should eliminate")
	}
}

func TestMafiaNightAction_ShotOnJackReveals(t *testing.T) {
	s := at(jackTable(t), PhaseNight, 1)
	s = UseMafiaNightAction(s, NightActionShot, "p1", "")
	jack := mustPlayer(t, s, "p1")
	if !jack.IsAlive || !jack.IsRevealed || !s.Jack.RevealedJack {
		t.Errorf("jack should be revealed and alive: %+v", jack)
	}
}

func TestMafiaNightAction_VestAbsorbs(t *testing.T) {
	s := at(jackTable(t), PhaseNight, 1)
	s = UseMafiaNightAction(s, NightActionShot, "p4", "")
	leon := mustPlayer(t, s, "p4")
	if !leon.IsAlive || leon.Jack.HasVest {
		t.Errorf("vest should absorb the shot: %+v", leon.Jack)
	}
}

func TestMafiaNightAction_FailedRecruitSpendsTheNight(t *testing.T) {
	s := at(jackTable(t), PhaseNight, 1)
	failed := UseMafiaNightAction(s, NightActionRecruit, "p4", "")
	if failed == s {
		t.Fatal("a failed recruit is still an action")
	}
	if mustPlayer(t, failed, "p4").Role.Team != TeamCitizen || failed.Jack.RecruitUsed {
		t.Errorf("leon must not convert and saul keeps his recruit: %+v", failed.Jack)
	}
	if failed.Jack.NightAction != NightActionRecruit || failed.Jack.NightActionRound != 1 {
		t.Errorf("night action not recorded: %+v", failed.Jack)
	}
	if next := UseMafiaNightAction(failed, NightActionShot, "p5", ""); next != failed {
		t.Error("a shot after a failed recruit in the same night should be refused")
	}

	s = AdvancePhase(AdvancePhase(AdvancePhase(AdvancePhase(failed))))
	s = UseMafiaNightAction(s, NightActionRecruit, "p5", "")
	if mustPlayer(t, s, "p5").Role.Team != TeamMafia {
		t.Error("saul may try again on a later night")
	}
}

func TestMafiaNightAction_RecruitOnce(t *testing.T) {
	s := at(jackTable(t), PhaseNight, 1)
	s = UseMafiaNightAction(s, NightActionRecruit, "p5", "")
	p5 := mustPlayer(t, s, "p5")
	if p5.Role.Team != TeamMafia || !p5.Jack.ConvertedToMafia || !s.Jack.RecruitUsed {
		t.Fatalf("recruit not applied: %+v", p5)
	}
	if Recruit(s, "p3", "p6") != s {
		t.Error("saul recruits once per game")
	}
}

func TestCitizenKaneGuess(t *testing.T) {
	s := jackTable(t)
	miss := CitizenKaneGuess(s, "p6", "p5")
	if mustPlayer(t, miss, "p5").IsRevealed || !miss.Jack.KaneUsed {
		t.Error("a wrong guess reveals nothing but uses the ability")
	}
	if CitizenKaneGuess(miss, "p6", "p2") != miss {
		t.Error("kane guesses once")
	}
	hit := CitizenKaneGuess(s, "p6", "p2")
	if !mustPlayer(t, hit, "p2").IsRevealed {
		t.Error("godfather should be revealed")
	}
}
