package games

import (
	"errors"
	"math/rand"
	"testing"
)

func TestAssignRoles_MatchesDistribution(t *testing.T) {
	ranges := map[Scenario][2]int{
		ScenarioClassic: {6, 15},
		ScenarioCapo:    {12, 13},
		ScenarioZodiac:  {9, 12},
		ScenarioJack:    {9, 12},
	}
	rng := rand.New(rand.NewSource(1))
	for sc, r := range ranges {
		for n := r[0]; n <= r[1]; n++ {
			players, err := AssignRolesWithRand(names(n), sc, rng)
			if err != nil {
				t.Fatalf("%s/%d: %v", sc, n, err)
			}
			if len(players) != n {
				t.Fatalf("%s/%d: got %d players", sc, n, len(players))
			}
			ids := make(map[string]bool)
			got := make(map[RoleKey]int)
			for _, p := range players {
				if ids[p.ID] {
					t.Errorf("%s/%d: duplicate id %s", sc, n, p.ID)
				}
				ids[p.ID] = true
				if !p.IsAlive || p.IsSaved || p.IsRevealed || p.IsBlocked {
					t.Errorf("%s/%d: %s starts with flags set", sc, n, p.Name)
				}
				got[p.Role.Key]++
			}
			total := 0
			for _, rc := range RoleDistribution(sc, n) {
				total += rc.Count
				if got[rc.Key] != rc.Count {
					t.Errorf("%s/%d: role %s got %d want %d", sc, n, rc.Key, got[rc.Key], rc.Count)
				}
			}
			if total != n {
				t.Errorf("%s/%d: distribution sums to %d", sc, n, total)
			}
		}
	}
}

func TestRoleDistribution_Classic(t *testing.T) {
	dist := RoleDistribution(ScenarioClassic, 10)
	want := map[RoleKey]int{RoleDonMafia: 1, RoleMafia: 2, RoleDetective: 1, RoleDoctor: 1, RoleCitizen: 5}
	for _, rc := range dist {
		if want[rc.Key] != rc.Count {
			t.Errorf("%s: got %d want %d", rc.Key, rc.Count, want[rc.Key])
		}
	}
}

func TestRoleDistribution_SmallTablesDropRoles(t *testing.T) {
	count := func(dist []RoleCount, k RoleKey) int {
		for _, rc := range dist {
			if rc.Key == k {
				return rc.Count
			}
		}
		return 0
	}
	cases := []struct {
		sc       Scenario
		n        int
		dropped  []RoleKey
		kept     []RoleKey
		citizens int
	}{
		{ScenarioZodiac, 9, []RoleKey{RoleBomber, RoleIllusionist}, nil, 1},
		{ScenarioZodiac, 10, []RoleKey{RoleBomber}, []RoleKey{RoleIllusionist}, 1},
		{ScenarioZodiac, 12, nil, []RoleKey{RoleBomber, RoleIllusionist}, 2},
		{ScenarioJack, 9, []RoleKey{RoleMatador, RoleConstantine}, nil, 3},
		{ScenarioJack, 10, []RoleKey{RoleMatador}, []RoleKey{RoleConstantine}, 3},
		{ScenarioJack, 12, nil, []RoleKey{RoleMatador, RoleConstantine}, 4},
		{ScenarioCapo, 13, nil, []RoleKey{RoleVillageChief}, 3},
	}
	for _, c := range cases {
		dist := RoleDistribution(c.sc, c.n)
		for _, k := range c.dropped {
			if count(dist, k) != 0 {
				t.Errorf("%s/%d: %s should be dropped", c.sc, c.n, k)
			}
		}
		for _, k := range c.kept {
			if count(dist, k) != 1 {
				t.Errorf("%s/%d: %s should be dealt once", c.sc, c.n, k)
			}
		}
		if got := count(dist, RoleCitizen); got != c.citizens {
			t.Errorf("%s/%d: citizens got %d want %d", c.sc, c.n, got, c.citizens)
		}
	}
}

func TestAssignRoles_Bounds(t *testing.T) {
	if _, err := AssignRoles(names(11), ScenarioCapo); err == nil {
		t.Fatal("expected validation error for 11 capo players")
	} else {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if verr.Error() != "capo scenario requires 12-13 players" {
			t.Errorf("unexpected message %q", verr.Error())
		}
	}
	if _, err := AssignRoles(names(12), ScenarioCapo); err != nil {
		t.Errorf("12 capo players: %v", err)
	}
	for _, c := range []struct {
		sc Scenario
		n  int
	}{{ScenarioClassic, 5}, {ScenarioZodiac, 8}, {ScenarioZodiac, 13}, {ScenarioJack, 13}, {ScenarioCapo, 14}} {
		if _, err := AssignRoles(names(c.n), c.sc); err == nil {
			t.Errorf("%s with %d players: expected error", c.sc, c.n)
		}
	}
	if _, err := AssignRoles(names(30), ScenarioClassic); err != nil {
		t.Errorf("classic has no upper bound: %v", err)
	}
}

func TestAssignRoles_RejectsBlankNames(t *testing.T) {
	in := names(6)
	in[3] = "   "
	_, err := AssignRoles(in, ScenarioClassic)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestAssignRoles_ShuffleIsUniform(t *testing.T) {
	const trials = 6000
	n := 6
	rng := rand.New(rand.NewSource(42))
	hits := make([]int, n)
	for i := 0; i < trials; i++ {
		players, err := AssignRolesWithRand(names(n), ScenarioClassic, rng)
		if err != nil {
			t.Fatal(err)
		}
		for idx, p := range players {
			if p.Role.Key == RoleDonMafia {
				hits[idx]++
			}
		}
	}
	want := trials / n
	for idx, h := range hits {
		if h < want*85/100 || h > want*115/100 {
			t.Errorf("seat %d held the Don Mafia %d times, want about %d", idx, h, want)
		}
	}
}
