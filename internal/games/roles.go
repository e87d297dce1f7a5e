package games

import (
	"fmt"
	"strings"
)

// Scenario selects the rule set and role catalog for a game.
type Scenario string

const (
	ScenarioClassic Scenario = "classic"
	ScenarioCapo    Scenario = "capo"
	ScenarioZodiac  Scenario = "zodiac"
	ScenarioJack    Scenario = "jack"
)

// Scenarios lists every supported scenario.
var Scenarios = []Scenario{ScenarioClassic, ScenarioCapo, ScenarioZodiac, ScenarioJack}

// ParseScenario converts user input ("Capo", " zodiac ") into a Scenario.
func ParseScenario(s string) (Scenario, error) {
	sc := Scenario(strings.ToLower(strings.TrimSpace(s)))
	if !sc.Valid() {
		return "", fmt.Errorf("unknown scenario %q", s)
	}
	return sc, nil
}

// Valid reports whether s is one of the four scenarios.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioClassic, ScenarioCapo, ScenarioZodiac, ScenarioJack:
		return true
	}
	return false
}

// Team is a role's faction.
type Team string

const (
	TeamMafia       Team = "mafia"
	TeamCitizen     Team = "citizen"
	TeamIndependent Team = "independent"
)

// RoleKey identifies a role within a scenario catalog.
type RoleKey string

const (
	// shared
	RoleDonMafia  RoleKey = "don_mafia"
	RoleMafia     RoleKey = "mafia"
	RoleDetective RoleKey = "detective"
	RoleDoctor    RoleKey = "doctor"
	RoleCitizen   RoleKey = "citizen"

	// capo
	RoleWizard       RoleKey = "wizard"
	RoleExecutioner  RoleKey = "executioner"
	RoleInformant    RoleKey = "informant"
	RoleSuspect      RoleKey = "suspect"
	RoleBlacksmith   RoleKey = "blacksmith"
	RoleHerbalist    RoleKey = "herbalist"
	RoleHeir         RoleKey = "heir"
	RoleVillageChief RoleKey = "village_chief"

	// zodiac
	RoleAlCapone     RoleKey = "al_capone"
	RoleIllusionist  RoleKey = "illusionist"
	RoleBomber       RoleKey = "bomber"
	RoleZodiac       RoleKey = "zodiac"
	RoleProtector    RoleKey = "protector"
	RoleOcean        RoleKey = "ocean"
	RoleGunsmith     RoleKey = "gunsmith"
	RoleProfessional RoleKey = "professional"

	// jack
	RoleGodfather   RoleKey = "godfather"
	RoleSaulGoodman RoleKey = "saul_goodman"
	RoleMatador     RoleKey = "matador"
	RoleJackSparrow RoleKey = "jack_sparrow"
	RoleDrWatson    RoleKey = "dr_watson"
	RoleLeon        RoleKey = "leon"
	RoleCitizenKane RoleKey = "citizen_kane"
	RoleConstantine RoleKey = "constantine"
)

// Role is the catalog entry copied onto a player at assignment.
type Role struct {
	Key         RoleKey `json:"key"`
	Name        string  `json:"name"`
	Team        Team    `json:"team"`
	Description string  `json:"description"`
	Ability     string  `json:"ability,omitempty"`
}

// Capability flags attach rule behavior to a role key.
type Capability uint16

const (
	// CapDetectiveNegative: the faction boss always reads innocent.
	CapDetectiveNegative Capability = 1 << iota
	// CapRecruitable: may be converted to the Mafia.
	CapRecruitable
	// CapChiefImmune: linking with this mafia role does not trigger the Village Chief.
	CapChiefImmune
	// CapSerialKiller: independent killer, treated as hostile by the Ocean.
	CapSerialKiller
	// CapZodiacShield: a Zodiac shot at this role kills the Zodiac instead.
	CapZodiacShield
	// CapNightImmune: night shots reveal instead of eliminate.
	CapNightImmune
	// CapStartsWithVest: granted one vest at game creation.
	CapStartsWithVest
	// CapShooter: day shooter punished for hitting a non-mafia player.
	CapShooter
	// CapCurser: keeps a cumulative curse list.
	CapCurser
)

type roleDef struct {
	role Role
	caps Capability
	// minPlayers drops the role (replaced by a citizen) below this headcount.
	minPlayers int
}

var catalogs = map[Scenario][]roleDef{
	ScenarioClassic: {
		{role: Role{Key: RoleDonMafia, Name: "Don Mafia", Team: TeamMafia,
			Description: "Leader of the Mafia.", Ability: "Chooses the Mafia's target each night."},
			caps: CapDetectiveNegative},
		{role: Role{Key: RoleMafia, Name: "Mafia", Team: TeamMafia,
			Description: "Member of the Mafia team.", Ability: "Votes with the Mafia on the night target."}},
		{role: Role{Key: RoleDetective, Name: "Detective", Team: TeamCitizen,
			Description: "Investigates one player each night.", Ability: "Night inquiry."}},
		{role: Role{Key: RoleDoctor, Name: "Doctor", Team: TeamCitizen,
			Description: "Saves one player each night.", Ability: "Protection."}},
		{role: Role{Key: RoleCitizen, Name: "Simple Citizen", Team: TeamCitizen,
			Description: "Regular citizen."},
			caps: CapRecruitable},
	},
	ScenarioCapo: {
		{role: Role{Key: RoleDonMafia, Name: "Don Mafia", Team: TeamMafia,
			Description: "Leader of the Mafia. Always reads negative to the Detective.",
			Ability:     "Holds an antidote and may recruit a Simple Citizen or Suspect."},
			caps: CapDetectiveNegative},
		{role: Role{Key: RoleWizard, Name: "Wizard", Team: TeamMafia,
			Description: "Each night turns a citizen's ability back on themselves.",
			Ability:     "Redirects a citizen's ability to its owner."}},
		{role: Role{Key: RoleExecutioner, Name: "Executioner", Team: TeamMafia,
			Description: "Removes a player by naming their role correctly.",
			Ability:     "Role-guess elimination in place of the Mafia shot."}},
		{role: Role{Key: RoleInformant, Name: "Informant", Team: TeamMafia,
			Description: "Mafia spy. Appears as a citizen to the Village Chief.",
			Ability:     "Does not trigger the Village Chief link."},
			caps: CapChiefImmune},
		{role: Role{Key: RoleDetective, Name: "Detective", Team: TeamCitizen,
			Description: "Investigates one player's team each night.",
			Ability:     "Night inquiry; the Don Mafia reads negative."}},
		{role: Role{Key: RoleSuspect, Name: "Suspect", Team: TeamCitizen,
			Description: "Simple citizen under suspicion.",
			Ability:     "May be recruited by the Don Mafia."},
			caps: CapRecruitable},
		{role: Role{Key: RoleBlacksmith, Name: "Blacksmith", Team: TeamCitizen,
			Description: "Saves one player each night.",
			Ability:     "May save themselves once per game."}},
		{role: Role{Key: RoleHerbalist, Name: "Herbalist", Team: TeamCitizen,
			Description: "Holds a poison and an antidote.",
			Ability:     "Poisons a player; the town votes on the antidote."}},
		{role: Role{Key: RoleHeir, Name: "Heir", Team: TeamCitizen,
			Description: "Immortal at first; woken first on the introduction night.",
			Ability:     "Inherits the Detective, Blacksmith or Herbalist ability when its owner dies."}},
		{role: Role{Key: RoleVillageChief, Name: "Village Chief", Team: TeamCitizen,
			Description: "Secretly links with up to two citizens.",
			Ability:     "Linking a Mafia member other than the Informant eliminates the Chief and the links."}},
		{role: Role{Key: RoleCitizen, Name: "Simple Citizen", Team: TeamCitizen,
			Description: "Regular citizen with no special ability.",
			Ability:     "May be recruited by the Don Mafia."},
			caps: CapRecruitable},
	},
	ScenarioZodiac: {
		{role: Role{Key: RoleAlCapone, Name: "Al Capone", Team: TeamMafia,
			Description: "Mafia leader. Reads negative to the Detective.",
			Ability:     "Leaves the game if shot by the Professional."},
			caps: CapDetectiveNegative},
		{role: Role{Key: RoleIllusionist, Name: "Illusionist", Team: TeamMafia,
			Description: "Blocks another player's ability for a day.",
			Ability:     "Cannot block the same player two nights in a row."},
			minPlayers: 10},
		{role: Role{Key: RoleBomber, Name: "Bomber", Team: TeamMafia,
			Description: "Places one bomb per game on any player.",
			Ability:     "Chooses the defuse code, 1 to 4."},
			minPlayers: 11},
		{role: Role{Key: RoleZodiac, Name: "Zodiac", Team: TeamIndependent,
			Description: "Serial killer playing alone.",
			Ability:     "Shoots on even nights. Dies if the target is the Protector."},
			caps: CapSerialKiller},
		{role: Role{Key: RoleProtector, Name: "Protector", Team: TeamCitizen,
			Description: "Guards the town against the Zodiac.",
			Ability:     "If shot by the Zodiac, the Zodiac dies."},
			caps: CapZodiacShield},
		{role: Role{Key: RoleOcean, Name: "Ocean", Team: TeamCitizen,
			Description: "Wakes up to two citizens over two nights.",
			Ability:     "Dies the next day after waking a Mafia member or the Zodiac."}},
		{role: Role{Key: RoleGunsmith, Name: "Gunsmith", Team: TeamCitizen,
			Description: "Hands out one or two guns each night.",
			Ability:     "Each gun may be real or fake."}},
		{role: Role{Key: RoleProfessional, Name: "Professional", Team: TeamCitizen,
			Description: "Sharpshooter hunting the Mafia.",
			Ability:     "Dies when shooting a citizen. Has one vest."},
			caps: CapShooter | CapStartsWithVest},
		{role: Role{Key: RoleDetective, Name: "Detective", Team: TeamCitizen,
			Description: "Checks one player each night.",
			Ability:     "Al Capone reads negative."}},
		{role: Role{Key: RoleDoctor, Name: "Doctor", Team: TeamCitizen,
			Description: "Saves players at night.",
			Ability:     "Two saves in the first three nights, then one per night."}},
		{role: Role{Key: RoleCitizen, Name: "Citizen", Team: TeamCitizen,
			Description: "Regular citizen with no night role.",
			Ability:     "Takes part in day discussion and voting."},
			caps: CapRecruitable},
	},
	ScenarioJack: {
		{role: Role{Key: RoleGodfather, Name: "Godfather", Team: TeamMafia,
			Description: "Leader of the Mafia. Survives Leon's first shot.",
			Ability:     "Picks the night target and holds the Sixth Sense."},
			caps: CapDetectiveNegative | CapStartsWithVest},
		{role: Role{Key: RoleSaulGoodman, Name: "Saul Goodman", Team: TeamMafia,
			Description: "Once per game converts a Simple Citizen into the Mafia.",
			Ability:     "Active once another Mafia member is eliminated."}},
		{role: Role{Key: RoleMatador, Name: "Matador", Team: TeamMafia,
			Description: "Wakes with the Mafia and blocks a player's night action.",
			Ability:     "The blocked player is shown a red X."},
			minPlayers: 11},
		{role: Role{Key: RoleJackSparrow, Name: "Jack Sparrow", Team: TeamIndependent,
			Description: "Plays alone. Cannot be removed by night shots or voting.",
			Ability:     "Curses a player each night; only the Beautiful Mind card removes him."},
			caps: CapSerialKiller | CapNightImmune | CapCurser},
		{role: Role{Key: RoleDrWatson, Name: "Dr. Watson", Team: TeamCitizen,
			Description: "Saves one player per night.",
			Ability:     "May save himself once per game."}},
		{role: Role{Key: RoleLeon, Name: "Leon", Team: TeamCitizen,
			Description: "Professional shooter hunting the Mafia.",
			Ability:     "Dies when shooting a citizen. Has one vest."},
			caps: CapShooter | CapStartsWithVest},
		{role: Role{Key: RoleCitizenKane, Name: "Citizen Kane", Team: TeamCitizen,
			Description: "Once per game exposes a Mafia member on a correct guess.",
			Ability:     "The moderator reveals the Mafia member next morning."}},
		{role: Role{Key: RoleConstantine, Name: "Constantine", Team: TeamCitizen,
			Description: "Once per game brings back an eliminated player.",
			Ability:     "The returned player loses all abilities."},
			minPlayers: 10},
		{role: Role{Key: RoleCitizen, Name: "Simple Citizen", Team: TeamCitizen,
			Description: "No night action.",
			Ability:     "Helps the town by observing and voting."},
			caps: CapRecruitable},
	},
}

// Catalog returns the roles of a scenario in catalog order.
func Catalog(s Scenario) []Role {
	defs := catalogs[s]
	out := make([]Role, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.role)
	}
	return out
}

// LookupRole finds a role by key in the scenario catalog.
func LookupRole(s Scenario, key RoleKey) (Role, bool) {
	for _, d := range catalogs[s] {
		if d.role.Key == key {
			return d.role, true
		}
	}
	return Role{}, false
}

// HasCapability reports whether the role key carries c in scenario s.
func HasCapability(s Scenario, key RoleKey, c Capability) bool {
	for _, d := range catalogs[s] {
		if d.role.Key == key {
			return d.caps&c != 0
		}
	}
	return false
}

// MatchRole reports whether guess names the role, by key or display name, ignoring case.
func MatchRole(r Role, guess string) bool {
	g := strings.TrimSpace(guess)
	if g == "" {
		return false
	}
	return strings.EqualFold(g, string(r.Key)) || strings.EqualFold(g, r.Name)
}
