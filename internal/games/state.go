package games

import "fmt"

// Phase is one segment of the round cycle.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseNight   Phase = "night"
	PhaseDay     Phase = "day"
	PhaseVoting  Phase = "voting"
	PhaseResults Phase = "results"
)

// Player is a seat in the game. Scenario mechanics live in the extension record matching the game's scenario.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	IsAlive    bool   `json:"is_alive"`
	IsSaved    bool   `json:"is_saved"`
	IsRevealed bool   `json:"is_revealed"`
	IsBlocked  bool   `json:"is_blocked"`

	Zodiac *ZodiacPlayer `json:"zodiac,omitempty"`
	Capo   *CapoPlayer   `json:"capo,omitempty"`
	Jack   *JackPlayer   `json:"jack,omitempty"`
}

type ZodiacPlayer struct {
	HasVest  bool `json:"has_vest"`
	HasBomb  bool `json:"has_bomb"`
	BombCode int  `json:"bomb_code"`
}

type CapoPlayer struct {
	ConvertedToMafia bool `json:"converted_to_mafia"`
}

type JackPlayer struct {
	HasVest bool `json:"has_vest"`
	// Cursed is only non-nil for Jack Sparrow.
	Cursed           []string `json:"cursed"`
	CanUseAbility    bool     `json:"can_use_ability"`
	ConvertedToMafia bool     `json:"converted_to_mafia"`
	Silenced         bool     `json:"silenced"`
}

// ZodiacScenario is game-wide Zodiac state.
type ZodiacScenario struct {
	RoleInquiriesLeft int    `json:"role_inquiries_left"`
	BombActive        bool   `json:"bomb_active"`
	BombTarget        string `json:"bomb_target"`
	BombCode          int    `json:"bomb_code"`
	OceanAwakenings   int    `json:"ocean_awakenings"`
}

// Bullet is the load of a trustee shot.
type Bullet string

const (
	BulletReal  Bullet = "real"
	BulletBlank Bullet = "blank"
)

// Complement returns the other bullet type.
func (b Bullet) Complement() Bullet {
	if b == BulletReal {
		return BulletBlank
	}
	return BulletReal
}

type Trustee struct {
	TrusteeID   string   `json:"trustee_id"`
	Targets     []string `json:"targets"`
	FirstBullet Bullet   `json:"first_bullet"`
	Fired       bool     `json:"fired"`
}

// PoisonVote tracks the antidote vote on the poisoned player.
type PoisonVote struct {
	TargetID string          `json:"target_id"`
	Votes    map[string]bool `json:"votes"`
}

// CapoScenario is game-wide Capo state.
type CapoScenario struct {
	ChiefLinks []string    `json:"chief_links"`
	Trustee    Trustee     `json:"trustee"`
	Poison     *PoisonVote `json:"poison,omitempty"`
}

// NightAction is the single Mafia night action in the Jack scenario.
type NightAction string

const (
	NightActionShot       NightAction = "shot"
	NightActionSixthSense NightAction = "sixth_sense"
	NightActionRecruit    NightAction = "recruit"
)

// LastActionCard is a one-shot card of the Jack scenario.
type LastActionCard string

const (
	CardSilenceOfTheLambs LastActionCard = "silence_of_the_lambs"
	CardIdentityReveal    LastActionCard = "identity_reveal"
	CardBeautifulMind     LastActionCard = "beautiful_mind"
	CardHandcuffs         LastActionCard = "handcuffs"
	CardFaceSwap          LastActionCard = "face_swap"
	CardDuel              LastActionCard = "duel"
)

type LastActionCards struct {
	SilenceOfTheLambs bool     `json:"silence_of_the_lambs"`
	SilencedPlayers   []string `json:"silenced_players"`
	IdentityReveal    bool     `json:"identity_reveal"`
	BeautifulMind     bool     `json:"beautiful_mind"`
	Handcuffs         bool     `json:"handcuffs"`
	HandcuffedPlayer  string   `json:"handcuffed_player"`
	FaceSwap          bool     `json:"face_swap"`
	Duel              bool     `json:"duel"`
	DuelPlayer        string   `json:"duel_player"`
}

// used reports whether the card was already played.
func (c *LastActionCards) used(card LastActionCard) bool {
	switch card {
	case CardSilenceOfTheLambs:
		return c.SilenceOfTheLambs
	case CardIdentityReveal:
		return c.IdentityReveal
	case CardBeautifulMind:
		return c.BeautifulMind
	case CardHandcuffs:
		return c.Handcuffs
	case CardFaceSwap:
		return c.FaceSwap
	case CardDuel:
		return c.Duel
	}
	return true
}

func (c *LastActionCards) markUsed(card LastActionCard) {
	switch card {
	case CardSilenceOfTheLambs:
		c.SilenceOfTheLambs = true
	case CardIdentityReveal:
		c.IdentityReveal = true
	case CardBeautifulMind:
		c.BeautifulMind = true
	case CardHandcuffs:
		c.Handcuffs = true
	case CardFaceSwap:
		c.FaceSwap = true
	case CardDuel:
		c.Duel = true
	}
}

// JackScenario is game-wide Jack state.
type JackScenario struct {
	NightAction       NightAction     `json:"night_action"`
	NightActionRound  int             `json:"night_action_round"`
	RevealedJack      bool            `json:"revealed_jack"`
	BeautifulMindUsed bool            `json:"beautiful_mind_used"`
	RecruitUsed       bool            `json:"recruit_used"`
	KaneUsed          bool            `json:"kane_used"`
	LastActionCards   LastActionCards `json:"last_action_cards"`
}

// EffectKind names a scheduled effect.
type EffectKind string

const EffectEliminate EffectKind = "eliminate"

// PendingEffect is applied by AdvancePhase when the game reaches DuePhase of DueRound or later.
type PendingEffect struct {
	Kind     EffectKind `json:"kind"`
	PlayerID string     `json:"player_id"`
	DuePhase Phase      `json:"due_phase"`
	DueRound int        `json:"due_round"`
	Reason   string     `json:"reason,omitempty"`
}

// GameState is the full engine state, serialized to JSON for snapshots.
type GameState struct {
	Scenario       Scenario        `json:"scenario"`
	Players        []Player        `json:"players"`
	Phase          Phase           `json:"phase"`
	Round          int             `json:"round"`
	GameLog        []string        `json:"game_log"`
	PendingEffects []PendingEffect `json:"pending_effects"`

	Zodiac *ZodiacScenario `json:"zodiac_scenario,omitempty"`
	Capo   *CapoScenario   `json:"capo_scenario,omitempty"`
	Jack   *JackScenario   `json:"jack_scenario,omitempty"`

	// Version is set by the store on each snapshot write.
	Version int `json:"version"`
}

// Clone returns a deep copy; operations mutate the copy and return it.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	if s.Players != nil {
		out.Players = make([]Player, len(s.Players))
		for i, p := range s.Players {
			out.Players[i] = p.clone()
		}
	}
	out.GameLog = cloneStrings(s.GameLog)
	if s.PendingEffects != nil {
		out.PendingEffects = make([]PendingEffect, len(s.PendingEffects))
		copy(out.PendingEffects, s.PendingEffects)
	}
	if s.Zodiac != nil {
		z := *s.Zodiac
		out.Zodiac = &z
	}
	if s.Capo != nil {
		c := *s.Capo
		c.ChiefLinks = cloneStrings(s.Capo.ChiefLinks)
		c.Trustee.Targets = cloneStrings(s.Capo.Trustee.Targets)
		if s.Capo.Poison != nil {
			pv := PoisonVote{TargetID: s.Capo.Poison.TargetID}
			if s.Capo.Poison.Votes != nil {
				pv.Votes = make(map[string]bool, len(s.Capo.Poison.Votes))
				for k, v := range s.Capo.Poison.Votes {
					pv.Votes[k] = v
				}
			}
			c.Poison = &pv
		}
		out.Capo = &c
	}
	if s.Jack != nil {
		j := *s.Jack
		j.LastActionCards.SilencedPlayers = cloneStrings(s.Jack.LastActionCards.SilencedPlayers)
		out.Jack = &j
	}
	return &out
}

func (p Player) clone() Player {
	out := p
	if p.Zodiac != nil {
		z := *p.Zodiac
		out.Zodiac = &z
	}
	if p.Capo != nil {
		c := *p.Capo
		out.Capo = &c
	}
	if p.Jack != nil {
		j := *p.Jack
		j.Cursed = cloneStrings(p.Jack.Cursed)
		out.Jack = &j
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Player returns a copy of the player with the given id.
func (s *GameState) Player(id string) (Player, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Players[i], true
	}
	return Player{}, false
}

// AlivePlayers returns copies of the living players in seat order.
func (s *GameState) AlivePlayers() []Player {
	out := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out
}

func (s *GameState) indexOf(id string) int {
	if s == nil || id == "" {
		return -1
	}
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// indexOfRole returns the first seat holding the role key, or -1.
func (s *GameState) indexOfRole(key RoleKey) int {
	for i := range s.Players {
		if s.Players[i].Role.Key == key {
			return i
		}
	}
	return -1
}

func (s *GameState) has(i int, c Capability) bool {
	return HasCapability(s.Scenario, s.Players[i].Role.Key, c)
}

func (s *GameState) logf(format string, args ...any) {
	s.GameLog = append(s.GameLog, fmt.Sprintf(format, args...))
}

// eliminate marks seat i dead and logs it. Returns false if already dead.
// A pending antidote vote is cancelled when its target dies, and settled when
// the death leaves no living voter outstanding.
func (s *GameState) eliminate(i int) bool {
	p := &s.Players[i]
	if !p.IsAlive {
		return false
	}
	p.IsAlive = false
	s.logf("%s (%s) was eliminated.", p.Name, p.Role.Name)
	if s.Capo != nil && s.Capo.Poison != nil {
		if s.Capo.Poison.TargetID == p.ID {
			s.Capo.Poison = nil
			s.logf("The antidote vote for %s was cancelled.", p.Name)
		} else {
			s.finalizePoison()
		}
	}
	return true
}

func (s *GameState) reveal(i int) bool {
	p := &s.Players[i]
	if p.IsRevealed {
		return false
	}
	p.IsRevealed = true
	s.logf("%s's role (%s) was revealed.", p.Name, p.Role.Name)
	return true
}

func (s *GameState) hasVest(i int) bool {
	p := s.Players[i]
	switch {
	case p.Zodiac != nil:
		return p.Zodiac.HasVest
	case p.Jack != nil:
		return p.Jack.HasVest
	}
	return false
}

func (s *GameState) setVest(i int, v bool) {
	p := &s.Players[i]
	switch {
	case p.Zodiac != nil:
		p.Zodiac.HasVest = v
	case p.Jack != nil:
		p.Jack.HasVest = v
	}
}
