package games

import "fmt"

// CommandType names a moderator command.
type CommandType string

// Command types.
const (
	CmdAdvancePhase      CommandType = "advance_phase"
	CmdEliminate         CommandType = "eliminate"
	CmdSave              CommandType = "save"
	CmdReveal            CommandType = "reveal"
	CmdBlock             CommandType = "block"
	CmdLog               CommandType = "log"
	CmdDetectiveCheck    CommandType = "detective_check"
	CmdProfessionalShoot CommandType = "professional_shoot"
	CmdPlaceBomb         CommandType = "place_bomb"
	CmdDefuseBomb        CommandType = "defuse_bomb"
	CmdCheckRole         CommandType = "check_role"
	CmdZodiacKill        CommandType = "zodiac_kill"
	CmdOceanAwaken       CommandType = "ocean_awaken"
	CmdChiefLink         CommandType = "chief_link"
	CmdSelectTrustee     CommandType = "select_trustee"
	CmdTrusteeTarget     CommandType = "trustee_target"
	CmdFirstBullet       CommandType = "first_bullet"
	CmdFireTrustee       CommandType = "fire_trustee"
	CmdPoison            CommandType = "poison"
	CmdPoisonVote        CommandType = "poison_vote"
	CmdRecruit           CommandType = "recruit"
	CmdExecutionerGuess  CommandType = "executioner_guess"
	CmdCurse             CommandType = "curse"
	CmdLastActionCard    CommandType = "last_action_card"
	CmdMafiaNightAction  CommandType = "mafia_night_action"
	CmdKaneGuess         CommandType = "kane_guess"
)

// CommandTypes lists every command type.
var CommandTypes = []CommandType{
	CmdAdvancePhase, CmdEliminate, CmdSave, CmdReveal, CmdBlock, CmdLog, CmdDetectiveCheck,
	CmdProfessionalShoot, CmdPlaceBomb, CmdDefuseBomb, CmdCheckRole, CmdZodiacKill, CmdOceanAwaken,
	CmdChiefLink, CmdSelectTrustee, CmdTrusteeTarget, CmdFirstBullet, CmdFireTrustee, CmdPoison,
	CmdPoisonVote, CmdRecruit, CmdExecutionerGuess, CmdCurse, CmdLastActionCard, CmdMafiaNightAction,
	CmdKaneGuess,
}

// Command is one moderator input. Fields not used by the type are ignored.
type Command struct {
	Type        CommandType    `json:"type"`
	ActorID     string         `json:"actor_id,omitempty"`
	TargetIDs   []string       `json:"target_ids,omitempty"`
	Code        int            `json:"code,omitempty"`
	Guess       string         `json:"guess,omitempty"`
	Bullet      Bullet         `json:"bullet,omitempty"`
	Index       int            `json:"index,omitempty"`
	Card        LastActionCard `json:"card,omitempty"`
	NightAction NightAction    `json:"night_action,omitempty"`
	Vote        *bool          `json:"vote,omitempty"`
	Text        string         `json:"text,omitempty"`
}

func (c Command) target() string {
	if len(c.TargetIDs) == 0 {
		return ""
	}
	return c.TargetIDs[0]
}

// Outcome is the result of dispatching a command.
type Outcome struct {
	State *GameState
	// Changed is false when the command was refused.
	Changed bool
	// Result carries answers of query-like commands (detective_check, defuse_bomb).
	Result map[string]interface{}
}

// Dispatch applies cmd to state. Rule refusals are not errors: they yield Changed == false.
// Errors are reserved for malformed commands.
func Dispatch(state *GameState, cmd Command) (Outcome, error) {
	if state == nil {
		return Outcome{}, ErrGameNotFound
	}
	if err := validate(cmd); err != nil {
		return Outcome{State: state}, err
	}

	var next *GameState
	var result map[string]interface{}
	t := cmd.target()
	switch cmd.Type {
	case CmdAdvancePhase:
		next = AdvancePhase(state)
	case CmdEliminate:
		next = EliminatePlayer(state, t)
	case CmdSave:
		next = SavePlayer(state, t)
	case CmdReveal:
		next = RevealPlayerRole(state, t)
	case CmdBlock:
		next = BlockPlayerAbility(state, t)
	case CmdLog:
		next = AddToGameLog(state, cmd.Text)
	case CmdDetectiveCheck:
		next = state
		if negative, ok := DetectiveCheck(state, t); ok {
			result = map[string]interface{}{"target_id": t, "negative": negative}
		}
	case CmdProfessionalShoot:
		next = ProfessionalShoot(state, cmd.ActorID, t)
	case CmdPlaceBomb:
		next = PlaceBomb(state, t, cmd.Code)
	case CmdDefuseBomb:
		var ok bool
		next, ok = AttemptDefuseBomb(state, cmd.Code)
		result = map[string]interface{}{"defused": ok}
	case CmdCheckRole:
		next = CheckPlayerRole(state, t)
	case CmdZodiacKill:
		next = ZodiacKill(state, t)
	case CmdOceanAwaken:
		next = OceanAwaken(state, cmd.ActorID, t)
	case CmdChiefLink:
		next = LinkVillageChief(state, cmd.ActorID, t)
	case CmdSelectTrustee:
		next = SelectTrustee(state, t)
	case CmdTrusteeTarget:
		next = AddTrusteeTarget(state, t)
	case CmdFirstBullet:
		next = ChooseFirstBullet(state, cmd.Bullet)
	case CmdFireTrustee:
		next = FireTrusteeShot(state, cmd.Index)
	case CmdPoison:
		next = Poison(state, cmd.ActorID, t)
	case CmdPoisonVote:
		next = CastPoisonVote(state, cmd.ActorID, *cmd.Vote)
	case CmdRecruit:
		next = Recruit(state, cmd.ActorID, t)
	case CmdExecutionerGuess:
		next = ExecutionerGuess(state, cmd.ActorID, t, cmd.Guess)
	case CmdCurse:
		next = CursePlayer(state, cmd.ActorID, t)
	case CmdLastActionCard:
		next = UseLastActionCard(state, cmd.Card, cmd.TargetIDs...)
	case CmdMafiaNightAction:
		next = UseMafiaNightAction(state, cmd.NightAction, t, cmd.Guess)
	case CmdKaneGuess:
		next = CitizenKaneGuess(state, cmd.ActorID, t)
	}
	return Outcome{State: next, Changed: next != state, Result: result}, nil
}

func validate(cmd Command) error {
	needTarget := func() error {
		if cmd.target() == "" {
			return fmt.Errorf("%w: %s requires target_ids", ErrInvalidCommand, cmd.Type)
		}
		return nil
	}
	needActor := func() error {
		if cmd.ActorID == "" {
			return fmt.Errorf("%w: %s requires actor_id", ErrInvalidCommand, cmd.Type)
		}
		return needTarget()
	}
	switch cmd.Type {
	case CmdAdvancePhase, CmdDefuseBomb, CmdFireTrustee:
		return nil
	case CmdLog:
		if cmd.Text == "" {
			return fmt.Errorf("%w: log requires text", ErrInvalidCommand)
		}
		return nil
	case CmdFirstBullet:
		if cmd.Bullet != BulletReal && cmd.Bullet != BulletBlank {
			return fmt.Errorf("%w: bullet must be %q or %q", ErrInvalidCommand, BulletReal, BulletBlank)
		}
		return nil
	case CmdEliminate, CmdSave, CmdReveal, CmdBlock, CmdDetectiveCheck, CmdPlaceBomb, CmdCheckRole,
		CmdZodiacKill, CmdSelectTrustee, CmdTrusteeTarget:
		return needTarget()
	case CmdProfessionalShoot, CmdOceanAwaken, CmdChiefLink, CmdPoison, CmdRecruit, CmdExecutionerGuess,
		CmdCurse, CmdKaneGuess:
		return needActor()
	case CmdPoisonVote:
		if cmd.ActorID == "" || cmd.Vote == nil {
			return fmt.Errorf("%w: poison_vote requires actor_id and vote", ErrInvalidCommand)
		}
		return nil
	case CmdLastActionCard:
		if _, ok := cardTargets[cmd.Card]; !ok {
			return fmt.Errorf("%w: unknown card %q", ErrInvalidCommand, cmd.Card)
		}
		return needTarget()
	case CmdMafiaNightAction:
		switch cmd.NightAction {
		case NightActionShot, NightActionSixthSense, NightActionRecruit:
			return needTarget()
		}
		return fmt.Errorf("%w: unknown night action %q", ErrInvalidCommand, cmd.NightAction)
	}
	return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}
