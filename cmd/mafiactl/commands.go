package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/store/slot"
)

func (a *app) newCmd() *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "new NAME...",
		Short: "Deal roles and start a new game, replacing the current one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := games.ParseScenario(scenario)
			if err != nil {
				return err
			}
			if err := a.open(cmd); err != nil {
				return err
			}
			state, err := a.engine.NewGameWithID(cmd.Context(), slot.Key, args, sc)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "New %s game with %d players.\n", sc, len(state.Players))
			return printRoster(a.out, state)
		},
	}
	cmd.Flags().StringVarP(&scenario, "scenario", "s", string(games.ScenarioClassic), "classic, capo, zodiac or jack")
	return cmd
}

func (a *app) advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Move to the next phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.apply(cmd, games.Command{Type: games.CmdAdvancePhase}, nil)
		},
	}
}

// commandFlags are the raw `do` flags; player references are resolved against the game.
type commandFlags struct {
	actor       string
	targets     []string
	code        int
	guess       string
	bullet      string
	index       int
	card        string
	nightAction string
	vote        string
	text        string
}

func (a *app) doCmd() *cobra.Command {
	var f commandFlags
	names := make([]string, len(games.CommandTypes))
	for i, t := range games.CommandTypes {
		names[i] = string(t)
	}
	cmd := &cobra.Command{
		Use:       "do COMMAND-TYPE",
		Short:     "Apply a moderator command",
		Long:      "Apply a moderator command. Players may be named by id or by name.\n\nCommand types: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.current(cmd)
			if err != nil {
				return err
			}
			c, err := buildCommand(state, args[0], f)
			if err != nil {
				return err
			}
			return a.apply(cmd, c, state)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.actor, "actor", "a", "", "acting player")
	fl.StringSliceVarP(&f.targets, "target", "t", nil, "target player (repeat or comma-separate for two)")
	fl.IntVar(&f.code, "code", 0, "bomb code")
	fl.StringVar(&f.guess, "guess", "", "role guess")
	fl.StringVar(&f.bullet, "bullet", "", "first trustee bullet: real or blank")
	fl.IntVar(&f.index, "index", 0, "trustee target index (0 or 1)")
	fl.StringVar(&f.card, "card", "", "last action card")
	fl.StringVar(&f.nightAction, "night-action", "", "mafia night action: shot, sixth_sense or recruit")
	fl.StringVar(&f.vote, "vote", "", "antidote vote: yes or no")
	fl.StringVar(&f.text, "text", "", "log entry text")
	return cmd
}

// buildCommand turns `do` arguments into a games.Command.
func buildCommand(state *games.GameState, typ string, f commandFlags) (games.Command, error) {
	ct := games.CommandType(strings.ToLower(strings.TrimSpace(typ)))
	known := false
	for _, t := range games.CommandTypes {
		if t == ct {
			known = true
			break
		}
	}
	if !known {
		return games.Command{}, fmt.Errorf("%w: %q", games.ErrUnknownCommand, typ)
	}

	c := games.Command{
		Type:        ct,
		Code:        f.code,
		Guess:       f.guess,
		Bullet:      games.Bullet(strings.ToLower(f.bullet)),
		Index:       f.index,
		Card:        games.LastActionCard(strings.ToLower(f.card)),
		NightAction: games.NightAction(strings.ToLower(f.nightAction)),
		Text:        f.text,
	}
	if f.actor != "" {
		id, err := resolvePlayer(state, f.actor)
		if err != nil {
			return games.Command{}, err
		}
		c.ActorID = id
	}
	for _, ref := range f.targets {
		id, err := resolvePlayer(state, ref)
		if err != nil {
			return games.Command{}, err
		}
		c.TargetIDs = append(c.TargetIDs, id)
	}
	if f.vote != "" {
		v, err := parseVote(f.vote)
		if err != nil {
			return games.Command{}, err
		}
		c.Vote = &v
	}
	return c, nil
}

func parseVote(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("vote must be yes or no, got %q", s)
	}
	return v, nil
}

// apply runs c and reports new log lines, query results and phase changes.
// prev is the state the caller already loaded, if any.
func (a *app) apply(cmd *cobra.Command, c games.Command, prev *games.GameState) error {
	if prev == nil {
		var err error
		if prev, err = a.current(cmd); err != nil {
			return err
		}
	}
	res := a.engine.Apply(cmd.Context(), slot.Key, c)
	if res.Error != nil {
		return res.Error
	}
	if !res.Changed && res.Result == nil {
		fmt.Fprintln(a.out, "Refused: the game is unchanged.")
		return nil
	}
	printResult(a.out, res.Result)
	if res.Changed {
		for _, line := range res.State.GameLog[min(len(prev.GameLog), len(res.State.GameLog)):] {
			fmt.Fprintf(a.out, "  %s\n", line)
		}
		if prev.Phase != res.State.Phase || prev.Round != res.State.Round {
			fmt.Fprintf(a.out, "Phase: %s, round %d\n", res.State.Phase, res.State.Round)
		}
		if w := games.Winner(res.State); w != "" {
			fmt.Fprintf(a.out, "Winner: %s\n", w)
		}
	}
	return nil
}

func printResult(w io.Writer, result map[string]interface{}) {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %v\n", k, result[k])
	}
}

func (a *app) showCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.current(cmd)
			if err != nil {
				return err
			}
			if asJSON {
				b, err := games.Encode(state)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.out, string(b))
				return err
			}
			fmt.Fprintf(a.out, "Scenario: %s  Phase: %s  Round: %d  Version: %d\n",
				state.Scenario, state.Phase, state.Round, state.Version)
			if w := games.Winner(state); w != "" {
				fmt.Fprintf(a.out, "Winner: %s\n", w)
			}
			return printRoster(a.out, state)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full state as JSON")
	return cmd
}

func printRoster(w io.Writer, state *games.GameState) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tROLE\tTEAM\tSTATUS\tID")
	for i, p := range state.Players {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, p.Name, p.Role.Name, p.Role.Team, status(p), p.ID)
	}
	return tw.Flush()
}

func status(p games.Player) string {
	s := []string{"dead"}
	if p.IsAlive {
		s[0] = "alive"
	}
	if p.IsSaved {
		s = append(s, "saved")
	}
	if p.IsBlocked {
		s = append(s, "blocked")
	}
	if p.IsRevealed {
		s = append(s, "revealed")
	}
	return strings.Join(s, ",")
}

func (a *app) logCmd() *cobra.Command {
	var events bool
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the game log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.current(cmd)
			if err != nil {
				return err
			}
			if !events {
				for i, line := range state.GameLog {
					fmt.Fprintf(a.out, "%3d  %s\n", i+1, line)
				}
				return nil
			}
			list, err := a.store.ListEvents(cmd.Context(), slot.Key)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tTYPE\tAT")
			for _, ev := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", ev.Version, ev.Type, ev.CreatedAt.Format("15:04:05"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&events, "events", false, "list the applied commands instead of the narrative log")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the current game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			if err := a.engine.Reset(cmd.Context(), slot.Key); err != nil {
				if errors.Is(err, games.ErrGameNotFound) {
					return errNoGame
				}
				return err
			}
			fmt.Fprintln(a.out, "Game discarded.")
			return nil
		},
	}
}
