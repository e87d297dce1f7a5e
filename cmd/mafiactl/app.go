package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vntrieu/mafia/internal/config"
	"github.com/vntrieu/mafia/internal/games"
	"github.com/vntrieu/mafia/internal/store/slot"
)

var errNoGame = errors.New("no game in progress; start one with `mafiactl new`")

// app holds what every subcommand shares. The store is opened on first use.
type app struct {
	out, errOut io.Writer
	configPath  string
	dbPath      string

	store  *slot.Store
	engine *games.Engine
}

func newRootCmd(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{out: out, errOut: errOut}
	root := &cobra.Command{
		Use:          "mafiactl",
		Short:        "Moderate a local Mafia game",
		Long:         "mafiactl keeps one game in a local SQLite file and applies moderator commands to it.",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultCLIConfigPath, "YAML config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite file (overrides config and MAFIACTL_DB)")

	root.AddCommand(a.newCmd(), a.advanceCmd(), a.doCmd(), a.showCmd(), a.logCmd(), a.resetCmd())
	return root, a
}

func (a *app) open(cmd *cobra.Command) error {
	if a.engine != nil {
		return nil
	}
	cfg, err := config.LoadCLI(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	logger := config.NewLogger(a.errOut, cfg.LogLevel)
	st, err := slot.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return err
	}
	a.store = st
	a.engine = games.NewEngine(st, st, logger)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
		a.store, a.engine = nil, nil
	}
}

// current loads the slot's game.
func (a *app) current(cmd *cobra.Command) (*games.GameState, error) {
	if err := a.open(cmd); err != nil {
		return nil, err
	}
	state, err := a.engine.GetState(cmd.Context(), slot.Key)
	if errors.Is(err, games.ErrGameNotFound) {
		return nil, errNoGame
	}
	return state, err
}

// resolvePlayer accepts a player id or a case-insensitive name.
func resolvePlayer(state *games.GameState, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if _, ok := state.Player(ref); ok {
		return ref, nil
	}
	var found string
	for _, p := range state.Players {
		if strings.EqualFold(p.Name, ref) {
			if found != "" {
				return "", fmt.Errorf("player name %q is ambiguous; use the id", ref)
			}
			found = p.ID
		}
	}
	if found == "" {
		return "", fmt.Errorf("unknown player %q", ref)
	}
	return found, nil
}
