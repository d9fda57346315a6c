package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"menace/config"
	"menace/menace"
	"menace/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "menace",
		Short: "MENACE - the Machine Educable Noughts And Crosses Engine",
		Long: `menace plays noughts and crosses and learns from every game.

Each position MENACE meets gets a matchbox of beads, one colour per
possible move. It draws a bead to choose a move and, once the game is
over, adds beads for a win or a draw and takes them away for a loss.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML config file")

	rootCmd.AddCommand(
		newPlayCmd(),
		newTrainCmd(),
		newEvaluateCmd(),
		newShowCmd(),
		newResetCmd(),
	)
	return rootCmd
}

// loadConfig reads the config named by --config and sets up logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := setupLogging(cfg.Logging.Level, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly})
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

// asideSetter is implemented by stores that can move a damaged table out of
// the way of the next save.
type asideSetter interface {
	SetAside(ctx context.Context) (string, error)
}

// loadMenace restores MENACE from s. A missing or unreadable table is not an
// error: MENACE starts over with empty matchboxes. A damaged table is set
// aside first when the store supports it.
func loadMenace(ctx context.Context, s store.Store, cfg *config.Config) *menace.Menace {
	table, err := s.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info().Msgf("no saved table at %s, starting fresh", cfg.Store.Path)
		return menace.New(cfg.Options()...)
	case errors.Is(err, store.ErrMalformed):
		log.Warn().Msgf("failed to load table, starting fresh: %v", err)
		setAside(ctx, s)
		return menace.New(cfg.Options()...)
	case err != nil:
		log.Warn().Msgf("failed to load table, starting fresh: %v", err)
		return menace.New(cfg.Options()...)
	}

	m, err := menace.Restore(table, cfg.Options()...)
	if err != nil {
		log.Warn().Msgf("failed to restore table, starting fresh: %v", err)
		return menace.New(cfg.Options()...)
	}
	log.Info().Msgf("loaded %d matchboxes from %s", m.Len(), cfg.Store.Path)
	return m
}

func setAside(ctx context.Context, s store.Store) {
	aside, ok := s.(asideSetter)
	if !ok {
		return
	}
	path, err := aside.SetAside(ctx)
	if err != nil {
		log.Warn().Msgf("failed to keep the damaged table: %v", err)
		return
	}
	log.Warn().Msgf("kept the damaged table at %s", path)
}

func saveMenace(ctx context.Context, s store.Store, cfg *config.Config, m *menace.Menace) error {
	if err := s.Save(ctx, m.Table()); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	log.Info().Msgf("saved %d matchboxes to %s", m.Len(), cfg.Store.Path)
	return nil
}
