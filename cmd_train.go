package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"menace/experiments"
	"menace/experiments/metrics"
	"menace/store"

	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train MENACE against a random opponent",
		Long: `Play MENACE against an opponent that picks random legal moves and save
what it learned. Interrupting a run keeps the games played so far.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setup := experiments.Setup{
				Games:   cfg.Training.Games,
				Window:  cfg.Training.Window,
				Output:  cfg.Training.Output,
				Rewards: cfg.Rewards(),
			}
			if cmd.Flags().Changed("games") {
				setup.Games, _ = cmd.Flags().GetInt("games")
			}
			if cmd.Flags().Changed("output") {
				setup.Output, _ = cmd.Flags().GetString("output")
			}
			setup.Alternate, _ = cmd.Flags().GetBool("alternate")
			setup.Seed, _ = cmd.Flags().GetUint64("seed")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if cfg.Training.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Training.Timeout)
				defer cancel()
			}

			s, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			m := loadMenace(cmd.Context(), s, cfg)
			run, trainErr := experiments.Train(ctx, m, setup)
			if trainErr != nil && !isStopped(trainErr) {
				return trainErr
			}
			printRun(cmd.OutOrStdout(), "Training", run)

			// Saved with the command's context so an interrupt still persists
			return saveMenace(cmd.Context(), s, cfg, m)
		},
	}

	cmd.Flags().Int("games", 0, "Number of games (default from config)")
	cmd.Flags().String("output", "", "Directory for CSV and chart output (default from config)")
	cmd.Flags().Bool("alternate", false, "Alternate which side opens")
	cmd.Flags().Uint64("seed", 0, "Opponent seed, 0 for the clock")

	return cmd
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure the saved MENACE against a random opponent without learning",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			games, _ := cmd.Flags().GetInt("games")
			alternate, _ := cmd.Flags().GetBool("alternate")
			seed, _ := cmd.Flags().GetUint64("seed")

			ctx := cmd.Context()
			s, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			table, err := s.Load(ctx)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved table. Run 'menace train' or 'menace play' first.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load table: %w", err)
			}

			setup := experiments.Setup{Games: games, Window: cfg.Training.Window, Alternate: alternate, Seed: seed}
			run, err := experiments.Evaluate(ctx, table, setup, cfg.Options()...)
			if err != nil {
				return err
			}
			printRun(cmd.OutOrStdout(), "Evaluation", run)
			return nil
		},
	}

	cmd.Flags().Int("games", 1000, "Number of games")
	cmd.Flags().Bool("alternate", false, "Alternate which side opens")
	cmd.Flags().Uint64("seed", 0, "Opponent seed, 0 for the clock")

	return cmd
}

func isStopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func printRun(w io.Writer, name string, run metrics.RunMetric) {
	win, draw, loss := run.Rates()
	fmt.Fprintf(w, "%s: %d games in %s\n", name, run.Games, run.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  wins:   %d (%.1f%%)\n", run.Wins, 100*win)
	fmt.Fprintf(w, "  draws:  %d (%.1f%%)\n", run.Draws, 100*draw)
	fmt.Fprintf(w, "  losses: %d (%.1f%%)\n", run.Losses, 100*loss)
	fmt.Fprintf(w, "  matchboxes: %d\n", run.States)
}
