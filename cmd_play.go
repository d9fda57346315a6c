package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"menace/config"
	"menace/engine"
	"menace/game"
	"menace/menace"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play against MENACE in the terminal",
		Long: `Play noughts and crosses against MENACE. You are O and MENACE is X.

Enter moves as row,col with rows and columns numbered 0 to 2, or q to
quit. MENACE learns from every finished game and its matchboxes are
saved when you leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			menaceFirst, _ := cmd.Flags().GetBool("menace-first")
			noColor, _ := cmd.Flags().GetBool("no-color")
			showTable, _ := cmd.Flags().GetBool("table")

			ctx := cmd.Context()
			s, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			m := loadMenace(ctx, s, cfg)
			renderer := engine.NewRenderer(out, !noColor)
			if showTable {
				renderer.Table(m.Table())
			}

			first := game.O
			if menaceFirst {
				first = game.X
			}
			human := engine.NewConsolePlayer("Player", cmd.InOrStdin(), out)

			playErr := playLoop(ctx, m, human, renderer, cfg, first)
			if errors.Is(playErr, engine.ErrQuit) || errors.Is(playErr, io.EOF) {
				playErr = nil
			}

			// Keep what was learned even when the session ends badly
			if err := saveMenace(ctx, s, cfg, m); err != nil {
				return errors.Join(playErr, err)
			}
			return playErr
		},
	}

	cmd.Flags().Bool("menace-first", false, "Let MENACE open every game")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Bool("table", true, "Print MENACE's matchboxes before the first game")

	return cmd
}

// playLoop plays games until the human declines another one.
func playLoop(ctx context.Context, m *menace.Menace, human *engine.ConsolePlayer, renderer *engine.Renderer, cfg *config.Config, first game.Symbol) error {
	out := human.Out()
	for {
		e := engine.LocalEngine(
			&engine.MenaceAdapter{Learner: m},
			human,
			engine.WithFirst(first),
			engine.WithRewards(cfg.Rewards()),
			engine.WithRenderer(renderer.Render),
		)

		result, err := e.Run(ctx)
		if err != nil {
			return err
		}

		msg := "It's a draw!"
		switch result.Winner {
		case game.X:
			msg = "MENACE wins!"
		case game.O:
			msg = human.Name() + " wins!"
		}
		fmt.Fprintf(out, "\n%s\n\n", renderer.Outcome(result.StatusFor(game.O), msg))

		again, err := human.Confirm("Play again? (Y/N): ")
		if err != nil || !again {
			return err
		}
	}
}
