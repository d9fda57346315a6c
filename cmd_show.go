package main

import (
	"errors"
	"fmt"

	"menace/engine"
	"menace/store"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved matchboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			noColor, _ := cmd.Flags().GetBool("no-color")

			ctx := cmd.Context()
			s, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			table, err := s.Load(ctx)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintln(out, "No saved table.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load table: %w", err)
			}

			engine.NewRenderer(out, !noColor).Table(table)
			fmt.Fprintf(out, "%d matchboxes\n", len(table))
			return nil
		},
	}

	cmd.Flags().Bool("no-color", false, "Disable colored output")

	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved matchboxes so MENACE starts over",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared the saved table at %s\n", cfg.Store.Path)
			return nil
		},
	}
}
