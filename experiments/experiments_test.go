package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"menace/menace"

	"github.com/stretchr/testify/require"
)

func TestTrain(t *testing.T) {
	ctx := context.Background()

	t.Run("learning from every game", func(t *testing.T) {
		m := menace.New(menace.WithSeed(1))

		run, err := Train(ctx, m, Setup{Games: 300, Window: 100, Alternate: true, Seed: 2})

		require.NoError(t, err)
		require.Equal(t, 300, run.Games)
		require.Equal(t, run.Games, run.Wins+run.Draws+run.Losses)
		require.Equal(t, m.Len(), run.States)
		require.Empty(t, m.Record(), "No episode should be left over")
		require.NoError(t, m.Table().Validate())
	})

	t.Run("beating a random opponent more often after training", func(t *testing.T) {
		m := menace.New(menace.WithSeed(5))
		before, err := Evaluate(ctx, m.Table(), Setup{Games: 500, Seed: 6}, menace.WithSeed(7))
		require.NoError(t, err)

		_, err = Train(ctx, m, Setup{Games: 3000, Seed: 8})
		require.NoError(t, err)

		after, err := Evaluate(ctx, m.Table(), Setup{Games: 500, Seed: 6}, menace.WithSeed(7))
		require.NoError(t, err)
		require.Greater(t, after.Wins, before.Wins, "Training should improve the win count")
	})

	t.Run("writing run records", func(t *testing.T) {
		dir := t.TempDir()
		m := menace.New(menace.WithSeed(1))

		_, err := Train(ctx, m, Setup{RunID: "test", Games: 20, Window: 5, Output: dir})
		require.NoError(t, err)

		runs, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		files, err := os.ReadDir(filepath.Join(dir, runs[0].Name()))
		require.NoError(t, err)
		require.Len(t, files, 3, "Setup, game records and chart")
	})

	t.Run("stopping on a cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		m := menace.New(menace.WithSeed(1))

		run, err := Train(cancelled, m, Setup{Games: 10})

		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, run.Games)
		require.Empty(t, m.Record())
	})
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("leaving the table untouched", func(t *testing.T) {
		m := menace.New(menace.WithSeed(1))
		_, err := Train(ctx, m, Setup{Games: 100, Seed: 2})
		require.NoError(t, err)
		table := m.Table()

		run, err := Evaluate(ctx, table, Setup{Games: 100, Seed: 3})

		require.NoError(t, err)
		require.Equal(t, 100, run.Games)
		require.Equal(t, m.Table(), table, "Evaluation should not change the learner")
	})

	t.Run("rejecting an invalid table", func(t *testing.T) {
		_, err := Evaluate(ctx, menace.Table{"---------": {{Count: -1}}}, Setup{Games: 1})
		require.ErrorIs(t, err, menace.ErrInvalidTable)
	})
}
