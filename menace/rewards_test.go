package menace

import (
	"testing"

	"menace/game"

	"github.com/stretchr/testify/require"
)

func TestRewardsFor(t *testing.T) {
	t.Run("mapping outcomes to deltas", func(t *testing.T) {
		require.Equal(t, 3, DefaultRewards.For(game.Won))
		require.Equal(t, 1, DefaultRewards.For(game.Drawn))
		require.Equal(t, -1, DefaultRewards.For(game.Lost))
	})

	t.Run("panicking on an ongoing game", func(t *testing.T) {
		require.Panics(t, func() { DefaultRewards.For(game.Ongoing) })
	})
}

func TestTableValidate(t *testing.T) {
	t.Run("accepting empty and zero-count matchboxes", func(t *testing.T) {
		require.NoError(t, Table{s0: {}, s1: {{cellA, 0}}}.Validate())
	})

	t.Run("rejecting off-board actions", func(t *testing.T) {
		err := Table{s0: {{game.Cell{Row: 3, Col: 0}, 1}}}.Validate()
		require.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("rejecting counts above the maximum", func(t *testing.T) {
		require.NoError(t, Table{s0: {{cellA, MaxCount}}}.Validate())
		err := Table{s0: {{cellA, MaxCount + 1}}}.Validate()
		require.ErrorIs(t, err, ErrInvalidTable)
	})

	t.Run("rejecting duplicate actions", func(t *testing.T) {
		err := Table{s0: {{cellA, 1}, {cellA, 2}}}.Validate()
		require.ErrorIs(t, err, ErrInvalidTable)
	})
}
