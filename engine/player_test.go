package engine

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"

	"menace/game"
	"menace/menace"

	"github.com/stretchr/testify/require"
)

func TestConsolePlayer(t *testing.T) {
	board := game.NewBoard()
	board.Set(game.Cell{Row: 0, Col: 0}, game.X)
	view := board.View(game.O)

	t.Run("asking again until the move is legal", func(t *testing.T) {
		var out bytes.Buffer
		p := NewConsolePlayer("Player", strings.NewReader("middle\n5,5\n0,0\n 1 , 1 \n"), &out)

		cell, err := p.Move(view)

		require.NoError(t, err)
		require.Equal(t, game.Cell{Row: 1, Col: 1}, cell)
		require.Equal(t, 2, strings.Count(out.String(), "Invalid input"))
		require.Contains(t, out.String(), "Cell (0, 0) is already taken")
		require.Equal(t, 4, strings.Count(out.String(), "Player's move (row,col): "))
	})

	t.Run("quitting on request", func(t *testing.T) {
		p := NewConsolePlayer("Player", strings.NewReader("quit\n"), io.Discard)

		_, err := p.Move(view)
		require.ErrorIs(t, err, ErrQuit)
	})

	t.Run("reporting the end of input", func(t *testing.T) {
		p := NewConsolePlayer("Player", strings.NewReader("2,"), io.Discard)

		_, err := p.Move(view)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("confirming", func(t *testing.T) {
		p := NewConsolePlayer("Player", strings.NewReader("Y\nyes\nn\n\n"), io.Discard)

		for _, want := range []bool{true, true, false, false} {
			got, err := p.Confirm("Play again? (Y/N): ")
			require.NoError(t, err)
			require.Equal(t, want, got)
		}

		_, err := p.Confirm("Play again? (Y/N): ")
		require.ErrorIs(t, err, io.EOF)
	})
}

func TestRandomPlayer(t *testing.T) {
	t.Run("playing only legal moves", func(t *testing.T) {
		board := game.NewBoard()
		board.Set(game.Cell{Row: 1, Col: 1}, game.X)
		view := board.View(game.O)
		p := NewRandomPlayer(7)

		seen := map[game.Cell]bool{}
		for i := 0; i < 500; i++ {
			cell, err := p.Move(view)
			require.NoError(t, err)
			require.True(t, slices.Contains(view.LegalMoves(), cell))
			seen[cell] = true
		}
		require.Len(t, seen, 8, "Every empty cell should come up")
	})

	t.Run("failing on a full board", func(t *testing.T) {
		board := game.NewBoard()
		for _, cell := range board.LegalMoves() {
			board.Set(cell, game.X)
		}

		_, err := NewRandomPlayer(1).Move(board.View(game.O))
		require.Error(t, err)
	})
}

func TestRenderer(t *testing.T) {
	t.Run("drawing the plain board without colors", func(t *testing.T) {
		board := game.NewBoard()
		board.Set(game.Cell{Row: 0, Col: 0}, game.X)
		board.Set(game.Cell{Row: 2, Col: 1}, game.O)
		var out bytes.Buffer

		NewRenderer(&out, false).Render(board)

		require.Equal(t, "\n"+board.String(), out.String())
	})

	t.Run("coloring symbols", func(t *testing.T) {
		r := NewRenderer(io.Discard, true)

		require.NotEqual(t, "X", r.Symbol(game.X))
		require.Contains(t, r.Symbol(game.X), "X")
		require.Equal(t, "O", NewRenderer(io.Discard, false).Symbol(game.O))
	})

	t.Run("coloring outcomes for the viewer", func(t *testing.T) {
		r := NewRenderer(io.Discard, true)

		require.Contains(t, r.Outcome(game.Won, "You win"), "You win")
		require.NotEqual(t, r.Outcome(game.Won, "done"), r.Outcome(game.Lost, "done"), "Wins and losses should look different")
		require.Equal(t, "It's a draw!", NewRenderer(io.Discard, false).Outcome(game.Drawn, "It's a draw!"))
	})

	t.Run("listing the table like the learner does", func(t *testing.T) {
		m, err := menace.Restore(menace.Table{
			"X---O----": {{Action: game.Cell{Row: 1, Col: 1}, Count: 0}},
			"---------": {{Action: game.Cell{Row: 0, Col: 0}, Count: 2}},
		})
		require.NoError(t, err)
		var out bytes.Buffer

		NewRenderer(&out, false).Table(m.Table())

		require.Equal(t, m.String(), out.String())
	})
}
