package engine

import (
	"errors"
	"time"

	"menace/game"
)

// MaxMoves is the length of the longest possible game.
const MaxMoves = game.Size * game.Size

// ErrIllegalMove is returned when a player answers with a cell that cannot
// be played.
var ErrIllegalMove = errors.New("illegal move")

// Player picks moves for one seat.
type Player interface {
	// Move returns a legal cell for the position seen from the player's side
	Move(view game.View) (game.Cell, error)
	Name() string
}

// Learner is rewarded at the end of every game it took part in.
// *menace.Menace implements it.
type Learner interface {
	Choose(state game.StateKey, moves []game.Cell) (game.Cell, error)
	Adjust(delta int)
	Discard()
}

// Result describes a finished game.
type Result struct {
	Board    game.Board
	First    game.Symbol
	Winner   game.Symbol // Empty on a draw
	Moves    []game.Cell
	Duration time.Duration
}

// StatusFor returns the outcome from sym's side.
func (r Result) StatusFor(sym game.Symbol) game.Status {
	return r.Board.Status(sym)
}
