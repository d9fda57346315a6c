package engine

import (
	"context"
	"fmt"
	"time"

	"menace/game"
	"menace/menace"

	"github.com/rs/zerolog/log"
)

type Option func(e *Engine)

// WithFirst sets the symbol that opens the game. X opens by default.
func WithFirst(sym game.Symbol) Option {
	return func(e *Engine) {
		if sym == game.X || sym == game.O {
			e.first = sym
		}
	}
}

// WithRewards sets the bead adjustments applied to learning seats.
func WithRewards(rewards menace.Rewards) Option {
	return func(e *Engine) {
		e.rewards = rewards
	}
}

// WithRenderer calls render with the starting board and after every move.
func WithRenderer(render func(board game.Board)) Option {
	return func(e *Engine) {
		if render != nil {
			e.render = render
		}
	}
}

// Engine runs games between the X and O seats on a local board.
type Engine struct {
	x, o    Player
	first   game.Symbol
	rewards menace.Rewards
	render  func(board game.Board)
}

func LocalEngine(x, o Player, options ...Option) *Engine {
	if x == nil || o == nil {
		panic("need a player for each seat")
	}
	if lx, ok := learnerOf(x); ok {
		if lo, ok := learnerOf(o); ok && lx == lo {
			panic("both seats share one learner")
		}
	}

	e := &Engine{ // Default values
		x:       x,
		o:       o,
		first:   game.X,
		rewards: menace.DefaultRewards,
		render:  func(game.Board) {},
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *Engine) seat(sym game.Symbol) Player {
	if sym == game.X {
		return e.x
	}
	return e.o
}

// Run plays one game on an empty board. When the game reaches an outcome,
// every learning seat is adjusted exactly once with the reward for its own
// side. A game cut short by ctx, a player error or an illegal move rewards
// nobody and discards the learners' records.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	board := game.NewBoard()
	result := Result{First: e.first, Moves: make([]game.Cell, 0, MaxMoves)}
	start := time.Now()
	e.render(board)

	turn := e.first
	for {
		if err := ctx.Err(); err != nil {
			e.discard()
			return Result{}, err
		}

		player := e.seat(turn)
		cell, err := player.Move(board.View(turn))
		if err != nil {
			e.discard()
			return Result{}, fmt.Errorf("%s failed to move: %w", player.Name(), err)
		}
		if !board.Legal(cell) {
			e.discard()
			return Result{}, fmt.Errorf("%w: %s played %s", ErrIllegalMove, player.Name(), cell)
		}

		board.Set(cell, turn)
		result.Moves = append(result.Moves, cell)
		log.Debug().Msgf("%s played %s as %s", player.Name(), cell, turn)
		e.render(board)

		if board.Status(turn).Terminal() {
			break
		}
		turn = turn.Opponent()
	}

	result.Board = board
	result.Winner = board.Winner()
	result.Duration = time.Since(start)
	log.Debug().Msgf("game over after %d moves, winner %s", len(result.Moves), result.Winner)

	for _, sym := range []game.Symbol{game.X, game.O} {
		if learner, ok := learnerOf(e.seat(sym)); ok {
			learner.Adjust(e.rewards.For(board.Status(sym)))
		}
	}
	return result, nil
}

func (e *Engine) discard() {
	for _, player := range []Player{e.x, e.o} {
		if learner, ok := learnerOf(player); ok {
			learner.Discard()
		}
	}
}
