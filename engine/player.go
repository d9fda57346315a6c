package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"menace/game"

	"golang.org/x/exp/rand"
)

// ErrQuit is returned by a ConsolePlayer asked to leave.
var ErrQuit = errors.New("player quit")

// MenaceAdapter seats a Learner at the table.
type MenaceAdapter struct {
	Learner Learner
}

func (a *MenaceAdapter) Name() string {
	return "MENACE"
}

func (a *MenaceAdapter) Move(view game.View) (game.Cell, error) {
	return a.Learner.Choose(view.Key(), view.LegalMoves())
}

func learnerOf(p Player) (Learner, bool) {
	adapter, ok := p.(*MenaceAdapter)
	if !ok || adapter.Learner == nil {
		return nil, false
	}
	return adapter.Learner, true
}

// RandomPlayer plays a uniformly random legal move.
type RandomPlayer struct {
	rng *rand.Rand
}

// NewRandomPlayer returns a RandomPlayer. A zero seed seeds from the clock.
func NewRandomPlayer(seed uint64) *RandomPlayer {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPlayer{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) Name() string {
	return "random"
}

func (p *RandomPlayer) Move(view game.View) (game.Cell, error) {
	moves := view.LegalMoves()
	if len(moves) == 0 {
		return game.Cell{}, fmt.Errorf("no legal moves in %s", view.Key())
	}
	return moves[p.rng.Intn(len(moves))], nil
}

// ConsolePlayer reads moves typed as "row,col". Input that cannot be played
// is reported and asked for again.
type ConsolePlayer struct {
	name string
	in   *bufio.Scanner
	out  io.Writer
}

func NewConsolePlayer(name string, in io.Reader, out io.Writer) *ConsolePlayer {
	return &ConsolePlayer{
		name: name,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

func (p *ConsolePlayer) Name() string {
	return p.name
}

// Out is where prompts and messages are written.
func (p *ConsolePlayer) Out() io.Writer {
	return p.out
}

func (p *ConsolePlayer) Move(view game.View) (game.Cell, error) {
	legal := view.LegalMoves()
	for {
		input, err := p.ReadLine(p.name + "'s move (row,col): ")
		if err != nil {
			return game.Cell{}, err
		}
		if isQuit(input) {
			return game.Cell{}, ErrQuit
		}

		cell, err := game.ParseCell(input)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid input")
			continue
		}
		if !slices.Contains(legal, cell) {
			fmt.Fprintf(p.out, "Cell %s is already taken\n", cell)
			continue
		}
		return cell, nil
	}
}

// ReadLine prints prompt and returns the next line of input, trimmed.
// It returns io.EOF once the input is exhausted.
func (p *ConsolePlayer) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Confirm asks a yes/no question. Anything but "y" or "yes" means no.
func (p *ConsolePlayer) Confirm(prompt string) (bool, error) {
	input, err := p.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
