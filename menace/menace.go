package menace

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"menace/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Hyperparameters for MENACE

const InitialCount = 2 // Beads per action in a new matchbox
const MinCount = 0     // Floor for bead counts after an adjustment

// MaxCount caps every bead count so a full matchbox of nine sets sums
// within an int32.
const MaxCount = math.MaxInt32 / 9

// ErrNoLegalActions is returned when asked to choose in a state whose
// matchbox is empty, i.e. a terminal position was routed to the learner.
var ErrNoLegalActions = errors.New("no legal actions")

// Move is one decision in the current episode: which matchbox was opened
// and which bead set was drawn from it.
type Move struct {
	State game.StateKey
	Index int
}

type Option func(m *Menace)

// WithInitialCount sets the bead count of every set in a new matchbox.
func WithInitialCount(count int) Option {
	return func(m *Menace) {
		if count > 0 && count <= MaxCount {
			m.initialCount = count
		}
	}
}

// WithMinCount sets the floor that adjustments never push a count below.
func WithMinCount(count int) Option {
	return func(m *Menace) {
		if count >= 0 && count <= MaxCount {
			m.minCount = count
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *Menace) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Menace) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// Menace is the Machine Educable Noughts And Crosses Engine. It owns the
// matchbox table and the record of moves made since the last adjustment.
// Choose and Adjust share one lock, but the record cannot tell games apart,
// so concurrent games must not share an instance.
type Menace struct {
	mu           sync.Mutex
	matchboxes   Table
	record       []Move
	initialCount int
	minCount     int
	rng          *rand.Rand
}

// New returns a MENACE with no matchboxes and an empty record.
func New(options ...Option) *Menace {
	m := &Menace{ // Default values
		matchboxes:   Table{},
		initialCount: InitialCount,
		minCount:     MinCount,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Restore returns a MENACE that continues from a previously saved table.
// The table is copied, so the caller keeps ownership of t.
func Restore(t Table, options ...Option) (*Menace, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m := New(options...)
	m.matchboxes = t.Clone()
	return m, nil
}

// Populate returns the matchbox for state, creating it with one bead set
// per move if the state has never been seen. An existing matchbox is
// returned untouched whatever moves are passed.
func (m *Menace) Populate(state game.StateKey, moves []game.Cell) Matchbox {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.populate(state, moves))
}

func (m *Menace) populate(state game.StateKey, moves []game.Cell) Matchbox {
	if beads, ok := m.matchboxes[state]; ok {
		return beads
	}
	beads := newMatchbox(moves, m.initialCount)
	m.matchboxes[state] = beads
	log.Debug().Msgf("populated matchbox %s with %d bead sets", state, len(beads))
	return beads
}

// Choose draws a bead from the matchbox for state and records the draw for
// the next adjustment. moves must be the legal moves of the actual game; a
// drawn action outside moves means the caller fed an inconsistent position
// and Choose panics.
func (m *Menace) Choose(state game.StateKey, moves []game.Cell) (game.Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	beads := m.populate(state, moves)
	if len(beads) == 0 {
		return game.Cell{}, fmt.Errorf("%w: matchbox %s is empty", ErrNoLegalActions, state)
	}

	index := sample(beads, m.rng)
	action := beads[index].Action
	if !slices.Contains(moves, action) {
		panic(fmt.Sprintf("MENACE attempted illegal move %s in state %s", action, state))
	}

	m.record = append(m.record, Move{State: state, Index: index})
	return action, nil
}

// Adjust adds delta beads to every set drawn from since the last adjustment
// and clears the record. Counts never drop below the minimum count nor rise
// above MaxCount. A set drawn twice is adjusted twice.
func (m *Menace) Adjust(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, move := range m.record {
		beads, ok := m.matchboxes[move.State]
		if !ok {
			panic(fmt.Sprintf("record references unknown matchbox %s", move.State))
		}
		if move.Index < 0 || move.Index >= len(beads) {
			panic(fmt.Sprintf("record references bead set %d of matchbox %s with %d sets", move.Index, move.State, len(beads)))
		}
		beads[move.Index].Count = addCount(beads[move.Index].Count, delta, m.minCount)
	}

	if len(m.record) > 0 {
		log.Debug().Msgf("adjusted %d moves by %+d", len(m.record), delta)
	}
	m.record = nil
}

// Discard drops the record without touching any counts, for games that end
// without an outcome.
func (m *Menace) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.record) > 0 {
		log.Debug().Msgf("discarded %d unrewarded moves", len(m.record))
	}
	m.record = nil
}

// Record returns a copy of the moves made since the last adjustment.
func (m *Menace) Record() []Move {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.record)
}

// Lookup returns a copy of the matchbox for state, if one exists.
func (m *Menace) Lookup(state game.StateKey) (Matchbox, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	beads, ok := m.matchboxes[state]
	return slices.Clone(beads), ok
}

// Table snapshots every matchbox. The record is never part of it.
func (m *Menace) Table() Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.matchboxes.Clone()
}

// Len is the number of matchboxes.
func (m *Menace) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.matchboxes)
}

// Reset forgets everything learned, along with the current record.
func (m *Menace) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matchboxes = Table{}
	m.record = nil
}

func (m *Menace) String() string {
	table := m.Table()

	var sb strings.Builder
	for _, state := range table.States() {
		fmt.Fprintf(&sb, "%q: [\n", state)
		for _, bead := range table[state] {
			fmt.Fprintf(&sb, "    { action: %s, count: %d },\n", bead.Action, bead.Count)
		}
		sb.WriteString("],\n")
	}
	return sb.String()
}
