package menace

import (
	"errors"
	"fmt"
	"slices"

	"menace/game"
)

// ErrInvalidTable is returned when a table breaks the bead invariants.
var ErrInvalidTable = errors.New("invalid matchbox table")

// Bead is a set of same-action beads inside a matchbox.
type Bead struct {
	// Action is the cell played when a bead of this set is drawn
	Action game.Cell `json:"action"`
	// Count is the number of beads in the set, between 0 and MaxCount
	Count int `json:"count"`
}

// Matchbox holds one bead set per move that was legal when the box was
// created. Its length and the order of its actions never change.
type Matchbox []Bead

func newMatchbox(moves []game.Cell, count int) Matchbox {
	beads := make(Matchbox, len(moves))
	for i, move := range moves {
		beads[i] = Bead{Action: move, Count: count}
	}
	return beads
}

// Total is the number of beads in the box. With every count at most
// MaxCount it cannot overflow.
func (mb Matchbox) Total() int {
	total := 0
	for _, bead := range mb {
		total += bead.Count
	}
	return total
}

// Index returns the position of action in the box, or -1.
func (mb Matchbox) Index(action game.Cell) int {
	return slices.IndexFunc(mb, func(b Bead) bool { return b.Action == action })
}

// Table maps every visited state to its matchbox.
type Table map[game.StateKey]Matchbox

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	clone := make(Table, len(t))
	for state, beads := range t {
		clone[state] = slices.Clone(beads)
	}
	return clone
}

// States returns the table's keys in sorted order.
func (t Table) States() []game.StateKey {
	states := make([]game.StateKey, 0, len(t))
	for state := range t {
		states = append(states, state)
	}
	slices.Sort(states)
	return states
}

// Validate checks that every bead count is between 0 and MaxCount, every
// action is on the board and no matchbox lists the same action twice.
func (t Table) Validate() error {
	for state, beads := range t {
		seen := make(map[game.Cell]bool, len(beads))
		for i, bead := range beads {
			if bead.Count < 0 {
				return fmt.Errorf("%w: state %q bead %d has negative count %d", ErrInvalidTable, state, i, bead.Count)
			}
			if bead.Count > MaxCount {
				return fmt.Errorf("%w: state %q bead %d has count %d above %d", ErrInvalidTable, state, i, bead.Count, MaxCount)
			}
			if !bead.Action.Valid() {
				return fmt.Errorf("%w: state %q bead %d has off-board action %s", ErrInvalidTable, state, i, bead.Action)
			}
			if seen[bead.Action] {
				return fmt.Errorf("%w: state %q lists action %s twice", ErrInvalidTable, state, bead.Action)
			}
			seen[bead.Action] = true
		}
	}
	return nil
}

// addCount adds delta to count without overflowing, keeping the result
// between floor and MaxCount.
func addCount(count, delta, floor int) int {
	if delta > 0 && count > MaxCount-delta {
		return MaxCount
	}
	return max(count+delta, floor)
}
