package game

// StateKey is a canonical, order-sensitive serialization of a board seen
// from the side about to move. Learners treat it as an opaque identifier.
type StateKey string

// Status is the outcome of a position from one side's perspective.
type Status int

const (
	Ongoing Status = iota
	Won
	Lost
	Drawn
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Drawn:
		return "drawn"
	default:
		return "unknown"
	}
}

// Terminal reports whether the game is over.
func (s Status) Terminal() bool {
	return s != Ongoing
}

// State is everything a learner needs from the rules: where it is, what it
// may do and whether the game is over. Implementations must enumerate legal
// moves deterministically.
type State interface {
	Key() StateKey
	LegalMoves() []Cell
	Status() Status
}
