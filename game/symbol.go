package game

// Symbol is the content of a single cell.
type Symbol int

const (
	Empty Symbol = iota
	X
	O
)

// Opponent returns the symbol playing against s. Empty has no opponent.
func (s Symbol) Opponent() Symbol {
	switch s {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// Rune is the single character used in state keys and board output.
func (s Symbol) Rune() rune {
	switch s {
	case X:
		return 'X'
	case O:
		return 'O'
	default:
		return '-'
	}
}

func (s Symbol) String() string {
	return string(s.Rune())
}
