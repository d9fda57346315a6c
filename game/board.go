package game

import "strings"

// Board is a 3x3 tic-tac-toe grid. The zero value is an empty board, and
// boards are plain values so copying one is enough to branch a game.
type Board struct {
	cells [Size][Size]Symbol
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// Set places sym on cell. It panics if the cell is off the board.
func (b *Board) Set(cell Cell, sym Symbol) {
	if !cell.Valid() {
		panic("cell is off the board: " + cell.String())
	}
	b.cells[cell.Row][cell.Col] = sym
}

// At returns the symbol on cell.
func (b Board) At(cell Cell) Symbol {
	return b.cells[cell.Row][cell.Col]
}

// Legal reports whether a move can be made on cell.
func (b Board) Legal(cell Cell) bool {
	return cell.Valid() && b.cells[cell.Row][cell.Col] == Empty
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
	for _, row := range b.cells {
		for _, sym := range row {
			if sym == Empty {
				return false
			}
		}
	}
	return true
}

var lines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Winner returns the symbol holding a complete row, column or diagonal, or
// Empty if there is none.
func (b Board) Winner() Symbol {
	for _, line := range lines {
		first := b.At(line[0])
		if first != Empty && first == b.At(line[1]) && first == b.At(line[2]) {
			return first
		}
	}
	return Empty
}

// LegalMoves lists the empty cells in row-major order.
func (b Board) LegalMoves() []Cell {
	moves := make([]Cell, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.cells[row][col] == Empty {
				moves = append(moves, Cell{Row: row, Col: col})
			}
		}
	}
	return moves
}

// Key flattens the board row by row from me's perspective: me's pieces are
// written as X and the opponent's as O, so a learner playing either side
// sees the same key for the same relative position.
func (b Board) Key(me Symbol) StateKey {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for _, row := range b.cells {
		for _, sym := range row {
			switch sym {
			case Empty:
				sb.WriteRune(Empty.Rune())
			case me:
				sb.WriteRune(X.Rune())
			default:
				sb.WriteRune(O.Rune())
			}
		}
	}
	return StateKey(sb.String())
}

// Status reports the outcome of the board for me.
func (b Board) Status(me Symbol) Status {
	switch winner := b.Winner(); {
	case winner == me:
		return Won
	case winner != Empty:
		return Lost
	case b.Full():
		return Drawn
	default:
		return Ongoing
	}
}

// View binds me's perspective to b.
func (b Board) View(me Symbol) View {
	return View{Board: b, Me: me}
}

func (b Board) String() string {
	var sb strings.Builder
	for i, row := range b.cells {
		sb.WriteString(" " + row[0].String() + " | " + row[1].String() + " | " + row[2].String() + "\n")
		if i < Size-1 {
			sb.WriteString("-----------\n")
		}
	}
	return sb.String()
}

// View is a board seen by the side about to move.
type View struct {
	Board Board
	Me    Symbol
}

var _ State = View{}

func (v View) Key() StateKey {
	return v.Board.Key(v.Me)
}

func (v View) LegalMoves() []Cell {
	return v.Board.LegalMoves()
}

func (v View) Status() Status {
	return v.Board.Status(v.Me)
}
