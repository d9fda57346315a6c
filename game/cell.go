package game

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Size is the board's side length.
const Size = 3

// Cell addresses a square on the board by row and column, both zero based.
type Cell struct {
	Row int
	Col int
}

// Valid reports whether the cell lies on the board.
func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// MarshalJSON encodes the cell as a [row, col] pair.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

// UnmarshalJSON decodes a [row, col] pair. Anything else, including pairs
// outside the board, is rejected.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("cell must be a [row, col] array: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("cell must have exactly 2 coordinates, got %d", len(pair))
	}
	cell := Cell{Row: pair[0], Col: pair[1]}
	if !cell.Valid() {
		return fmt.Errorf("cell %s is off the board", cell)
	}
	*c = cell
	return nil
}

// ParseCell parses user input of the form "row,col".
func ParseCell(input string) (Cell, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return Cell{}, fmt.Errorf("expected row,col but got %q", input)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid row %q: %w", parts[0], err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid column %q: %w", parts[1], err)
	}

	cell := Cell{Row: row, Col: col}
	if !cell.Valid() {
		return Cell{}, fmt.Errorf("cell %s is off the board", cell)
	}
	return cell, nil
}
