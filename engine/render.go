package engine

import (
	"fmt"
	"io"
	"strings"

	"menace/game"
	"menace/menace"

	"github.com/logrusorgru/aurora"
)

// Renderer draws boards to a terminal, coloring X and O when enabled.
type Renderer struct {
	out    io.Writer
	colors aurora.Aurora
}

func NewRenderer(out io.Writer, colors bool) *Renderer {
	return &Renderer{out: out, colors: aurora.NewAurora(colors)}
}

// Render writes board in the same layout as game.Board.String, preceded by
// a blank line.
func (r *Renderer) Render(board game.Board) {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < game.Size; row++ {
		cells := make([]string, game.Size)
		for col := 0; col < game.Size; col++ {
			cells[col] = r.Symbol(board.At(game.Cell{Row: row, Col: col}))
		}
		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < game.Size-1 {
			sb.WriteString("-----------\n")
		}
	}
	fmt.Fprint(r.out, sb.String())
}

func (r *Renderer) Symbol(sym game.Symbol) string {
	switch sym {
	case game.X:
		return r.colors.Red(sym.String()).Bold().String()
	case game.O:
		return r.colors.Blue(sym.String()).Bold().String()
	default:
		return r.colors.BrightBlack(sym.String()).String()
	}
}

// Outcome colors msg by how the game ended for the viewer: green for a
// win, red for a loss and yellow otherwise.
func (r *Renderer) Outcome(status game.Status, msg string) string {
	switch status {
	case game.Won:
		return r.colors.Green(msg).Bold().String()
	case game.Lost:
		return r.colors.Red(msg).Bold().String()
	default:
		return r.colors.Yellow(msg).Bold().String()
	}
}

// Table writes every matchbox in state order, in the layout of
// menace.Menace.String. Exhausted bead sets are highlighted.
func (r *Renderer) Table(table menace.Table) {
	var sb strings.Builder
	for _, state := range table.States() {
		fmt.Fprintf(&sb, "%q: [\n", state)
		for _, bead := range table[state] {
			count := r.colors.Green(bead.Count)
			if bead.Count == 0 {
				count = r.colors.Red(bead.Count)
			}
			fmt.Fprintf(&sb, "    { action: %s, count: %v },\n", bead.Action, count)
		}
		sb.WriteString("],\n")
	}
	fmt.Fprint(r.out, sb.String())
}
