package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/storygraph/pkg/canvas"
)

// A terminal cell stands for cellWidth×cellHeight viewport pixels, so the
// canvas viewport keeps working in pixels while the view draws characters.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// =============================================================================
// Cell Grid
// =============================================================================

type cellKind uint8

const (
	kindBlank cellKind = iota
	kindEdge
	kindEdgeHover
	kindLabel
	kindNormal
	kindStart
	kindEnding
	kindOrphan
	kindSelected
	kindHovered
	kindText
)

var kindStyles = map[cellKind]lipgloss.Style{
	kindEdge:      lipgloss.NewStyle().Foreground(colorDim),
	kindEdgeHover: lipgloss.NewStyle().Foreground(colorYellow),
	kindLabel:     lipgloss.NewStyle().Foreground(colorGray).Italic(true),
	kindNormal:    lipgloss.NewStyle().Foreground(colorBlue),
	kindStart:     lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
	kindEnding:    StyleEnding,
	kindOrphan:    lipgloss.NewStyle().Foreground(colorRed),
	kindSelected:  lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
	kindHovered:   lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	kindText:      StyleValue,
}

// cell holds one character. A zero rune marks the right half of a wide
// character and is skipped on output.
type cell struct {
	r    rune
	kind cellKind
}

type termGrid struct {
	cols, rows int
	cells      []cell
}

func newTermGrid(cols, rows int) *termGrid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &termGrid{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = cell{r: ' '}
	}
	return g
}

func (g *termGrid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}

func (g *termGrid) set(x, y int, r rune, k cellKind) {
	if g.in(x, y) {
		g.cells[y*g.cols+x] = cell{r: r, kind: k}
	}
}

func (g *termGrid) at(x, y int) cell {
	if !g.in(x, y) {
		return cell{}
	}
	return g.cells[y*g.cols+x]
}

// text writes s from column x, truncated to width columns.
func (g *termGrid) text(x, y, width int, s string, k cellKind) {
	if width <= 0 || y < 0 || y >= g.rows {
		return
	}
	s = runewidth.Truncate(s, width, "…")
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		g.set(x, y, r, k)
		if w == 2 {
			g.set(x+1, y, 0, k)
		}
		x += w
	}
}

// line draws a Bresenham line between two cells.
func (g *termGrid) line(x0, y0, x1, y1 int, k cellKind) {
	dx, dy := x1-x0, y1-y0
	r := lineRune(dx, dy)

	adx, ady := abs(dx), abs(dy)
	sx, sy := sign(dx), sign(dy)
	err := adx - ady
	for {
		// Leave card borders and labels intact.
		if c := g.at(x0, y0); c.kind == kindBlank || c.kind == kindEdge {
			g.set(x0, y0, r, k)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		if !g.inReach(x0, y0, x1, y1) {
			return
		}
		e2 := 2 * err
		if e2 > -ady {
			err -= ady
			x0 += sx
		}
		if e2 < adx {
			err += adx
			y0 += sy
		}
	}
}

// inReach reports whether the rest of a line can still touch the grid.
func (g *termGrid) inReach(x0, y0, x1, y1 int) bool {
	return !(x0 < 0 && x1 < 0 || y0 < 0 && y1 < 0 ||
		x0 >= g.cols && x1 >= g.cols || y0 >= g.rows && y1 >= g.rows)
}

func lineRune(dx, dy int) rune {
	switch {
	case abs(dx) > 2*abs(dy):
		return '─'
	case abs(dy) > 2*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// box draws a rectangle border and blanks its interior.
func (g *termGrid) box(x0, y0, x1, y1 int, k cellKind) {
	for y := max(y0, 0); y <= min(y1, g.rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, g.cols-1); x++ {
			switch {
			case (x == x0 || x == x1) && (y == y0 || y == y1):
				g.set(x, y, corner(x == x0, y == y0), k)
			case y == y0 || y == y1:
				g.set(x, y, '─', k)
			case x == x0 || x == x1:
				g.set(x, y, '│', k)
			default:
				g.set(x, y, ' ', kindText)
			}
		}
	}
}

func corner(left, top bool) rune {
	switch {
	case left && top:
		return '╭'
	case top:
		return '╮'
	case left:
		return '╰'
	default:
		return '╯'
	}
}

// render joins the grid into lines, styling runs of equal kind.
func (g *termGrid) render(styled bool) string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.cells[y*g.cols : (y+1)*g.cols]
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for ; j < len(row) && row[j].kind == row[i].kind; j++ {
				if row[j].r != 0 {
					run.WriteRune(row[j].r)
				}
			}
			if st, ok := kindStyles[row[i].kind]; ok && styled {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			i = j
		}
	}
	return b.String()
}

// =============================================================================
// Snapshot Rendering
// =============================================================================

// renderTerminal draws a snapshot as cols×rows characters using the
// snapshot's viewport. Edges go first so cards cover them.
func renderTerminal(s canvas.Snapshot, cols, rows int, styled bool) string {
	g := newTermGrid(cols, rows)
	if s.State != canvas.StatePopulated {
		msg := "No story loaded"
		g.text((cols-runewidth.StringWidth(msg))/2, rows/2, cols, msg, kindLabel)
		return g.render(styled)
	}

	toCell := func(p canvas.Point) (int, int) {
		sp := s.View.ToScreen(p)
		return int(math.Floor(sp.X / cellWidth)), int(math.Floor(sp.Y / cellHeight))
	}

	for _, e := range s.Edges {
		k := kindEdge
		if e.Hovered {
			k = kindEdgeHover
		}
		x0, y0 := toCell(e.Start)
		x1, y1 := toCell(e.End)
		g.line(x0, y0, x1, y1, k)
	}

	for _, e := range s.Edges {
		if e.Label == "" {
			continue
		}
		x0, y0 := toCell(canvas.Point{X: e.LabelBox.Left(), Y: e.LabelBox.Top()})
		x1, _ := toCell(canvas.Point{X: e.LabelBox.Right(), Y: e.LabelBox.Top()})
		if w := x1 - x0; w >= 4 {
			g.text(x0, y0, w, e.Label, kindLabel)
		}
	}

	for _, c := range s.Cards {
		drawTermCard(g, c, toCell)
	}

	// Arrowheads sit on the target card's border.
	for _, e := range s.Edges {
		k := kindEdge
		if e.Hovered {
			k = kindEdgeHover
		}
		x, y := toCell(e.End)
		g.set(x, y, arrowRune(e.EndSide), k)
	}
	return g.render(styled)
}

func drawTermCard(g *termGrid, c canvas.CardView, toCell func(canvas.Point) (int, int)) {
	k := cardKind(c)
	x0, y0 := toCell(canvas.Point{X: c.Bounds.Left(), Y: c.Bounds.Top()})
	x1, y1 := toCell(canvas.Point{X: c.Bounds.Right(), Y: c.Bounds.Bottom()})
	if x1-x0 < 2 || y1-y0 < 2 {
		g.set(x0+(x1-x0)/2, y0+(y1-y0)/2, '■', k)
		return
	}
	g.box(x0, y0, x1, y1, k)

	inner := x1 - x0 - 1
	g.text(x0+1, y0, inner, " "+c.ID+" ", k)
	y := y0 + 1
	for _, l := range c.Lines {
		if y >= y1 {
			break
		}
		g.text(x0+1, y, inner, l, kindText)
		y++
	}
	badge := c.Badge
	if w := runewidth.StringWidth(badge); w+2 <= inner {
		g.text(x1-w-1, y1, w, badge, k)
	}
}

func cardKind(c canvas.CardView) cellKind {
	switch {
	case c.Hovered:
		return kindHovered
	case c.Selected:
		return kindSelected
	case c.Orphan:
		return kindOrphan
	case c.Role == canvas.RoleStart:
		return kindStart
	case c.Role == canvas.RoleEnding:
		return kindEnding
	default:
		return kindNormal
	}
}

// arrowRune points into the target card from the side the edge enters.
func arrowRune(side canvas.Side) rune {
	switch side {
	case canvas.SideBottom:
		return '▲'
	case canvas.SideLeft:
		return '▶'
	case canvas.SideRight:
		return '◀'
	default:
		return '▼'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
