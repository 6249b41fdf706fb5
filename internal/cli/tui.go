package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/storygraph/pkg/analysis"
	"github.com/matzehuels/storygraph/pkg/canvas"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// Keyboard steps, in terminal cells.
const (
	panCells  = 4
	dragCells = 2
)

const viewHelp = "←↑↓→ pan  +/- zoom  0 fit  tab focus  ␣ select  HJKL move  l list  q quit"

// =============================================================================
// ViewModel - Interactive story canvas
// =============================================================================

// ViewModel is the bubbletea model behind "storygraph view". It renders the
// canvas into the terminal and maps keys and mouse events onto canvas
// operations: the mouse hovers, clicks, drags and wheel-zooms like a
// pointer would, the keyboard pans, zooms and walks the cards.
type ViewModel struct {
	Canvas *canvas.Canvas
	Report analysis.Report

	Width, Height int
	Styled        bool

	focus  int // index of the keyboard-focused card, -1 for none
	list   bool
	cursor int
	offset int
	drag   *dragState
	status string
	fitted bool
}

type dragState struct {
	id    string
	last  canvas.Point
	moved bool
}

// NewViewModel wraps a loaded canvas.
func NewViewModel(c *canvas.Canvas) ViewModel {
	return ViewModel{
		Canvas: c,
		Report: analysis.Analyze(c.Graph()),
		Styled: true,
		focus:  -1,
	}
}

func (m ViewModel) Init() tea.Cmd {
	return nil
}

func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		cols, rows := m.canvasSize()
		m.Canvas.Resize(float64(cols)*cellWidth, float64(rows)*cellHeight)
		if !m.fitted {
			m.Canvas.ResetView()
			m.fitted = true
		}
	case tea.KeyMsg:
		if m.list {
			return m.updateList(msg)
		}
		return m.updateCanvas(msg)
	case tea.MouseMsg:
		if !m.list {
			m.updateMouse(msg)
		}
	}
	return m, nil
}

func (m ViewModel) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.Canvas
	step := canvas.Point{X: panCells * cellWidth, Y: panCells * cellHeight / 2}

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "+", "=":
		c.ZoomIn()
	case "-", "_":
		c.ZoomOut()
	case "0", "r":
		c.ResetView()
	case "left", "h":
		c.Pan(step.X, 0)
	case "right":
		c.Pan(-step.X, 0)
	case "up", "k":
		c.Pan(0, step.Y)
	case "down", "j":
		c.Pan(0, -step.Y)
	case "tab":
		m.setFocus(m.focus + 1)
	case "shift+tab":
		m.setFocus(m.focus - 1)
	case " ", "enter":
		if id, ok := m.focusedID(); ok {
			_, _ = c.Toggle(id)
		}
	case "c":
		c.ClearSelection()
	case "H", "J", "K", "L":
		m.nudge(msg.String())
	case "l":
		m.list = true
		m.cursor = max(m.focus, 0)
		m.scrollList()
	}
	return m, nil
}

func (m ViewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.Canvas.Snapshot().Cards)
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "l":
		m.list = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter":
		m.list = false
		m.setFocus(m.cursor)
		m.centerOnFocus()
	}
	m.scrollList()
	return m, nil
}

// scrollList keeps the list cursor inside the visible rows.
func (m *ViewModel) scrollList() {
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
}

func (m ViewModel) listHeight() int { return max(m.Height-8, 3) }

func (m *ViewModel) updateMouse(msg tea.MouseMsg) {
	c := m.Canvas
	screen, ok := m.screenPoint(msg.X, msg.Y)
	if !ok {
		return
	}
	p := c.Viewport().ToCanvas(screen)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		c.Wheel(1, screen)
	case msg.Button == tea.MouseButtonWheelDown:
		c.Wheel(-1, screen)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if hit := c.HitTest(p); hit.Kind == canvas.HitCard {
			m.drag = &dragState{id: hit.ID, last: p}
		}
	case msg.Action == tea.MouseActionMotion && m.drag != nil:
		if err := c.DragBy(m.drag.id, p.X-m.drag.last.X, p.Y-m.drag.last.Y); err == nil {
			m.drag.last, m.drag.moved = p, true
		}
	case msg.Action == tea.MouseActionRelease:
		if m.drag != nil && !m.drag.moved {
			c.ClickAt(p)
		}
		m.drag = nil
	case msg.Action == tea.MouseActionMotion:
		c.HoverAt(p)
	}
}

// screenPoint converts a terminal cell to viewport pixels at the cell
// centre. Cells outside the canvas area are rejected.
func (m ViewModel) screenPoint(x, y int) (canvas.Point, bool) {
	cols, rows := m.canvasSize()
	y-- // header line
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return canvas.Point{}, false
	}
	return canvas.Point{X: (float64(x) + 0.5) * cellWidth, Y: (float64(y) + 0.5) * cellHeight}, true
}

func (m *ViewModel) setFocus(i int) {
	s := m.Canvas.Snapshot()
	if len(s.Cards) == 0 {
		return
	}
	i = (i%len(s.Cards) + len(s.Cards)) % len(s.Cards)
	m.focus = i
	m.Canvas.HoverAt(s.Cards[i].Center)
	m.status = fmt.Sprintf("#%d %s", s.Cards[i].Number, s.Cards[i].ID)
}

func (m ViewModel) focusedID() (string, bool) {
	s := m.Canvas.Snapshot()
	if m.focus < 0 || m.focus >= len(s.Cards) {
		return "", false
	}
	return s.Cards[m.focus].ID, true
}

// nudge moves the focused card with HJKL and keeps it hovered.
func (m *ViewModel) nudge(key string) {
	id, ok := m.focusedID()
	if !ok {
		return
	}
	zoom := m.Canvas.Viewport().Zoom
	dx, dy := dragCells*cellWidth/zoom, dragCells*cellHeight/zoom/2
	switch key {
	case "H":
		dx, dy = -dx, 0
	case "L":
		dy = 0
	case "K":
		dx, dy = 0, -dy
	case "J":
		dx = 0
	}
	_ = m.Canvas.DragBy(id, dx, dy)
}

// centerOnFocus pans so the focused card sits in the middle of the screen.
func (m *ViewModel) centerOnFocus() {
	id, ok := m.focusedID()
	if !ok {
		return
	}
	s := m.Canvas.Snapshot()
	card, _ := s.Card(id)
	at := s.View.ToScreen(card.Center)
	mid := s.View.ScreenCenter()
	m.Canvas.Pan(mid.X-at.X, mid.Y-at.Y)
}

// canvasSize is the drawing area in cells: everything but the header and
// footer lines.
func (m ViewModel) canvasSize() (cols, rows int) {
	return max(m.Width, 1), max(m.Height-2, 1)
}

func (m ViewModel) View() string {
	if m.Width == 0 {
		return "loading..."
	}
	if m.list {
		return m.listView()
	}

	s := m.Canvas.Snapshot()
	cols, rows := m.canvasSize()

	var b strings.Builder
	title := s.Title
	if title == "" {
		title = "Untitled story"
	}
	header := StyleTitle.Render(title) + "  " + listDimStyle.Render(m.Report.Summary())
	b.WriteString(clip(header, m.Width))
	b.WriteString("\n")
	b.WriteString(renderTerminal(s, cols, rows, m.Styled))
	b.WriteString("\n")

	footer := viewHelp
	switch {
	case s.Tooltip() != "":
		footer = s.Tooltip()
	case m.status != "":
		footer = m.status + "  " + fmt.Sprintf("zoom %.0f%%", s.View.Zoom*100)
	}
	b.WriteString(listDimStyle.Render(clip(footer, m.Width)))
	return b.String()
}

// listView shows the scenes as a table; enter jumps to the chosen card.
func (m ViewModel) listView() string {
	s := m.Canvas.Snapshot()
	end := min(m.offset+m.listHeight(), len(s.Cards))

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		c := s.Cards[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := ""
		if c.Selected {
			mark = "✓"
		}
		rows = append(rows, []string{cursor, strconv.Itoa(c.Number), c.ID, c.Role.String(), strconv.Itoa(c.Choices), mark})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Scene", "Role", "Choices", "Sel").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(s.Cards) {
				return lipgloss.NewStyle()
			}
			c := s.Cards[idx]
			base := lipgloss.NewStyle()
			switch {
			case c.Orphan:
				base = base.Foreground(colorRed)
			case c.Role == canvas.RoleStart:
				base = base.Foreground(colorGreen)
			case c.Role == canvas.RoleEnding:
				base = base.Foreground(colorPurple)
			}
			if idx == m.cursor {
				return base.Bold(true)
			}
			return base
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Scenes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ jump  l back  q quit"))
	b.WriteString("\n\n")
	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.cursor+1, len(s.Cards)), len(s.Cards))))
	return b.String()
}

// clip truncates a possibly styled line to width cells.
func clip(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
