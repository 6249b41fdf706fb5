package canvas

import (
	"math"

	"github.com/matzehuels/storygraph/pkg/errors"
)

// Side is the card side an edge attaches to.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "top"
	}
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(b []byte) error {
	for _, v := range []Side{SideTop, SideRight, SideBottom, SideLeft} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown edge side %q", b)
}

// Geometry is the derived shape of an edge.
type Geometry struct {
	Start     Point `json:"start"`
	End       Point `json:"end"`
	StartSide Side  `json:"start_side"`
	EndSide   Side  `json:"end_side"`

	// Label is the displayed choice text; LabelBox is its background panel.
	// Both are zero when the choice has no text.
	Label    string `json:"label,omitempty"`
	LabelBox Rect   `json:"label_box"`
}

// Edge is the connector drawn for one choice. It refers to its two cards
// without owning them and derives its geometry from their current
// positions on [Edge.Recompute].
type Edge struct {
	From   *Card
	To     *Card
	Text   string
	Choice int // index of the choice within the source scene

	cfg     *Config
	hovered bool
	geom    Geometry
}

// NewEdge connects from and to and computes the initial geometry.
func NewEdge(cfg *Config, from, to *Card, text string, choice int) *Edge {
	e := &Edge{From: from, To: to, Text: text, Choice: choice, cfg: cfg}
	e.Recompute()
	return e
}

// Recompute attaches each end to the card side facing the other card and
// centres the label on the line. The dominant axis of the centre delta
// picks left/right or top/bottom; ties go vertical.
func (e *Edge) Recompute() {
	fc, tc := e.From.Center(), e.To.Center()
	start, ss := connectionPoint(e.From.Bounds(), tc)
	end, es := connectionPoint(e.To.Bounds(), fc)

	g := Geometry{Start: start, End: end, StartSide: ss, EndSide: es}
	if e.Text != "" {
		g.Label = TruncateLabel(e.Text, e.cfg.LabelMax, e.cfg.LabelKeep)
		mid := Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
		w := TextWidth(g.Label, e.cfg.CharWidth)
		g.LabelBox = RectAround(mid, w, e.cfg.LineHeight).Inset(e.cfg.LabelPadX, e.cfg.LabelPadY)
	}
	e.geom = g
}

func connectionPoint(r Rect, target Point) (Point, Side) {
	c := r.Center()
	dx, dy := target.X-c.X, target.Y-c.Y
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return Point{X: r.Right(), Y: c.Y}, SideRight
		}
		return Point{X: r.Left(), Y: c.Y}, SideLeft
	}
	if dy > 0 {
		return Point{X: c.X, Y: r.Bottom()}, SideBottom
	}
	return Point{X: c.X, Y: r.Top()}, SideTop
}

// Geometry returns the geometry from the last [Edge.Recompute].
func (e *Edge) Geometry() Geometry { return e.geom }

// Touches reports whether c is either endpoint.
func (e *Edge) Touches(c *Card) bool { return e.From == c || e.To == c }

// Hovered reports whether the pointer is over the edge.
func (e *Edge) Hovered() bool { return e.hovered }

// PointerEnter marks the edge hovered.
func (e *Edge) PointerEnter() bool {
	if e.hovered {
		return false
	}
	e.hovered = true
	return true
}

// PointerLeave clears the hover state.
func (e *Edge) PointerLeave() bool {
	if !e.hovered {
		return false
	}
	e.hovered = false
	return true
}

// Tooltip is the full choice text, shown while hovered.
func (e *Edge) Tooltip() string {
	if !e.hovered {
		return ""
	}
	return e.Text
}

// HitTest reports whether p is within tolerance of the line or inside the
// label panel.
func (e *Edge) HitTest(p Point, tolerance float64) bool {
	if e.geom.Label != "" && e.geom.LabelBox.Contains(p) {
		return true
	}
	return segmentDistance(p, e.geom.Start, e.geom.End) <= tolerance
}

// Style derives the current line and label colours.
func (e *Edge) Style() EdgeStyle { return edgeStyle(*e.cfg, e.hovered) }
