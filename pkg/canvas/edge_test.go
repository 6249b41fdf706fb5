package canvas

import (
	"strings"
	"testing"

	"github.com/matzehuels/storygraph/pkg/story"
)

func cardAt(cfg *Config, id string, x, y float64) *Card {
	c := NewCard(cfg, id, story.Scene{ID: id}, 1, RoleNormal)
	c.MoveTo(Point{X: x, Y: y})
	return c
}

func TestEdgeSides(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name          string
		to            Point
		wantStart     Point
		wantEnd       Point
		wantStartSide Side
		wantEndSide   Side
	}{
		{"below", Point{X: 0, Y: 250}, Point{X: 0, Y: 100}, Point{X: 0, Y: 150}, SideBottom, SideTop},
		{"above", Point{X: 0, Y: -250}, Point{X: 0, Y: -100}, Point{X: 0, Y: -150}, SideTop, SideBottom},
		{"right", Point{X: 500, Y: 10}, Point{X: 150, Y: 0}, Point{X: 350, Y: 10}, SideRight, SideLeft},
		{"left", Point{X: -500, Y: 10}, Point{X: -150, Y: 0}, Point{X: -350, Y: 10}, SideLeft, SideRight},
		{"tie goes vertical", Point{X: 300, Y: 300}, Point{X: 0, Y: 100}, Point{X: 300, Y: 200}, SideBottom, SideTop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := cardAt(&cfg, "a", 0, 0)
			to := cardAt(&cfg, "b", tt.to.X, tt.to.Y)
			g := NewEdge(&cfg, from, to, "", 0).Geometry()
			if g.Start != tt.wantStart || g.End != tt.wantEnd {
				t.Errorf("endpoints = %v -> %v, want %v -> %v", g.Start, g.End, tt.wantStart, tt.wantEnd)
			}
			if g.StartSide != tt.wantStartSide || g.EndSide != tt.wantEndSide {
				t.Errorf("sides = %v/%v, want %v/%v", g.StartSide, g.EndSide, tt.wantStartSide, tt.wantEndSide)
			}
		})
	}
}

func TestEdgeLabel(t *testing.T) {
	cfg := DefaultConfig()
	from := cardAt(&cfg, "a", 0, 0)
	to := cardAt(&cfg, "b", 0, 300)

	g := NewEdge(&cfg, from, to, "go", 0).Geometry()
	if g.Label != "go" {
		t.Errorf("Label = %q, want go", g.Label)
	}
	// line runs 100..200, midpoint 150; text 14x16 plus 5,2 padding
	want := Rect{X: -12, Y: 140, W: 24, H: 20}
	if g.LabelBox != want {
		t.Errorf("LabelBox = %v, want %v", g.LabelBox, want)
	}

	long := strings.Repeat("choose ", 10)
	g = NewEdge(&cfg, from, to, long, 0).Geometry()
	if len([]rune(g.Label)) != 30 || !strings.HasSuffix(g.Label, "...") {
		t.Errorf("Label = %q, want 27 runes plus ellipsis", g.Label)
	}

	if g := NewEdge(&cfg, from, to, "", 0).Geometry(); g.Label != "" || g.LabelBox != (Rect{}) {
		t.Errorf("empty text should have no label: %+v", g)
	}
}

func TestEdgeRecomputeFollowsCards(t *testing.T) {
	cfg := DefaultConfig()
	from := cardAt(&cfg, "a", 0, 0)
	to := cardAt(&cfg, "b", 0, 300)
	e := NewEdge(&cfg, from, to, "go", 0)

	to.MoveTo(Point{X: 600, Y: 0})
	if e.Geometry().End != (Point{X: 0, Y: 200}) {
		t.Error("geometry should not change before Recompute")
	}
	e.Recompute()
	if g := e.Geometry(); g.StartSide != SideRight || g.End != (Point{X: 450, Y: 0}) {
		t.Errorf("after Recompute = %+v", g)
	}
}

func TestEdgeHover(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEdge(&cfg, cardAt(&cfg, "a", 0, 0), cardAt(&cfg, "b", 0, 300), "Open the door", 0)

	if e.Tooltip() != "" {
		t.Error("tooltip should be hidden before hover")
	}
	if !e.PointerEnter() || e.PointerEnter() {
		t.Error("PointerEnter should report a change once")
	}
	if e.Tooltip() != "Open the door" {
		t.Errorf("Tooltip() = %q", e.Tooltip())
	}
	if s := e.Style(); s.Line != cfg.Palette.EdgeHover || s.Width != cfg.EdgeHoverWidth {
		t.Errorf("hover style = %+v", s)
	}
	if !e.PointerLeave() || e.PointerLeave() {
		t.Error("PointerLeave should report a change once")
	}
}

func TestEdgeHitTest(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEdge(&cfg, cardAt(&cfg, "a", 0, 0), cardAt(&cfg, "b", 0, 300), "a rather long label", 0)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"on line", Point{X: 0, Y: 110}, true},
		{"near line", Point{X: 5, Y: 190}, true},
		{"on label panel", Point{X: 40, Y: 150}, true},
		{"far away", Point{X: 100, Y: 120}, false},
		{"beyond segment end", Point{X: 0, Y: 260}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.HitTest(tt.p, 6); got != tt.want {
				t.Errorf("HitTest(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
