package canvas

import (
	"testing"

	"github.com/matzehuels/storygraph/pkg/story"
)

func TestCardTransitions(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCard(&cfg, "a", story.Scene{ID: "a"}, 1, RoleNormal)

	steps := []struct {
		name string
		do   func() bool
		want bool
	}{
		{"enter", c.PointerEnter, true},
		{"enter again", c.PointerEnter, false},
		{"leave", c.PointerLeave, true},
		{"leave again", c.PointerLeave, false},
		{"click", c.Click, true},
	}
	for _, s := range steps {
		if got := s.do(); got != s.want {
			t.Errorf("%s: redraw = %v, want %v", s.name, got, s.want)
		}
	}
	if !c.Selected() {
		t.Error("card should be selected after one click")
	}
	c.Click()
	if c.Selected() {
		t.Error("second click should deselect")
	}
}

func TestCardBadge(t *testing.T) {
	cfg := DefaultConfig()
	two := story.Scene{Choices: []story.Choice{{Text: "x"}, {Text: "y"}}}
	tests := []struct {
		role Role
		want string
	}{
		{RoleStart, "START"},
		{RoleEnding, "ENDING"},
		{RoleNormal, "CHOICES: 2"},
	}
	for _, tt := range tests {
		c := NewCard(&cfg, "s", two, 1, tt.role)
		if got := c.Badge(); got != tt.want {
			t.Errorf("Badge(%v) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestCardLines(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCard(&cfg, "a", story.Scene{}, 1, RoleNormal)
	if got := c.Lines(); len(got) != 1 || got[0] != story.DefaultDescription {
		t.Errorf("Lines() = %q, want placeholder", got)
	}

	long := ""
	for range 200 {
		long += "word "
	}
	c = NewCard(&cfg, "b", story.Scene{Description: long}, 2, RoleNormal)
	lines := c.Lines()
	if len(lines) != cfg.MaxLines() {
		t.Fatalf("len(Lines()) = %d, want %d", len(lines), cfg.MaxLines())
	}
	if lines[len(lines)-1] != Ellipsis {
		t.Errorf("last line = %q, want %q", lines[len(lines)-1], Ellipsis)
	}
}

func TestCardBounds(t *testing.T) {
	cfg := DefaultConfig()
	c := NewCard(&cfg, "a", story.Scene{}, 1, RoleNormal)
	c.MoveTo(Point{X: 10, Y: 20})

	want := Rect{X: -140, Y: -80, W: 300, H: 200}
	if got := c.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if !c.Contains(Point{X: 160, Y: 120}) {
		t.Error("corner should be inside")
	}
	if c.Contains(Point{X: 161, Y: 0}) {
		t.Error("point right of card should be outside")
	}
	if c.MoveTo(Point{X: 10, Y: 20}) {
		t.Error("MoveTo same point should not need a redraw")
	}
}

func TestRoleText(t *testing.T) {
	for _, r := range []Role{RoleNormal, RoleStart, RoleEnding} {
		b, _ := r.MarshalText()
		var got Role
		if err := got.UnmarshalText(b); err != nil || got != r {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", b, got, err, r)
		}
	}
	var r Role
	if err := r.UnmarshalText([]byte("villain")); err == nil {
		t.Error("UnmarshalText(villain) should fail")
	}
}
