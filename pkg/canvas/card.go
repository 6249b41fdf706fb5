package canvas

import (
	"strconv"

	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/story"
)

// Role is the fixed presentation role of a card.
type Role int

const (
	RoleNormal Role = iota
	RoleStart
	RoleEnding
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnding:
		return "ending"
	default:
		return "normal"
	}
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(b []byte) error {
	for _, v := range []Role{RoleNormal, RoleStart, RoleEnding} {
		if v.String() == string(b) {
			*r = v
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown card role %q", b)
}

// Card is the interactive box drawn for one scene. Its role is fixed at
// creation; hover, selection and position change through the methods
// below, each of which reports whether the card needs to be redrawn.
//
// Cards are owned by a [Canvas] and must only be touched under its lock.
type Card struct {
	ID     string
	Scene  story.Scene
	Number int
	Role   Role
	// Orphan is set when the layout gave the scene no position.
	Orphan bool

	cfg      *Config
	center   Point
	hovered  bool
	selected bool
	lines    []string
}

// NewCard builds a card for sc. number is the 1-based input position.
func NewCard(cfg *Config, id string, sc story.Scene, number int, role Role) *Card {
	return &Card{
		ID:     id,
		Scene:  sc,
		Number: number,
		Role:   role,
		cfg:    cfg,
		lines:  WrapText(sc.Text(), cfg.WrapWidth(), cfg.CharWidth, cfg.MaxLines()),
	}
}

// Hovered reports whether the pointer is over the card.
func (c *Card) Hovered() bool { return c.hovered }

// Selected reports whether the card is selected.
func (c *Card) Selected() bool { return c.selected }

// PointerEnter marks the card hovered.
func (c *Card) PointerEnter() bool {
	if c.hovered {
		return false
	}
	c.hovered = true
	return true
}

// PointerLeave clears the hover state.
func (c *Card) PointerLeave() bool {
	if !c.hovered {
		return false
	}
	c.hovered = false
	return true
}

// Click toggles selection. It always needs a redraw.
func (c *Card) Click() bool {
	c.selected = !c.selected
	return true
}

// SetSelected forces the selection state.
func (c *Card) SetSelected(v bool) bool {
	if c.selected == v {
		return false
	}
	c.selected = v
	return true
}

// Center returns the card centre in canvas coordinates.
func (c *Card) Center() Point { return c.center }

// Bounds returns the card box in canvas coordinates.
func (c *Card) Bounds() Rect {
	return RectAround(c.center, c.cfg.CardWidth, c.cfg.CardHeight)
}

// Contains reports whether p is on the card.
func (c *Card) Contains(p Point) bool { return c.Bounds().Contains(p) }

// MoveTo places the card centre at p. Incident edges are not updated; the
// canvas does that.
func (c *Card) MoveTo(p Point) bool {
	if c.center == p {
		return false
	}
	c.center = p
	return true
}

// Lines returns the wrapped description.
func (c *Card) Lines() []string { return c.lines }

// Badge returns the role caption shown at the bottom of the card.
func (c *Card) Badge() string {
	switch c.Role {
	case RoleStart:
		return "START"
	case RoleEnding:
		return "ENDING"
	default:
		return "CHOICES: " + strconv.Itoa(len(c.Scene.Choices))
	}
}

// Style derives the current appearance from role, hover and selection.
// Hover takes precedence over selection.
func (c *Card) Style() CardStyle {
	return cardStyle(*c.cfg, c.Role, c.hovered, c.selected)
}
