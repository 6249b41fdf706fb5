package server

import (
	"math"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/errors"
)

// Action types accepted by [Apply].
const (
	ActionHitTest        = "hit_test"
	ActionHover          = "hover"
	ActionLeave          = "leave"
	ActionClick          = "click"
	ActionToggle         = "toggle"
	ActionClearSelection = "clear_selection"
	ActionMove           = "move"
	ActionDrag           = "drag"
	ActionZoomIn         = "zoom_in"
	ActionZoomOut        = "zoom_out"
	ActionWheel          = "wheel"
	ActionPan            = "pan"
	ActionResize         = "resize"
	ActionResetView      = "reset_view"
)

// Action is a pointer, keyboard or view event sent by a client.
//
// X and Y are canvas coordinates for hit_test, hover, click and move, and
// screen pixels for wheel. DX and DY are canvas units for drag and screen
// pixels for pan.
type Action struct {
	Type   string  `json:"type"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Outcome reports what an action did.
type Outcome struct {
	Changed  bool        `json:"changed"`
	ID       string      `json:"id,omitempty"`
	Hit      *canvas.Hit `json:"hit,omitempty"`
	Selected []string    `json:"selected"`
	Version  uint64      `json:"version"`
}

func (a Action) point() canvas.Point { return canvas.Point{X: a.X, Y: a.Y} }

func (a Action) finite() bool {
	for _, v := range []float64{a.X, a.Y, a.DX, a.DY, a.Delta, a.Width, a.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Apply performs a on c.
func Apply(c *canvas.Canvas, a Action) (Outcome, error) {
	if !a.finite() {
		return Outcome{}, errors.New(errors.ErrCodeInvalidAction, "%s: coordinates must be finite", a.Type)
	}

	var out Outcome
	var err error
	switch a.Type {
	case ActionHitTest:
		hit := c.HitTest(a.point())
		out.Hit, out.ID = &hit, hit.ID
	case ActionHover:
		out.Changed = c.HoverAt(a.point())
		hit := c.HitTest(a.point())
		out.Hit, out.ID = &hit, hit.ID
	case ActionLeave:
		out.Changed = c.Leave()
	case ActionClick:
		out.ID, out.Changed = c.ClickAt(a.point())
	case ActionToggle:
		out.ID = a.ID
		out.Changed, err = c.Toggle(a.ID)
	case ActionClearSelection:
		out.Changed = c.ClearSelection()
	case ActionMove:
		out.ID = a.ID
		err = c.MoveCard(a.ID, a.point())
		out.Changed = err == nil
	case ActionDrag:
		out.ID = a.ID
		err = c.DragBy(a.ID, a.DX, a.DY)
		out.Changed = err == nil
	case ActionZoomIn:
		out.Changed = c.ZoomIn()
	case ActionZoomOut:
		out.Changed = c.ZoomOut()
	case ActionWheel:
		out.Changed = c.Wheel(a.Delta, a.point())
	case ActionPan:
		out.Changed = c.Pan(a.DX, a.DY)
	case ActionResize:
		if a.Width <= 0 || a.Height <= 0 {
			return Outcome{}, errors.New(errors.ErrCodeInvalidAction, "resize: width and height must be positive")
		}
		out.Changed = c.Resize(a.Width, a.Height)
	case ActionResetView:
		c.ResetView()
		out.Changed = true
	default:
		return Outcome{}, errors.New(errors.ErrCodeInvalidAction, "unknown action %q", a.Type)
	}
	if err != nil {
		return Outcome{}, err
	}

	out.Selected = c.Selected()
	if out.Selected == nil {
		out.Selected = []string{}
	}
	out.Version = c.Version()
	return out, nil
}
