package canvas

// Viewport maps canvas coordinates onto a screen of Width×Height pixels:
//
//	screen = (canvas - Origin) * Zoom
//
// Origin is the canvas point shown at the top-left screen corner.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Zoom   float64 `json:"zoom"`
	Origin Point   `json:"origin"`

	minZoom, maxZoom float64
}

// NewViewport returns an identity viewport of the given screen size.
func NewViewport(width, height, minZoom, maxZoom float64) Viewport {
	return Viewport{Width: width, Height: height, Zoom: 1, minZoom: minZoom, maxZoom: maxZoom}
}

// ToScreen converts a canvas point to screen pixels.
func (v Viewport) ToScreen(p Point) Point {
	return Point{X: (p.X - v.Origin.X) * v.Zoom, Y: (p.Y - v.Origin.Y) * v.Zoom}
}

// ToCanvas converts screen pixels to a canvas point.
func (v Viewport) ToCanvas(p Point) Point {
	return Point{X: p.X/v.Zoom + v.Origin.X, Y: p.Y/v.Zoom + v.Origin.Y}
}

// Visible returns the canvas area currently on screen.
func (v Viewport) Visible() Rect {
	return Rect{X: v.Origin.X, Y: v.Origin.Y, W: v.Width / v.Zoom, H: v.Height / v.Zoom}
}

// ScreenCenter returns the middle of the screen in pixels.
func (v Viewport) ScreenCenter() Point { return Point{X: v.Width / 2, Y: v.Height / 2} }

// ZoomAt multiplies the zoom by factor keeping the canvas point under
// anchor (screen pixels) fixed. The zoom is clamped to the viewport
// limits; it reports whether the zoom changed.
func (v *Viewport) ZoomAt(factor float64, anchor Point) bool {
	if factor <= 0 {
		return false
	}
	z := v.clamp(v.Zoom * factor)
	if z == v.Zoom {
		return false
	}
	c := v.ToCanvas(anchor)
	v.Zoom = z
	v.Origin = Point{X: c.X - anchor.X/z, Y: c.Y - anchor.Y/z}
	return true
}

// Pan shifts the view by dx, dy screen pixels. Positive values move the
// content right and down.
func (v *Viewport) Pan(dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	v.Origin.X -= dx / v.Zoom
	v.Origin.Y -= dy / v.Zoom
	return true
}

// Fit scales r to fill the screen with its aspect ratio preserved, centres
// it, then zooms out by margin.
func (v *Viewport) Fit(r Rect, margin float64) {
	if r.Empty() || v.Width <= 0 || v.Height <= 0 {
		v.Zoom, v.Origin = 1, Point{X: -v.Width / 2, Y: -v.Height / 2}
		return
	}
	z := min(v.Width/r.W, v.Height/r.H)
	if margin > 0 {
		z *= margin
	}
	v.Zoom = v.clamp(z)
	c := r.Center()
	v.Origin = Point{X: c.X - v.Width/(2*v.Zoom), Y: c.Y - v.Height/(2*v.Zoom)}
}

// Resize changes the screen size keeping the canvas centre in place.
func (v *Viewport) Resize(width, height float64) bool {
	if width <= 0 || height <= 0 || (width == v.Width && height == v.Height) {
		return false
	}
	c := v.ToCanvas(v.ScreenCenter())
	v.Width, v.Height = width, height
	v.Origin = Point{X: c.X - width/(2*v.Zoom), Y: c.Y - height/(2*v.Zoom)}
	return true
}

func (v Viewport) clamp(z float64) float64 {
	if v.minZoom > 0 {
		z = max(z, v.minZoom)
	}
	if v.maxZoom > 0 {
		z = min(z, v.maxZoom)
	}
	return z
}
