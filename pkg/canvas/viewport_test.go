package canvas

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearPt(a, b Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(1000, 800, 0, 0)
	v.Zoom, v.Origin = 2.5, Point{X: -300, Y: 40}

	for _, p := range []Point{{X: 0, Y: 0}, {X: 123.5, Y: -77}, {X: -1000, Y: 1000}} {
		if got := v.ToCanvas(v.ToScreen(p)); !nearPt(got, p) {
			t.Errorf("round trip %v = %v", p, got)
		}
	}
}

func TestViewportFit(t *testing.T) {
	v := NewViewport(1000, 800, 0, 0)
	r := Rect{X: -150, Y: -100, W: 300, H: 200}

	v.Fit(r, 0.8)

	wantZoom := math.Min(1000.0/300, 800.0/200) * 0.8
	if !near(v.Zoom, wantZoom) {
		t.Errorf("Zoom = %v, want %v", v.Zoom, wantZoom)
	}
	if got := v.ToScreen(r.Center()); !nearPt(got, Point{X: 500, Y: 400}) {
		t.Errorf("centre maps to %v, want screen centre", got)
	}
}

func TestViewportFitEmpty(t *testing.T) {
	v := NewViewport(1000, 800, 0, 0)
	v.Fit(Rect{}, 0.8)
	if v.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", v.Zoom)
	}
	if got := v.ToScreen(Point{}); got != (Point{X: 500, Y: 400}) {
		t.Errorf("origin maps to %v, want centre", got)
	}
}

func TestViewportZoomAt(t *testing.T) {
	v := NewViewport(1000, 800, 0.5, 4)
	anchor := Point{X: 200, Y: 700}
	before := v.ToCanvas(anchor)

	if !v.ZoomAt(1.15, anchor) {
		t.Fatal("ZoomAt() reported no change")
	}
	if !near(v.Zoom, 1.15) {
		t.Errorf("Zoom = %v, want 1.15", v.Zoom)
	}
	if got := v.ToCanvas(anchor); !nearPt(got, before) {
		t.Errorf("anchor moved from %v to %v", before, got)
	}

	v.ZoomAt(100, anchor)
	if v.Zoom != 4 {
		t.Errorf("Zoom = %v, want clamp to 4", v.Zoom)
	}
	if v.ZoomAt(2, anchor) {
		t.Error("ZoomAt at the limit should report no change")
	}
}

func TestViewportPan(t *testing.T) {
	v := NewViewport(1000, 800, 0, 0)
	v.Zoom = 2
	p := Point{X: 10, Y: 10}
	before := v.ToScreen(p)

	v.Pan(30, -20)

	if got := v.ToScreen(p); !nearPt(got, Point{X: before.X + 30, Y: before.Y - 20}) {
		t.Errorf("after pan %v, want shifted %v", got, before)
	}
	if v.Pan(0, 0) {
		t.Error("zero pan should not need a redraw")
	}
}
