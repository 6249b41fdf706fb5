// Package raster renders canvas snapshots to PNG with fogleman/gg.
//
// The drawing mirrors pkg/render/svg: gradient cards, arrow-headed edges
// and label panels. Text uses the fixed 7x13 face from x/image so output
// is identical on every host without system fonts.
package raster

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/storygraph/pkg/canvas"
	"github.com/matzehuels/storygraph/pkg/render/svg"
)

// Option configures PNG rendering.
type Option func(*pngRenderer)

type pngRenderer struct {
	scale    float64
	margin   float64
	viewport bool
	maxSide  int
}

// WithScale sets the pixel density (default 1).
func WithScale(s float64) Option { return func(r *pngRenderer) { r.scale = s } }

// WithViewport renders what the canvas viewport currently shows.
func WithViewport() Option { return func(r *pngRenderer) { r.viewport = true } }

// WithMaxSide caps the longer image side in pixels; the scale is reduced
// to fit.
func WithMaxSide(px int) Option { return func(r *pngRenderer) { r.maxSide = px } }

// RenderPNG draws s and returns the encoded PNG.
func RenderPNG(s canvas.Snapshot, opts ...Option) ([]byte, error) {
	r := pngRenderer{scale: 1, margin: 40, maxSide: 8192}
	for _, opt := range opts {
		opt(&r)
	}

	frame := svg.Frame(s, r.margin, r.viewport)
	scale := r.scale
	if r.viewport && s.View.Zoom > 0 {
		scale *= s.View.Zoom
	}
	if side := math.Max(frame.W, frame.H) * scale; r.maxSide > 0 && side > float64(r.maxSide) {
		scale *= float64(r.maxSide) / side
	}
	w, h := int(math.Round(frame.W*scale)), int(math.Round(frame.H*scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render png: empty frame %v", frame)
	}

	dc := gg.NewContext(w, h)
	p := s.Config.Palette

	bg := gg.NewLinearGradient(0, 0, float64(w), float64(h))
	bg.AddColorStop(0, hex(p.Background))
	bg.AddColorStop(1, hex(p.BackgroundEnd))
	dc.SetFillStyle(bg)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	dc.Scale(scale, scale)
	dc.Translate(-frame.X, -frame.Y)
	dc.SetFontFace(basicfont.Face7x13)

	if s.State == canvas.StateEmpty {
		c := frame.Center()
		dc.SetColor(hex(p.Placeholder))
		dc.DrawStringAnchored("Interactive story graph", c.X, c.Y-10, 0.5, 0.5)
		dc.DrawStringAnchored("Load or generate a story to see it here", c.X, c.Y+10, 0.5, 0.5)
	} else {
		for _, e := range s.Edges {
			drawEdge(dc, e)
		}
		for _, c := range s.Cards {
			drawCard(dc, s.Config, c)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawEdge(dc *gg.Context, e canvas.EdgeView) {
	dc.SetColor(hex(e.Style.Line))
	dc.SetLineWidth(e.Style.Width)
	dc.SetLineCapRound()
	dc.DrawLine(e.Start.X, e.Start.Y, e.End.X, e.End.Y)
	dc.Stroke()
	drawArrowHead(dc, e.Start, e.End, 10)

	if e.Label == "" {
		return
	}
	b := e.LabelBox
	dc.SetColor(hex(e.Style.LabelFill))
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.FillPreserve()
	dc.SetColor(hex(e.Style.LabelBorder))
	dc.SetLineWidth(1)
	dc.Stroke()
	c := b.Center()
	dc.SetColor(hex(e.Style.Label))
	dc.DrawStringAnchored(e.Label, c.X, c.Y, 0.5, 0.35)
}

func drawArrowHead(dc *gg.Context, from, to canvas.Point, size float64) {
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	const spread = math.Pi / 7
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*math.Cos(angle-spread), to.Y-size*math.Sin(angle-spread))
	dc.LineTo(to.X-size*math.Cos(angle+spread), to.Y-size*math.Sin(angle+spread))
	dc.ClosePath()
	dc.Fill()
}

func drawCard(dc *gg.Context, cfg canvas.Config, c canvas.CardView) {
	b := c.Bounds
	grad := gg.NewLinearGradient(b.X, b.Y, b.Right(), b.Bottom())
	grad.AddColorStop(0, hex(c.Style.FillFrom))
	grad.AddColorStop(1, hex(c.Style.FillTo))
	dc.SetFillStyle(grad)
	dc.DrawRoundedRectangle(b.X, b.Y, b.W, b.H, 8)
	dc.FillPreserve()
	dc.SetColor(hex(c.Style.Border))
	dc.SetLineWidth(c.Style.BorderWidth)
	dc.Stroke()

	dc.SetColor(hex(c.Style.Number))
	dc.DrawStringAnchored(strconv.Itoa(c.Number), b.Right()-cfg.Padding, b.Top()+cfg.Padding, 1, 1)

	dc.SetColor(hex(c.Style.Text))
	for i, line := range c.Lines {
		dc.DrawString(line, b.Left()+cfg.Padding, b.Top()+cfg.Padding+float64(i+1)*cfg.LineHeight)
	}

	dc.SetColor(hex(c.Style.Badge))
	dc.DrawString(c.Badge, b.Left()+cfg.Padding, b.Bottom()-12)
}

func hex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.White
	}
	return c
}
