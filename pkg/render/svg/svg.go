package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/storygraph/pkg/canvas"
)

const fontFamily = "Segoe UI, Helvetica, Arial, sans-serif"

const interactionCSS = `
    .card { cursor: pointer; }
    .card rect { transition: filter 0.15s ease; }
    .card.hover rect { filter: brightness(1.2); }
    .card.selected rect { filter: brightness(1.1); stroke-width: 3; }
    .card.hover .desc { fill: #000000; }
    .edge line { transition: stroke 0.15s ease, stroke-width 0.15s ease; }
    .edge:hover line { stroke: %s; stroke-width: %.0f; }`

const interactionJS = `
    document.querySelectorAll('.card').forEach(el => {
      el.addEventListener('mouseenter', () => el.classList.add('hover'));
      el.addEventListener('mouseleave', () => el.classList.remove('hover'));
      el.addEventListener('click', () => el.classList.toggle('selected'));
    });`

// SVGOption configures rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin      float64
	interaction bool
	viewport    bool
	background  bool
}

// WithInteraction embeds hover and selection script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interaction = true } }

// WithViewport renders what the canvas viewport currently shows instead of
// the whole graph.
func WithViewport() SVGOption { return func(r *svgRenderer) { r.viewport = true } }

// WithMargin sets the space around the graph in canvas units.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithoutBackground leaves the background transparent.
func WithoutBackground() SVGOption { return func(r *svgRenderer) { r.background = false } }

// RenderSVG writes s as an SVG document.
func RenderSVG(s canvas.Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{margin: 40, background: true}
	for _, opt := range opts {
		opt(&r)
	}

	frame := Frame(s, r.margin, r.viewport)
	width, height := frame.W, frame.H
	if r.viewport {
		width, height = s.View.Width, s.View.Height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame.X, frame.Y, frame.W, frame.H, width, height)

	renderDefs(&buf, s)
	if r.background {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#bg)"/>`+"\n",
			frame.X, frame.Y, frame.W, frame.H)
	}

	if s.State == canvas.StateEmpty {
		renderPlaceholder(&buf, s, frame)
	} else {
		for i, e := range s.Edges {
			renderEdge(&buf, s, i, e)
		}
		for i, c := range s.Cards {
			renderCard(&buf, s, i, c)
		}
	}

	if r.interaction {
		renderInteraction(&buf, s)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Frame returns the canvas area an SVG of s covers: the card bounds plus
// margin, or the visible viewport area.
func Frame(s canvas.Snapshot, margin float64, viewport bool) canvas.Rect {
	if viewport || s.State == canvas.StateEmpty || s.Bounds.Empty() {
		v := s.View.Visible()
		if v.Empty() {
			return canvas.Rect{X: -500, Y: -400, W: 1000, H: 800}
		}
		return v
	}
	return s.Bounds.Inset(margin, margin)
}

func renderDefs(buf *bytes.Buffer, s canvas.Snapshot) {
	p := s.Config.Palette
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <linearGradient id="bg" x1="0" y1="0" x2="1" y2="1"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient>`+"\n",
		p.Background, p.BackgroundEnd)
	fmt.Fprintf(buf, `    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker>`+"\n",
		p.Edge)
	fmt.Fprintf(buf, `    <marker id="arrow-hover" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="%s"/></marker>`+"\n",
		p.EdgeHover)
	for i, c := range s.Cards {
		fmt.Fprintf(buf, `    <linearGradient id="card-grad-%d" x1="0" y1="0" x2="1" y2="1"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient>`+"\n",
			i, c.Style.FillFrom, c.Style.FillTo)
	}
	buf.WriteString("  </defs>\n")
}

func renderPlaceholder(buf *bytes.Buffer, s canvas.Snapshot, frame canvas.Rect) {
	c := frame.Center()
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="18" fill="%s">`,
		c.X, c.Y-20, fontFamily, s.Config.Palette.Placeholder)
	buf.WriteString(EscapeXML("Interactive story graph"))
	buf.WriteString("</text>\n")
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="13" fill="%s">`,
		c.X, c.Y+10, fontFamily, s.Config.Palette.Placeholder)
	buf.WriteString(EscapeXML("Load or generate a story to see its scenes and choices"))
	buf.WriteString("</text>\n")
}

func renderEdge(buf *bytes.Buffer, s canvas.Snapshot, i int, e canvas.EdgeView) {
	marker := "arrow"
	if e.Hovered {
		marker = "arrow-hover"
	}
	fmt.Fprintf(buf, `  <g class="edge" id="edge-%d" data-from="%s" data-to="%s">`+"\n",
		i, EscapeXML(e.FromID), EscapeXML(e.ToID))
	if e.Text != "" {
		fmt.Fprintf(buf, "    <title>%s</title>\n", EscapeXML(e.Text))
	}
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.0f" stroke-linecap="round" marker-end="url(#%s)"/>`+"\n",
		e.Start.X, e.Start.Y, e.End.X, e.End.Y, e.Style.Line, e.Style.Width, marker)

	if e.Label != "" {
		b := e.LabelBox
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			b.X, b.Y, b.W, b.H, e.Style.LabelFill, e.Style.LabelBorder)
		c := b.Center()
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="11" font-weight="bold" fill="%s">%s</text>`+"\n",
			c.X, c.Y, fontFamily, e.Style.Label, EscapeXML(e.Label))
	}
	buf.WriteString("  </g>\n")
}

func renderCard(buf *bytes.Buffer, s canvas.Snapshot, i int, c canvas.CardView) {
	cfg := s.Config
	b := c.Bounds

	class := "card"
	if c.Hovered {
		class += " hover"
	}
	if c.Selected {
		class += " selected"
	}
	fmt.Fprintf(buf, `  <g class="%s" id="card-%d" data-id="%s" data-role="%s">`+"\n",
		class, i, EscapeXML(c.ID), c.Role)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="url(#card-grad-%d)" stroke="%s" stroke-width="%.0f"/>`+"\n",
		b.X, b.Y, b.W, b.H, i, c.Style.Border, c.Style.BorderWidth)

	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="end" font-family="%s" font-size="14" font-weight="bold" fill="%s">%s</text>`+"\n",
		b.Right()-cfg.Padding, b.Top()+cfg.Padding+14, fontFamily, c.Style.Number, strconv.Itoa(c.Number))

	fmt.Fprintf(buf, `    <text class="desc" font-family="%s" font-size="11" fill="%s">`+"\n", fontFamily, c.Style.Text)
	for j, line := range c.Lines {
		fmt.Fprintf(buf, `      <tspan x="%.1f" y="%.1f">%s</tspan>`+"\n",
			b.Left()+cfg.Padding, b.Top()+cfg.Padding+float64(j+1)*cfg.LineHeight, EscapeXML(line))
	}
	buf.WriteString("    </text>\n")

	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="%s" font-size="9" font-weight="bold" fill="%s">%s</text>`+"\n",
		b.Left()+cfg.Padding, b.Bottom()-12, fontFamily, c.Style.Badge, EscapeXML(c.Badge))
	buf.WriteString("  </g>\n")
}

func renderInteraction(buf *bytes.Buffer, s canvas.Snapshot) {
	css := fmt.Sprintf(interactionCSS, s.Config.Palette.EdgeHover, s.Config.EdgeHoverWidth)
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", css)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
}

// EscapeXML escapes s for use in text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
