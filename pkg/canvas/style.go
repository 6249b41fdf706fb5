package canvas

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// CardStyle is the derived appearance of a card in its current state.
type CardStyle struct {
	// Fill is a diagonal gradient from FillFrom (top left) to FillTo.
	FillFrom    string  `json:"fill_from"`
	FillTo      string  `json:"fill_to"`
	Border      string  `json:"border"`
	BorderWidth float64 `json:"border_width"`
	Text        string  `json:"text"`
	Number      string  `json:"number"`
	Badge       string  `json:"badge"`
}

// EdgeStyle is the derived appearance of an edge line and its label.
type EdgeStyle struct {
	Line        string  `json:"line"`
	Width       float64 `json:"width"`
	Label       string  `json:"label"`
	LabelFill   string  `json:"label_fill"`
	LabelBorder string  `json:"label_border"`
}

// Lighter brightens a hex colour by percent the way Qt's QColor.lighter
// does: value is multiplied by percent/100 in HSV space and any overflow
// past full value is taken from saturation. Unparsable input is returned
// unchanged.
func Lighter(hex string, percent float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	v *= percent / 100
	if v > 1 {
		s = max(0, s-(v-1))
		v = 1
	}
	return colorful.Hsv(h, s, v).Clamped().Hex()
}

func cardStyle(cfg Config, role Role, hovered, selected bool) CardStyle {
	rc := cfg.roleColors(role)
	base, accent := rc.Base, rc.Accent
	switch {
	case hovered:
		base, accent = Lighter(base, 120), Lighter(accent, 120)
	case selected:
		base, accent = Lighter(base, 110), Lighter(accent, 110)
	}

	text := cfg.Palette.Text
	if hovered {
		text = cfg.Palette.HoverText
	}
	return CardStyle{
		FillFrom:    Lighter(base, 130),
		FillTo:      base,
		Border:      accent,
		BorderWidth: cfg.BorderWidth,
		Text:        text,
		Number:      cfg.Palette.Number,
		Badge:       rc.Base,
	}
}

func edgeStyle(cfg Config, hovered bool) EdgeStyle {
	s := EdgeStyle{
		Line:        cfg.Palette.Edge,
		Width:       cfg.EdgeWidth,
		Label:       cfg.Palette.Label,
		LabelFill:   cfg.Palette.LabelFill,
		LabelBorder: cfg.Palette.LabelBorder,
	}
	if hovered {
		s.Line, s.Width = cfg.Palette.EdgeHover, cfg.EdgeHoverWidth
	}
	return s
}
