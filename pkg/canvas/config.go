package canvas

import (
	"github.com/matzehuels/storygraph/pkg/errors"
	"github.com/matzehuels/storygraph/pkg/layout"
)

// RoleColors is the fill and border pair for one card role.
type RoleColors struct {
	Base   string `toml:"base" json:"base"`
	Accent string `toml:"accent" json:"accent"`
}

// Palette holds every colour the canvas hands to renderers. Values are
// #rrggbb hex strings.
type Palette struct {
	Start  RoleColors `toml:"start" json:"start"`
	Ending RoleColors `toml:"ending" json:"ending"`
	Normal RoleColors `toml:"normal" json:"normal"`

	Text      string `toml:"text" json:"text"`
	HoverText string `toml:"hover_text" json:"hover_text"`
	Number    string `toml:"number" json:"number"`

	Edge        string `toml:"edge" json:"edge"`
	EdgeHover   string `toml:"edge_hover" json:"edge_hover"`
	Label       string `toml:"label" json:"label"`
	LabelFill   string `toml:"label_fill" json:"label_fill"`
	LabelBorder string `toml:"label_border" json:"label_border"`

	Background    string `toml:"background" json:"background"`
	BackgroundEnd string `toml:"background_end" json:"background_end"`
	Placeholder   string `toml:"placeholder" json:"placeholder"`
}

// DefaultPalette returns the dark theme colours.
func DefaultPalette() Palette {
	return Palette{
		Start:  RoleColors{Base: "#51cf66", Accent: "#40c057"},
		Ending: RoleColors{Base: "#ff6b6b", Accent: "#ff5252"},
		Normal: RoleColors{Base: "#4dabf7", Accent: "#339af0"},

		Text:      "#ffffff",
		HoverText: "#000000",
		Number:    "#ffffff",

		Edge:        "#aaaaaa",
		EdgeHover:   "#ffeb3b",
		Label:       "#ffeb3b",
		LabelFill:   "#2a2a45",
		LabelBorder: "#4facfe",

		Background:    "#1e1e2d",
		BackgroundEnd: "#25253d",
		Placeholder:   "#a6c1ee",
	}
}

// Config carries the fixed dimensions and colours used to build cards and
// edges. It is passed to [New] and never mutated by the canvas.
type Config struct {
	CardWidth  float64 `toml:"card_width"`
	CardHeight float64 `toml:"card_height"`
	Padding    float64 `toml:"padding"`

	// LineHeight and CharWidth drive text measurement. CharWidth is the
	// advance of one terminal cell; wide runes count as two.
	LineHeight float64 `toml:"line_height"`
	CharWidth  float64 `toml:"char_width"`
	// TextHeight is the vertical budget for wrapped description text.
	TextHeight float64 `toml:"text_height"`

	// Choice labels longer than LabelMax runes are cut to LabelKeep runes
	// followed by "...".
	LabelMax  int     `toml:"label_max"`
	LabelKeep int     `toml:"label_keep"`
	LabelPadX float64 `toml:"label_pad_x"`
	LabelPadY float64 `toml:"label_pad_y"`

	EdgeWidth      float64 `toml:"edge_width"`
	EdgeHoverWidth float64 `toml:"edge_hover_width"`
	BorderWidth    float64 `toml:"border_width"`

	// EngineScale spreads engine coordinates; fallback grids are used as is.
	EngineScale float64 `toml:"engine_scale"`

	ZoomInStep  float64 `toml:"zoom_in_step"`
	ZoomOutStep float64 `toml:"zoom_out_step"`
	WheelStep   float64 `toml:"wheel_step"`
	FitMargin   float64 `toml:"fit_margin"`
	MinZoom     float64 `toml:"min_zoom"`
	MaxZoom     float64 `toml:"max_zoom"`

	ViewportWidth  float64 `toml:"viewport_width"`
	ViewportHeight float64 `toml:"viewport_height"`

	// HitTolerance is the distance in screen pixels within which a point
	// counts as touching an edge line. It is divided by the zoom, so the
	// target stays the same size on screen.
	HitTolerance float64 `toml:"hit_tolerance"`

	Spacing layout.Spacing `toml:"-"`
	Palette Palette        `toml:"-"`
}

// DefaultConfig returns the stock card size, zoom steps and palette.
func DefaultConfig() Config {
	return Config{
		CardWidth:  300,
		CardHeight: 200,
		Padding:    15,

		LineHeight: 16,
		CharWidth:  7,
		TextHeight: 150,

		LabelMax:  30,
		LabelKeep: 27,
		LabelPadX: 5,
		LabelPadY: 2,

		EdgeWidth:      2,
		EdgeHoverWidth: 3,
		BorderWidth:    2,

		EngineScale: 1.5,

		ZoomInStep:  1.2,
		ZoomOutStep: 0.8,
		WheelStep:   1.15,
		FitMargin:   0.8,
		MinZoom:     0.02,
		MaxZoom:     50,

		ViewportWidth:  1000,
		ViewportHeight: 800,

		HitTolerance: 6,

		Spacing: layout.DefaultSpacing(),
		Palette: DefaultPalette(),
	}
}

// Validate rejects sizes and zoom factors the canvas cannot work with.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"card_width", c.CardWidth},
		{"card_height", c.CardHeight},
		{"line_height", c.LineHeight},
		{"char_width", c.CharWidth},
		{"zoom_in_step", c.ZoomInStep},
		{"zoom_out_step", c.ZoomOutStep},
		{"wheel_step", c.WheelStep},
		{"fit_margin", c.FitMargin},
		{"min_zoom", c.MinZoom},
		{"max_zoom", c.MaxZoom},
	}
	for _, p := range positive {
		if !(p.v > 0) {
			return errors.New(errors.ErrCodeInvalidInput, "canvas %s must be positive, got %v", p.name, p.v)
		}
	}
	if c.MinZoom > c.MaxZoom {
		return errors.New(errors.ErrCodeInvalidInput, "canvas min_zoom %v exceeds max_zoom %v", c.MinZoom, c.MaxZoom)
	}
	if c.LabelMax <= 0 || c.LabelKeep < 0 || c.LabelKeep > c.LabelMax {
		return errors.New(errors.ErrCodeInvalidInput,
			"canvas label_keep must be between 0 and label_max, got keep %d max %d", c.LabelKeep, c.LabelMax)
	}
	return nil
}

// WrapWidth is the pixel width available to description text.
func (c Config) WrapWidth() float64 { return c.CardWidth - 2*c.Padding }

// MaxLines is the number of wrapped lines that fit in TextHeight.
func (c Config) MaxLines() int {
	if c.LineHeight <= 0 {
		return 1
	}
	return max(1, int(c.TextHeight/c.LineHeight))
}

func (c Config) roleColors(r Role) RoleColors {
	switch r {
	case RoleStart:
		return c.Palette.Start
	case RoleEnding:
		return c.Palette.Ending
	default:
		return c.Palette.Normal
	}
}
