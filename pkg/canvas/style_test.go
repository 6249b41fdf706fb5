package canvas

import "testing"

func TestLighter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		percent float64
		want    string
	}{
		{"black stays black", "#000000", 150, "#000000"},
		{"identity", "#4dabf7", 100, "#4dabf7"},
		{"grey saturates to white", "#808080", 200, "#ffffff"},
		{"invalid passes through", "teal", 120, "teal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lighter(tt.in, tt.percent); got != tt.want {
				t.Errorf("Lighter(%q, %v) = %q, want %q", tt.in, tt.percent, got, tt.want)
			}
		})
	}
}

func TestCardStyle(t *testing.T) {
	cfg := DefaultConfig()

	plain := cardStyle(cfg, RoleStart, false, false)
	if plain.FillTo != "#51cf66" || plain.Border != "#40c057" {
		t.Errorf("start style = %+v", plain)
	}
	if plain.FillFrom != Lighter("#51cf66", 130) {
		t.Errorf("FillFrom = %q, want lighter base", plain.FillFrom)
	}
	if plain.Text != "#ffffff" {
		t.Errorf("Text = %q, want white", plain.Text)
	}

	hover := cardStyle(cfg, RoleEnding, true, true)
	if hover.FillTo != Lighter("#ff6b6b", 120) {
		t.Errorf("hover fill = %q, hover should win over selection", hover.FillTo)
	}
	if hover.Text != "#000000" {
		t.Errorf("hover text = %q, want black", hover.Text)
	}

	sel := cardStyle(cfg, RoleNormal, false, true)
	if sel.FillTo != Lighter("#4dabf7", 110) || sel.Border != Lighter("#339af0", 110) {
		t.Errorf("selected style = %+v", sel)
	}
}

func TestEdgeStyle(t *testing.T) {
	cfg := DefaultConfig()
	if s := edgeStyle(cfg, false); s.Line != "#aaaaaa" || s.Width != 2 {
		t.Errorf("edgeStyle(false) = %+v", s)
	}
	if s := edgeStyle(cfg, true); s.Line != "#ffeb3b" || s.Width != 3 {
		t.Errorf("edgeStyle(true) = %+v", s)
	}
}
