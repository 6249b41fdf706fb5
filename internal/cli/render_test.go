package cli

import (
	"slices"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces and case", " SVG , png,", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "png", "json"}, false},
		{"pdf unsupported", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		formats []string
		want    []string
	}{
		{"default next to input", "stories/cave.json", "", []string{"svg"}, []string{"stories/cave.svg"}},
		{"single format exact output", "cave.json", "out/graph.svg", []string{"svg"}, []string{"out/graph.svg"}},
		{"output as base path", "cave.json", "out/graph", []string{"svg", "png"}, []string{"out/graph.svg", "out/graph.png"}},
		{"json never overwrites input", "cave.json", "", []string{"svg", "json"}, []string{"cave.svg", "cave.out.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.input, tt.output, tt.formats); !slices.Equal(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}
