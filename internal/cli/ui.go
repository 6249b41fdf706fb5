package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/storygraph/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // teal: titles, selection
	colorGreen  = lipgloss.Color("35")  // start scenes, success
	colorYellow = lipgloss.Color("220") // hover, warnings
	colorRed    = lipgloss.Color("167") // orphans, errors
	colorBlue   = lipgloss.Color("75")  // ordinary scenes, commands
	colorPurple = lipgloss.Color("141") // endings
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values and scene text.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleEnding  = lipgloss.NewStyle().Foreground(colorPurple)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleEngine   = lipgloss.NewStyle().Foreground(colorGreen)
	styleFallback = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes the human-readable status lines of a command. Commands
// hand it cmd.OutOrStdout() so their output can be captured.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer {
	if w == nil {
		w = os.Stdout
	}
	return printer{w: w}
}

func (p printer) line(s string) {
	fmt.Fprintln(p.w, s)
}

func (p printer) success(format string, args ...any) {
	p.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.line(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output location.
func (p printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// stats prints canvas counts and where the layout came from on one line.
func (p printer) stats(cards, edges int, source layout.Source) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d scenes", cards)),
		StyleDim.Render(fmt.Sprintf("%d choices", edges)),
	}
	switch source {
	case layout.SourceEngine:
		parts = append(parts, styleEngine.Render(string(source)))
	case "", layout.SourceNone:
	default:
		parts = append(parts, styleFallback.Render(string(source)))
	}
	p.line("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func (p printer) nextStep(description, cmd string) {
	p.line("")
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
