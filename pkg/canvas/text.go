package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// TextWidth returns the rendered width of s at charWidth per cell. East
// Asian wide runes take two cells.
func TextWidth(s string, charWidth float64) float64 {
	return float64(runewidth.StringWidth(s)) * charWidth
}

// WrapText breaks text into lines word by word so that each line is at most
// maxWidth-10 wide. A word wider than that gets a line of its own. When the
// result exceeds maxLines, the first maxLines-1 lines are kept and
// [Ellipsis] is appended as the last line.
func WrapText(text string, maxWidth, charWidth float64, maxLines int) []string {
	limit := maxWidth - 10
	var lines []string
	var cur string
	for _, word := range strings.Fields(text) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if TextWidth(candidate, charWidth) <= limit {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	if maxLines > 0 && len(lines) > maxLines {
		lines = append(lines[:maxLines-1:maxLines-1], Ellipsis)
	}
	return lines
}

// TruncateLabel shortens s to keep runes plus [Ellipsis] when it is longer
// than maxRunes runes. keep is clamped to [0, maxRunes].
func TruncateLabel(s string, maxRunes, keep int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	keep = max(0, min(keep, maxRunes, len(r)))
	return string(r[:keep]) + Ellipsis
}
