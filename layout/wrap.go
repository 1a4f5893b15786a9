// Package layout breaks record text into printable lines against a pixel
// width budget. Measurement is injected so the wrap logic stays independent
// of any concrete font backend.
package layout

import "strings"

// Measurer reports the pixel extents of text rendered in one typeface.
type Measurer interface {
	// Width returns the advance width of s in whole pixels.
	Width(s string) int
	// Height returns the rendered height of s in whole pixels: ascent plus
	// descent rounded up. When the face cannot report glyph metrics the
	// implementation must fall back to the nominal pixel size of the font,
	// so the value is deterministic either way.
	Height(s string) int
}

// Line is one wrapped line with its measured extents.
type Line struct {
	Text   string
	Width  int
	Height int
}

// Wrap splits text into greedy lines no wider than maxWidth pixels.
//
// Words are whitespace-separated runs; internal whitespace collapses to a
// single space and word order is preserved. A word wider than maxWidth is
// still placed alone on its own line rather than split, so such a line may
// overflow the budget.
func Wrap(text string, m Measurer, maxWidth int) []Line {
	words := strings.Fields(text)
	var lines []Line
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.Width(candidate) > maxWidth && current != "" {
			lines = append(lines, measureLine(current, m))
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, measureLine(current, m))
	}
	return lines
}

func measureLine(s string, m Measurer) Line {
	return Line{Text: s, Width: m.Width(s), Height: m.Height(s)}
}
