package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines, so the footer never moves when the body changes size.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w > width {
			ln = xansi.Truncate(ln, width, "…")
		} else if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// scrollLines returns the window of s starting at offset, clamped.
func scrollLines(s string, offset, height int) (string, int) {
	lines := strings.Split(s, "\n")
	maxOff := len(lines) - height
	if maxOff < 0 {
		maxOff = 0
	}
	if offset > maxOff {
		offset = maxOff
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + height
	if end > len(lines) || height <= 0 {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n"), offset
}
