package tui

import (
	"os"
	"strings"
	"sync"
)

// Icon names come from the report icon tables; terminals get a glyph for
// each. The ASCII set is for fonts that render the Unicode set poorly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference takes the configured set, falling back to
// JENDO_TUI_GLYPHS. Unknown values keep the current set.
func applyGlyphPreference(v string) {
	if strings.TrimSpace(v) == "" {
		v = os.Getenv("JENDO_TUI_GLYPHS")
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

var iconGlyphs = map[string]string{
	"water":              "💧",
	"heart":              "♥",
	"heart-pulse":        "♥",
	"human-pregnant":     "✿",
	"flask":              "⚗",
	"scan":               "◎",
	"scan-outline":       "◎",
	"scan-circle":        "◎",
	"hand-left":          "✋",
	"brain":              "◉",
	"ellipse":            "◉",
	"information-circle": "ℹ",
	"medkit":             "✚",
	"medical":            "✚",
	"warning":            "⚠",
	"alert":              "⚠",
	"alert-circle":       "⚠",
	"pulse":              "∿",
	"shield-checkmark":   "⛨",
	"fitness":            "⚕",
	"radio":              "◌",
	"analytics":          "▤",
	"filter":             "⧩",
	"layers":             "☰",
	"flash":              "⚡",
	"folder":             "▸",
}

func iconGlyph(icon string) string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return iconGlyphs["folder"]
}

func glyphBreadcrumbSep() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}

func glyphAttachment() string {
	if glyphs() == glyphSetASCII {
		return "@"
	}
	return "📎"
}

func glyphUnread() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphSelected() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "›"
}
