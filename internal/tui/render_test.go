package tui

import (
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func TestGlyphPreference(t *testing.T) {
	t.Setenv("JENDO_TUI_GLYPHS", "")
	setGlyphs(glyphSetUnicode)
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}

	applyGlyphPreference("ascii")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected ascii glyphs; got %v", got)
	}
	if got := iconGlyph("heart"); got != ">" {
		t.Fatalf("expected ascii icon, got %q", got)
	}

	// Unknown values keep the current set.
	applyGlyphPreference("bogus")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}

	t.Setenv("JENDO_TUI_GLYPHS", "unicode")
	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected env to select unicode; got %v", got)
	}
	if got := iconGlyph("no-such-icon"); got != iconGlyphs["folder"] {
		t.Fatalf("expected folder fallback, got %q", got)
	}
}

func TestRenderModalBox_UsesLightBackground_WhenThemeForcedLight(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})

	t.Setenv("JENDO_TUI_THEME", "light")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected HasDarkBackground=false after forcing light theme")
	}

	out := renderModalBox(80, "Title", "Body")
	// colorSurfaceBg is ac("255","235").
	if !strings.Contains(out, "48;5;255") {
		t.Fatalf("expected modal to include light background (48;5;255); got: %q", out)
	}
}

func TestApplyColorProfilePreference_NoColor(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(oldProfile) })

	t.Setenv("NO_COLOR", "1")
	applyColorProfilePreference()
	if lipgloss.ColorProfile() != termenv.Ascii {
		t.Fatalf("expected ascii profile with NO_COLOR")
	}
	if markdownStyle() != "notty" {
		t.Fatalf("expected notty markdown style without colors")
	}
}

func TestRenderConfirmModal_HighlightsFocusedButton(t *testing.T) {
	out := renderConfirmModal(80, "Delete record", "Sure?", "Delete", "Cancel", confirmFocusCancel)
	for _, want := range []string{"Delete record", "Sure?", "Delete", "Cancel"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in modal; got %q", want, out)
		}
	}
	if confirmFocusCancel.toggle() != confirmFocusConfirm {
		t.Fatalf("expected toggle to move focus to confirm")
	}
}

func TestRenderRow_FitsWidth(t *testing.T) {
	d := newRowDelegate()
	for _, width := range []int{10, 24, 60} {
		line := renderRow(width, strings.Repeat("Cholesterol ", 10), "📎 2", true, d)
		if got := xansi.StringWidth(line); got > width {
			t.Fatalf("width %d: row is %d columns: %q", width, got, line)
		}
	}
}

func TestNormalizePane(t *testing.T) {
	out := normalizePane("a\nbbbbbbbbbb", 5, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 5 {
			t.Fatalf("line %d has width %d: %q", i, w, ln)
		}
	}
}

func TestScrollLines_Clamps(t *testing.T) {
	text := "1\n2\n3\n4\n5"
	window, off := scrollLines(text, 10, 2)
	if off != 3 || window != "4\n5" {
		t.Fatalf("unexpected window %q at %d", window, off)
	}
	if _, off := scrollLines(text, -4, 2); off != 0 {
		t.Fatalf("expected offset 0, got %d", off)
	}
}

func TestPlatformOpener_EmptyURL(t *testing.T) {
	msg := platformOpener("")("")()
	done, ok := msg.(urlOpenDoneMsg)
	if !ok || done.err == nil {
		t.Fatalf("expected error for empty url, got %#v", msg)
	}
}

func TestPlatformOpener_Override(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("no /bin/true")
	}
	msg := platformOpener("/bin/true")("http://example.test/x")()
	if done := msg.(urlOpenDoneMsg); done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
}
