package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The TUI must stay readable on light and dark backgrounds, so colors are
// adaptive and "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorChromeFg   lipgloss.TerminalColor = ac("240", "245")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorSurfaceBg  lipgloss.TerminalColor = ac("255", "235")
	colorSurfaceFg  lipgloss.TerminalColor = ac("235", "252")
	colorControlBg  lipgloss.TerminalColor = ac("252", "237")
	colorInputBg    lipgloss.TerminalColor = ac("254", "234")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorSuccess    lipgloss.TerminalColor = ac("28", "78")
	colorError      lipgloss.TerminalColor = ac("160", "203")
	colorBannerBg   lipgloss.TerminalColor = ac("214", "130")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleSuccess() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSuccess)
}

// applyColorProfilePreference sets Lip Gloss's color profile. Only NO_COLOR is
// honored; CLICOLOR handling in termenv's env profile would disable colors in
// a full-screen program.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color") && profile != termenv.TrueColor:
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference picks the adaptive palette variant.
//
// Priority:
// 1) JENDO_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("JENDO_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}

// markdownStyle is the glamour standard style matching the palette.
func markdownStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
