package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func modalWidth(screenW int) int {
	w := screenW - 8
	if w > 64 {
		w = 64
	}
	if w < 28 {
		w = 28
	}
	return w
}

func modalBodyWidth(screenW int) int { return modalWidth(screenW) - 4 }

func renderModalBox(screenW int, title, body string) string {
	w := modalWidth(screenW)
	head := lipgloss.NewStyle().Bold(true).Background(colorSurfaceBg).Render(title)
	return lipgloss.NewStyle().
		Width(w).
		Background(colorSurfaceBg).
		Foreground(colorSurfaceFg).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Render(head + "\n\n" + body)
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No nested borders: some terminals show artifacts inside a bordered box.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(modalBodyWidth(width)).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}
