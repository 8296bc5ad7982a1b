package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowItem is a list row with an optional right-aligned meta column.
type rowItem interface {
	list.Item
	Title() string
	Meta() string
}

// rowDelegate renders one line per item, cut to the list width.
type rowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	meta     lipgloss.Style
}

func newRowDelegate() rowDelegate {
	return rowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		meta: styleMuted(),
	}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	if width < 4 {
		return
	}
	title, meta := "", ""
	if r, ok := item.(rowItem); ok {
		title, meta = r.Title(), r.Meta()
	} else {
		title = fmt.Sprint(item)
	}
	fmt.Fprint(w, renderRow(width, title, meta, index == m.Index(), d))
}

func renderRow(width int, title, meta string, selected bool, d rowDelegate) string {
	prefix := "  "
	if selected {
		prefix = glyphSelected() + " "
	}
	left := prefix + title
	metaW := xansi.StringWidth(meta)
	avail := width - metaW
	if meta != "" {
		avail -= 2
	}
	if avail < 4 {
		meta, metaW, avail = "", 0, width
	}
	if xansi.StringWidth(left) > avail {
		left = xansi.Truncate(left, avail, "…")
	}
	gap := width - xansi.StringWidth(left) - metaW
	if gap < 0 {
		gap = 0
	}

	style := d.normal
	if selected {
		style = d.selected
	}
	line := style.Render(left + strings.Repeat(" ", gap))
	if meta != "" {
		line += d.meta.Render(meta)
	}
	return line
}

// newList builds a list.Model with the chrome switched off; the app renders
// its own header and help line.
func newList(items []list.Item) list.Model {
	l := list.New(items, newRowDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}
