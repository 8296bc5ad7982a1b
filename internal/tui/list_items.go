package tui

import (
	"fmt"
	"strings"

	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"

	"github.com/charmbracelet/bubbles/list"
)

// entry is the list.Item every screen uses. idx points back into the rows of
// the screen that produced it, so selection survives filtering.
type entry struct {
	idx   int
	title string
	meta  string
	id    int64
}

func (e entry) FilterValue() string { return e.title }
func (e entry) Title() string       { return e.title }
func (e entry) Meta() string        { return e.meta }

func selectedEntry(l list.Model) (entry, bool) {
	e, ok := l.SelectedItem().(entry)
	return e, ok
}

func categoryEntries(rows []model.ReportCategory) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, c := range rows {
		out = append(out, entry{
			idx:   i,
			id:    c.ID,
			title: iconGlyph(reports.CategoryIcon(c)) + "  " + c.Name,
			meta:  deref(c.Description),
		})
	}
	return out
}

func sectionEntries(rows []model.ReportSection) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, s := range rows {
		out = append(out, entry{
			idx:   i,
			id:    s.ID,
			title: iconGlyph(reports.SectionIcon(s)) + "  " + s.Name,
			meta:  deref(s.Description),
		})
	}
	return out
}

func itemEntries(rows []model.ReportItem) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, it := range rows {
		out = append(out, entry{idx: i, id: it.ID, title: it.Name, meta: deref(it.Description)})
	}
	return out
}

func valueEntries(rows []reports.ValueRow) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, r := range rows {
		title := fmt.Sprintf("%-11s  %s", r.Date, r.Value)
		if r.Notes != "" && r.Notes != r.Value {
			title += "  " + firstLine(r.Notes)
		}
		meta := ""
		if r.Attachments > 0 {
			meta = fmt.Sprintf("%s %d", glyphAttachment(), r.Attachments)
		}
		out = append(out, entry{idx: i, id: r.ID, title: title, meta: meta})
	}
	return out
}

func wellnessEntries(rows []model.WellnessRecommendation) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, w := range rows {
		out = append(out, entry{idx: i, id: w.ID, title: w.Title, meta: w.Category})
	}
	return out
}

func doctorEntries(rows []model.Doctor) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, d := range rows {
		meta := strings.TrimSpace(strings.Join([]string{d.Specialty, d.Hospital}, " · "))
		meta = strings.Trim(meta, " ·")
		if !d.Available() {
			meta += " (unavailable)"
		}
		out = append(out, entry{idx: i, id: d.ID, title: d.Name, meta: meta})
	}
	return out
}

func notificationEntries(rows []model.Notification, fmtDate func(model.Timestamp) string) []list.Item {
	out := make([]list.Item, 0, len(rows))
	for i, n := range rows {
		mark := "  "
		if !n.IsRead {
			mark = glyphUnread() + " "
		}
		out = append(out, entry{idx: i, id: n.ID, title: mark + n.Title, meta: fmtDate(n.CreatedAt)})
	}
	return out
}

type menuEntry struct {
	title  string
	target view
}

func (e menuEntry) FilterValue() string { return e.title }
func (e menuEntry) Title() string       { return e.title }
func (e menuEntry) Meta() string        { return "" }

func homeEntries() []list.Item {
	return []list.Item{
		menuEntry{title: "My Reports", target: viewCategories},
		menuEntry{title: "Wellness", target: viewWellness},
		menuEntry{title: "Doctors", target: viewDoctors},
		menuEntry{title: "Notifications", target: viewNotifications},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}
