package tui

import (
	"fmt"
	"strings"

	"jendo-cli/internal/content"
	"jendo-cli/internal/reports"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	bodyH := m.bodyHeight()

	header := m.renderHeader(width)
	banner := ""
	if b := m.sess.Banner(); b != "" {
		banner = lipgloss.NewStyle().
			Background(colorBannerBg).
			Foreground(lipgloss.Color("0")).
			Width(width).
			Render(" " + b)
	}

	body := m.renderBody(width, bodyH)
	switch m.modal {
	case modalConfirmDeleteValue, modalConfirmDeleteDetail:
		box := renderConfirmModal(width, "Delete record",
			"Are you sure you want to delete this record? This cannot be undone.",
			"Delete", "Cancel", m.confirmFocus)
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, box)
	case modalConfirmDeleteAttachment:
		box := renderConfirmModal(width, "Delete attachment",
			"Are you sure you want to delete this attachment?",
			"Delete", "Cancel", m.confirmFocus)
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, box)
	case modalPickFile:
		help := styleMuted().Render("enter: choose   h/←: up   esc: cancel")
		box := renderModalBox(width, "Attach file", m.picker.CurrentDirectory+"\n\n"+m.picker.View()+"\n"+help)
		body = lipgloss.Place(width, bodyH, lipgloss.Center, lipgloss.Center, box)
	}

	footer := styleMuted().Render(m.helpLine())
	parts := []string{header}
	if banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, normalizePane(body, width, bodyH), footer, m.renderMinibuffer())
	return strings.Join(parts, "\n")
}

func (m appModel) renderHeader(width int) string {
	crumbs := []string{"Jendo"}
	for _, v := range m.stack {
		if c := m.crumb(v); c != "" {
			crumbs = append(crumbs, c)
		}
	}
	left := styleTitle().Render(strings.Join(crumbs, " "+glyphBreadcrumbSep()+" "))

	right := ""
	if u, ok := m.sess.User(); ok {
		right = u.DisplayName()
		if n := m.sess.UnreadCount(); n > 0 {
			right += fmt.Sprintf("  %s %d", glyphUnread(), n)
		}
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + styleMuted().Render(right)
}

func nameOr(name, kind, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return kind + " " + id
}

func (m appModel) crumb(v view) string {
	switch v {
	case viewCategories:
		return "My Reports"
	case viewSections:
		p := m.sections.Params()
		return nameOr(p.CategoryName, "Category", p.CategoryID)
	case viewItems:
		p := m.items.Params()
		return nameOr(p.SectionName, "Section", p.SectionID)
	case viewValues:
		p := m.values.Params()
		return nameOr(p.ItemName, "Item", p.ItemID)
	case viewDetail:
		return "Record"
	case viewForm:
		if m.form != nil && m.form.Mode() == reports.ModeEdit {
			return "Edit record"
		}
		return "Add record"
	case viewWellness:
		return "Wellness"
	case viewReader:
		if r, ok := m.currentRecommendation(); ok {
			return r.Title
		}
	case viewDoctors:
		return "Doctors"
	case viewNotifications:
		return "Notifications"
	}
	return ""
}

func (m appModel) helpLine() string {
	switch m.modal {
	case modalPickFile, modalConfirmDeleteValue, modalConfirmDeleteDetail, modalConfirmDeleteAttachment:
		return ""
	}
	switch m.top() {
	case viewLogin:
		return "tab: next field  enter: sign in  esc: quit"
	case viewHome:
		return "enter: open  r: refresh  L: sign out  q: quit"
	case viewValues:
		return "enter: view  a: add  e: edit  d: delete  r: reload  /: filter  esc: back  q: quit"
	case viewDetail:
		return "e: edit  d: delete  o: open attachment  j/k: select  r: reload  esc: back"
	case viewForm:
		if m.formFocus == focusFiles {
			return "a: attach file  x: remove  o: open  tab: next  ctrl+s: save  esc: cancel"
		}
		return "tab: next field  ctrl+s: save  esc: cancel"
	case viewReader:
		return "j/k: scroll  space/b: page  esc: back"
	case viewDoctors:
		return "n/p: next/previous page  r: reload  esc: back"
	case viewNotifications:
		return "enter: mark read  r: reload  esc: back"
	}
	return "enter: select  r: reload  /: filter  esc: back  q: quit"
}

func renderErrorState(msg string) string {
	return styleError().Render(msg) + "\n\n" + styleMuted().Render("r: retry   esc: back")
}

func (m appModel) renderListState(state reports.LoadState, errMsg, empty string, l list.Model) string {
	switch state {
	case reports.StateLoading:
		return m.spinner.View() + " Loading…"
	case reports.StateError:
		return renderErrorState(errMsg)
	case reports.StateEmpty:
		return styleMuted().Render(empty)
	}
	return l.View()
}

func (m appModel) renderBody(width, height int) string {
	switch m.top() {
	case viewLogin:
		return m.renderLogin()
	case viewHome:
		return m.homeList.View()
	case viewCategories:
		return m.renderListState(m.categories.State(), m.categories.Err(), "No categories found", m.categoriesList)
	case viewSections:
		return m.renderListState(m.sections.State(), m.sections.Err(), "No sections in this category", m.sectionsList)
	case viewItems:
		return m.renderListState(m.items.State(), m.items.Err(), "No items in this section", m.itemsList)
	case viewValues:
		body := m.renderListState(m.values.State(), m.values.Err(), "No records yet. Press a to add one.", m.valuesList)
		if m.values.Deleting() {
			body += "\n" + m.spinner.View() + " Deleting…"
		}
		return body
	case viewDetail:
		return m.renderDetail(width)
	case viewForm:
		return m.renderForm(width)
	case viewWellness:
		return m.renderListState(m.wellness.state, m.wellness.err, "No recommendations yet", m.wellnessList)
	case viewReader:
		return m.renderReader(width, height)
	case viewDoctors:
		body := m.renderListState(m.doctors.state, m.doctors.err, "No doctors found", m.doctorsList)
		if m.doctors.state == reports.StateReady && m.doctorsPage.TotalPages > 1 {
			body += "\n" + styleMuted().Render(fmt.Sprintf("page %d of %d", m.doctorsPage.PageNumber+1, m.doctorsPage.TotalPages))
		}
		return body
	case viewNotifications:
		return m.renderListState(m.notifications.state, m.notifications.err, "You're all caught up", m.notesList)
	}
	return ""
}

func (m appModel) renderDetail(width int) string {
	d := m.detail
	switch d.State() {
	case reports.StateLoading:
		return m.spinner.View() + " Loading record…"
	case reports.StateError:
		return renderErrorState(d.Err())
	}
	v, ok := d.Value()
	if !ok {
		return ""
	}
	label := lipgloss.NewStyle().Bold(true).Width(12)
	lines := []string{
		label.Render("Value") + d.Display(),
		label.Render("Date") + reports.FormatDate(v.CreatedAt, m.loc),
	}
	if !v.UpdatedAt.IsZero() && !v.UpdatedAt.Equal(v.CreatedAt.Time) {
		lines = append(lines, label.Render("Updated")+reports.FormatDate(v.UpdatedAt, m.loc))
	}
	if notes := reports.Notes(v); notes != "" {
		lines = append(lines, "", label.Render("Notes"), indent(notes, "  "))
	}
	lines = append(lines, "", label.Render("Attachments"))
	atts := d.Attachments()
	if len(atts) == 0 {
		lines = append(lines, styleMuted().Render("  none"))
	}
	delegate := newRowDelegate()
	for i, a := range atts {
		title := glyphAttachment() + " " + reports.AttachmentName(a)
		meta := reports.AttachmentKind(a.FileType) + "  " + reports.FormatDate(a.UploadedAt, m.loc)
		lines = append(lines, renderRow(width, title, meta, i == m.detailIndex, delegate))
	}
	if d.Deleting() {
		lines = append(lines, "", m.spinner.View()+" Deleting…")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderReader(width, height int) string {
	window, _ := scrollLines(m.readerText(width), m.readerOffset, height)
	return window
}

func (m appModel) readerText(width int) string {
	r, ok := m.currentRecommendation()
	if !ok {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	src := "# " + r.Title + "\n\n"
	if r.Content != nil && strings.TrimSpace(*r.Content) != "" {
		src += *r.Content
	} else {
		src += r.Description
	}
	return strings.TrimRight(content.Terminal(src, width, markdownStyle()), "\n")
}
