package tui

import (
	"jendo-cli/internal/api"
	"jendo-cli/internal/reports"

	tea "github.com/charmbracelet/bubbletea"
)

// Each loader issues a ticket on the UI goroutine and runs the fetch in a
// command. Fetch only reads immutable screen fields.

func (m *appModel) loadCategories() tea.Cmd {
	t, ok := m.categories.Begin()
	if !ok {
		return nil
	}
	s, ctx := m.categories, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return categoriesMsg(s.Fetch(ctx, t)) })
}

func (m *appModel) loadSections() tea.Cmd {
	t, ok := m.sections.Begin()
	if !ok {
		return nil
	}
	s, ctx := m.sections, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return sectionsMsg(s.Fetch(ctx, t)) })
}

func (m *appModel) loadItems() tea.Cmd {
	t, ok := m.items.Begin()
	if !ok {
		return nil
	}
	s, ctx := m.items, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return itemsMsg(s.Fetch(ctx, t)) })
}

func (m *appModel) loadValues() tea.Cmd {
	t, ok := m.values.Refresh()
	if !ok {
		return nil
	}
	s, ctx := m.values, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return valuesMsg(s.Fetch(ctx, t)) })
}

func (m *appModel) loadDetail() tea.Cmd {
	t, ok := m.detail.Begin()
	if !ok {
		return nil
	}
	s, ctx := m.detail, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return detailMsg(s.Fetch(ctx, t)) })
}

func (m *appModel) loadForm() tea.Cmd {
	if m.form == nil {
		return nil
	}
	t, ok := m.form.Begin()
	if !ok {
		return nil
	}
	f, ctx := m.form, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return formLoadedMsg(f.Fetch(ctx, t)) })
}

func (m *appModel) loadWellness() tea.Cmd {
	gen := m.wellness.begin()
	b, ctx := m.backend, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		rows, err := b.WellnessRecommendations(ctx, "")
		return wellnessMsg{gen: gen, rows: rows, err: err}
	})
}

func (m *appModel) loadDoctors(page int) tea.Cmd {
	gen := m.doctors.begin()
	b, ctx := m.backend, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		p, err := b.Doctors(ctx, page, api.DefaultPageSize)
		return doctorsMsg{gen: gen, page: p, err: err}
	})
}

func (m *appModel) loadNotifications() tea.Cmd {
	gen := m.notifications.begin()
	b, ctx := m.backend, m.ctx
	return func() tea.Msg {
		rows, err := b.Notifications(ctx)
		return notificationsMsg{gen: gen, rows: rows, err: err}
	}
}

// reload re-issues the fetch behind the current screen (the "r" key).
func (m *appModel) reload() tea.Cmd {
	switch m.top() {
	case viewHome:
		return m.loadNotifications()
	case viewCategories:
		return m.loadCategories()
	case viewSections:
		return m.loadSections()
	case viewItems:
		return m.loadItems()
	case viewValues:
		return m.loadValues()
	case viewDetail:
		return m.loadDetail()
	case viewForm:
		if m.form != nil && m.form.State() == reports.StateError {
			return m.loadForm()
		}
	case viewWellness:
		return m.loadWellness()
	case viewDoctors:
		return m.loadDoctors(m.doctorsPage.PageNumber)
	case viewNotifications:
		return tea.Batch(m.spinner.Tick, m.loadNotifications())
	}
	return nil
}
