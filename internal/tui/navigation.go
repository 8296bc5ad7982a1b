package tui

import (
	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) openCategories() tea.Cmd {
	m.categories.Activate(reports.NavParams{})
	m.categoriesList.ResetFilter()
	m.categoriesList.SetItems(nil)
	m.push(viewCategories)
	return m.loadCategories()
}

func (m *appModel) openSections(p reports.NavParams) tea.Cmd {
	m.sections.Activate(p)
	m.sectionsList.ResetFilter()
	m.sectionsList.SetItems(nil)
	m.push(viewSections)
	return m.loadSections()
}

func (m *appModel) openItems(p reports.NavParams) tea.Cmd {
	m.items.Activate(p)
	m.itemsList.ResetFilter()
	m.itemsList.SetItems(nil)
	m.push(viewItems)
	return m.loadItems()
}

func (m *appModel) openValues(p reports.NavParams) tea.Cmd {
	m.values.Activate(p)
	m.valuesList.ResetFilter()
	m.valuesList.SetItems(nil)
	m.push(viewValues)
	return m.loadValues()
}

func (m *appModel) openDetail(p reports.NavParams) tea.Cmd {
	m.detail.Activate(p)
	m.detailIndex = 0
	m.push(viewDetail)
	return m.loadDetail()
}

func (m *appModel) openForm(mode reports.FormMode, p reports.NavParams) tea.Cmd {
	m.form = reports.NewValueForm(m.backend, mode, m.loc)
	m.form.Activate(p)
	m.numberInput.SetValue("")
	m.notesInput.SetValue("")
	m.fileIndex = 0
	m.setFormFocus(focusNumber)
	m.push(viewForm)
	if mode == reports.ModeEdit {
		return tea.Batch(textinput.Blink, m.loadForm())
	}
	return textinput.Blink
}

// openDeepLink stacks every level down to the item's value list. Names are
// unknown at this point; the breadcrumb falls back to ids.
func (m *appModel) openDeepLink(p reports.NavParams) tea.Cmd {
	if p.ItemID == "" {
		return nil
	}
	return tea.Batch(
		m.openCategories(),
		m.openSections(reports.NavParams{CategoryID: p.CategoryID, CategoryName: p.CategoryName}),
		m.openItems(reports.NavParams{
			CategoryID: p.CategoryID, CategoryName: p.CategoryName,
			SectionID: p.SectionID, SectionName: p.SectionName,
		}),
		m.openValues(p),
	)
}

func (m *appModel) openHomeEntry(target view) tea.Cmd {
	switch target {
	case viewCategories:
		return m.openCategories()
	case viewWellness:
		m.wellnessList.ResetFilter()
		m.push(viewWellness)
		return m.loadWellness()
	case viewDoctors:
		m.doctorsPage = model.Page[model.Doctor]{}
		m.push(viewDoctors)
		return m.loadDoctors(0)
	case viewNotifications:
		m.push(viewNotifications)
		return tea.Batch(m.spinner.Tick, m.loadNotifications())
	}
	return nil
}

// drill opens the screen below the selected row.
func (m *appModel) drill() tea.Cmd {
	l := m.activeList()
	if l == nil {
		return nil
	}
	if m.top() == viewHome {
		if it, ok := l.SelectedItem().(menuEntry); ok {
			return m.openHomeEntry(it.target)
		}
		return nil
	}
	e, ok := selectedEntry(*l)
	if !ok {
		return nil
	}
	switch m.top() {
	case viewCategories:
		if p, ok := m.categories.Select(e.idx); ok {
			return m.openSections(p)
		}
	case viewSections:
		if p, ok := m.sections.Select(e.idx); ok {
			return m.openItems(p)
		}
	case viewItems:
		if p, ok := m.items.Select(e.idx); ok {
			return m.openValues(p)
		}
	case viewValues:
		if p, ok := m.values.Select(e.idx); ok {
			return m.openDetail(p)
		}
	case viewWellness:
		m.readerIndex = e.idx
		m.readerOffset = 0
		m.push(viewReader)
	case viewNotifications:
		return m.markRead(e.idx)
	}
	return nil
}

func (m *appModel) markRead(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.notifications.rows) {
		return nil
	}
	n := m.notifications.rows[idx]
	if n.IsRead {
		return nil
	}
	b, ctx, id := m.backend, m.ctx, n.ID
	return func() tea.Msg {
		return notificationReadMsg{id: id, err: b.MarkNotificationRead(ctx, id)}
	}
}

func (m *appModel) refreshNotificationList() {
	m.notesList.SetItems(notificationEntries(m.notifications.rows, m.formatDate))
}

func (m appModel) currentRecommendation() (model.WellnessRecommendation, bool) {
	if m.readerIndex < 0 || m.readerIndex >= len(m.wellness.rows) {
		return model.WellnessRecommendation{}, false
	}
	return m.wellness.rows[m.readerIndex], true
}
