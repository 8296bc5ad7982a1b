package tui

import (
	"jendo-cli/internal/reports"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.modal {
	case modalPickFile:
		return m.updatePicker(msg)
	case modalConfirmDeleteValue, modalConfirmDeleteDetail, modalConfirmDeleteAttachment:
		return m.updateConfirm(msg)
	}

	switch m.top() {
	case viewLogin:
		return m.updateLogin(msg)
	case viewForm:
		return m.updateForm(msg)
	case viewReader:
		return m.updateReader(msg)
	}

	// While typing a filter the list owns every key.
	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		*l, cmd = l.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		if l := m.activeList(); l != nil && l.FilterState() == list.FilterApplied {
			l.ResetFilter()
			return m, nil
		}
		return m, m.pop()
	case "r":
		return m, m.reload()
	case "enter":
		return m, m.drill()
	case "L":
		if m.top() == viewHome {
			return m, m.logout()
		}
	}

	switch m.top() {
	case viewValues:
		if cmd, handled := m.updateValuesKey(msg); handled {
			return m, cmd
		}
	case viewDetail:
		return m.updateDetailKey(msg)
	case viewDoctors:
		switch msg.String() {
		case "n":
			if m.doctors.state == reports.StateReady && !m.doctorsPage.Last {
				return m, m.loadDoctors(m.doctorsPage.PageNumber + 1)
			}
			return m, nil
		case "p":
			if m.doctorsPage.PageNumber > 0 {
				return m, m.loadDoctors(m.doctorsPage.PageNumber - 1)
			}
			return m, nil
		}
	}

	if l := m.activeList(); l != nil {
		var cmd tea.Cmd
		*l, cmd = l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) updateValuesKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "a":
		if m.values.State() == reports.StateError {
			return nil, true
		}
		return m.openForm(reports.ModeAdd, m.values.Params()), true
	case "e":
		e, ok := selectedEntry(m.valuesList)
		if !ok {
			return nil, true
		}
		p, ok := m.values.Select(e.idx)
		if !ok {
			return nil, true
		}
		return m.openForm(reports.ModeEdit, p), true
	case "d":
		e, ok := selectedEntry(m.valuesList)
		if !ok {
			return nil, true
		}
		if m.values.RequestDelete(e.id) {
			m.modal = modalConfirmDeleteValue
			m.confirmFocus = confirmFocusCancel
		}
		return nil, true
	}
	return nil, false
}

func (m appModel) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.detail.Attachments())
	switch msg.String() {
	case "up", "k":
		if m.detailIndex > 0 {
			m.detailIndex--
		}
	case "down", "j":
		if m.detailIndex < n-1 {
			m.detailIndex++
		}
	case "o":
		if n == 0 {
			return m, nil
		}
		a := m.detail.Attachments()[m.detailIndex]
		return m, m.openURL(m.detail.DownloadURL(a.ID))
	case "e":
		if m.detail.State() != reports.StateReady {
			return m, nil
		}
		return m, m.openForm(reports.ModeEdit, m.detail.EditParams())
	case "d":
		if m.detail.RequestDelete() {
			m.modal = modalConfirmDeleteDetail
			m.confirmFocus = confirmFocusCancel
		}
	}
	return m, nil
}

func (m *appModel) clampDetailIndex() {
	n := len(m.detail.Attachments())
	if m.detailIndex >= n {
		m.detailIndex = n - 1
	}
	if m.detailIndex < 0 {
		m.detailIndex = 0
	}
}

func (m appModel) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.bodyHeight() - 2
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m, m.pop()
	case "down", "j":
		m.readerOffset++
	case "up", "k":
		m.readerOffset--
	case "pgdown", " ", "f":
		m.readerOffset += page
	case "pgup", "b":
		m.readerOffset -= page
	case "home", "g":
		m.readerOffset = 0
	}
	_, m.readerOffset = scrollLines(m.readerText(m.width), m.readerOffset, m.bodyHeight())
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case "y":
		return m.confirm()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirm()
		}
		return m.cancelConfirm()
	case "n", "esc", "q":
		return m.cancelConfirm()
	}
	return m, nil
}

func (m appModel) cancelConfirm() (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalConfirmDeleteValue:
		m.values.CancelDelete()
	case modalConfirmDeleteDetail:
		m.detail.CancelDelete()
	case modalConfirmDeleteAttachment:
		if m.form != nil {
			m.form.CancelAttachmentDelete()
		}
	}
	m.modal = modalNone
	return m, nil
}

func (m appModel) confirm() (tea.Model, tea.Cmd) {
	kind := m.modal
	m.modal = modalNone
	ctx := m.ctx
	switch kind {
	case modalConfirmDeleteValue:
		t, ok := m.values.ConfirmDelete()
		if !ok {
			return m, nil
		}
		s := m.values
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			return valueDeletedMsg{from: viewValues, result: s.RunDelete(ctx, t)}
		})
	case modalConfirmDeleteDetail:
		t, ok := m.detail.ConfirmDelete()
		if !ok {
			return m, nil
		}
		s := m.detail
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			return valueDeletedMsg{from: viewDetail, result: s.RunDelete(ctx, t)}
		})
	case modalConfirmDeleteAttachment:
		if m.form == nil {
			return m, nil
		}
		t, ok := m.form.ConfirmAttachmentDelete()
		if !ok {
			return m, nil
		}
		f := m.form
		return m, func() tea.Msg { return attachmentDeletedMsg{form: f, result: f.RunAttachmentDelete(ctx, t)} }
	}
	return m, nil
}

func (m appModel) applyValueDeleted(msg valueDeletedMsg) (tea.Model, tea.Cmd) {
	m.observe(msg.result.Err)
	switch msg.from {
	case viewValues:
		n := m.values.ApplyDelete(msg.result)
		if n.Empty() {
			return m, nil
		}
		m.showNotice(n)
		m.valuesList.SetItems(valueEntries(m.values.Rows()))
	case viewDetail:
		n := m.detail.ApplyDelete(msg.result)
		if n.Empty() {
			return m, nil
		}
		m.showNotice(n)
		if m.detail.Done() && m.top() == viewDetail {
			return m, m.pop()
		}
	}
	return m, nil
}
