package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jendo-cli/internal/api"
	"jendo-cli/internal/reports"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type formFocus int

const (
	focusNumber formFocus = iota
	focusNotes
	focusFiles
)

func newNumberInput() textinput.Model {
	in := textinput.New()
	in.Placeholder = "e.g. 72.5"
	in.Prompt = ""
	in.CharLimit = 32
	in.Width = 24
	return in
}

func newNotesInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Notes"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(5)
	return ta
}

func (m *appModel) setFormFocus(f formFocus) {
	m.formFocus = f
	m.numberInput.Blur()
	m.notesInput.Blur()
	switch f {
	case focusNumber:
		m.numberInput.Focus()
	case focusNotes:
		m.notesInput.Focus()
	}
}

// fileRows is what the files section lists: existing attachments (edit mode)
// followed by files picked for upload.
func (m appModel) fileRowCount() int {
	if m.form == nil {
		return 0
	}
	return len(m.form.Existing()) + len(m.form.Files())
}

func (m *appModel) clampFileIndex() {
	n := m.fileRowCount()
	if m.fileIndex >= n {
		m.fileIndex = n - 1
	}
	if m.fileIndex < 0 {
		m.fileIndex = 0
	}
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, m.pop()
	}
	if m.form.State() != reports.StateReady {
		switch msg.String() {
		case "esc":
			return m, m.pop()
		case "r":
			return m, m.reload()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.pop()
	case "ctrl+s":
		return m, m.submitForm()
	case "tab":
		m.setFormFocus((m.formFocus + 1) % 3)
		return m, textinput.Blink
	case "shift+tab":
		m.setFormFocus((m.formFocus + 2) % 3)
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case focusNumber:
		if msg.String() == "enter" {
			m.setFormFocus(focusNotes)
			return m, nil
		}
		m.numberInput, cmd = m.numberInput.Update(msg)
		m.form.SetNumber(m.numberInput.Value())
	case focusNotes:
		m.notesInput, cmd = m.notesInput.Update(msg)
		m.form.SetNotes(m.notesInput.Value())
	case focusFiles:
		return m.updateFormFiles(msg)
	}
	return m, cmd
}

func (m appModel) updateFormFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	existing := m.form.Existing()
	switch msg.String() {
	case "up", "k":
		if m.fileIndex > 0 {
			m.fileIndex--
		}
	case "down", "j":
		if m.fileIndex < m.fileRowCount()-1 {
			m.fileIndex++
		}
	case "a", "enter":
		if m.form.Saving() {
			return m, nil
		}
		return m, m.openFilePicker()
	case "o":
		if m.fileIndex < len(existing) {
			return m, m.openURL(m.backend.AttachmentDownloadURL(existing[m.fileIndex].ID))
		}
	case "x", "delete":
		if m.form.Saving() {
			return m, nil
		}
		if m.fileIndex < len(existing) {
			if m.form.RequestAttachmentDelete(existing[m.fileIndex].ID) {
				m.modal = modalConfirmDeleteAttachment
				m.confirmFocus = confirmFocusCancel
			}
			return m, nil
		}
		if m.form.RemoveFile(m.fileIndex - len(existing)) {
			m.clampFileIndex()
		}
	}
	return m, nil
}

func (m *appModel) submitForm() tea.Cmd {
	req, err := m.form.BeginSubmit()
	if err != nil {
		if errors.Is(err, reports.ErrBusy) {
			return nil
		}
		m.showError(api.Message(err, "Failed to save record"))
		return nil
	}
	b, ctx := m.backend, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return submitDoneMsg(req.Run(ctx, b)) })
}

func (m appModel) applySubmit(o reports.SubmitOutcome) (tea.Model, tea.Cmd) {
	m.observe(o.Err)
	if m.form == nil || !m.form.Active() {
		// The user left the form while saving; the list underneath is stale.
		if o.ValueSaved {
			m.showMinibuffer("Record saved")
			if m.top() == viewValues {
				return m, m.loadValues()
			}
		}
		return m, nil
	}
	m.showNotice(m.form.ApplySubmit(o))
	m.clampFileIndex()
	if m.form.Done() && m.top() == viewForm {
		return m, m.pop()
	}
	return m, nil
}

func (m appModel) applyFormLoaded(r reports.ValueResult) (tea.Model, tea.Cmd) {
	if m.form == nil || !m.form.Apply(r) {
		return m, nil
	}
	m.observe(r.Err)
	if m.form.State() == reports.StateReady {
		m.numberInput.SetValue(m.form.Number())
		m.notesInput.SetValue(m.form.Notes())
		m.clampFileIndex()
	}
	return m, nil
}

func pickerHeight(screenH int) int {
	h := screenH - 16
	if h < 8 {
		h = 8
	}
	if h > 18 {
		h = 18
	}
	return h
}

func (m *appModel) openFilePicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = nil
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = pickerHeight(m.height)
	fp.Cursor = glyphSelected()
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.DisabledFile = styleMuted()
	fp.Styles.DisabledSelected = styleMuted()
	fp.Styles.FileSize = styleMuted().Width(fp.Styles.FileSize.GetWidth()).Align(lipgloss.Right)

	startDir := strings.TrimSpace(m.pickerLastDir)
	if startDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		}
	}
	if startDir == "" {
		startDir = "."
	}
	fp.CurrentDirectory = startDir

	m.picker = fp
	m.modal = modalPickFile
	return fp.Init()
}

func (m appModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && (km.String() == "esc" || km.String() == "q") {
		m.modal = modalNone
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.modal = modalNone
		m.pickerLastDir = filepath.Dir(path)
		if m.form == nil {
			return m, nil
		}
		pf, err := m.form.AddFile(path)
		if err != nil {
			m.showError(api.Message(err, "Failed to select file"))
			return m, nil
		}
		m.fileIndex = m.fileRowCount() - 1
		m.showMinibuffer("Attached " + pf.Name)
		return m, nil
	}
	return m, cmd
}

func (m appModel) renderForm(width int) string {
	f := m.form
	if f == nil {
		return ""
	}
	switch f.State() {
	case reports.StateLoading:
		return m.spinner.View() + " Loading record…"
	case reports.StateError:
		return renderErrorState(f.Err())
	}

	label := lipgloss.NewStyle().Bold(true)
	focused := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	heading := func(s string, ff formFocus) string {
		if m.formFocus == ff {
			return focused.Render(glyphSelected() + " " + s)
		}
		return label.Render("  " + s)
	}

	var b strings.Builder
	b.WriteString(heading("Value", focusNumber) + "\n")
	b.WriteString("  " + m.numberInput.View() + "\n\n")
	b.WriteString(heading("Notes", focusNotes) + "\n")
	b.WriteString(indent(m.notesInput.View(), "  ") + "\n\n")
	b.WriteString(heading("Attachments", focusFiles) + "\n")

	rows := 0
	for _, a := range f.Existing() {
		b.WriteString(m.fileLine(rows, fmt.Sprintf("%s %s (%s)", glyphAttachment(), reports.AttachmentName(a), reports.AttachmentKind(a.FileType)), width) + "\n")
		rows++
	}
	for _, pf := range f.Files() {
		line := fmt.Sprintf("+ %s  %s  %s", pf.Name, pf.MIMEType, humanize.Bytes(uint64(pf.Size)))
		b.WriteString(m.fileLine(rows, line, width) + "\n")
		rows++
	}
	if rows == 0 {
		b.WriteString(styleMuted().Render("    none") + "\n")
	}
	if f.Saving() {
		b.WriteString("\n" + m.spinner.View() + " Saving…")
	}
	return b.String()
}

func (m appModel) fileLine(i int, text string, width int) string {
	selected := m.formFocus == focusFiles && i == m.fileIndex
	return renderRow(width, text, "", selected, newRowDelegate())
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
