package tui

import (
	"time"

	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"

	tea "github.com/charmbracelet/bubbletea"
)

type categoriesMsg reports.ListResult[model.ReportCategory]
type sectionsMsg reports.ListResult[model.ReportSection]
type itemsMsg reports.ListResult[model.ReportItem]
type valuesMsg reports.ValuesResult
type detailMsg reports.ValueResult
type formLoadedMsg reports.ValueResult

type valueDeletedMsg struct {
	from   view
	result reports.DeleteResult
}

type submitDoneMsg reports.SubmitOutcome

// attachmentDeletedMsg names the form it was issued from; a new form is
// created for every add/edit.
type attachmentDeletedMsg struct {
	form   *reports.ValueForm
	result reports.DeleteResult
}

type loginMsg struct {
	result model.AuthResult
	err    error
}

type logoutMsg struct{ err error }

type wellnessMsg struct {
	gen  uint64
	rows []model.WellnessRecommendation
	err  error
}

type doctorsMsg struct {
	gen  uint64
	page model.Page[model.Doctor]
	err  error
}

type notificationsMsg struct {
	gen  uint64
	rows []model.Notification
	err  error
}

type notificationReadMsg struct {
	id  int64
	err error
}

type reloadTickMsg struct{}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}
