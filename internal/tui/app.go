package tui

import (
	"context"
	"errors"
	"time"

	"jendo-cli/internal/api"
	"jendo-cli/internal/model"
	"jendo-cli/internal/reports"
	"jendo-cli/internal/session"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type view int

const (
	viewLogin view = iota
	viewHome
	viewCategories
	viewSections
	viewItems
	viewValues
	viewDetail
	viewForm
	viewWellness
	viewReader
	viewDoctors
	viewNotifications
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDeleteValue
	modalConfirmDeleteDetail
	modalConfirmDeleteAttachment
	modalPickFile
)

const offlineBanner = "Cannot reach the server. Check your connection."

type appModel struct {
	ctx     context.Context
	backend Backend
	sess    *session.Context
	loc     *time.Location
	logger  *zap.Logger
	openURL urlOpener

	width  int
	height int

	stack        []view
	modal        modalKind
	confirmFocus confirmModalFocus
	startCmd     tea.Cmd

	spinner spinner.Model

	homeList list.Model

	email      textinput.Model
	password   textinput.Model
	loginFocus int
	loggingIn  bool

	categories *reports.ListScreen[model.ReportCategory]
	sections   *reports.ListScreen[model.ReportSection]
	items      *reports.ListScreen[model.ReportItem]
	values     *reports.ValueList
	detail     *reports.ValueDetail
	form       *reports.ValueForm

	categoriesList list.Model
	sectionsList   list.Model
	itemsList      list.Model
	valuesList     list.Model

	detailIndex int

	formFocus     formFocus
	numberInput   textinput.Model
	notesInput    textarea.Model
	fileIndex     int
	picker        filepicker.Model
	pickerLastDir string

	wellness      *feed[model.WellnessRecommendation]
	wellnessList  list.Model
	readerIndex   int
	readerOffset  int
	doctors       *feed[model.Doctor]
	doctorsPage   model.Page[model.Doctor]
	doctorsList   list.Model
	notifications *feed[model.Notification]
	notesList     list.Model

	minibufferText  string
	minibufferErr   bool
	minibufferSetAt time.Time
}

func newAppModel(opts Options) appModel {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(nil)
	}

	m := appModel{
		ctx:     context.Background(),
		backend: opts.Backend,
		sess:    sess,
		loc:     loc,
		logger:  logger,
		openURL: platformOpener(opts.OpenCommand),

		categories: reports.NewCategoryList(opts.Backend),
		sections:   reports.NewSectionList(opts.Backend),
		items:      reports.NewItemList(opts.Backend),
		values:     reports.NewValueList(opts.Backend, loc),
		detail:     reports.NewValueDetail(opts.Backend, loc),

		wellness:      newFeed[model.WellnessRecommendation](),
		doctors:       newFeed[model.Doctor](),
		notifications: newFeed[model.Notification](),
	}

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = styleMuted()

	m.homeList = newList(homeEntries())
	m.homeList.SetFilteringEnabled(false)
	m.categoriesList = newList(nil)
	m.sectionsList = newList(nil)
	m.itemsList = newList(nil)
	m.valuesList = newList(nil)
	m.wellnessList = newList(nil)
	m.doctorsList = newList(nil)
	m.notesList = newList(nil)

	m.email = newLoginInput("Email", false)
	m.password = newLoginInput("Password", true)
	m.numberInput = newNumberInput()
	m.notesInput = newNotesInput()

	if !m.sess.SignedIn() {
		m.stack = []view{viewLogin}
		m.email.Focus()
		return m
	}
	m.stack = []view{viewHome}
	m.startCmd = tea.Batch(m.loadNotifications(), m.openDeepLink(opts.Start))
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickReload(), m.spinner.Tick}
	if m.startCmd != nil {
		cmds = append(cmds, m.startCmd)
	}
	if m.top() == viewLogin {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

func (m appModel) top() view {
	if len(m.stack) == 0 {
		return viewHome
	}
	return m.stack[len(m.stack)-1]
}

func (m *appModel) push(v view) { m.stack = append(m.stack, v) }

// pop leaves the current screen. The screen underneath is re-focused, which
// reloads the value list and the value detail.
func (m *appModel) pop() tea.Cmd {
	if len(m.stack) <= 1 {
		return nil
	}
	m.deactivate(m.top())
	m.stack = m.stack[:len(m.stack)-1]
	m.modal = modalNone
	switch m.top() {
	case viewValues:
		return m.loadValues()
	case viewDetail:
		return m.loadDetail()
	}
	return nil
}

func (m *appModel) deactivate(v view) {
	switch v {
	case viewCategories:
		m.categories.Deactivate()
	case viewSections:
		m.sections.Deactivate()
	case viewItems:
		m.items.Deactivate()
	case viewValues:
		m.values.Deactivate()
	case viewDetail:
		m.detail.Deactivate()
	case viewForm:
		if m.form != nil {
			m.form.Deactivate()
		}
	case viewWellness:
		m.wellness.cancel()
	case viewDoctors:
		m.doctors.cancel()
	}
}

// resetTo drops every screen and shows v alone.
func (m *appModel) resetTo(v view) {
	for i := len(m.stack) - 1; i >= 0; i-- {
		m.deactivate(m.stack[i])
	}
	m.stack = []view{v}
	m.modal = modalNone
}

// observe updates the session banner from a request outcome. An expired or
// revoked token ends the session.
func (m *appModel) observe(err error) {
	if err == nil {
		m.sess.SetBanner("")
		return
	}
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		m.sess.SetBanner(offlineBanner)
		return
	}
	var srvErr *api.ServerError
	if errors.As(err, &srvErr) && srvErr.Status == 401 && m.sess.SignedIn() {
		if endErr := m.sess.End(m.ctx); endErr != nil {
			m.logger.Warn("end session", zap.Error(endErr))
		}
		m.resetTo(viewLogin)
		m.email.Focus()
		m.showError("Session expired. Please sign in again.")
	}
}

func (m appModel) loading() bool {
	if m.loggingIn {
		return true
	}
	switch m.top() {
	case viewCategories:
		return m.categories.State() == reports.StateLoading
	case viewSections:
		return m.sections.State() == reports.StateLoading
	case viewItems:
		return m.items.State() == reports.StateLoading
	case viewValues:
		return m.values.State() == reports.StateLoading || m.values.Deleting()
	case viewDetail:
		return m.detail.State() == reports.StateLoading || m.detail.Deleting()
	case viewForm:
		return m.form != nil && (m.form.State() == reports.StateLoading || m.form.Saving())
	case viewWellness:
		return m.wellness.state == reports.StateLoading
	case viewDoctors:
		return m.doctors.state == reports.StateLoading
	case viewNotifications:
		return m.notifications.state == reports.StateLoading
	}
	return false
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case reloadTickMsg:
		m.expireMinibuffer(time.Now())
		return m, tickReload()

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case urlOpenDoneMsg:
		if msg.err != nil {
			m.logger.Warn("open url", zap.String("url", msg.url), zap.Error(msg.err))
			m.showError("Failed to open attachment")
		}
		return m, nil

	case loginMsg:
		return m.applyLogin(msg)

	case logoutMsg:
		if msg.err != nil {
			m.logger.Warn("logout", zap.Error(msg.err))
		}
		if err := m.sess.End(m.ctx); err != nil {
			m.logger.Warn("end session", zap.Error(err))
		}
		m.resetTo(viewLogin)
		m.email.Focus()
		m.showMinibuffer("Signed out")
		return m, textinput.Blink

	case categoriesMsg:
		r := reports.ListResult[model.ReportCategory](msg)
		if m.categories.Apply(r) {
			m.observe(r.Err)
			m.categoriesList.SetItems(categoryEntries(m.categories.Rows()))
		}
		return m, nil

	case sectionsMsg:
		r := reports.ListResult[model.ReportSection](msg)
		if m.sections.Apply(r) {
			m.observe(r.Err)
			m.sectionsList.SetItems(sectionEntries(m.sections.Rows()))
		}
		return m, nil

	case itemsMsg:
		r := reports.ListResult[model.ReportItem](msg)
		if m.items.Apply(r) {
			m.observe(r.Err)
			m.itemsList.SetItems(itemEntries(m.items.Rows()))
		}
		return m, nil

	case valuesMsg:
		r := reports.ValuesResult(msg)
		if m.values.Apply(r) {
			m.observe(r.Err)
			m.valuesList.SetItems(valueEntries(m.values.Rows()))
		}
		return m, nil

	case detailMsg:
		r := reports.ValueResult(msg)
		if m.detail.Apply(r) {
			m.observe(r.Err)
			m.clampDetailIndex()
		}
		return m, nil

	case formLoadedMsg:
		return m.applyFormLoaded(reports.ValueResult(msg))

	case valueDeletedMsg:
		return m.applyValueDeleted(msg)

	case submitDoneMsg:
		return m.applySubmit(reports.SubmitOutcome(msg))

	case attachmentDeletedMsg:
		m.observe(msg.result.Err)
		if m.form == nil || msg.form != m.form {
			return m, nil
		}
		if n := m.form.ApplyAttachmentDelete(msg.result); !n.Empty() {
			m.showNotice(n)
			m.clampFileIndex()
		}
		return m, nil

	case wellnessMsg:
		if m.wellness.apply(msg.gen, msg.rows, msg.err, "Failed to load recommendations") {
			m.observe(msg.err)
			m.wellnessList.SetItems(wellnessEntries(m.wellness.rows))
		}
		return m, nil

	case doctorsMsg:
		if m.doctors.apply(msg.gen, msg.page.Content, msg.err, "Failed to load doctors") {
			m.observe(msg.err)
			if msg.err == nil {
				m.doctorsPage = msg.page
			}
			m.doctorsList.SetItems(doctorEntries(m.doctors.rows))
		}
		return m, nil

	case notificationsMsg:
		if m.notifications.apply(msg.gen, msg.rows, msg.err, "Failed to load notifications") {
			m.observe(msg.err)
			if msg.err == nil {
				m.sess.SetUnreadCount(api.UnreadCount(msg.rows))
			}
			m.refreshNotificationList()
		}
		return m, nil

	case notificationReadMsg:
		m.observe(msg.err)
		if msg.err != nil {
			m.showError(api.Message(msg.err, "Failed to update notification"))
			return m, nil
		}
		for i := range m.notifications.rows {
			if m.notifications.rows[i].ID == msg.id {
				m.notifications.rows[i].IsRead = true
			}
		}
		m.sess.SetUnreadCount(api.UnreadCount(m.notifications.rows))
		m.refreshNotificationList()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.modal == modalPickFile {
		return m.updatePicker(msg)
	}
	return m.updateFocused(msg)
}

// updateFocused forwards non-key messages (cursor blink etc.) to the
// component that has focus.
func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.top() {
	case viewLogin:
		if m.loginFocus == 0 {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case viewForm:
		switch m.formFocus {
		case focusNumber:
			m.numberInput, cmd = m.numberInput.Update(msg)
		case focusNotes:
			m.notesInput, cmd = m.notesInput.Update(msg)
		}
	default:
		if l := m.activeList(); l != nil {
			*l, cmd = l.Update(msg)
		}
	}
	return m, cmd
}

func (m *appModel) activeList() *list.Model {
	switch m.top() {
	case viewHome:
		return &m.homeList
	case viewCategories:
		return &m.categoriesList
	case viewSections:
		return &m.sectionsList
	case viewItems:
		return &m.itemsList
	case viewValues:
		return &m.valuesList
	case viewWellness:
		return &m.wellnessList
	case viewDoctors:
		return &m.doctorsList
	case viewNotifications:
		return &m.notesList
	}
	return nil
}

func (m *appModel) resizeLists() {
	// Leave room for header, banner, footer and minibuffer.
	h := m.height - 6
	if h < 4 {
		h = 4
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	for _, l := range []*list.Model{
		&m.homeList, &m.categoriesList, &m.sectionsList, &m.itemsList,
		&m.valuesList, &m.wellnessList, &m.doctorsList, &m.notesList,
	} {
		l.SetSize(w, h)
	}
	m.numberInput.Width = min(w-4, 40)
	m.notesInput.SetWidth(min(w-4, 80))
	m.picker.Height = pickerHeight(m.height)
}

func (m appModel) bodyHeight() int {
	h := m.height - 6
	if h < 4 {
		h = 4
	}
	return h
}

func (m appModel) formatDate(ts model.Timestamp) string {
	return reports.FormatDate(ts, m.loc)
}
