package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"jendo-cli/internal/api"
	"jendo-cli/internal/model"
	"jendo-cli/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeBackend struct {
	mu sync.Mutex

	categories    []model.ReportCategory
	sections      map[int64][]model.ReportSection
	items         map[int64][]model.ReportItem
	values        map[int64][]model.ReportItemValue
	notifications []model.Notification
	wellness      []model.WellnessRecommendation

	errs    map[string]error
	calls   map[string]int
	created []model.CreateValueRequest
	deleted []int64
	nextID  int64
}

func newFakeBackend() *fakeBackend {
	desc := "Blood and urine tests"
	return &fakeBackend{
		categories: []model.ReportCategory{
			{ID: 1, Name: "Laboratory", Description: &desc},
			{ID: 2, Name: "Imaging"},
		},
		sections: map[int64][]model.ReportSection{
			1: {{ID: 10, Name: "Blood Tests"}},
		},
		items: map[int64][]model.ReportItem{
			10: {{ID: 100, Name: "Cholesterol", SectionID: 10}},
		},
		values: map[int64][]model.ReportItemValue{
			100: {
				{ID: 501, ReportItemID: 100, ValueNumber: ptr(180.0), CreatedAt: ts("2024-03-01T08:00:00Z")},
				{ID: 502, ReportItemID: 100, ValueNumber: ptr(190.0), CreatedAt: ts("2024-04-01T08:00:00Z"),
					Attachments: []model.ReportAttachment{{ID: 900, FileURL: "/files/lab.pdf", FileType: "application/pdf"}}},
			},
		},
		notifications: []model.Notification{
			{ID: 1, Title: "Results ready", IsRead: false},
			{ID: 2, Title: "Welcome", IsRead: true},
		},
		wellness: []model.WellnessRecommendation{
			{ID: 1, Title: "Walk daily", Category: "exercise", Description: "Thirty minutes a day."},
		},
		errs:   map[string]error{},
		calls:  map[string]int{},
		nextID: 1000,
	}
}

func ptr[T any](v T) *T { return &v }

func ts(s string) model.Timestamp {
	t, err := model.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (f *fakeBackend) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) setErr(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeBackend) Categories(ctx context.Context) ([]model.ReportCategory, error) {
	if err := f.record("Categories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeBackend) SectionsByCategory(ctx context.Context, id int64) ([]model.ReportSection, error) {
	if err := f.record("SectionsByCategory"); err != nil {
		return nil, err
	}
	return f.sections[id], nil
}

func (f *fakeBackend) ItemsBySection(ctx context.Context, id int64) ([]model.ReportItem, error) {
	if err := f.record("ItemsBySection"); err != nil {
		return nil, err
	}
	return f.items[id], nil
}

func (f *fakeBackend) ValuesByItem(ctx context.Context, id int64) ([]model.ReportItemValue, error) {
	if err := f.record("ValuesByItem"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ReportItemValue(nil), f.values[id]...), nil
}

func (f *fakeBackend) CreateValue(ctx context.Context, req model.CreateValueRequest) (model.ReportItemValue, error) {
	if err := f.record("CreateValue"); err != nil {
		return model.ReportItemValue{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.created = append(f.created, req)
	v := model.ReportItemValue{
		ID:           f.nextID,
		ReportItemID: req.ReportItemID,
		ValueNumber:  req.ValueNumber,
		ValueText:    req.ValueText,
		CreatedAt:    model.Timestamp{Time: time.Now()},
	}
	f.values[req.ReportItemID] = append(f.values[req.ReportItemID], v)
	return v, nil
}

func (f *fakeBackend) UpdateValue(ctx context.Context, id int64, req model.UpdateValueRequest) (model.ReportItemValue, error) {
	if err := f.record("UpdateValue"); err != nil {
		return model.ReportItemValue{}, err
	}
	return model.ReportItemValue{ID: id, ReportItemID: req.ReportItemID, ValueNumber: req.ValueNumber, ValueText: req.ValueText}, nil
}

func (f *fakeBackend) UploadAttachment(ctx context.Context, valueID int64, file api.UploadFile) (model.ReportAttachment, error) {
	if err := f.record("UploadAttachment"); err != nil {
		return model.ReportAttachment{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return model.ReportAttachment{ID: f.nextID, ReportItemValueID: valueID, FileType: file.MIMEType, FileURL: "/files/" + file.Name}, nil
}

func (f *fakeBackend) DeleteValue(ctx context.Context, id int64) error {
	if err := f.record("DeleteValue"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	for item, vs := range f.values {
		for i, v := range vs {
			if v.ID == id {
				f.values[item] = append(vs[:i:i], vs[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (f *fakeBackend) DeleteAttachment(ctx context.Context, id int64) error {
	return f.record("DeleteAttachment")
}

func (f *fakeBackend) AttachmentDownloadURL(id int64) string {
	return fmt.Sprintf("http://api.test/report-attachments/%d/download", id)
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	if err := f.record("Login"); err != nil {
		return model.AuthResult{}, err
	}
	return model.AuthResult{Token: "opaque-token", User: model.User{ID: 7, FirstName: "Nimal", Email: email}}, nil
}

func (f *fakeBackend) Logout(ctx context.Context) error { return f.record("Logout") }

func (f *fakeBackend) WellnessRecommendations(ctx context.Context, riskLevel string) ([]model.WellnessRecommendation, error) {
	if err := f.record("WellnessRecommendations"); err != nil {
		return nil, err
	}
	return f.wellness, nil
}

func (f *fakeBackend) Doctors(ctx context.Context, page, size int) (model.Page[model.Doctor], error) {
	if err := f.record("Doctors"); err != nil {
		return model.Page[model.Doctor]{}, err
	}
	return model.Page[model.Doctor]{
		Content:    []model.Doctor{{ID: 1, Name: "Dr. Perera", Specialty: "Cardiology", Hospital: "General"}},
		PageNumber: page, PageSize: size, TotalPages: 1, First: true, Last: true,
	}, nil
}

func (f *fakeBackend) Notifications(ctx context.Context) ([]model.Notification, error) {
	if err := f.record("Notifications"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notification(nil), f.notifications...), nil
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, id int64) error {
	return f.record("MarkNotificationRead")
}

// signedIn returns an in-memory session with an opaque token.
func signedIn(t *testing.T) *session.Context {
	t.Helper()
	s := session.New(nil)
	if err := s.Begin(context.Background(), "opaque-token", model.User{ID: 7, FirstName: "Nimal"}); err != nil {
		t.Fatalf("begin session: %v", err)
	}
	return s
}

func newTestModel(t *testing.T, b *fakeBackend, sess *session.Context) appModel {
	t.Helper()
	m := newAppModel(Options{Backend: b, Session: sess, Location: time.UTC})
	m.openURL = func(string) tea.Cmd { return nil }
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(appModel)
}

// drain runs cmd and feeds every resulting message back into the model until
// nothing is left. Timers (spinner, blink, reload tick) are dropped.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatalf("drain: too many messages")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := runCmd(c)
		switch msg := msg.(type) {
		case nil, spinner.TickMsg, reloadTickMsg, tea.QuitMsg:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		mm, next := m.Update(msg)
		m = mm.(appModel)
		queue = append(queue, next)
	}
	return m
}

func runCmd(c tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	for _, k := range keys {
		mm, cmd := m.Update(k)
		m = drain(t, mm.(appModel), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)
