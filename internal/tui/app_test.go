package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"jendo-cli/internal/api"
	"jendo-cli/internal/reports"
	"jendo-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// openValues drills home → categories → sections → items → values.
func openValues(t *testing.T, m appModel) appModel {
	t.Helper()
	m = press(t, m, keyEnter, keyEnter, keyEnter, keyEnter)
	if m.top() != viewValues {
		t.Fatalf("expected values view, got %v (stack %v)", m.top(), m.stack)
	}
	return m
}

func TestNewAppModel_SignedOutStartsAtLogin(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), session.New(nil))
	if m.top() != viewLogin {
		t.Fatalf("expected login view, got %v", m.top())
	}
}

func TestLogin_SignsInAndLoadsUnreadCount(t *testing.T) {
	b := newFakeBackend()
	sess := session.New(nil)
	m := newTestModel(t, b, sess)

	m = press(t, m, runes("nimal@example.com"), keyEnter, runes("secret"), keyEnter)

	if m.top() != viewHome {
		t.Fatalf("expected home view after login, got %v", m.top())
	}
	if !sess.SignedIn() {
		t.Fatalf("expected session to be signed in")
	}
	if got := sess.UnreadCount(); got != 1 {
		t.Fatalf("expected unread count 1, got %d", got)
	}
	if m.password.Value() != "" {
		t.Fatalf("expected password field to be cleared")
	}
}

func TestLogin_FailureShowsServerMessage(t *testing.T) {
	b := newFakeBackend()
	b.setErr("Login", &api.ServerError{Op: "login", Status: 401, Message: "Invalid email or password"})
	sess := session.New(nil)
	m := newTestModel(t, b, sess)

	m = press(t, m, runes("x@example.com"), keyEnter, runes("bad"), keyEnter)

	if m.top() != viewLogin {
		t.Fatalf("expected to stay on login, got %v", m.top())
	}
	if m.minibufferText != "Invalid email or password" || !m.minibufferErr {
		t.Fatalf("unexpected minibuffer %q (err=%v)", m.minibufferText, m.minibufferErr)
	}
}

func TestNavigate_HierarchyAndBack(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	if got := m.values.Params(); got.CategoryName != "Laboratory" || got.SectionName != "Blood Tests" || got.ItemName != "Cholesterol" {
		t.Fatalf("unexpected params %+v", got)
	}
	rows := m.values.Rows()
	if len(rows) != 2 || rows[0].ID != 502 {
		t.Fatalf("expected newest value first, got %+v", rows)
	}
	header := m.renderHeader(200)
	for _, want := range []string{"My Reports", "Laboratory", "Blood Tests", "Cholesterol"} {
		if !strings.Contains(header, want) {
			t.Fatalf("expected breadcrumb to contain %q; got %q", want, header)
		}
	}

	m = press(t, m, keyEsc)
	if m.top() != viewItems {
		t.Fatalf("expected items view after back, got %v", m.top())
	}
	if m.values.Active() {
		t.Fatalf("expected values screen to be deactivated")
	}
}

func TestValues_RefreshOnReturnFromDetail(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)
	before := b.count("ValuesByItem")

	m = press(t, m, keyEnter)
	if m.top() != viewDetail {
		t.Fatalf("expected detail view, got %v", m.top())
	}
	if v, ok := m.detail.Value(); !ok || v.ID != 502 {
		t.Fatalf("expected detail of value 502, got %+v ok=%v", v, ok)
	}

	m = press(t, m, keyEsc)
	if m.top() != viewValues {
		t.Fatalf("expected values view, got %v", m.top())
	}
	// One fetch for the detail lookup, one for the refresh.
	if got := b.count("ValuesByItem"); got != before+2 {
		t.Fatalf("expected values to be refetched on return; calls %d -> %d", before, got)
	}
}

func TestValues_DeleteIsConfirmGated(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, runes("d"))
	if m.modal != modalConfirmDeleteValue {
		t.Fatalf("expected delete confirmation, got %v", m.modal)
	}
	if m.confirmFocus != confirmFocusCancel {
		t.Fatalf("expected focus on cancel")
	}
	m = press(t, m, runes("n"))
	if m.modal != modalNone || b.count("DeleteValue") != 0 {
		t.Fatalf("expected cancel without request; modal=%v calls=%d", m.modal, b.count("DeleteValue"))
	}

	m = press(t, m, runes("d"), runes("y"))
	if b.count("DeleteValue") != 1 || b.deleted[0] != 502 {
		t.Fatalf("expected delete of 502, got %v", b.deleted)
	}
	if len(m.values.Rows()) != 1 {
		t.Fatalf("expected one remaining row, got %d", len(m.values.Rows()))
	}
	if m.minibufferText != "Record deleted successfully" {
		t.Fatalf("unexpected minibuffer %q", m.minibufferText)
	}
}

func TestValues_DeleteFailureKeepsRow(t *testing.T) {
	b := newFakeBackend()
	b.setErr("DeleteValue", &api.ServerError{Op: "delete value", Status: 500})
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, runes("d"), runes("y"))
	if len(m.values.Rows()) != 2 {
		t.Fatalf("expected rows to be kept")
	}
	if m.minibufferText != "Failed to delete record" || !m.minibufferErr {
		t.Fatalf("unexpected minibuffer %q", m.minibufferText)
	}
}

func TestAddForm_EmptySubmitIsRejectedLocally(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, runes("a"))
	if m.top() != viewForm {
		t.Fatalf("expected form view, got %v", m.top())
	}
	m = press(t, m, keySave)
	if b.count("CreateValue") != 0 {
		t.Fatalf("expected no request for an empty form")
	}
	if m.minibufferText != reports.EmptyFormMessage {
		t.Fatalf("unexpected minibuffer %q", m.minibufferText)
	}
	if m.top() != viewForm {
		t.Fatalf("expected to stay on form")
	}
}

func TestAddForm_SavesAndReturnsToRefreshedValues(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, runes("a"), runes("72.5"), keyTab, runes("after lunch"), keySave)

	if len(b.created) != 1 {
		t.Fatalf("expected one create, got %d", len(b.created))
	}
	req := b.created[0]
	if req.ReportItemID != 100 || req.ValueNumber == nil || *req.ValueNumber != 72.5 {
		t.Fatalf("unexpected payload %+v", req)
	}
	if req.ValueText == nil || *req.ValueText != "after lunch" {
		t.Fatalf("unexpected notes %+v", req.ValueText)
	}
	if m.top() != viewValues {
		t.Fatalf("expected values view after save, got %v", m.top())
	}
	if len(m.values.Rows()) != 3 {
		t.Fatalf("expected refreshed list with 3 rows, got %d", len(m.values.Rows()))
	}
	if m.minibufferText != "Record saved successfully" {
		t.Fatalf("unexpected minibuffer %q", m.minibufferText)
	}
}

func TestEditForm_PreloadsValue(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, runes("e"))
	if m.top() != viewForm || m.form.Mode() != reports.ModeEdit {
		t.Fatalf("expected edit form")
	}
	if got := m.numberInput.Value(); got != "190" {
		t.Fatalf("expected preloaded number 190, got %q", got)
	}
	if n := len(m.form.Existing()); n != 1 {
		t.Fatalf("expected one existing attachment, got %d", n)
	}
}

func TestDetail_OpenAttachmentUsesDownloadURL(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	var opened string
	m.openURL = func(u string) tea.Cmd { opened = u; return nil }
	m = openValues(t, m)

	m = press(t, m, keyEnter, runes("o"))
	if opened != "http://api.test/report-attachments/900/download" {
		t.Fatalf("unexpected url %q", opened)
	}
}

func TestDetail_DeleteReturnsToValues(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, keyEnter, runes("d"))
	if m.modal != modalConfirmDeleteDetail {
		t.Fatalf("expected confirmation, got %v", m.modal)
	}
	m = press(t, m, keyTab, keyEnter)
	if m.top() != viewValues {
		t.Fatalf("expected values view after delete, got %v", m.top())
	}
	if len(m.values.Rows()) != 1 {
		t.Fatalf("expected refreshed list without the deleted value")
	}
}

func TestDeepLink_OpensValues(t *testing.T) {
	b := newFakeBackend()
	m := newAppModel(Options{
		Backend:  b,
		Session:  signedIn(t),
		Location: time.UTC,
		Start:    reports.NavParams{CategoryID: "1", SectionID: "10", ItemID: "100"},
	})
	m = drain(t, m, m.Init())

	want := []view{viewHome, viewCategories, viewSections, viewItems, viewValues}
	if len(m.stack) != len(want) {
		t.Fatalf("unexpected stack %v", m.stack)
	}
	for i := range want {
		if m.stack[i] != want[i] {
			t.Fatalf("unexpected stack %v", m.stack)
		}
	}
	if m.values.State() != reports.StateReady {
		t.Fatalf("expected values ready, got %v", m.values.State())
	}
	if !strings.Contains(m.renderHeader(200), "Item 100") {
		t.Fatalf("expected id fallback in breadcrumb; got %q", m.renderHeader(200))
	}

	m = press(t, m, keyEsc)
	if m.items.State() != reports.StateReady || len(m.items.Rows()) != 1 {
		t.Fatalf("expected items loaded underneath, got %v", m.items.State())
	}
}

func TestNetworkError_SetsAndClearsBanner(t *testing.T) {
	b := newFakeBackend()
	sess := signedIn(t)
	b.setErr("Categories", &api.NetworkError{Op: "list categories", Err: errors.New("dial tcp: refused")})
	m := newTestModel(t, b, sess)

	m = press(t, m, keyEnter)
	if m.categories.State() != reports.StateError {
		t.Fatalf("expected error state, got %v", m.categories.State())
	}
	if sess.Banner() != offlineBanner {
		t.Fatalf("expected offline banner, got %q", sess.Banner())
	}
	if !strings.Contains(m.View(), offlineBanner) {
		t.Fatalf("expected banner in view")
	}

	b.setErr("Categories", nil)
	m = press(t, m, runes("r"))
	if m.categories.State() != reports.StateReady {
		t.Fatalf("expected retry to succeed, got %v", m.categories.State())
	}
	if sess.Banner() != "" {
		t.Fatalf("expected banner cleared, got %q", sess.Banner())
	}
}

func TestUnauthorized_EndsSession(t *testing.T) {
	b := newFakeBackend()
	sess := signedIn(t)
	b.setErr("Categories", &api.ServerError{Op: "list categories", Status: 401})
	m := newTestModel(t, b, sess)

	m = press(t, m, keyEnter)
	if m.top() != viewLogin || len(m.stack) != 1 {
		t.Fatalf("expected login view, got stack %v", m.stack)
	}
	if sess.SignedIn() {
		t.Fatalf("expected session to end")
	}
}

func TestNotifications_MarkReadUpdatesUnread(t *testing.T) {
	b := newFakeBackend()
	sess := signedIn(t)
	m := newTestModel(t, b, sess)
	m = drain(t, m, m.Init())
	if sess.UnreadCount() != 1 {
		t.Fatalf("expected unread 1, got %d", sess.UnreadCount())
	}

	m = press(t, m, runes("j"), runes("j"), runes("j"), keyEnter)
	if m.top() != viewNotifications {
		t.Fatalf("expected notifications view, got %v", m.top())
	}
	m = press(t, m, keyEnter)
	if b.count("MarkNotificationRead") != 1 {
		t.Fatalf("expected mark read request")
	}
	if sess.UnreadCount() != 0 {
		t.Fatalf("expected unread 0, got %d", sess.UnreadCount())
	}
}

func TestWellness_ReaderRendersMarkdown(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))

	m = press(t, m, runes("j"), keyEnter)
	if m.top() != viewWellness || m.wellness.state != reports.StateReady {
		t.Fatalf("expected wellness list, got %v", m.top())
	}
	m = press(t, m, keyEnter)
	if m.top() != viewReader {
		t.Fatalf("expected reader, got %v", m.top())
	}
	if out := m.renderReader(80, 20); !strings.Contains(out, "Thirty minutes") {
		t.Fatalf("expected recommendation text; got %q", out)
	}
}

func TestLogout_ReturnsToLogin(t *testing.T) {
	b := newFakeBackend()
	sess := signedIn(t)
	m := newTestModel(t, b, sess)

	m = press(t, m, runes("L"))
	if m.top() != viewLogin || sess.SignedIn() {
		t.Fatalf("expected signed out at login; top=%v", m.top())
	}
	if b.count("Logout") != 1 {
		t.Fatalf("expected logout request")
	}
}

func TestUpdate_ReloadTickMsg_AutoClearsMinibuffer(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), signedIn(t))

	(&m).showMinibuffer("Hello")
	m.minibufferSetAt = time.Now().Add(-minibufferAutoClearAfter - 100*time.Millisecond)

	mm, _ := m.Update(reloadTickMsg{})
	m = mm.(appModel)

	if got := m.minibufferText; got != "" {
		t.Fatalf("expected minibuffer text to clear, got %q", got)
	}
}

func TestUpdate_ReloadTickMsg_DoesNotClearRecentMinibuffer(t *testing.T) {
	m := newTestModel(t, newFakeBackend(), signedIn(t))

	(&m).showMinibuffer("Hello")
	m.minibufferSetAt = time.Now()

	mm, _ := m.Update(reloadTickMsg{})
	m = mm.(appModel)

	if got := m.minibufferText; got == "" {
		t.Fatalf("expected minibuffer text to remain set")
	}
}

func TestValues_LateDeleteAfterLeavingDoesNotLockDeletes(t *testing.T) {
	b := newFakeBackend()
	m := newTestModel(t, b, signedIn(t))
	m = openValues(t, m)

	m = press(t, m, runes("d"))
	mm, held := m.Update(runes("y"))
	m = mm.(appModel)
	if !m.values.Deleting() {
		t.Fatalf("expected delete in flight")
	}

	m = press(t, m, keyEsc)
	m = press(t, m, keyEnter)
	if m.top() != viewValues {
		t.Fatalf("expected values view, got %v", m.top())
	}
	if m.values.Deleting() {
		t.Fatalf("returning to values must clear the earlier delete")
	}
	m.minibufferText = ""

	// The first delete answers only now.
	m = drain(t, m, held)
	if m.minibufferText != "" {
		t.Fatalf("late result must not surface, got %q", m.minibufferText)
	}

	m = press(t, m, runes("d"))
	if m.modal != modalConfirmDeleteValue {
		t.Fatalf("expected delete confirmation, got %v", m.modal)
	}
}
