package reports

import (
	"errors"
	"strconv"
	"strings"

	"jendo-cli/internal/api"
)

// LoadState is exactly one of the four render states of a fetching screen.
type LoadState int

const (
	StateLoading LoadState = iota
	StateError
	StateEmpty
	StateReady
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Ticket identifies one issued request. Gen is compared on Apply so that
// responses to superseded requests are dropped. Load tickets carry the load
// generation; mutation tickets carry the activation they were issued in.
type Ticket struct {
	Gen uint64
	ID  int64
}

type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient message for the user (toast / minibuffer).
type Notice struct {
	Kind NoticeKind
	Text string
}

func (n Notice) IsError() bool { return n.Kind == NoticeError }

// Empty reports a result that was dropped because its screen moved on.
func (n Notice) Empty() bool { return n.Text == "" }

func success(text string) Notice { return Notice{Kind: NoticeSuccess, Text: text} }

func failure(err error, fallback string) Notice {
	return Notice{Kind: NoticeError, Text: api.Message(err, fallback)}
}

// ErrBusy is returned when a mutation is already in flight on the screen.
var ErrBusy = errors.New("another request is in progress")

// NavParams are the string-typed parameters passed between screens. Names
// are display hints; ids are re-fetched and never trusted for content.
type NavParams struct {
	CategoryID   string
	CategoryName string
	SectionID    string
	SectionName  string
	ItemID       string
	ItemName     string
	ValueID      string
}

// ParseID accepts only positive base-10 integers.
func ParseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, api.RequireID(kind, 0)
	}
	return id, nil
}

// loader is the lifecycle shared by every fetching screen.
type loader struct {
	active     bool
	invalid    bool
	gen        uint64
	activation uint64
	state      LoadState
	err        string
}

func (l *loader) activate() {
	l.active = true
	l.invalid = false
	l.gen++
	l.activation++
	l.state = StateLoading
	l.err = ""
}

func (l *loader) reject(err error) {
	l.invalid = true
	l.state = StateError
	l.err = api.Message(err, "Invalid ID")
}

func (l *loader) begin(id int64) (Ticket, bool) {
	if !l.active || l.invalid {
		return Ticket{}, false
	}
	l.gen++
	l.state = StateLoading
	l.err = ""
	return Ticket{Gen: l.gen, ID: id}, true
}

func (l *loader) current(t Ticket) bool { return l.active && t.Gen == l.gen }

// mutation issues a ticket that stays valid across reloads but not across
// re-activation.
func (l *loader) mutation(id int64) Ticket { return Ticket{Gen: l.activation, ID: id} }

func (l *loader) sameActivation(t Ticket) bool { return l.active && t.Gen == l.activation }

func (l *loader) fail(err error, fallback string) {
	l.state = StateError
	l.err = api.Message(err, fallback)
}

func (l *loader) settle(n int) {
	l.err = ""
	if n == 0 {
		l.state = StateEmpty
		return
	}
	l.state = StateReady
}

func (l *loader) deactivate() { l.active = false }

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
