package reports

import (
	"context"
	"errors"
	"slices"
	"time"

	"jendo-cli/internal/model"
)

// ErrRecordNotFound is returned when the item's value list has no such id.
var ErrRecordNotFound = errors.New("record not found")

// FindValue loads the item's values and picks valueID. There is no
// get-by-id endpoint.
func FindValue(ctx context.Context, b Backend, itemID, valueID int64) (model.ReportItemValue, error) {
	vs, err := b.ValuesByItem(ctx, itemID)
	if err != nil {
		return model.ReportItemValue{}, err
	}
	i := slices.IndexFunc(vs, func(v model.ReportItemValue) bool { return v.ID == valueID })
	if i < 0 {
		return model.ReportItemValue{}, ErrRecordNotFound
	}
	return vs[i], nil
}

type ValueResult struct {
	Ticket Ticket
	Value  model.ReportItemValue
	Err    error
}

func valueMessage(err error) string {
	if errors.Is(err, ErrRecordNotFound) {
		return "Record not found"
	}
	return ""
}

// ValueDetail shows one value and its attachments.
type ValueDetail struct {
	loader

	backend Backend
	loc     *time.Location

	params  NavParams
	itemID  int64
	valueID int64
	value   *model.ReportItemValue

	confirming bool
	deleting   bool
	done       bool
}

func NewValueDetail(b Backend, loc *time.Location) *ValueDetail {
	if loc == nil {
		loc = time.UTC
	}
	return &ValueDetail{backend: b, loc: loc}
}

func (s *ValueDetail) Activate(p NavParams) {
	s.activate()
	s.params = p
	s.value = nil
	s.confirming = false
	s.deleting = false
	s.done = false
	itemID, err := ParseID("item", p.ItemID)
	if err != nil {
		s.reject(err)
		return
	}
	valueID, err := ParseID("value", p.ValueID)
	if err != nil {
		s.reject(err)
		return
	}
	s.itemID, s.valueID = itemID, valueID
}

func (s *ValueDetail) Params() NavParams { return s.params }

func (s *ValueDetail) Begin() (Ticket, bool) { return s.begin(s.valueID) }
func (s *ValueDetail) Retry() (Ticket, bool) { return s.Begin() }

func (s *ValueDetail) Fetch(ctx context.Context, t Ticket) ValueResult {
	v, err := FindValue(ctx, s.backend, s.itemID, t.ID)
	return ValueResult{Ticket: t, Value: v, Err: err}
}

func (s *ValueDetail) Apply(r ValueResult) bool {
	if !s.current(r.Ticket) {
		return false
	}
	if r.Err != nil {
		if msg := valueMessage(r.Err); msg != "" {
			s.state, s.err = StateError, msg
		} else {
			s.fail(r.Err, "Failed to load record")
		}
		return true
	}
	v := r.Value
	s.value = &v
	s.settle(1)
	return true
}

func (s *ValueDetail) State() LoadState { return s.state }
func (s *ValueDetail) Err() string      { return s.err }
func (s *ValueDetail) Active() bool     { return s.active }

func (s *ValueDetail) Value() (model.ReportItemValue, bool) {
	if s.value == nil {
		return model.ReportItemValue{}, false
	}
	return *s.value, true
}

// Display is the formatted value (see FormatValue).
func (s *ValueDetail) Display() string {
	if s.value == nil {
		return "-"
	}
	return FormatValue(*s.value, s.loc)
}

func (s *ValueDetail) Location() *time.Location { return s.loc }

func (s *ValueDetail) Attachments() []model.ReportAttachment {
	if s.value == nil {
		return nil
	}
	return s.value.Attachments
}

// DownloadURL is pure; opening it is the caller's job.
func (s *ValueDetail) DownloadURL(attachmentID int64) string {
	return s.backend.AttachmentDownloadURL(attachmentID)
}

// EditParams are the parameters for the edit form of this value.
func (s *ValueDetail) EditParams() NavParams { return s.params }

func (s *ValueDetail) RequestDelete() bool {
	if s.deleting || s.value == nil {
		return false
	}
	s.confirming = true
	return true
}

func (s *ValueDetail) Confirming() bool { return s.confirming }
func (s *ValueDetail) CancelDelete()    { s.confirming = false }
func (s *ValueDetail) Deleting() bool   { return s.deleting }

func (s *ValueDetail) ConfirmDelete() (Ticket, bool) {
	if !s.confirming || s.deleting || s.value == nil {
		return Ticket{}, false
	}
	s.confirming = false
	s.deleting = true
	return s.mutation(s.value.ID), true
}

func (s *ValueDetail) RunDelete(ctx context.Context, t Ticket) DeleteResult {
	return DeleteResult{Ticket: t, Err: s.backend.DeleteValue(ctx, t.ID)}
}

// ApplyDelete marks the screen done on success so the caller navigates back.
// A result from an earlier activation is dropped and yields an empty Notice.
func (s *ValueDetail) ApplyDelete(r DeleteResult) Notice {
	if !s.sameActivation(r.Ticket) {
		return Notice{}
	}
	s.deleting = false
	if r.Err != nil {
		return failure(r.Err, "Failed to delete record")
	}
	s.done = true
	return success("Record deleted successfully")
}

// Done reports that the value is gone and the screen should be popped.
func (s *ValueDetail) Done() bool { return s.done }

func (s *ValueDetail) Deactivate() { s.deactivate() }
