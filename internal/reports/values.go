package reports

import (
	"context"
	"slices"
	"time"

	"jendo-cli/internal/model"
)

// SortValues orders values newest first by createdAt. The sort is stable, so
// equal timestamps keep server order. Values without createdAt sort last.
func SortValues(vs []model.ReportItemValue) {
	slices.SortStableFunc(vs, func(a, b model.ReportItemValue) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})
}

// ValueRow is one rendered row of the value list.
type ValueRow struct {
	ID          int64
	Date        string
	Value       string
	Notes       string
	Attachments int
}

func NewValueRow(v model.ReportItemValue, loc *time.Location) ValueRow {
	return ValueRow{
		ID:          v.ID,
		Date:        FormatDate(v.CreatedAt, loc),
		Value:       FormatValue(v, loc),
		Notes:       Notes(v),
		Attachments: len(v.Attachments),
	}
}

type ValuesResult struct {
	Ticket Ticket
	Values []model.ReportItemValue
	Err    error
}

// DeleteResult is the outcome of a confirmed delete; Ticket.ID is the deleted id.
type DeleteResult struct {
	Ticket Ticket
	Err    error
}

// ValueList lists the values of one item and owns the delete flow.
type ValueList struct {
	loader

	backend Backend
	loc     *time.Location

	params NavParams
	itemID int64
	values []model.ReportItemValue

	pendingDelete int64
	deleting      bool
}

func NewValueList(b Backend, loc *time.Location) *ValueList {
	if loc == nil {
		loc = time.UTC
	}
	return &ValueList{backend: b, loc: loc}
}

func (s *ValueList) Activate(p NavParams) {
	s.activate()
	s.params = p
	s.values = nil
	s.pendingDelete = 0
	s.deleting = false
	id, err := ParseID("item", p.ItemID)
	if err != nil {
		s.reject(err)
		return
	}
	s.itemID = id
}

func (s *ValueList) Params() NavParams { return s.params }
func (s *ValueList) ItemID() int64     { return s.itemID }

// Refresh is the on-activate hook: the presentation layer calls it every time
// the screen regains focus so edits made on sub-screens show up.
func (s *ValueList) Refresh() (Ticket, bool) { return s.begin(s.itemID) }

func (s *ValueList) Retry() (Ticket, bool) { return s.Refresh() }

func (s *ValueList) Fetch(ctx context.Context, t Ticket) ValuesResult {
	vs, err := s.backend.ValuesByItem(ctx, t.ID)
	return ValuesResult{Ticket: t, Values: vs, Err: err}
}

func (s *ValueList) Apply(r ValuesResult) bool {
	if !s.current(r.Ticket) {
		return false
	}
	if r.Err != nil {
		s.fail(r.Err, "Failed to load records")
		return true
	}
	vs := slices.Clone(r.Values)
	SortValues(vs)
	s.values = vs
	s.settle(len(vs))
	return true
}

func (s *ValueList) State() LoadState { return s.state }
func (s *ValueList) Err() string      { return s.err }
func (s *ValueList) Active() bool     { return s.active }

func (s *ValueList) Values() []model.ReportItemValue { return s.values }

func (s *ValueList) Rows() []ValueRow {
	rows := make([]ValueRow, 0, len(s.values))
	for _, v := range s.values {
		rows = append(rows, NewValueRow(v, s.loc))
	}
	return rows
}

// Select returns the parameters for the value detail screen.
func (s *ValueList) Select(i int) (NavParams, bool) {
	if i < 0 || i >= len(s.values) {
		return NavParams{}, false
	}
	p := s.params
	p.ValueID = formatID(s.values[i].ID)
	return p, true
}

// RequestDelete opens the confirmation for valueID.
func (s *ValueList) RequestDelete(valueID int64) bool {
	if s.deleting || valueID <= 0 || s.index(valueID) < 0 {
		return false
	}
	s.pendingDelete = valueID
	return true
}

func (s *ValueList) PendingDelete() (int64, bool) {
	return s.pendingDelete, s.pendingDelete > 0
}

func (s *ValueList) CancelDelete() { s.pendingDelete = 0 }

func (s *ValueList) Deleting() bool { return s.deleting }

// ConfirmDelete issues the delete for the pending value. At most one delete is
// in flight at a time.
func (s *ValueList) ConfirmDelete() (Ticket, bool) {
	if s.deleting || s.pendingDelete <= 0 {
		return Ticket{}, false
	}
	t := s.mutation(s.pendingDelete)
	s.pendingDelete = 0
	s.deleting = true
	return t, true
}

func (s *ValueList) RunDelete(ctx context.Context, t Ticket) DeleteResult {
	return DeleteResult{Ticket: t, Err: s.backend.DeleteValue(ctx, t.ID)}
}

// ApplyDelete removes the row locally on success; on failure the list is
// left untouched. A result from an earlier activation is dropped and yields
// an empty Notice.
func (s *ValueList) ApplyDelete(r DeleteResult) Notice {
	if !s.sameActivation(r.Ticket) {
		return Notice{}
	}
	s.deleting = false
	if r.Err != nil {
		return failure(r.Err, "Failed to delete record")
	}
	if i := s.index(r.Ticket.ID); i >= 0 {
		s.values = slices.Delete(s.values, i, i+1)
		if s.state == StateReady {
			s.settle(len(s.values))
		}
	}
	return success("Record deleted successfully")
}

func (s *ValueList) index(id int64) int {
	return slices.IndexFunc(s.values, func(v model.ReportItemValue) bool { return v.ID == id })
}

func (s *ValueList) Deactivate() {
	s.deactivate()
	s.pendingDelete = 0
}
