package reports

import (
	"context"
	"strconv"

	"jendo-cli/internal/model"
)

// ListResult carries one completed list fetch back to the UI goroutine.
type ListResult[T any] struct {
	Ticket Ticket
	Rows   []T
	Err    error
}

// ListScreen is one level of the category → section → item hierarchy.
type ListScreen[T any] struct {
	loader

	backend Backend
	kind    string
	failMsg string
	paramOf func(NavParams) string
	fetch   func(ctx context.Context, b Backend, parentID int64) ([]T, error)
	child   func(p NavParams, row T) NavParams

	params   NavParams
	parentID int64
	rows     []T
}

func NewCategoryList(b Backend) *ListScreen[model.ReportCategory] {
	return &ListScreen[model.ReportCategory]{
		backend: b,
		failMsg: "Failed to load categories",
		fetch: func(ctx context.Context, b Backend, _ int64) ([]model.ReportCategory, error) {
			return b.Categories(ctx)
		},
		child: func(_ NavParams, c model.ReportCategory) NavParams {
			return NavParams{CategoryID: strconv.FormatInt(c.ID, 10), CategoryName: c.Name}
		},
	}
}

func NewSectionList(b Backend) *ListScreen[model.ReportSection] {
	return &ListScreen[model.ReportSection]{
		backend: b,
		kind:    "category",
		failMsg: "Failed to load sections",
		paramOf: func(p NavParams) string { return p.CategoryID },
		fetch: func(ctx context.Context, b Backend, id int64) ([]model.ReportSection, error) {
			return b.SectionsByCategory(ctx, id)
		},
		child: func(p NavParams, s model.ReportSection) NavParams {
			return NavParams{
				CategoryID:   p.CategoryID,
				CategoryName: p.CategoryName,
				SectionID:    strconv.FormatInt(s.ID, 10),
				SectionName:  s.Name,
			}
		},
	}
}

func NewItemList(b Backend) *ListScreen[model.ReportItem] {
	return &ListScreen[model.ReportItem]{
		backend: b,
		kind:    "section",
		failMsg: "Failed to load items",
		paramOf: func(p NavParams) string { return p.SectionID },
		fetch: func(ctx context.Context, b Backend, id int64) ([]model.ReportItem, error) {
			return b.ItemsBySection(ctx, id)
		},
		child: func(p NavParams, it model.ReportItem) NavParams {
			next := p
			next.ItemID = strconv.FormatInt(it.ID, 10)
			next.ItemName = it.Name
			next.ValueID = ""
			return next
		},
	}
}

// Activate (re)mounts the screen with its navigation parameters. An invalid
// parameter leaves the screen in the error state and no fetch is allowed.
func (s *ListScreen[T]) Activate(p NavParams) {
	s.activate()
	s.params = p
	s.parentID = 0
	s.rows = nil
	if s.paramOf == nil {
		return
	}
	id, err := ParseID(s.kind, s.paramOf(p))
	if err != nil {
		s.reject(err)
		return
	}
	s.parentID = id
}

func (s *ListScreen[T]) Params() NavParams { return s.params }

// Begin starts a fetch. It returns false when the screen is inactive or its
// parameter is invalid.
func (s *ListScreen[T]) Begin() (Ticket, bool) { return s.begin(s.parentID) }

// Retry re-issues the identical fetch.
func (s *ListScreen[T]) Retry() (Ticket, bool) { return s.Begin() }

// Fetch performs the request for t. It does not touch screen state and may
// run on any goroutine.
func (s *ListScreen[T]) Fetch(ctx context.Context, t Ticket) ListResult[T] {
	rows, err := s.fetch(ctx, s.backend, t.ID)
	return ListResult[T]{Ticket: t, Rows: rows, Err: err}
}

// Apply commits r and reports whether it was current.
func (s *ListScreen[T]) Apply(r ListResult[T]) bool {
	if !s.current(r.Ticket) {
		return false
	}
	if r.Err != nil {
		s.fail(r.Err, s.failMsg)
		return true
	}
	s.rows = r.Rows
	s.settle(len(s.rows))
	return true
}

func (s *ListScreen[T]) State() LoadState { return s.state }
func (s *ListScreen[T]) Err() string      { return s.err }
func (s *ListScreen[T]) Active() bool     { return s.active }

// Rows are in server order.
func (s *ListScreen[T]) Rows() []T { return s.rows }

// Select returns the parameters for the next level down.
func (s *ListScreen[T]) Select(i int) (NavParams, bool) {
	if s.state != StateReady || i < 0 || i >= len(s.rows) {
		return NavParams{}, false
	}
	return s.child(s.params, s.rows[i]), true
}

func (s *ListScreen[T]) Deactivate() { s.deactivate() }
