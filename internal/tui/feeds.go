package tui

import (
	"jendo-cli/internal/api"
	"jendo-cli/internal/reports"
)

// feed is the load state of a simple read-only screen (wellness, doctors,
// notifications). Results carrying a stale gen are dropped.
type feed[T any] struct {
	gen   uint64
	state reports.LoadState
	err   string
	rows  []T
}

func newFeed[T any]() *feed[T] {
	return &feed[T]{state: reports.StateLoading}
}

func (f *feed[T]) begin() uint64 {
	f.gen++
	f.state = reports.StateLoading
	f.err = ""
	return f.gen
}

func (f *feed[T]) apply(gen uint64, rows []T, err error, fallback string) bool {
	if gen != f.gen {
		return false
	}
	if err != nil {
		f.state = reports.StateError
		f.err = api.Message(err, fallback)
		return true
	}
	f.rows = rows
	f.state = reports.StateReady
	if len(rows) == 0 {
		f.state = reports.StateEmpty
	}
	return true
}

// cancel drops any response still in flight.
func (f *feed[T]) cancel() { f.gen++ }
