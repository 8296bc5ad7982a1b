// Package reports is the presentation core for the medical-report flow:
// category, section and item lists, the value list of one item, and the
// add/edit/view value screens. It knows nothing about terminals; the TUI and
// CLI drive it and render what it exposes.
//
// Every screen follows the same async shape: Begin hands out a Ticket, Fetch
// runs the request (off the UI goroutine), and Apply commits the result only
// if the ticket is still current and the screen is still active.
package reports

import (
	"context"

	"jendo-cli/internal/api"
	"jendo-cli/internal/model"
)

// Backend is the subset of the API client the screens use.
type Backend interface {
	Categories(ctx context.Context) ([]model.ReportCategory, error)
	SectionsByCategory(ctx context.Context, categoryID int64) ([]model.ReportSection, error)
	ItemsBySection(ctx context.Context, sectionID int64) ([]model.ReportItem, error)
	ValuesByItem(ctx context.Context, itemID int64) ([]model.ReportItemValue, error)
	CreateValue(ctx context.Context, req model.CreateValueRequest) (model.ReportItemValue, error)
	UpdateValue(ctx context.Context, valueID int64, req model.UpdateValueRequest) (model.ReportItemValue, error)
	UploadAttachment(ctx context.Context, valueID int64, file api.UploadFile) (model.ReportAttachment, error)
	DeleteValue(ctx context.Context, valueID int64) error
	DeleteAttachment(ctx context.Context, attachmentID int64) error
	AttachmentDownloadURL(attachmentID int64) string
}

var _ Backend = (*api.Client)(nil)
