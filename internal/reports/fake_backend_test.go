package reports

import (
	"context"
	"fmt"
	"sync"

	"jendo-cli/internal/api"
	"jendo-cli/internal/model"
)

type fakeBackend struct {
	mu sync.Mutex

	categories []model.ReportCategory
	sections   map[int64][]model.ReportSection
	items      map[int64][]model.ReportItem
	values     map[int64][]model.ReportItemValue

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	uploadErr map[string]error // by file name

	calls   []string
	created []model.CreateValueRequest
	updated []model.UpdateValueRequest
	uploads []api.UploadFile
	nextID  int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		sections:  map[int64][]model.ReportSection{},
		items:     map[int64][]model.ReportItem{},
		values:    map[int64][]model.ReportItemValue{},
		uploadErr: map[string]error{},
		nextID:    1000,
	}
}

func (f *fakeBackend) record(s string) {
	f.mu.Lock()
	f.calls = append(f.calls, s)
	f.mu.Unlock()
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) Categories(context.Context) ([]model.ReportCategory, error) {
	f.record("categories")
	return f.categories, f.listErr
}

func (f *fakeBackend) SectionsByCategory(_ context.Context, id int64) ([]model.ReportSection, error) {
	f.record(fmt.Sprintf("sections %d", id))
	return f.sections[id], f.listErr
}

func (f *fakeBackend) ItemsBySection(_ context.Context, id int64) ([]model.ReportItem, error) {
	f.record(fmt.Sprintf("items %d", id))
	return f.items[id], f.listErr
}

func (f *fakeBackend) ValuesByItem(_ context.Context, id int64) ([]model.ReportItemValue, error) {
	f.record(fmt.Sprintf("values %d", id))
	return f.values[id], f.listErr
}

func (f *fakeBackend) CreateValue(_ context.Context, req model.CreateValueRequest) (model.ReportItemValue, error) {
	f.record("create")
	if f.createErr != nil {
		return model.ReportItemValue{}, f.createErr
	}
	f.created = append(f.created, req)
	f.nextID++
	return model.ReportItemValue{ID: f.nextID, ReportItemID: req.ReportItemID, ValueNumber: req.ValueNumber, ValueText: req.ValueText}, nil
}

func (f *fakeBackend) UpdateValue(_ context.Context, id int64, req model.UpdateValueRequest) (model.ReportItemValue, error) {
	f.record(fmt.Sprintf("update %d", id))
	if f.updateErr != nil {
		return model.ReportItemValue{}, f.updateErr
	}
	f.updated = append(f.updated, req)
	return model.ReportItemValue{ID: id, ReportItemID: req.ReportItemID, ValueNumber: req.ValueNumber, ValueText: req.ValueText}, nil
}

func (f *fakeBackend) UploadAttachment(_ context.Context, valueID int64, file api.UploadFile) (model.ReportAttachment, error) {
	f.record(fmt.Sprintf("upload %d %s", valueID, file.Name))
	if err := f.uploadErr[file.Name]; err != nil {
		return model.ReportAttachment{}, err
	}
	f.uploads = append(f.uploads, file)
	f.nextID++
	return model.ReportAttachment{ID: f.nextID, ReportItemValueID: valueID, FileType: file.MIMEType}, nil
}

func (f *fakeBackend) DeleteValue(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("delete %d", id))
	return f.deleteErr
}

func (f *fakeBackend) DeleteAttachment(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("delete-attachment %d", id))
	return f.deleteErr
}

func (f *fakeBackend) AttachmentDownloadURL(id int64) string {
	return fmt.Sprintf("https://api.test/report-attachments/%d/download", id)
}

func ptr[T any](v T) *T { return &v }
