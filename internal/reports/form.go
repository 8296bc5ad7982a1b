package reports

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"jendo-cli/internal/api"
	"jendo-cli/internal/model"
)

type FormMode int

const (
	ModeAdd FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// EmptyFormMessage is shown when an add is submitted with nothing to save.
const EmptyFormMessage = "Please enter a value, notes, or attach a file"

// PendingFile is a file picked for upload but not uploaded yet.
type PendingFile struct {
	Path     string
	Name     string
	MIMEType string
	Size     int64
}

func (f PendingFile) upload() api.UploadFile {
	return api.UploadFile{Path: f.Path, Name: f.Name, MIMEType: f.MIMEType}
}

// SubmitRequest is an immutable snapshot of the form taken when the user
// submits. Run executes it off the UI goroutine.
type SubmitRequest struct {
	Mode    FormMode
	ValueID int64
	Create  model.CreateValueRequest
	Update  model.UpdateValueRequest
	Files   []PendingFile
}

// SubmitOutcome separates the value result from the attachment result: a
// saved value is never rolled back because an upload failed.
type SubmitOutcome struct {
	Mode          FormMode
	Value         model.ReportItemValue
	ValueSaved    bool
	Err           error
	Uploaded      []model.ReportAttachment
	FailedFile    string
	AttachmentErr error
}

// Run saves the value first, then uploads files one by one in selection
// order. The first upload failure stops the remaining uploads.
func (r SubmitRequest) Run(ctx context.Context, b Backend) SubmitOutcome {
	out := SubmitOutcome{Mode: r.Mode}
	var err error
	if r.Mode == ModeEdit {
		out.Value, err = b.UpdateValue(ctx, r.ValueID, r.Update)
	} else {
		out.Value, err = b.CreateValue(ctx, r.Create)
	}
	if err != nil {
		out.Err = err
		return out
	}
	out.ValueSaved = true

	valueID := out.Value.ID
	if valueID <= 0 {
		valueID = r.ValueID
	}
	for _, f := range r.Files {
		att, err := b.UploadAttachment(ctx, valueID, f.upload())
		if err != nil {
			out.FailedFile = f.Name
			out.AttachmentErr = err
			return out
		}
		out.Uploaded = append(out.Uploaded, att)
	}
	return out
}

// ValueForm is the add and edit screen for one value.
type ValueForm struct {
	loader

	backend Backend
	mode    FormMode
	loc     *time.Location
	now     func() time.Time

	params  NavParams
	itemID  int64
	valueID int64

	number string
	notes  string
	files  []PendingFile

	original *model.ReportItemValue
	existing []model.ReportAttachment

	saving bool
	done   bool

	pendingAttachmentDelete int64
	deletingAttachment      bool
}

func NewValueForm(b Backend, mode FormMode, loc *time.Location) *ValueForm {
	if loc == nil {
		loc = time.UTC
	}
	return &ValueForm{backend: b, mode: mode, loc: loc, now: time.Now}
}

// SetClock replaces time.Now; "today" for valueDate is computed from it.
func (f *ValueForm) SetClock(now func() time.Time) { f.now = now }

func (f *ValueForm) Mode() FormMode { return f.mode }

// Activate resets the form. Add mode is ready immediately; edit mode must be
// loaded with Begin/Fetch/Apply first.
func (f *ValueForm) Activate(p NavParams) {
	f.activate()
	f.params = p
	f.number, f.notes = "", ""
	f.files = nil
	f.original = nil
	f.existing = nil
	f.saving, f.done = false, false
	f.pendingAttachmentDelete = 0
	f.deletingAttachment = false

	itemID, err := ParseID("item", p.ItemID)
	if err != nil {
		f.reject(err)
		return
	}
	f.itemID = itemID
	if f.mode == ModeAdd {
		f.settle(1)
		return
	}
	valueID, err := ParseID("value", p.ValueID)
	if err != nil {
		f.reject(err)
		return
	}
	f.valueID = valueID
}

func (f *ValueForm) Params() NavParams { return f.params }

// Begin loads the value being edited. Add forms have nothing to load.
func (f *ValueForm) Begin() (Ticket, bool) {
	if f.mode != ModeEdit {
		return Ticket{}, false
	}
	return f.begin(f.valueID)
}

func (f *ValueForm) Retry() (Ticket, bool) { return f.Begin() }

func (f *ValueForm) Fetch(ctx context.Context, t Ticket) ValueResult {
	v, err := FindValue(ctx, f.backend, f.itemID, t.ID)
	return ValueResult{Ticket: t, Value: v, Err: err}
}

func (f *ValueForm) Apply(r ValueResult) bool {
	if !f.current(r.Ticket) {
		return false
	}
	if r.Err != nil {
		if msg := valueMessage(r.Err); msg != "" {
			f.state, f.err = StateError, msg
		} else {
			f.fail(r.Err, "Failed to load record")
		}
		return true
	}
	v := r.Value
	f.original = &v
	f.existing = slices.Clone(v.Attachments)
	f.number = ""
	if v.ValueNumber != nil {
		f.number = FormatNumber(*v.ValueNumber)
	}
	f.notes = ""
	if v.ValueText != nil {
		f.notes = *v.ValueText
	}
	f.settle(1)
	return true
}

func (f *ValueForm) State() LoadState { return f.state }
func (f *ValueForm) Err() string      { return f.err }
func (f *ValueForm) Active() bool     { return f.active }

func (f *ValueForm) Number() string                     { return f.number }
func (f *ValueForm) Notes() string                      { return f.notes }
func (f *ValueForm) SetNumber(s string)                 { f.number = s }
func (f *ValueForm) SetNotes(s string)                  { f.notes = s }
func (f *ValueForm) Files() []PendingFile               { return f.files }
func (f *ValueForm) Saving() bool                       { return f.saving }
func (f *ValueForm) Done() bool                         { return f.done }
func (f *ValueForm) Existing() []model.ReportAttachment { return f.existing }

// AddFile queues a local file. Directories and unreadable paths are rejected.
func (f *ValueForm) AddFile(path string) (PendingFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return PendingFile{}, &api.InputError{Field: "file", Message: "No file selected"}
	}
	st, err := os.Stat(path)
	if err != nil {
		return PendingFile{}, &api.InputError{Field: "file", Message: "Failed to select file"}
	}
	if st.IsDir() {
		return PendingFile{}, &api.InputError{Field: "file", Message: fmt.Sprintf("%s is a directory", filepath.Base(path))}
	}
	pf := PendingFile{
		Path:     path,
		Name:     filepath.Base(path),
		MIMEType: InferMIME(path),
		Size:     st.Size(),
	}
	f.files = append(f.files, pf)
	return pf, nil
}

func (f *ValueForm) RemoveFile(i int) bool {
	if i < 0 || i >= len(f.files) {
		return false
	}
	f.files = slices.Delete(f.files, i, i+1)
	return true
}

// Validate applies the add-mode rule: something must be entered or attached.
func (f *ValueForm) Validate() error {
	if f.mode == ModeEdit {
		return nil
	}
	if strings.TrimSpace(f.number) == "" && strings.TrimSpace(f.notes) == "" && len(f.files) == 0 {
		return &api.InputError{Field: "value", Message: EmptyFormMessage}
	}
	return nil
}

// parseNumber returns nil for blank or unparseable input.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CreatePayload builds the create body. An unparseable number is dropped
// without error; valueDate is today in the form's timezone.
func (f *ValueForm) CreatePayload() model.CreateValueRequest {
	return model.CreateValueRequest{
		ReportItemID: f.itemID,
		ValueDate:    f.now().In(f.loc).Format(time.DateOnly),
		ValueNumber:  parseNumber(f.number),
		ValueText:    optionalText(f.notes),
	}
}

// UpdatePayload builds the edit body. Blank fields clear the value on the
// server; an unparseable number keeps the stored one.
func (f *ValueForm) UpdatePayload() model.UpdateValueRequest {
	req := model.UpdateValueRequest{
		ReportItemID: f.itemID,
		ValueText:    optionalText(f.notes),
	}
	if strings.TrimSpace(f.number) != "" {
		req.ValueNumber = parseNumber(f.number)
		if req.ValueNumber == nil && f.original != nil {
			req.ValueNumber = f.original.ValueNumber
		}
	}
	return req
}

// BeginSubmit validates and snapshots the form. It fails with an InputError
// when the form is empty and with ErrBusy while a save is in flight.
func (f *ValueForm) BeginSubmit() (SubmitRequest, error) {
	if f.saving {
		return SubmitRequest{}, ErrBusy
	}
	if f.state != StateReady {
		return SubmitRequest{}, &api.InputError{Field: "value", Message: "Record is not loaded"}
	}
	if err := f.Validate(); err != nil {
		return SubmitRequest{}, err
	}
	req := SubmitRequest{Mode: f.mode, ValueID: f.valueID, Files: slices.Clone(f.files)}
	if f.mode == ModeEdit {
		req.Update = f.UpdatePayload()
	} else {
		req.Create = f.CreatePayload()
	}
	f.saving = true
	return req, nil
}

// ApplySubmit clears the in-flight flag and reports the outcome. The form is
// done once the value is saved, even if an attachment failed; uploaded files
// leave the pending list either way.
func (f *ValueForm) ApplySubmit(o SubmitOutcome) Notice {
	f.saving = false
	if !o.ValueSaved {
		fallback := "Failed to save record"
		if o.Mode == ModeEdit {
			fallback = "Failed to update record"
		}
		return failure(o.Err, fallback)
	}
	if n := len(o.Uploaded); n > 0 && n <= len(f.files) {
		f.files = slices.Clone(f.files[n:])
	}
	f.done = true
	if o.AttachmentErr != nil {
		return Notice{
			Kind: NoticeError,
			Text: "Record saved, but attachment upload failed: " + api.Message(o.AttachmentErr, o.FailedFile),
		}
	}
	if o.Mode == ModeEdit {
		return success("Record updated successfully")
	}
	return success("Record saved successfully")
}

// RequestAttachmentDelete opens the confirmation for an existing attachment
// (edit mode only).
func (f *ValueForm) RequestAttachmentDelete(attachmentID int64) bool {
	if f.mode != ModeEdit || f.deletingAttachment {
		return false
	}
	if !slices.ContainsFunc(f.existing, func(a model.ReportAttachment) bool { return a.ID == attachmentID }) {
		return false
	}
	f.pendingAttachmentDelete = attachmentID
	return true
}

func (f *ValueForm) PendingAttachmentDelete() (int64, bool) {
	return f.pendingAttachmentDelete, f.pendingAttachmentDelete > 0
}

func (f *ValueForm) CancelAttachmentDelete() { f.pendingAttachmentDelete = 0 }

func (f *ValueForm) ConfirmAttachmentDelete() (Ticket, bool) {
	if f.deletingAttachment || f.pendingAttachmentDelete <= 0 {
		return Ticket{}, false
	}
	t := f.mutation(f.pendingAttachmentDelete)
	f.pendingAttachmentDelete = 0
	f.deletingAttachment = true
	return t, true
}

func (f *ValueForm) RunAttachmentDelete(ctx context.Context, t Ticket) DeleteResult {
	return DeleteResult{Ticket: t, Err: f.backend.DeleteAttachment(ctx, t.ID)}
}

func (f *ValueForm) ApplyAttachmentDelete(r DeleteResult) Notice {
	if !f.sameActivation(r.Ticket) {
		return Notice{}
	}
	f.deletingAttachment = false
	if r.Err != nil {
		return failure(r.Err, "Failed to delete attachment")
	}
	f.existing = slices.DeleteFunc(f.existing, func(a model.ReportAttachment) bool { return a.ID == r.Ticket.ID })
	return success("Attachment deleted")
}

func (f *ValueForm) Deactivate() { f.deactivate() }
