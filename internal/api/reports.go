package api

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-resty/resty/v2"

	"jendo-cli/internal/model"
)

// UploadFile is a local file queued for upload against a value.
type UploadFile struct {
	Path     string
	Name     string
	MIMEType string
}

func (c *Client) Categories(ctx context.Context) ([]model.ReportCategory, error) {
	out, err := getJSON[[]model.ReportCategory](ctx, c, "list categories", "/report-categories")
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) Category(ctx context.Context, id int64) (model.ReportCategory, error) {
	if err := RequireID("category", id); err != nil {
		return model.ReportCategory{}, err
	}
	return getJSON[model.ReportCategory](ctx, c, "get category", fmt.Sprintf("/report-categories/%d", id))
}

func (c *Client) SectionsByCategory(ctx context.Context, categoryID int64) ([]model.ReportSection, error) {
	if err := RequireID("category", categoryID); err != nil {
		return nil, err
	}
	out, err := getJSON[[]model.ReportSection](ctx, c, "list sections", fmt.Sprintf("/report-sections/category/%d", categoryID))
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) ItemsBySection(ctx context.Context, sectionID int64) ([]model.ReportItem, error) {
	if err := RequireID("section", sectionID); err != nil {
		return nil, err
	}
	out, err := getJSON[[]model.ReportItem](ctx, c, "list items", fmt.Sprintf("/report-items/section/%d", sectionID))
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// ValuesByItem returns the values recorded for an item in server order.
func (c *Client) ValuesByItem(ctx context.Context, itemID int64) ([]model.ReportItemValue, error) {
	if err := RequireID("item", itemID); err != nil {
		return nil, err
	}
	out, err := getJSON[[]model.ReportItemValue](ctx, c, "list values", fmt.Sprintf("/report-item-values/item/%d", itemID))
	if err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) CreateValue(ctx context.Context, req model.CreateValueRequest) (model.ReportItemValue, error) {
	if err := RequireID("item", req.ReportItemID); err != nil {
		return model.ReportItemValue{}, err
	}
	return sendJSON[model.ReportItemValue](ctx, c, "create value", http.MethodPost, "/report-item-values", req)
}

func (c *Client) UpdateValue(ctx context.Context, valueID int64, req model.UpdateValueRequest) (model.ReportItemValue, error) {
	if err := RequireID("value", valueID); err != nil {
		return model.ReportItemValue{}, err
	}
	return sendJSON[model.ReportItemValue](ctx, c, "update value", http.MethodPut, fmt.Sprintf("/report-item-values/%d", valueID), req)
}

// DeleteValue removes a value and its attachments. Deleting a value that is
// already gone counts as success.
func (c *Client) DeleteValue(ctx context.Context, valueID int64) error {
	if err := RequireID("value", valueID); err != nil {
		return err
	}
	_, err := call[json.RawMessage](ctx, c, "delete value", http.MethodDelete, fmt.Sprintf("/report-item-values/%d", valueID), nil)
	var srvErr *ServerError
	if errors.As(err, &srvErr) && srvErr.NotFound() {
		return nil
	}
	return err
}

func (c *Client) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	if err := RequireID("attachment", attachmentID); err != nil {
		return err
	}
	_, err := call[json.RawMessage](ctx, c, "delete attachment", http.MethodDelete, fmt.Sprintf("/report-attachments/%d", attachmentID), nil)
	return err
}

// UploadAttachment posts one file as multipart field "file".
func (c *Client) UploadAttachment(ctx context.Context, valueID int64, file UploadFile) (model.ReportAttachment, error) {
	if err := RequireID("value", valueID); err != nil {
		return model.ReportAttachment{}, err
	}
	f, err := os.Open(file.Path)
	if err != nil {
		return model.ReportAttachment{}, &InputError{Field: "file", Message: fmt.Sprintf("cannot read %s: %v", filepath.Base(file.Path), err)}
	}
	defer f.Close()

	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}
	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	raw, err := call[json.RawMessage](ctx, c, "upload attachment", http.MethodPost,
		fmt.Sprintf("/report-item-values/%d/attachments", valueID),
		func(r *resty.Request) {
			r.SetMultipartField("file", name, mimeType, f)
		})
	if err != nil {
		return model.ReportAttachment{}, err
	}
	return decodeUploaded(raw)
}

// decodeUploaded accepts either the new attachment or the owning value
// (whose newest attachment is the one just uploaded).
func decodeUploaded(raw json.RawMessage) (model.ReportAttachment, error) {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || fields == nil {
		return model.ReportAttachment{}, nil
	}
	if _, ok := fields["attachments"]; ok {
		var v model.ReportItemValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return model.ReportAttachment{}, fmt.Errorf("decode uploaded value: %w", err)
		}
		if len(v.Attachments) == 0 {
			return model.ReportAttachment{}, nil
		}
		return slices.MaxFunc(v.Attachments, func(a, b model.ReportAttachment) int {
			return cmp.Compare(a.ID, b.ID)
		}), nil
	}
	var a model.ReportAttachment
	if err := json.Unmarshal(raw, &a); err != nil {
		return model.ReportAttachment{}, fmt.Errorf("decode uploaded attachment: %w", err)
	}
	return a, nil
}

// AttachmentDownloadURL is pure; no request is made.
func (c *Client) AttachmentDownloadURL(attachmentID int64) string {
	return fmt.Sprintf("%s/report-attachments/%d/download", c.baseURL, attachmentID)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
