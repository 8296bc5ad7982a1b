package reports

import (
	"strconv"
	"strings"
	"time"

	"jendo-cli/internal/model"
)

const DisplayDateLayout = "02 Jan 2006"

// FormatDate renders ts as "02 Jan 2006" in loc, or "-" when unset.
func FormatDate(ts model.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc).Format(DisplayDateLayout)
}

// FormatNumber uses the shortest decimal that round-trips (72.5, 100, 0.1).
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatValue picks the first present of number, text, date; "-" otherwise.
func FormatValue(v model.ReportItemValue, loc *time.Location) string {
	if v.ValueNumber != nil {
		return FormatNumber(*v.ValueNumber)
	}
	if v.ValueText != nil && *v.ValueText != "" {
		return *v.ValueText
	}
	if !v.ValueDate.IsZero() {
		return FormatDate(v.ValueDate, loc)
	}
	return "-"
}

func Notes(v model.ReportItemValue) string {
	if v.ValueText != nil && *v.ValueText != "" {
		return *v.ValueText
	}
	return "-"
}

// AttachmentKind classifies a file type for display: "image", "pdf" or "file".
func AttachmentKind(fileType string) string {
	ft := strings.ToLower(strings.TrimSpace(fileType))
	switch {
	case strings.HasPrefix(ft, "image/"):
		return "image"
	case ft == "application/pdf" || strings.HasSuffix(ft, "/pdf"):
		return "pdf"
	default:
		return "file"
	}
}

// AttachmentName is the last path segment of the stored file URL.
func AttachmentName(a model.ReportAttachment) string {
	u := strings.TrimSpace(a.FileURL)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		u = u[i+1:]
	}
	if u == "" {
		return "attachment-" + strconv.FormatInt(a.ID, 10)
	}
	return u
}
