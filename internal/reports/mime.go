package reports

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const fallbackMIME = "application/octet-stream"

// InferMIME sniffs the file content, then falls back to the extension, then
// to application/octet-stream. Parameters such as charset are dropped.
func InferMIME(path string) string {
	if m, err := mimetype.DetectFile(path); err == nil {
		if t := baseMIME(m.String()); t != "" && t != fallbackMIME {
			return t
		}
	}
	if t := baseMIME(mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))); t != "" {
		return t
	}
	return fallbackMIME
}

func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}
