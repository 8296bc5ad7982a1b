package format

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes v as EDN. Values go through encoding/json first so json
// tags decide the field names; camelCase keys become kebab-case keywords
// (reportItemId → :report-item-id).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	e := ednWriter{pretty: pretty}
	e.value(x, 0)
	e.buf.WriteByte('\n')
	_, err = w.Write(e.buf.Bytes())
	return err
}

type ednWriter struct {
	buf    bytes.Buffer
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.buf.WriteString(Keyword(keys[i]))
			e.buf.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.buf.WriteString("nil")
	}
}

func (e *ednWriter) seq(open, end byte, n, depth int, elem func(i int)) {
	e.buf.WriteByte(open)
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.buf.WriteByte('\n')
			e.buf.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.buf.WriteByte(' ')
		}
		elem(i)
	}
	if e.pretty && n > 0 {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", depth))
	}
	e.buf.WriteByte(end)
}

// Keyword turns a JSON key into an EDN keyword: "_hints" → :hints,
// "valueNumber" → :value-number.
func Keyword(k string) string {
	k = strings.TrimLeft(strings.TrimSpace(k), "_")
	var b strings.Builder
	b.WriteByte(':')
	prevLower := false
	for _, r := range k {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}
