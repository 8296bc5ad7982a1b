// Package content renders wellness recommendation bodies, which the API
// delivers as markdown.
package content

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// No html.WithUnsafe(): raw HTML in recommendations is dropped.
		html.WithHardWraps(),
	),
)

// HTML renders src as an HTML fragment.
func HTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := md.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

// HTMLDocument wraps HTML(src) in a minimal standalone page.
func HTMLDocument(title, src string) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>")
	b.WriteString(template.HTMLEscapeString(title))
	b.WriteString("</title></head><body>\n<h1>")
	b.WriteString(template.HTMLEscapeString(title))
	b.WriteString("</h1>\n")
	b.WriteString(string(HTML(src)))
	b.WriteString("</body></html>\n")
	return b.String()
}

// Summary returns the plain text of the first paragraph, cut to max runes
// with an ellipsis.
func Summary(src string, max int) string {
	source := []byte(strings.TrimSpace(src))
	if len(source) == 0 {
		return ""
	}
	doc := md.Parser().Parse(text.NewReader(source))

	var out string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindParagraph {
			out = plainText(n, source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	out = strings.Join(strings.Fields(out), " ")
	return truncate(out, max)
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:max-1]), " ") + "…"
}

var (
	termMu        sync.Mutex
	termRenderers = map[string]*glamour.TermRenderer{}
)

// Terminal renders src for a terminal of the given width. style is a glamour
// standard style name ("dark", "light", "notty"); a fixed style avoids the
// terminal background query that auto-style performs.
func Terminal(src string, width int, style string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	if style == "" {
		style = "dark"
	}
	key := style + ":" + strconv.Itoa(width)

	termMu.Lock()
	r := termRenderers[key]
	termMu.Unlock()
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return src
		}
		termMu.Lock()
		if existing := termRenderers[key]; existing != nil {
			r = existing
		} else {
			termRenderers[key] = rr
			r = rr
		}
		termMu.Unlock()
	}

	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}
