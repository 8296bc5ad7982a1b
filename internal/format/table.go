package format

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table is a header plus string rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Tabler is implemented by CLI payloads that can render as a table.
type Tabler interface {
	Table() Table
}

// tableOf accepts a Tabler or the usual {"data": Tabler} envelope.
func tableOf(v any) (Table, bool) {
	switch t := v.(type) {
	case Tabler:
		return t.Table(), true
	case map[string]any:
		if d, ok := t["data"].(Tabler); ok {
			return d.Table(), true
		}
	}
	return Table{}, false
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func WriteTable(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(no rows)")
		return err
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, tbl.Render())
	return err
}
