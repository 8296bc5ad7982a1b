package reports

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"jendo-cli/internal/model"
)

var exportHeaders = []any{"Date", "Value", "Notes", "Attachments"}

// ExportXLSX writes the values of one item as a single-sheet workbook,
// newest first. Numeric values are stored as numbers.
func ExportXLSX(w io.Writer, itemName string, values []model.ReportItemValue, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(itemName)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", bold); err != nil {
		return err
	}

	sorted := slices.Clone(values)
	SortValues(sorted)
	for i, v := range sorted {
		var value any = FormatValue(v, loc)
		if v.ValueNumber != nil {
			value = *v.ValueNumber
		}
		row := []any{FormatDate(v.CreatedAt, loc), value, Notes(v), len(v.Attachments)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 40); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SheetName makes s a valid worksheet name (no []:*?/\, at most 31 runes).
func SheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(s))
	s = strings.Trim(s, "'")
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	if s == "" {
		return "Values"
	}
	return s
}
