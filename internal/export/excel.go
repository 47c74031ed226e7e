package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlideStack/internal/importer"
	"github.com/piwi3910/SlideStack/internal/model"
)

// ExportExcel writes records to a single-sheet workbook. The role columns
// come first under their canonical names, followed by every extra source
// column in the order it was first seen.
func ExportExcel(path string, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	headers := make([]string, 0, len(model.AllRoles))
	for _, role := range model.AllRoles {
		headers = append(headers, importer.CanonicalHeaders[role])
	}
	extraCol := map[string]int{}
	for _, r := range records {
		for i, key := range extraKeys(r) {
			if _, ok := extraCol[key]; !ok {
				extraCol[key] = len(headers)
				headers = append(headers, r.Extra[i].Header)
			}
		}
	}

	sheet := f.GetSheetName(0)
	for col, h := range headers {
		if err := setCell(f, sheet, col, 1, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range records {
		row := i + 2
		for col, role := range model.AllRoles {
			if err := setCell(f, sheet, col, row, r.Field(role)); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
		for j, key := range extraKeys(r) {
			if err := setCell(f, sheet, extraCol[key], row, r.Extra[j].Value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// extraKeys names each extra field of r by header and occurrence, so a
// header repeated in the source keeps one column per occurrence.
func extraKeys(r model.Record) []string {
	seen := make(map[string]int, len(r.Extra))
	keys := make([]string, len(r.Extra))
	for i, x := range r.Extra {
		keys[i] = fmt.Sprintf("%s#%d", x.Header, seen[x.Header])
		seen[x.Header]++
	}
	return keys
}

// setCell writes a string at zero-based column col and one-based row.
func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellStr(sheet, cell, value)
}
