package workbook

// template.go writes empty workbooks carrying only a header row, for users
// to fill in and upload.

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateColumn is one header cell of a template.
type TemplateColumn struct {
	Name     string
	Required bool
}

// WriteTemplateCSV writes the header row as CSV.
func WriteTemplateCSV(w io.Writer, columns []TemplateColumn) error {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteTemplateXLSX writes an XLSX workbook with a single sheet holding the
// header row. Required headers are bold.
func WriteTemplateXLSX(w io.Writer, sheet string, columns []TemplateColumn) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Name); err != nil {
			return err
		}
		if col.Required {
			if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
