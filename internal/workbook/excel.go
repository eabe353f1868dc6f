package workbook

// excel.go reads Office Open XML workbooks with excelize.
//
// Raw cell values are read (not the display text) so numbers keep their
// precision. Cells whose number format is a date or time format are turned
// into time.Time using the workbook's date system.

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSX is a Workbook backed by an excelize file.
type XLSX struct {
	file      *excelize.File
	sheets    []string
	date1904  bool
	dateStyle map[int]bool
}

// OpenXLSX decodes an XLSX document from r.
func OpenXLSX(r io.Reader) (*XLSX, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	x := &XLSX{
		file:      f,
		sheets:    f.GetSheetList(),
		dateStyle: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		x.date1904 = *props.Date1904
	}
	return x, nil
}

// SheetCount returns the number of worksheets.
func (x *XLSX) SheetCount() int { return len(x.sheets) }

// Close releases the underlying excelize file.
func (x *XLSX) Close() error { return x.file.Close() }

// Worksheet reads every row of the sheet at index into memory.
func (x *XLSX) Worksheet(index int) (Worksheet, error) {
	if index < 0 || index >= len(x.sheets) {
		return nil, sheetIndexError(index, len(x.sheets))
	}
	name := x.sheets[index]

	raw, err := x.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	rows := make([][]any, len(raw))
	for r, cells := range raw {
		row := make([]any, len(cells))
		for c, value := range cells {
			cell, err := x.cellValue(name, c+1, r+1, value)
			if err != nil {
				return nil, err
			}
			row[c] = cell
		}
		rows[r] = row
	}

	return NewSheet(name, rows...), nil
}

// cellValue converts the raw text of one cell to a typed value.
// col and row are one-based.
func (x *XLSX) cellValue(sheet string, col, row int, value string) (any, error) {
	if value == "" {
		return nil, nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := x.file.GetCellType(sheet, ref)
	if err != nil {
		return nil, fmt.Errorf("cell %s!%s: %w", sheet, ref, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return value == "1" || strings.EqualFold(value, "true"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return value, nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t, nil
		}
		return value, nil
	}

	// Numeric cell (explicit "n" or no type attribute).
	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value, nil
	}
	if x.isDateCell(sheet, ref) {
		if t, err := excelize.ExcelDateToTime(num, x.date1904); err == nil {
			return t, nil
		}
	}
	return num, nil
}

// isDateCell reports whether the cell's number format renders a date or time.
func (x *XLSX) isDateCell(sheet, ref string) bool {
	styleID, err := x.file.GetCellStyle(sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := x.dateStyle[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := x.file.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
			isDate = isDateFormat(*style.CustomNumFmt)
		} else {
			isDate = isBuiltinDateFormat(style.NumFmt)
		}
	}
	x.dateStyle[styleID] = isDate
	return isDate
}

// isBuiltinDateFormat reports whether a built-in number format id is a date
// or time format (ECMA-376 18.8.30, including the CJK ranges).
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom number format code contains date or
// time tokens outside quoted literals and bracketed sections.
func isDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == '\\' || ch == '_' || ch == '*':
			i++ // escaped or padding character
		default:
			b.WriteByte(ch)
		}
	}
	plain := strings.ToLower(b.String())
	if plain == "general" {
		return false
	}
	return strings.ContainsAny(plain, "ymdhs")
}
