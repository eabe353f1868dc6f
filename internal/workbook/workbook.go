// Package workbook provides read access to tabular spreadsheet documents.
//
// A Workbook holds one or more Worksheets; a Worksheet exposes its rows as
// ordered slices of raw cell values. A raw cell value is one of:
//
//   - nil (absent cell)
//   - string
//   - float64 (numeric cell)
//   - bool
//   - time.Time (date-formatted cell)
//
// XLSX files are decoded with excelize, CSV files with encoding/csv. Both are
// read fully into memory when opened.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrSheetNotFound is returned when a worksheet index is out of range.
	ErrSheetNotFound = errors.New("worksheet not found")

	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// Workbook is an opened spreadsheet document.
type Workbook interface {
	// Worksheet returns the sheet at the zero-based index.
	Worksheet(index int) (Worksheet, error)
	// SheetCount returns the number of worksheets.
	SheetCount() int
	Close() error
}

// Worksheet is a single sheet of a Workbook.
type Worksheet interface {
	Name() string
	// RowCount returns the number of rows, including the header row.
	RowCount() int
	// Row returns the raw cell values of row n (zero-based). Rows past the
	// last populated cell may be shorter than the header.
	Row(n int) []any
}

// Options controls how workbooks are decoded.
type Options struct {
	// CSVComma is the CSV field delimiter (default ',').
	CSVComma rune
	// CSVEncoding is the CSV text encoding: "utf-8" (default) or "windows-1252".
	CSVEncoding string
}

// Opener opens workbooks by file extension.
type Opener struct {
	opts Options
}

// NewOpener creates an Opener with the given decoding options.
func NewOpener(opts Options) *Opener {
	if opts.CSVComma == 0 {
		opts.CSVComma = ','
	}
	return &Opener{opts: opts}
}

// Open opens the workbook at path.
func (o *Opener) Open(path string) (Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return o.OpenReader(filepath.Base(path), f)
}

// OpenReader decodes a workbook from r. The name is used only to pick the
// format from its extension.
func (o *Opener) OpenReader(name string, r io.Reader) (Workbook, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		wb, err := OpenXLSX(r)
		if err != nil {
			return nil, err
		}
		return wb, nil
	case ".csv", ".txt":
		sheet, err := OpenCSV(name, r, o.opts)
		if err != nil {
			return nil, err
		}
		return sheet, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsBlank reports whether every cell in row is absent or an empty string.
func IsBlank(row []any) bool {
	for _, cell := range row {
		switch v := cell.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) != "" {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func sheetIndexError(index, count int) error {
	return fmt.Errorf("%w: index %d (workbook has %d)", ErrSheetNotFound, index, count)
}
