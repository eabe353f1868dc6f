package workbook

// csv.go reads delimited text files as a single-sheet workbook.
//
// The whole file is decoded up front:
//  1. Optional Windows-1252 decoding (Excel "CSV" exports on Windows)
//  2. UTF-8 BOM removal
//  3. Invalid UTF-8 sequences replaced with '?'
//
// Every cell is returned as a string; empty cells are empty strings.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// OpenCSV decodes r as a delimited text workbook with one sheet named after
// the file (without extension).
func OpenCSV(name string, r io.Reader, opts Options) (*Sheet, error) {
	if strings.EqualFold(opts.CSVEncoding, "windows-1252") || strings.EqualFold(opts.CSVEncoding, "cp1252") {
		r = charmap.Windows1252.NewDecoder().Reader(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.ToValidUTF8(data, []byte("?"))

	reader := csv.NewReader(bytes.NewReader(data))
	if opts.CSVComma != 0 {
		reader.Comma = opts.CSVComma
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		rows[i] = row
	}

	sheetName := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return NewSheet(sheetName, rows...), nil
}
