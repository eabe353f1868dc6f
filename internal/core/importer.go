package core

// importer.go reads a worksheet into Records.
//
// The import runs in three phases:
//  1. Header: row 0 is matched against the schema by exact column name
//  2. Contract: required columns with no header fail the whole import
//  3. Rows: every non-blank data row becomes a Record; each bound cell is
//     validated, then coerced, and failures are kept on the record
//
// After the last row the schema's batch hooks run once with all records.

import (
	"log/slog"

	"github.com/JonMunkholm/sheetimport/internal/workbook"
	"github.com/google/uuid"
)

// Opener opens a workbook from a source path.
// Satisfied by *workbook.Opener.
type Opener interface {
	Open(source string) (workbook.Workbook, error)
}

// Importer maps worksheet rows onto a Schema.
// An Importer holds no per-import state and may be used concurrently.
type Importer struct {
	opener Opener
	logger *slog.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger sets the logger used for import diagnostics.
func WithLogger(logger *slog.Logger) ImporterOption {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// NewImporter creates an Importer that opens sources with opener.
func NewImporter(opener Opener, opts ...ImporterOption) *Importer {
	im := &Importer{
		opener: opener,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import reads the first worksheet of source.
func (im *Importer) Import(schema *Schema, source string) (*Result, error) {
	return im.ImportSheet(schema, source, 0)
}

// ImportSheet reads the worksheet at sheetIndex of source.
// Errors from opening or decoding the workbook are returned unchanged.
func (im *Importer) ImportSheet(schema *Schema, source string, sheetIndex int) (*Result, error) {
	wb, err := im.opener.Open(source)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return im.ImportWorkbook(schema, wb, sheetIndex)
}

// ImportWorkbook reads the worksheet at sheetIndex of an already opened
// workbook. The caller keeps ownership of wb.
func (im *Importer) ImportWorkbook(schema *Schema, wb workbook.Workbook, sheetIndex int) (*Result, error) {
	ws, err := wb.Worksheet(sheetIndex)
	if err != nil {
		return nil, err
	}

	headers := headerNames(ws)
	bound := bindColumns(schema, headers)

	if missing := missingRequired(schema, bound); len(missing) > 0 {
		im.logger.Debug("import rejected: missing required columns",
			"schema", schema.Name(),
			"sheet", ws.Name(),
			"missing", missing,
		)
		return nil, &MissingColumnError{Missing: missing, Headers: headers}
	}

	res := &Result{
		ID:      uuid.New(),
		Schema:  schema.Name(),
		Sheet:   ws.Name(),
		Headers: headers,
	}

	for n := 1; n < ws.RowCount(); n++ {
		row := ws.Row(n)
		if workbook.IsBlank(row) {
			res.Skipped++
			continue
		}
		res.records = append(res.records, readRecord(n+1, row, bound))
	}

	schema.runBatch(res.records)

	summary := res.Summary()
	im.logger.Info("import complete",
		"import_id", res.ID,
		"schema", res.Schema,
		"sheet", res.Sheet,
		"records", summary.Total,
		"valid", summary.Valid,
		"invalid", summary.Invalid,
		"skipped", summary.Skipped,
	)
	return res, nil
}

// headerNames returns the string form of every header cell. Text cells are
// kept verbatim so binding is an exact match; only non-text cells (numbers,
// dates) are rendered with CellText.
func headerNames(ws workbook.Worksheet) []string {
	if ws.RowCount() == 0 {
		return []string{}
	}
	row := ws.Row(0)
	names := make([]string, len(row))
	for i, cell := range row {
		if s, ok := cell.(string); ok {
			names[i] = s
			continue
		}
		names[i] = CellText(cell)
	}
	return names
}

// bindColumns maps each header position to its ColumnSpec, or nil when the
// header matches no column. A column binds to its first matching position.
func bindColumns(schema *Schema, headers []string) []*ColumnSpec {
	columns := schema.Columns()
	bound := make([]*ColumnSpec, len(headers))
	seen := make(map[string]bool, len(headers))

	for pos, name := range headers {
		if seen[name] {
			continue
		}
		for i := range columns {
			if columns[i].Name == name {
				bound[pos] = &columns[i]
				seen[name] = true
				break
			}
		}
	}
	return bound
}

// missingRequired returns required columns that bound to no position.
func missingRequired(schema *Schema, bound []*ColumnSpec) []string {
	present := make(map[string]bool, len(bound))
	for _, col := range bound {
		if col != nil {
			present[col.Name] = true
		}
	}

	var missing []string
	for _, name := range schema.Required() {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// readRecord validates and coerces every bound cell of one row.
func readRecord(rowNumber int, row []any, bound []*ColumnSpec) *Record {
	rec := newRecord(rowNumber)

	for pos, col := range bound {
		if col == nil {
			continue
		}

		var raw any
		if pos < len(row) {
			raw = row[pos]
		}

		result := col.Validate(raw, rec)
		if !result.OK {
			rec.setError(col.key(), *result.Detail)
			continue
		}

		value, err := col.Coerce(raw)
		if err != nil {
			rec.setError(col.key(), CellValidationError{
				Column:  col.Name,
				Value:   col.Text(raw),
				Message: err.Error(),
			})
			continue
		}
		rec.attrs[col.Name] = value
	}

	return rec
}
