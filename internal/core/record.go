package core

import (
	"strings"

	"github.com/google/uuid"
)

// Record is one imported data row.
//
// A record is populated by the Importer during a single pass over its cells;
// afterwards only batch hooks add errors, and only translation sets the
// translated object.
type Record struct {
	row        int
	attrs      map[string]any
	errs       map[string]CellValidationError
	translated any
}

func newRecord(row int) *Record {
	return &Record{
		row:   row,
		attrs: make(map[string]any),
		errs:  make(map[string]CellValidationError),
	}
}

// Row returns the 1-based worksheet row number the record came from.
func (r *Record) Row() int { return r.row }

// Get returns the coerced value of a column that passed validation.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// Value returns the coerced value of a column, or nil if absent.
func (r *Record) Value(name string) any {
	return r.attrs[name]
}

// Attributes returns a copy of the coerced values keyed by column name.
func (r *Record) Attributes() map[string]any {
	out := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the validation failures keyed by lower-cased
// column name.
func (r *Record) Errors() map[string]CellValidationError {
	out := make(map[string]CellValidationError, len(r.errs))
	for k, v := range r.errs {
		out[k] = v
	}
	return out
}

// Error returns the failure recorded for a column. The lookup is
// case-insensitive.
func (r *Record) Error(column string) (CellValidationError, bool) {
	e, ok := r.errs[strings.ToLower(column)]
	return e, ok
}

// AddError records a failure for column. Intended for batch hooks.
func (r *Record) AddError(column, message string) {
	r.errs[strings.ToLower(column)] = CellValidationError{
		Row:     r.row,
		Column:  column,
		Value:   CellText(r.attrs[column]),
		Message: message,
	}
}

// Valid reports whether the record has no errors.
func (r *Record) Valid() bool { return len(r.errs) == 0 }

// Translated returns the object produced by the latest translation, or nil.
func (r *Record) Translated() any { return r.translated }

func (r *Record) setError(key string, e CellValidationError) {
	e.Row = r.row
	r.errs[key] = e
}

// Result is the output of one import call.
type Result struct {
	ID      uuid.UUID // Unique per import, for logs and exports
	Schema  string    // Schema name
	Sheet   string    // Worksheet name
	Headers []string  // Header row as read
	Skipped int       // Blank data rows not materialized

	records []*Record
}

// Summary is a count-only view of a Result.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Skipped int `json:"skipped"`
}

// All returns every record in worksheet order.
func (r *Result) All() []*Record {
	out := make([]*Record, len(r.records))
	copy(out, r.records)
	return out
}

// Valid returns the records without errors, in worksheet order.
func (r *Result) Valid() []*Record {
	return r.filter(true)
}

// Invalid returns the records with at least one error, in worksheet order.
func (r *Result) Invalid() []*Record {
	return r.filter(false)
}

func (r *Result) filter(valid bool) []*Record {
	var out []*Record
	for _, rec := range r.records {
		if rec.Valid() == valid {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of records.
func (r *Result) Len() int { return len(r.records) }

// Summary counts records by validity.
func (r *Result) Summary() Summary {
	s := Summary{Total: len(r.records), Skipped: r.Skipped}
	for _, rec := range r.records {
		if rec.Valid() {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
	return s
}
