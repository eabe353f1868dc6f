package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaNotFound is returned when a registry lookup fails.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrTooManyImports is returned when all import slots are occupied and
	// the wait timeout expires. Clients should retry after a short delay.
	ErrTooManyImports = errors.New("too many concurrent imports, please try again later")
)

// MissingColumnError reports required columns absent from the header row.
// It aborts an import before any record is created.
type MissingColumnError struct {
	Missing []string // Required column names with no matching header
	Headers []string // Header names actually found
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s (found headers: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}

// CellValidationError describes why one cell of one row was rejected.
type CellValidationError struct {
	Row         int      `json:"row"`                   // Worksheet row number (1-based)
	Column      string   `json:"column"`                // Declared column name
	Value       string   `json:"value"`                 // Cell text that failed
	Constraints []string `json:"constraints,omitempty"` // Unmet format constraints
	Message     string   `json:"message"`               // Human-readable reason
}

func (e CellValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}
