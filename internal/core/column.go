package core

// column.go validates and coerces single cells against a ColumnSpec.
//
// Validation and coercion are separate steps:
//  1. Validate: the cell text must satisfy at least one format constraint
//  2. Coerce: the validated text is parsed into the column's ValueType
//
// Neither step stores anything on the ColumnSpec, so specs are safe to share
// between concurrent imports.

import (
	"fmt"
	"time"
)

// ValidationResult is the outcome of validating one cell.
type ValidationResult struct {
	OK     bool
	Detail *CellValidationError // Set when OK is false
}

// Text returns the cell text used for validation: the raw value's string
// form with the column normalizer applied.
func (c ColumnSpec) Text(raw any) string {
	s := CellText(raw)
	if c.Normalizer != nil && s != "" {
		s = c.Normalizer(s)
	}
	return s
}

// Validate checks a raw cell against the column's format constraints.
// It succeeds when Formats is empty or any one constraint matches. An absent
// cell is validated as the empty string.
func (c ColumnSpec) Validate(raw any, rec *Record) ValidationResult {
	if len(c.Formats) == 0 {
		return ValidationResult{OK: true}
	}

	text := c.Text(raw)
	for _, m := range c.Formats {
		if m.Match(text, rec) {
			return ValidationResult{OK: true}
		}
	}

	constraints := make([]string, len(c.Formats))
	for i, m := range c.Formats {
		constraints[i] = m.String()
	}

	detail := &CellValidationError{
		Column:      c.Name,
		Value:       text,
		Constraints: constraints,
		Message:     fmt.Sprintf("value %q does not match required format", text),
	}
	if text == "" {
		detail.Message = "required field is empty"
	}
	if rec != nil {
		detail.Row = rec.Row()
	}
	return ValidationResult{Detail: detail}
}

// Coerce converts a validated raw cell into the column's ValueType.
// Empty cells coerce to nil for every type except TypeString, which yields "".
func (c ColumnSpec) Coerce(raw any) (any, error) {
	text := c.Text(raw)
	if c.Type == TypeString {
		return text, nil
	}
	if text == "" {
		return nil, nil
	}

	switch c.Type {
	case TypeInteger:
		return ParseInteger(text)
	case TypeDecimal:
		if f, ok := raw.(float64); ok && c.Normalizer == nil {
			return f, nil
		}
		return ParseDecimal(text)
	case TypeDate:
		if t, ok := raw.(time.Time); ok && c.Normalizer == nil {
			return t, nil
		}
		return ParseDate(text)
	case TypeBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
		return ParseBool(text)
	case TypeUUID:
		return ParseUUID(text)
	default:
		return nil, fmt.Errorf("column %q: unsupported value type %d", c.Name, c.Type)
	}
}
