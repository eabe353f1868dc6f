// Package core maps rows of a spreadsheet into typed, validated records and
// projects those records onto Go types.
//
// This package contains all import logic independent of any transport or
// storage. It is used by the HTTP surface, the catalog of shipped schemas and
// tests without modification.
//
// # Schemas
//
// A [Schema] is an ordered list of [ColumnSpec] values built once and passed
// explicitly to every import:
//
//	prices, err := core.NewSchema("prices", []core.ColumnSpec{
//	    {Name: "Name", Type: core.TypeString, Required: true},
//	    {Name: "Price", Type: core.TypeDecimal, Required: true,
//	        Formats: []core.Matcher{core.Pattern(`^\d+(\.\d+)?$`)}},
//	})
//
// Schemas hold no per-import state, so one Schema may be shared by any number
// of concurrent imports.
//
// # Import
//
// [Importer.Import] opens a workbook, binds header names to columns, fails
// with [*MissingColumnError] when a required column is absent, and otherwise
// returns a [Result] with one [Record] per non-blank data row. Cell failures
// never abort an import; they are collected per record as
// [CellValidationError] values keyed by the lower-cased column name.
//
// # Translation
//
// A [Translator] projects records onto a target struct type T. Each column is
// copied onto the same-named field (or a field tagged `sheet:"<name>"`) unless
// the column declares its own Translate rule. A [Binding] may replace the
// default construction and add a hook that runs once per translated batch.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// category carries a support code:
//
//   - VAL001-VAL006: Validation errors (formats, missing columns)
//   - FILE001-FILE006: Workbook errors (format, size, encoding, sheets)
//   - DB001-DB006: Database errors raised while exporting translated rows
//   - IMP001-IMP004: Import service errors (busy, cancelled, unknown schema)
package core
