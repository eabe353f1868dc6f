package web

// handlers_common.go holds request parsing helpers and the JSON shapes
// shared by the handlers.

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/google/uuid"
)

// Row selection for import responses.
const (
	rowsInvalid = "invalid" // default: only rows that need fixing
	rowsAll     = "all"
	rowsNone    = "none"
)

// columnResponse describes one declared column.
type columnResponse struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Formats  []string `json:"formats,omitempty"`
}

// schemaResponse describes a registered schema.
type schemaResponse struct {
	Key        string           `json:"key"`
	Group      string           `json:"group"`
	Label      string           `json:"label"`
	Name       string           `json:"name"`
	Exportable bool             `json:"exportable"`
	Columns    []columnResponse `json:"columns"`
}

func toSchemaResponse(def core.Definition) schemaResponse {
	cols := def.Schema.Columns()
	resp := schemaResponse{
		Key:        def.Key,
		Group:      def.Group,
		Label:      def.Label,
		Name:       def.Schema.Name(),
		Exportable: def.Export != nil,
		Columns:    make([]columnResponse, len(cols)),
	}
	for i, col := range cols {
		c := columnResponse{Name: col.Name, Type: col.Type.String(), Required: col.Required}
		for _, m := range col.Formats {
			c.Formats = append(c.Formats, m.String())
		}
		resp.Columns[i] = c
	}
	return resp
}

// rowResponse is one imported record.
type rowResponse struct {
	Row    int                                 `json:"row"`
	Valid  bool                                `json:"valid"`
	Values map[string]any                      `json:"values"`
	Errors map[string]core.CellValidationError `json:"errors,omitempty"`
}

// importResponse is the report returned for an import.
type importResponse struct {
	ImportID  uuid.UUID     `json:"import_id"`
	Schema    string        `json:"schema"`
	Sheet     string        `json:"sheet"`
	Headers   []string      `json:"headers"`
	Summary   core.Summary  `json:"summary"`
	Committed *int64        `json:"committed,omitempty"`
	Rows      []rowResponse `json:"rows"`
}

func toImportResponse(res *core.Result, rows string) importResponse {
	resp := importResponse{
		ImportID: res.ID,
		Schema:   res.Schema,
		Sheet:    res.Sheet,
		Headers:  res.Headers,
		Summary:  res.Summary(),
		Rows:     []rowResponse{},
	}

	var records []*core.Record
	switch rows {
	case rowsAll:
		records = res.All()
	case rowsNone:
	default:
		records = res.Invalid()
	}

	for _, rec := range records {
		row := rowResponse{
			Row:    rec.Row(),
			Valid:  rec.Valid(),
			Values: rec.Attributes(),
		}
		if !rec.Valid() {
			row.Errors = rec.Errors()
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}

// parseSheet reads the "sheet" form value, falling back to def.
// Negative or malformed values fall back as well.
func parseSheet(r *http.Request, def int) int {
	val := strings.TrimSpace(r.FormValue("sheet"))
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return def
	}
	return i
}

// parseBool reads a boolean form or query value. Unknown text is false.
func parseBool(r *http.Request, name string) bool {
	b, err := core.ParseBool(r.FormValue(name))
	return err == nil && b
}

// parseRows reads the "rows" selector.
func parseRows(r *http.Request) string {
	switch v := strings.ToLower(r.FormValue("rows")); v {
	case rowsAll, rowsNone:
		return v
	default:
		return rowsInvalid
	}
}
