package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/sheetimport/internal/workbook"
	"github.com/go-chi/chi/v5"
)

// handleDownloadTemplate returns an empty workbook with the schema's header
// row. ?format=xlsx returns an XLSX file; anything else returns CSV.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, err := s.registry.Lookup(key)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	cols := def.Schema.Columns()
	tmpl := make([]workbook.TemplateColumn, len(cols))
	for i, col := range cols {
		tmpl[i] = workbook.TemplateColumn{Name: col.Name, Required: col.Required}
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.xlsx"`, key))
		if err := workbook.WriteTemplateXLSX(w, def.Schema.Name(), tmpl); err != nil {
			logRequestError(r, "write template", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, key))
	if err := workbook.WriteTemplateCSV(w, tmpl); err != nil {
		logRequestError(r, "write template", err)
	}
}
