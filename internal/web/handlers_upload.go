package web

// handlers_upload.go imports uploaded workbooks.
//
// An import request is processed in one pass:
//  1. Resolve the schema and acquire an import slot
//  2. Decode the multipart upload into an in-memory workbook
//  3. Import the selected worksheet against the schema
//  4. Optionally export the valid rows (commit=true)
//  5. Report the summary and the selected rows as JSON

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var errNoFile = errors.New("no file provided")

// handleImport validates an uploaded workbook against a schema.
//
// Form fields: file (required), sheet (index, default from config),
// commit (export valid rows), rows (invalid|all|none).
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, err := s.registry.Lookup(key)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	sheet := parseSheet(r, s.cfg.Import.DefaultSheet)
	commit := parseBool(r, "commit")

	if commit && def.Export == nil {
		respondError(w, r, core.ErrExportDisabled, http.StatusConflict)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		w.Header().Set("Retry-After", "5")
		respondError(w, r, err, statusFor(err))
		return
	}
	defer s.limiter.Release()

	logger := requestLogger(r, "schema", key, "file", header.Filename, "sheet_index", sheet)

	wb, err := s.opener.OpenReader(header.Filename, file)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer wb.Close()

	importer := core.NewImporter(s.opener, core.WithLogger(logger))
	res, err := importer.ImportWorkbook(def.Schema, wb, sheet)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	resp := toImportResponse(res, parseRows(r))

	if commit {
		n, err := def.Export(ctx, res)
		if err != nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		resp.Committed = &n
		logger.Info("import committed", "import_id", res.ID, "rows", n)
	}

	writeJSON(w, resp)
}

// handleRollback deletes the rows an earlier commit wrote.
func (s *Server) handleRollback(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, err := s.registry.Lookup(key)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	importID, err := uuid.Parse(chi.URLParam(r, "importID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid import id")
		return
	}

	if def.Rollback == nil {
		respondError(w, r, core.ErrExportDisabled, http.StatusConflict)
		return
	}

	n, err := def.Rollback(r.Context(), importID)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	requestLogger(r, "schema", key).Info("import rolled back", "import_id", importID, "rows", n)
	writeJSON(w, map[string]any{"import_id": importID, "deleted": n})
}
