package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness and import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"imports": s.limiter.Status(),
	})
}

// handleListSchemas returns every registered schema.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	defs := s.registry.All()
	out := make([]schemaResponse, len(defs))
	for i, def := range defs {
		out[i] = toSchemaResponse(def)
	}
	writeJSON(w, out)
}

// handleGetSchema returns one schema by key.
func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	def, err := s.registry.Lookup(chi.URLParam(r, "key"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, toSchemaResponse(def))
}

// handleImportStatus returns the import limiter state.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.limiter.Status())
}
