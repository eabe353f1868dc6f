// Package web provides the HTTP API for importing workbooks against the
// registered schemas.
package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/sheetimport/internal/config"
	"github.com/JonMunkholm/sheetimport/internal/core"
	mw "github.com/JonMunkholm/sheetimport/internal/web/middleware"
	"github.com/JonMunkholm/sheetimport/internal/workbook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WorkbookOpener opens workbooks from paths and uploaded readers.
// Satisfied by *workbook.Opener.
type WorkbookOpener interface {
	core.Opener
	OpenReader(name string, r io.Reader) (workbook.Workbook, error)
}

// Server is the HTTP server for the import API.
type Server struct {
	cfg      *config.Config
	registry *core.Registry
	opener   WorkbookOpener
	limiter  *core.ImportLimiter
	rate     *rateLimiter
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, registry *core.Registry, opener WorkbookOpener, limiter *core.ImportLimiter) *Server {
	s := &Server{
		cfg:      cfg,
		registry: registry,
		opener:   opener,
		limiter:  limiter,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.rate = newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.rate.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		// Schema catalog
		r.Get("/schemas", s.handleListSchemas)
		r.Get("/schemas/{key}", s.handleGetSchema)
		r.Get("/schemas/{key}/template", s.handleDownloadTemplate)

		// Imports
		r.Post("/import/{key}", s.handleImport)
		r.Delete("/import/{key}/{importID}", s.handleRollback)
		r.Get("/imports/status", s.handleImportStatus)
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rate != nil {
		s.rate.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// The API serves no documents
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}

// writeError writes a plain JSON error for failures outside a handler,
// such as rate limiting.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
