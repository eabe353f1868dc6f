package web

import (
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/sheetimport/internal/logging"
)

// requestLogger returns the request-scoped logger with client metadata.
// RemoteAddr has already been rewritten by TrustedRealIP.
func requestLogger(r *http.Request, args ...any) *slog.Logger {
	args = append(args, "ip", r.RemoteAddr)
	return logging.WithFields(r.Context(), args...)
}

// logRequestError logs a failure that happens after the response started.
func logRequestError(r *http.Request, msg string, err error) {
	requestLogger(r).Error(msg, "path", r.URL.Path, "error", err)
}
