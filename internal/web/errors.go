package web

// errors.go provides unified error responses for the API.
//
// Every failure is:
//   - Logged with full technical details and the request id (server-side)
//   - Returned as a coded, user-friendly JSON message via core.MapError
//
// A missing-column failure additionally carries the missing names and the
// headers actually found, so clients can point at the offending sheet.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/JonMunkholm/sheetimport/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	Missing []string `json:"missing,omitempty"`
	Headers []string `json:"headers,omitempty"`
}

// respondError logs err and writes its user-facing form with statusCode.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := core.MapError(err)

	level := slog.LevelError
	if statusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	)

	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}

	var missing *core.MissingColumnError
	if errors.As(err, &missing) {
		resp.Missing = missing.Missing
		resp.Headers = missing.Headers
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// statusFor picks the HTTP status for an import or export failure.
func statusFor(err error) int {
	var missing *core.MissingColumnError
	switch {
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrSchemaNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrExportDisabled):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	if strings.HasPrefix(core.MapError(err).Code, "FILE") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
