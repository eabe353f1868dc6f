package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// Typed errors are matched first (errors.As / errors.Is), then the error text
// is searched case-insensitively for known patterns. The first match wins, so
// specific patterns come before general ones.
//
// Codes:
//
//	VAL001 invalid date            VAL004 missing required column
//	VAL002 invalid number          VAL005 cell failed format check
//	VAL003 required field empty    VAL006 duplicate row
//	FILE001 file too large         FILE004 no file provided
//	FILE002 unsupported format     FILE005 empty file
//	FILE003 unreadable workbook    FILE006 worksheet not found
//	DB001 duplicate key            DB004 connection refused
//	DB002 not-null violation       DB005 timeout
//	DB003 foreign key              DB006 export disabled
//	IMP001 schema not found        IMP003 request cancelled
//	IMP002 too many imports        IMP004 request timeout
//	ERR000 fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetimport/internal/workbook"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// ErrExportDisabled is returned when a commit is requested but no database
// is configured.
var ErrExportDisabled = errors.New("export disabled: no database configured")

var (
	msgMissingColumn = UserMessage{
		Message: "Required column is missing from the sheet",
		Action:  "Check that all required columns are present in the header row",
		Code:    "VAL004",
	}
	msgSchemaNotFound = UserMessage{
		Message: "Unknown import type",
		Action:  "Verify the schema key is correct",
		Code:    "IMP001",
	}
	msgTooManyImports = UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP003",
	}
	msgDeadline = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "IMP004",
	}
	msgUnsupported = UserMessage{
		Message: "File format is not supported",
		Action:  "Upload an .xlsx or .csv file",
		Code:    "FILE002",
	}
	msgSheetNotFound = UserMessage{
		Message: "Worksheet not found",
		Action:  "Check the sheet number; the first sheet is 0",
		Code:    "FILE006",
	}
	msgExportDisabled = UserMessage{
		Message: "Saving imported rows is not enabled",
		Action:  "Validate without committing, or ask an administrator to configure a database",
		Code:    "DB006",
	}
)

// pgCodes maps PostgreSQL SQLSTATE codes to messages.
var pgCodes = map[string]UserMessage{
	"23505": {Message: "A record with this key already exists", Action: "Remove duplicates and import again", Code: "DB001"},
	"23502": {Message: "A required value is missing", Action: "Fill in every required column", Code: "DB002"},
	"23503": {Message: "Referenced record does not exist", Action: "Ensure parent records are imported first", Code: "DB003"},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Validation
	{"invalid date", UserMessage{"Invalid date format detected", "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024", "VAL001"}},
	{"invalid number", UserMessage{"Invalid number format detected", "Use a plain decimal number such as 1234.56", "VAL002"}},
	{"invalid integer", UserMessage{"Invalid whole number detected", "Use a whole number without decimals", "VAL002"}},
	{"required field", UserMessage{"Required field is empty", "Ensure all required columns have values", "VAL003"}},
	{"missing required column", msgMissingColumn},
	{"does not match required format", UserMessage{"A value does not match the expected format", "Check the highlighted cells against the template", "VAL005"}},
	{"duplicate of row", UserMessage{"Duplicate row detected", "Remove repeated rows from the sheet", "VAL006"}},

	// Workbook
	{"file too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}},
	{"request body too large", UserMessage{"File exceeds maximum size limit", "Split the file into smaller chunks", "FILE001"}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Ensure the file is delimited with consistent quoting", "FILE003"}},
	{"open xlsx", UserMessage{"File could not be read as a workbook", "Re-save the file as .xlsx and try again", "FILE003"}},
	{"zip: not a valid zip file", UserMessage{"File could not be read as a workbook", "Re-save the file as .xlsx and try again", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a file to import", "FILE004"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Please upload a file with a header row and data rows", "FILE005"}},

	// Database
	{"duplicate key", pgCodes["23505"]},
	{"violates foreign key", pgCodes["23503"]},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"timeout", UserMessage{"Operation timed out", "Try a smaller file or try again later", "DB005"}},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var missing *MissingColumnError
	if errors.As(err, &missing) {
		msg := msgMissingColumn
		msg.Message = fmt.Sprintf("Required column(s) missing from the sheet: %s", strings.Join(missing.Missing, ", "))
		return msg
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodes[pgErr.Code]; ok {
			return msg
		}
	}

	switch {
	case errors.Is(err, ErrSchemaNotFound):
		return msgSchemaNotFound
	case errors.Is(err, ErrTooManyImports):
		return msgTooManyImports
	case errors.Is(err, ErrExportDisabled):
		return msgExportDisabled
	case errors.Is(err, workbook.ErrUnsupportedFormat):
		return msgUnsupported
	case errors.Is(err, workbook.ErrSheetNotFound):
		return msgSheetNotFound
	case errors.Is(err, context.Canceled):
		return msgCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return msgDeadline
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
