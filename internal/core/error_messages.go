package core

// error_messages.go maps technical errors to messages operators can act on.
//
// Codes are grouped by category:
//
//	QR001  - No search token could be parsed
//	QR002  - QR record not found
//	QR003  - Every imported row already exists
//	FILE001-FILE004 - Import file problems (size, type, content, missing)
//	DB001-DB006     - Database failures
//	UPL001-UPL003   - Import slot and request lifecycle
//	VAL001          - Malformed request body
//	RATE001         - Too many requests
//	ERR000          - Anything else; check the server log by request id

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages are checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrNoValidQueries, UserMessage{
		Message: "None of the search lines could be read",
		Action:  "Use '<QR ID> <start>-<end>' or '<QR ID> <port>', separated by commas or new lines",
		Code:    "QR001",
	}},
	{ErrRecordNotFound, UserMessage{
		Message: "QR record not found",
		Action:  "Refresh the list; it may already have been deleted",
		Code:    "QR002",
	}},
	{ErrUnsupportedFile, UserMessage{
		Message: "Only Excel workbooks (.xlsx) can be imported",
		Action:  "Save the file as .xlsx and upload it again",
		Code:    "FILE002",
	}},
	{ErrUnreadableWorkbook, UserMessage{
		Message: "The workbook could not be read",
		Action:  "Open the file in Excel, re-save it as .xlsx and try again",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select an Excel file to import",
		Code:    "FILE004",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively with strings.Contains, first
// match wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{
		Message: "A QR record with this ID and port already exists",
		Action:  "Remove the existing record or the duplicate row",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"file too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller workbooks",
		Code:    "FILE001",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL003",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or fewer search lines",
		Code:    "DB006",
	}},
	{"invalid request", UserMessage{
		Message: "The request could not be understood",
		Action:  "Check the request fields and try again",
		Code:    "VAL001",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultUserMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a UserMessage. A nil error maps to
// the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var dupErr *AllDuplicatesError
	if errors.As(err, &dupErr) {
		return UserMessage{
			Message: fmt.Sprintf("All %d rows already exist: %s", dupErr.Total(), dupErr.Summary()),
			Action:  "Delete the existing QR codes first or import only new ports",
			Code:    "QR003",
		}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultUserMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	msg := MapError(err)
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
