package web

// errors.go turns handler errors into responses.
//
// Technical details are logged with the request id; clients get the
// sanitized core.UserMessage as JSON (API routes) or as an inline alert
// (the search page).

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/daman/internal/core"
	"github.com/JonMunkholm/daman/internal/logging"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errRateLimited    = errors.New("rate limit exceeded")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`

	// Set for all-duplicate import failures.
	DuplicateCount int `json:"duplicateCount,omitempty"`
}

// statusForError picks the HTTP status for err.
func statusForError(err error) int {
	var dupErr *core.AllDuplicatesError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &dupErr):
		return http.StatusConflict
	case errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errInvalidRequest), core.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped JSON error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	userMsg := core.MapError(err)

	logger := logging.WithFields(r.Context(),
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", userMsg.Code,
		"error", err.Error(),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("request error")
	} else {
		logger.Warn("request rejected")
	}

	resp := ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	}
	var dupErr *core.AllDuplicatesError
	if errors.As(err, &dupErr) {
		resp.DuplicateCount = dupErr.Total()
	}

	writeJSONStatus(w, status, resp)
}

// writeJSON encodes v with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
