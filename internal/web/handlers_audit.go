package web

import (
	"net/http"

	"github.com/JonMunkholm/daman/internal/core"
)

// handleAuditLog returns a page of the activity log, newest first.
// Filters: action, from and to (YYYY-MM-DD), page.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	pageSize := core.DefaultAuditPageSize

	filter := core.AuditLogFilter{
		Action:    core.AuditAction(r.URL.Query().Get("action")),
		StartTime: parseDateParam(r, "from", false),
		EndTime:   parseDateParam(r, "to", true),
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	entries, total, err := s.service.AuditLog(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}

	writeJSON(w, AuditLogResponse{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
