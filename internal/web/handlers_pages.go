package web

import (
	"net/http"

	"github.com/JonMunkholm/daman/internal/core"
	"github.com/JonMunkholm/daman/internal/logging"
	"github.com/JonMunkholm/daman/internal/web/templates"
)

// handleSearchPage renders the search form and, for POST, the results of
// the submitted query.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	params := templates.SearchPageParams{}
	status := http.StatusOK

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		params.Query = r.FormValue("q")

		result, err := s.service.SearchText(r.Context(), params.Query)
		if err != nil {
			status = statusForError(err)
			msg := core.MapError(err)
			params.Error = &msg
			logging.FromContext(r.Context()).Warn("search page error", "code", msg.Code, "error", err)
		} else {
			params.Result = result
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.SearchPage(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render search page", "error", err)
	}
}
