package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/daman/internal/core"
)

// maxJSONBody caps search and export request bodies.
const maxJSONBody = 1 << 20

// maxPage keeps (page-1)*pageSize inside the int32 offset column range.
const maxPage = 1_000_000

// SearchRequest accepts free text, pre-split tokens, pre-parsed queries, or
// any mix of them. Queries from all three are resolved in that order.
type SearchRequest struct {
	Query   string            `json:"query" validate:"max=65536"`
	Tokens  []string          `json:"tokens" validate:"max=1000"`
	Queries []core.RangeQuery `json:"queries" validate:"max=1000,dive"`
}

// RangeQueries parses Query and Tokens and appends the pre-parsed Queries.
func (req SearchRequest) RangeQueries() []core.RangeQuery {
	queries := core.ParseQueries(req.Query)
	queries = append(queries, core.ParseTokens(req.Tokens)...)
	return append(queries, req.Queries...)
}

// SearchResponse is returned by POST /api/qr/search.
type SearchResponse struct {
	Matches          []core.QRRecord `json:"matches"`
	UnmatchedQueries []string        `json:"unmatchedQueries"`
}

// ImportResponse is returned by a successful POST /api/qr/import.
type ImportResponse struct {
	FileName   string `json:"fileName"`
	Inserted   int    `json:"insertedCount"`
	Duplicates int    `json:"duplicateCount"`
	DurationMs int64  `json:"durationMs"`
}

// RecordsResponse is one page of GET /api/qr/records.
type RecordsResponse struct {
	Records  []core.QRRecord `json:"records"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// DeleteResponse reports how many records a delete removed.
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// AuditLogResponse is one page of GET /api/audit-log.
type AuditLogResponse struct {
	Entries  []core.AuditEntry `json:"entries"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// decodeJSON reads a JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", errInvalidRequest, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return err.Error()
	}
	fe := fieldErrs[0]
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
}

// parseIntParam parses a positive integer query parameter.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parsePage reads the page query parameter, capped at maxPage.
func parsePage(r *http.Request) int {
	return min(parseIntParam(r, "page", 1), maxPage)
}

// parseDateParam parses a YYYY-MM-DD query parameter. endOfDay moves the
// time to the last second of that day.
func parseDateParam(r *http.Request, name string, endOfDay bool) time.Time {
	val := r.URL.Query().Get(name)
	if val == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return time.Time{}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t
}
