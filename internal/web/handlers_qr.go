package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/daman/internal/core"
	"github.com/JonMunkholm/daman/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleSearch resolves range queries and returns matches plus the queries
// that found nothing.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Search(r.Context(), req.RangeQueries())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, SearchResponse{
		Matches:          result.Matches,
		UnmatchedQueries: result.UnmatchedQueries,
	})
}

// handleExport resolves the same request as handleSearch and returns the
// matches as a workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	data, result, err := s.service.Export(r.Context(), req.RangeQueries())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("X-Unmatched-Count", strconv.Itoa(len(result.UnmatchedQueries)))
	writeWorkbook(w, fmt.Sprintf("qr_codes_%s.xlsx", time.Now().Format("20060102_150405")), data)
}

// handleImport loads QR records from an uploaded workbook.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	if r.ContentLength > maxSize {
		s.respondError(w, r, fmt.Errorf("file too large: %w", &http.MaxBytesError{Limit: maxSize}))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, r, fmt.Errorf("file too large: %w", err))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errInvalidRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Import(ctx, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, ImportResponse{
		FileName:   result.FileName,
		Inserted:   result.Inserted,
		Duplicates: result.Duplicates,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// handleTemplate serves an empty import workbook.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := core.ImportTemplate()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeWorkbook(w, "qr_import_template.xlsx", data)
}

// handleListRecords pages through stored records, optionally for a single
// identifier.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	pageSize := parseIntParam(r, "page_size", core.DefaultPageSize)
	if pageSize > core.MaxPageSize {
		pageSize = core.MaxPageSize
	}

	records, total, err := s.service.ListRecords(r.Context(), core.RecordFilter{
		Identifier: r.URL.Query().Get("identifier"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if records == nil {
		records = []core.QRRecord{}
	}

	writeJSON(w, RecordsResponse{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// handleDeleteRecord removes one (identifier, sequence number) record.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil || seq < 1 {
		s.respondError(w, r, fmt.Errorf("%w: sequence number must be a positive integer", errInvalidRequest))
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.DeleteRecord(ctx, identifier, seq); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteIdentifier removes every record under an identifier.
func (s *Server) handleDeleteIdentifier(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	ctx := WithRequestMetadata(r.Context(), r)
	n, err := s.service.DeleteByIdentifier(ctx, identifier)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.WithFields(r.Context(), "identifier", identifier, "deleted", n).Info("qr identifier deleted")
	writeJSON(w, DeleteResponse{Deleted: n})
}

// handleImportStatus reports import slots in use.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ImportStatus())
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = bytes.NewReader(data).WriteTo(w)
}
