package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/daman/internal/config"
)

// DefaultImportTimeout bounds a single import when the config sets none.
const DefaultImportTimeout = 2 * time.Minute

// Service is the entry point for QR lookup, import and record management.
type Service struct {
	records  RecordStore
	resolver *Resolver
	importer *Importer
	audit    *AuditService
	limiter  *ImportLimiter

	importTimeout time.Duration
}

// NewService wires the stores into resolver, importer and audit log.
func NewService(records RecordStore, auditStore AuditStore, cfg config.UploadConfig) *Service {
	audit := NewAuditService(auditStore)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultImportTimeout
	}

	return &Service{
		records:       records,
		resolver:      NewResolver(records),
		importer:      NewImporter(records, audit),
		audit:         audit,
		limiter:       NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		importTimeout: timeout,
	}
}

// Audit exposes the audit service for the retention scheduler.
func (s *Service) Audit() *AuditService {
	return s.audit
}

// Search resolves already-parsed queries. An empty list is a validation
// error, not an empty result.
func (s *Service) Search(ctx context.Context, queries []RangeQuery) (*SearchResult, error) {
	if len(queries) == 0 {
		return nil, ErrNoValidQueries
	}
	return s.resolver.Resolve(ctx, queries)
}

// SearchText parses free-form search text and resolves it.
func (s *Service) SearchText(ctx context.Context, text string) (*SearchResult, error) {
	return s.Search(ctx, ParseQueries(text))
}

// Export resolves queries and renders the matches as a workbook.
func (s *Service) Export(ctx context.Context, queries []RangeQuery) ([]byte, *SearchResult, error) {
	result, err := s.Search(ctx, queries)
	if err != nil {
		return nil, nil, err
	}
	data, err := ExportWorkbook(result.Matches)
	if err != nil {
		return nil, nil, fmt.Errorf("export workbook: %w", err)
	}
	return data, result, nil
}

// Import runs a spreadsheet import under the import limiter and timeout.
func (s *Service) Import(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	if err := CheckFileName(fileName); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	return s.importer.Import(ctx, fileName, r)
}

// ListRecords returns a page of records and the total matching count.
func (s *Service) ListRecords(ctx context.Context, filter RecordFilter) ([]QRRecord, int64, error) {
	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	total, err := s.records.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}
	return records, total, nil
}

// DeleteRecord removes one record. Missing keys return ErrRecordNotFound.
func (s *Service) DeleteRecord(ctx context.Context, identifier string, seq int) error {
	deleted, err := s.records.Delete(ctx, identifier, seq)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if !deleted {
		return ErrRecordNotFound
	}

	s.audit.Notify(ctx, AuditLogParams{
		Action:       ActionDelete,
		Subject:      QRRecord{Identifier: identifier, SequenceNumber: seq}.Key(),
		RowsAffected: 1,
		Summary:      fmt.Sprintf("Deleted QR %s port %d", identifier, seq),
	})
	return nil
}

// DeleteByIdentifier removes every record under identifier and returns how
// many were deleted.
func (s *Service) DeleteByIdentifier(ctx context.Context, identifier string) (int64, error) {
	n, err := s.records.DeleteByIdentifier(ctx, identifier)
	if err != nil {
		return 0, fmt.Errorf("delete identifier: %w", err)
	}

	if n > 0 {
		s.audit.Notify(ctx, AuditLogParams{
			Action:       ActionDeleteIdentifier,
			Subject:      identifier,
			RowsAffected: int(n),
			Summary:      fmt.Sprintf("Deleted %d QR records under %s", n, identifier),
		})
	}
	return n, nil
}

// AuditLog returns a page of audit entries and the total matching count.
func (s *Service) AuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, int64, error) {
	entries, err := s.audit.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit log: %w", err)
	}
	total, err := s.audit.Count(ctx, filter)
	if err != nil {
		total = int64(len(entries))
	}
	return entries, total, nil
}

// ImportStatus reports the import limiter state.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
