package core

import (
	"context"
	"time"

	db "github.com/JonMunkholm/daman/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// PGRecordStore implements RecordStore on Postgres.
type PGRecordStore struct {
	q *db.Queries
}

// NewPGRecordStore wraps a pool or transaction.
func NewPGRecordStore(conn db.DBTX) *PGRecordStore {
	return &PGRecordStore{q: db.New(conn)}
}

func (s *PGRecordStore) FindByIdentifierAndRange(ctx context.Context, identifier string, start, end int) ([]QRRecord, error) {
	rows, err := s.q.FindQrRecordsInRange(ctx, db.FindQrRecordsInRangeParams{
		Identifier: identifier,
		Start:      clampInt32(start),
		End:        clampInt32(end),
	})
	if err != nil {
		return nil, err
	}
	return dbRecordsToQR(rows), nil
}

func (s *PGRecordStore) ExistsByIdentifierAndSequence(ctx context.Context, identifier string, seq int) (bool, error) {
	return s.q.QrRecordExists(ctx, db.QrRecordExistsParams{
		Identifier:     identifier,
		SequenceNumber: clampInt32(seq),
	})
}

func (s *PGRecordStore) InsertMany(ctx context.Context, records []QRRecord) ([]QRRecord, error) {
	params := make([]db.InsertQrRecordParams, len(records))
	for i, rec := range records {
		params[i] = db.InsertQrRecordParams{
			Identifier:     rec.Identifier,
			SequenceNumber: clampInt32(rec.SequenceNumber),
			Label:          rec.Label,
		}
	}
	written, err := s.q.InsertQrRecords(ctx, params)
	if err != nil {
		return nil, err
	}

	var skipped []QRRecord
	for i, ok := range written {
		if !ok {
			skipped = append(skipped, records[i])
		}
	}
	return skipped, nil
}

func (s *PGRecordStore) List(ctx context.Context, filter RecordFilter) ([]QRRecord, error) {
	filter = filter.normalized()
	rows, err := s.q.ListQrRecords(ctx, db.ListQrRecordsParams{
		Identifier: filter.Identifier,
		Limit:      int32(filter.Limit),
		Offset:     clampInt32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}
	return dbRecordsToQR(rows), nil
}

func (s *PGRecordStore) Count(ctx context.Context, filter RecordFilter) (int64, error) {
	return s.q.CountQrRecords(ctx, filter.Identifier)
}

func (s *PGRecordStore) Delete(ctx context.Context, identifier string, seq int) (bool, error) {
	n, err := s.q.DeleteQrRecord(ctx, db.DeleteQrRecordParams{
		Identifier:     identifier,
		SequenceNumber: clampInt32(seq),
	})
	return n > 0, err
}

func (s *PGRecordStore) DeleteByIdentifier(ctx context.Context, identifier string) (int64, error) {
	return s.q.DeleteQrRecordsByIdentifier(ctx, identifier)
}

func dbRecordsToQR(rows []db.QrRecord) []QRRecord {
	records := make([]QRRecord, len(rows))
	for i, row := range rows {
		records[i] = QRRecord{
			Identifier:     row.Identifier,
			SequenceNumber: int(row.SequenceNumber),
			Label:          row.Label,
			CreatedAt:      row.CreatedAt.Time,
		}
	}
	return records
}

// clampInt32 keeps user-supplied range bounds inside the INTEGER column range.
func clampInt32(n int) int32 {
	const maxInt32 = 1<<31 - 1
	const minInt32 = -1 << 31
	switch {
	case n > maxInt32:
		return maxInt32
	case n < minInt32:
		return minInt32
	default:
		return int32(n)
	}
}

// PGAuditStore implements AuditStore on Postgres.
type PGAuditStore struct {
	q *db.Queries
}

// NewPGAuditStore wraps a pool or transaction.
func NewPGAuditStore(conn db.DBTX) *PGAuditStore {
	return &PGAuditStore{q: db.New(conn)}
}

func (s *PGAuditStore) Insert(ctx context.Context, entry AuditEntry) error {
	_, err := s.q.InsertAuditLog(ctx, db.InsertAuditLogParams{
		ID:           toPgUUID(entry.ID),
		Action:       string(entry.Action),
		Severity:     string(entry.Severity),
		Subject:      entry.Subject,
		Summary:      toPgText(entry.Summary),
		RowsAffected: toPgInt4(entry.RowsAffected),
		IpAddress:    toPgText(entry.IPAddress),
		UserAgent:    toPgText(entry.UserAgent),
		CreatedAt:    pgtype.Timestamptz{Time: entry.CreatedAt, Valid: true},
	})
	return err
}

func (s *PGAuditStore) List(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error) {
	filter = filter.normalized()
	rows, err := s.q.ListAuditLog(ctx, db.ListAuditLogParams{
		Action:        string(filter.Action),
		CreatedAfter:  pgtype.Timestamptz{Time: filter.StartTime, Valid: true},
		CreatedBefore: pgtype.Timestamptz{Time: filter.EndTime, Valid: true},
		Limit:         int32(filter.Limit),
		Offset:        clampInt32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dbAuditLogToEntry(row))
	}
	return entries, nil
}

func (s *PGAuditStore) Count(ctx context.Context, filter AuditLogFilter) (int64, error) {
	filter = filter.normalized()
	return s.q.CountAuditLog(ctx, db.CountAuditLogParams{
		Action:        string(filter.Action),
		CreatedAfter:  pgtype.Timestamptz{Time: filter.StartTime, Valid: true},
		CreatedBefore: pgtype.Timestamptz{Time: filter.EndTime, Valid: true},
	})
}

func (s *PGAuditStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return s.q.DeleteAuditLogBefore(ctx, pgtype.Timestamptz{Time: before, Valid: true})
}

func dbAuditLogToEntry(row db.AuditLog) AuditEntry {
	entry := AuditEntry{
		ID:        uuidToString(row.ID),
		Action:    AuditAction(row.Action),
		Severity:  AuditSeverity(row.Severity),
		Subject:   row.Subject,
		CreatedAt: row.CreatedAt.Time,
	}
	if row.Summary.Valid {
		entry.Summary = row.Summary.String
	}
	if row.RowsAffected.Valid {
		entry.RowsAffected = int(row.RowsAffected.Int32)
	}
	if row.IpAddress.Valid {
		entry.IPAddress = row.IpAddress.String
	}
	if row.UserAgent.Valid {
		entry.UserAgent = row.UserAgent.String
	}
	return entry
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgInt4(i int) pgtype.Int4 {
	if i == 0 {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: clampInt32(i), Valid: true}
}

func toPgUUID(s string) pgtype.UUID {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
