package core

import (
	"context"
	"time"
)

// RecordStore is the persistence contract for QR records.
type RecordStore interface {
	RangeFinder
	RecordWriter
	List(ctx context.Context, filter RecordFilter) ([]QRRecord, error)
	Count(ctx context.Context, filter RecordFilter) (int64, error)
	Delete(ctx context.Context, identifier string, seq int) (bool, error)
	DeleteByIdentifier(ctx context.Context, identifier string) (int64, error)
}

// AuditStore is the persistence contract for the activity log.
type AuditStore interface {
	Insert(ctx context.Context, entry AuditEntry) error
	List(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error)
	Count(ctx context.Context, filter AuditLogFilter) (int64, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}
