package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/daman/internal/logging"
	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionImport           AuditAction = "qr_import"
	ActionDelete           AuditAction = "qr_delete"
	ActionDeleteIdentifier AuditAction = "qr_delete_identifier"
	ActionAuditPurge       AuditAction = "audit_purge"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	Subject      string        `json:"subject,omitempty"`
	Summary      string        `json:"summary,omitempty"`
	RowsAffected int           `json:"rowsAffected,omitempty"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// AuditLogParams contains parameters for creating an audit log entry.
// IPAddress and UserAgent default to the request metadata in ctx.
type AuditLogParams struct {
	Action       AuditAction
	Subject      string
	Summary      string
	RowsAffected int
	IPAddress    string
	UserAgent    string
}

// AuditLogFilter contains filtering options for querying audit logs.
type AuditLogFilter struct {
	Action    AuditAction
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// DefaultAuditPageSize is the audit listing limit when none is given.
const DefaultAuditPageSize = 50

func (f AuditLogFilter) normalized() AuditLogFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultAuditPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.StartTime.IsZero() {
		f.StartTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if f.EndTime.IsZero() {
		f.EndTime = time.Now().Add(24 * time.Hour)
	}
	return f
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionImport:
		return SeverityMedium
	case ActionDelete:
		return SeverityHigh
	case ActionDeleteIdentifier, ActionAuditPurge:
		return SeverityCritical
	default:
		return SeverityLow
	}
}

// ActivityNotifier receives best-effort activity notifications. Notify never
// reports failure to the caller.
type ActivityNotifier interface {
	Notify(ctx context.Context, params AuditLogParams)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, AuditLogParams) {}

// notifyTimeout bounds how long a notification may hold up its caller.
const notifyTimeout = 5 * time.Second

// AuditService handles audit log operations.
type AuditService struct {
	store AuditStore
	now   func() time.Time
}

// NewAuditService creates a new audit service.
func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store, now: time.Now}
}

// Log writes an audit entry and returns it.
func (a *AuditService) Log(ctx context.Context, params AuditLogParams) (*AuditEntry, error) {
	meta := RequestMetaFromContext(ctx)
	if params.IPAddress == "" {
		params.IPAddress = meta.IPAddress
	}
	if params.UserAgent == "" {
		params.UserAgent = meta.UserAgent
	}

	entry := AuditEntry{
		ID:           uuid.New().String(),
		Action:       params.Action,
		Severity:     determineSeverity(params.Action),
		Subject:      params.Subject,
		Summary:      params.Summary,
		RowsAffected: params.RowsAffected,
		IPAddress:    params.IPAddress,
		UserAgent:    params.UserAgent,
		CreatedAt:    a.now().UTC(),
	}

	if err := a.store.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Notify logs params and swallows any failure. The write is detached from
// ctx cancellation so a finished request still gets its entry.
func (a *AuditService) Notify(ctx context.Context, params AuditLogParams) {
	logger := logging.FromContext(ctx)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("audit notify panicked", "action", params.Action, "panic", r)
		}
	}()

	if _, err := a.Log(writeCtx, params); err != nil {
		logger.Warn("audit notify failed",
			slog.String("action", string(params.Action)),
			slog.String("subject", params.Subject),
			slog.Any("error", err),
		)
	}
}

// List returns entries matching filter, newest first.
func (a *AuditService) List(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error) {
	return a.store.List(ctx, filter)
}

// Count returns the number of entries matching filter.
func (a *AuditService) Count(ctx context.Context, filter AuditLogFilter) (int64, error) {
	return a.store.Count(ctx, filter)
}

// Purge deletes entries older than retention.
func (a *AuditService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return a.store.DeleteBefore(ctx, a.now().Add(-retention))
}
