package core

// scheduler.go runs audit log retention in the background. Failures are
// logged and retried on the next tick; they never stop the scheduler.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds configuration for the audit retention job.
type RetentionConfig struct {
	RetentionDays int           // Entries older than this are deleted (default: 365)
	CheckInterval time.Duration // How often to run (default: 24h)
}

func (c RetentionConfig) withDefaults() RetentionConfig {
	if c.RetentionDays <= 0 {
		c.RetentionDays = 365
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = 24 * time.Hour
	}
	return c
}

// StartRetentionScheduler purges old audit entries immediately and then
// every CheckInterval until ctx is cancelled. It blocks; run it in a
// goroutine.
func (a *AuditService) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	cfg = cfg.withDefaults()

	slog.Info("audit retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval.String(),
	)

	a.runRetentionJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention scheduler stopped")
			return
		case <-ticker.C:
			a.runRetentionJob(ctx, cfg)
		}
	}
}

func (a *AuditService) runRetentionJob(ctx context.Context, cfg RetentionConfig) {
	start := time.Now()
	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour

	purged, err := a.Purge(ctx, retention)
	if err != nil {
		slog.Error("audit purge failed", "error", err)
		return
	}

	slog.Info("audit purge completed",
		"entries_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if purged > 0 {
		a.Notify(ctx, AuditLogParams{
			Action:       ActionAuditPurge,
			Subject:      "audit_log",
			RowsAffected: int(purged),
			Summary:      "Purged audit entries older than retention window",
		})
	}
}
