package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertAuditLog = `-- name: InsertAuditLog :one
INSERT INTO audit_log (
    id, action, severity, subject, summary, rows_affected, ip_address, user_agent, created_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
RETURNING id, action, severity, subject, summary, rows_affected, ip_address, user_agent, created_at
`

type InsertAuditLogParams struct {
	ID           pgtype.UUID
	Action       string
	Severity     string
	Subject      string
	Summary      pgtype.Text
	RowsAffected pgtype.Int4
	IpAddress    pgtype.Text
	UserAgent    pgtype.Text
	CreatedAt    pgtype.Timestamptz
}

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) (AuditLog, error) {
	row := q.db.QueryRow(ctx, insertAuditLog,
		arg.ID,
		arg.Action,
		arg.Severity,
		arg.Subject,
		arg.Summary,
		arg.RowsAffected,
		arg.IpAddress,
		arg.UserAgent,
		arg.CreatedAt,
	)
	var i AuditLog
	err := row.Scan(
		&i.ID,
		&i.Action,
		&i.Severity,
		&i.Subject,
		&i.Summary,
		&i.RowsAffected,
		&i.IpAddress,
		&i.UserAgent,
		&i.CreatedAt,
	)
	return i, err
}

const listAuditLog = `-- name: ListAuditLog :many
SELECT id, action, severity, subject, summary, rows_affected, ip_address, user_agent, created_at FROM audit_log
WHERE ($1::text = '' OR action = $1)
  AND created_at >= $2
  AND created_at <= $3
ORDER BY created_at DESC
LIMIT $4 OFFSET $5
`

type ListAuditLogParams struct {
	Action        string
	CreatedAfter  pgtype.Timestamptz
	CreatedBefore pgtype.Timestamptz
	Limit         int32
	Offset        int32
}

func (q *Queries) ListAuditLog(ctx context.Context, arg ListAuditLogParams) ([]AuditLog, error) {
	rows, err := q.db.Query(ctx, listAuditLog,
		arg.Action,
		arg.CreatedAfter,
		arg.CreatedBefore,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AuditLog
	for rows.Next() {
		var i AuditLog
		if err := rows.Scan(
			&i.ID,
			&i.Action,
			&i.Severity,
			&i.Subject,
			&i.Summary,
			&i.RowsAffected,
			&i.IpAddress,
			&i.UserAgent,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countAuditLog = `-- name: CountAuditLog :one
SELECT COUNT(*) FROM audit_log
WHERE ($1::text = '' OR action = $1)
  AND created_at >= $2
  AND created_at <= $3
`

type CountAuditLogParams struct {
	Action        string
	CreatedAfter  pgtype.Timestamptz
	CreatedBefore pgtype.Timestamptz
}

func (q *Queries) CountAuditLog(ctx context.Context, arg CountAuditLogParams) (int64, error) {
	row := q.db.QueryRow(ctx, countAuditLog, arg.Action, arg.CreatedAfter, arg.CreatedBefore)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAuditLogBefore = `-- name: DeleteAuditLogBefore :execrows
DELETE FROM audit_log WHERE created_at < $1
`

func (q *Queries) DeleteAuditLogBefore(ctx context.Context, before pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAuditLogBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
