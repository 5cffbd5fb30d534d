package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type QrRecord struct {
	Identifier     string
	SequenceNumber int32
	Label          string
	CreatedAt      pgtype.Timestamptz
}

type AuditLog struct {
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
