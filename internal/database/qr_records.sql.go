package database

import (
	"context"
)

const findQrRecordsInRange = `-- name: FindQrRecordsInRange :many
SELECT identifier, sequence_number, label, created_at FROM qr_records
WHERE identifier = $1 AND sequence_number BETWEEN $2 AND $3
ORDER BY sequence_number
`

type FindQrRecordsInRangeParams struct {
	Identifier string
	Start      int32
	End        int32
}

func (q *Queries) FindQrRecordsInRange(ctx context.Context, arg FindQrRecordsInRangeParams) ([]QrRecord, error) {
	rows, err := q.db.Query(ctx, findQrRecordsInRange, arg.Identifier, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QrRecord
	for rows.Next() {
		var i QrRecord
		if err := rows.Scan(
			&i.Identifier,
			&i.SequenceNumber,
			&i.Label,
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

const qrRecordExists = `-- name: QrRecordExists :one
SELECT EXISTS (
    SELECT 1 FROM qr_records WHERE identifier = $1 AND sequence_number = $2
)
`

type QrRecordExistsParams struct {
	Identifier     string
	SequenceNumber int32
}

func (q *Queries) QrRecordExists(ctx context.Context, arg QrRecordExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, qrRecordExists, arg.Identifier, arg.SequenceNumber)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listQrRecords = `-- name: ListQrRecords :many
SELECT identifier, sequence_number, label, created_at FROM qr_records
WHERE ($1::text = '' OR identifier = $1)
ORDER BY identifier, sequence_number
LIMIT $2 OFFSET $3
`

type ListQrRecordsParams struct {
	Identifier string
	Limit      int32
	Offset     int32
}

func (q *Queries) ListQrRecords(ctx context.Context, arg ListQrRecordsParams) ([]QrRecord, error) {
	rows, err := q.db.Query(ctx, listQrRecords, arg.Identifier, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QrRecord
	for rows.Next() {
		var i QrRecord
		if err := rows.Scan(
			&i.Identifier,
			&i.SequenceNumber,
			&i.Label,
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

const countQrRecords = `-- name: CountQrRecords :one
SELECT COUNT(*) FROM qr_records
WHERE ($1::text = '' OR identifier = $1)
`

func (q *Queries) CountQrRecords(ctx context.Context, identifier string) (int64, error) {
	row := q.db.QueryRow(ctx, countQrRecords, identifier)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteQrRecord = `-- name: DeleteQrRecord :execrows
DELETE FROM qr_records WHERE identifier = $1 AND sequence_number = $2
`

type DeleteQrRecordParams struct {
	Identifier     string
	SequenceNumber int32
}

func (q *Queries) DeleteQrRecord(ctx context.Context, arg DeleteQrRecordParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQrRecord, arg.Identifier, arg.SequenceNumber)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteQrRecordsByIdentifier = `-- name: DeleteQrRecordsByIdentifier :execrows
DELETE FROM qr_records WHERE identifier = $1
`

func (q *Queries) DeleteQrRecordsByIdentifier(ctx context.Context, identifier string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteQrRecordsByIdentifier, identifier)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
