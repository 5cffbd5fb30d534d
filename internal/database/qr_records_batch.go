package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const insertQrRecord = `
INSERT INTO qr_records (identifier, sequence_number, label)
VALUES ($1, $2, $3)
ON CONFLICT (identifier, sequence_number) DO NOTHING
`

type InsertQrRecordParams struct {
	Identifier     string
	SequenceNumber int32
	Label          string
}

// InsertQrRecords queues every row in a single batch, which Postgres runs as
// one implicit transaction. Rows that collide with an existing key are
// skipped; written[i] reports whether args[i] was stored.
func (q *Queries) InsertQrRecords(ctx context.Context, args []InsertQrRecordParams) ([]bool, error) {
	if len(args) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, arg := range args {
		batch.Queue(insertQrRecord, arg.Identifier, arg.SequenceNumber, arg.Label)
	}

	results := q.db.SendBatch(ctx, batch)
	defer results.Close()

	written := make([]bool, len(args))
	for i := range args {
		tag, err := results.Exec()
		if err != nil {
			return nil, fmt.Errorf("insert qr record %d: %w", i, err)
		}
		written[i] = tag.RowsAffected() > 0
	}
	return written, nil
}
