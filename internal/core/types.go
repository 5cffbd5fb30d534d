package core

import (
	"fmt"
	"time"
)

// QRRecord is one printed QR label: a port under a device identifier.
// The pair (Identifier, SequenceNumber) is unique across the store.
type QRRecord struct {
	Identifier     string    `json:"identifier"`
	SequenceNumber int       `json:"sequenceNumber"`
	Label          string    `json:"label"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// Key renders the record's unique key the way operators type it.
func (r QRRecord) Key() string {
	return fmt.Sprintf("%s %d", r.Identifier, r.SequenceNumber)
}

// RangeQuery selects the sequence numbers Start..End (inclusive) under one
// identifier. It only lives for the duration of a request.
type RangeQuery struct {
	Identifier string `json:"identifier" validate:"required"`
	Start      int    `json:"start" validate:"min=1"`
	End        int    `json:"end" validate:"gtefield=Start"`
}

// String formats the query as "<identifier> <start>-<end>". This is the text
// reported back for unmatched queries.
func (q RangeQuery) String() string {
	return fmt.Sprintf("%s %d-%d", q.Identifier, q.Start, q.End)
}

// SearchResult is the outcome of resolving a list of range queries.
// Matches keep per-query ascending order; queries are processed in input
// order and overlapping ranges are not deduplicated.
type SearchResult struct {
	Matches          []QRRecord `json:"matches"`
	UnmatchedQueries []string   `json:"unmatchedQueries"`
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	FileName      string        `json:"fileName"`
	Inserted      int           `json:"insertedCount"`
	Duplicates    int           `json:"duplicateCount"`
	DuplicateKeys []string      `json:"-"`
	Duration      time.Duration `json:"-"`
}

// RecordFilter narrows record listings.
type RecordFilter struct {
	Identifier string
	Limit      int
	Offset     int
}

// DefaultPageSize is used when a listing does not specify a limit.
const DefaultPageSize = 100

// MaxPageSize caps listing limits.
const MaxPageSize = 1000

func (f RecordFilter) normalized() RecordFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
