package core

import (
	"context"
	"fmt"
	"sort"
)

// RangeFinder is the read side of the record store used by the resolver.
type RangeFinder interface {
	FindByIdentifierAndRange(ctx context.Context, identifier string, start, end int) ([]QRRecord, error)
}

// Resolver answers range queries against a record store.
type Resolver struct {
	store RangeFinder
}

// NewResolver creates a resolver reading from store.
func NewResolver(store RangeFinder) *Resolver {
	return &Resolver{store: store}
}

// Resolve runs each query in order, one store read per query. Queries with
// no matching records are reported in UnmatchedQueries. The first store
// error aborts the whole request.
func (r *Resolver) Resolve(ctx context.Context, queries []RangeQuery) (*SearchResult, error) {
	result := &SearchResult{
		Matches:          make([]QRRecord, 0),
		UnmatchedQueries: make([]string, 0),
	}

	for _, q := range queries {
		records, err := r.store.FindByIdentifierAndRange(ctx, q.Identifier, q.Start, q.End)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", q.String(), err)
		}

		if len(records) == 0 {
			result.UnmatchedQueries = append(result.UnmatchedQueries, q.String())
			continue
		}

		sort.SliceStable(records, func(i, j int) bool {
			return records[i].SequenceNumber < records[j].SequenceNumber
		})
		result.Matches = append(result.Matches, records...)
	}

	return result, nil
}
