package core

import (
	"context"
	"sort"
	"sync"
	"time"
)

type recordKey struct {
	identifier string
	seq        int
}

// MemoryRecordStore is an in-process RecordStore for tests and local runs.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[recordKey]QRRecord
	now     func() time.Time
}

// NewMemoryRecordStore creates a store preloaded with records. Preloaded
// records with a duplicate key overwrite earlier ones.
func NewMemoryRecordStore(records ...QRRecord) *MemoryRecordStore {
	s := &MemoryRecordStore{
		records: make(map[recordKey]QRRecord, len(records)),
		now:     time.Now,
	}
	for _, rec := range records {
		s.records[recordKey{rec.Identifier, rec.SequenceNumber}] = rec
	}
	return s
}

func (s *MemoryRecordStore) FindByIdentifierAndRange(_ context.Context, identifier string, start, end int) ([]QRRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []QRRecord
	for k, rec := range s.records {
		if k.identifier == identifier && k.seq >= start && k.seq <= end {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *MemoryRecordStore) ExistsByIdentifierAndSequence(_ context.Context, identifier string, seq int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[recordKey{identifier, seq}]
	return ok, nil
}

// InsertMany skips keys that already exist, matching the Postgres store,
// and returns the skipped records.
func (s *MemoryRecordStore) InsertMany(_ context.Context, records []QRRecord) ([]QRRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var skipped []QRRecord
	for _, rec := range records {
		k := recordKey{rec.Identifier, rec.SequenceNumber}
		if _, exists := s.records[k]; exists {
			skipped = append(skipped, rec)
			continue
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = s.now()
		}
		s.records[k] = rec
	}
	return skipped, nil
}

func (s *MemoryRecordStore) List(_ context.Context, filter RecordFilter) ([]QRRecord, error) {
	filter = filter.normalized()
	all := s.filtered(filter.Identifier)

	if filter.Offset >= len(all) {
		return []QRRecord{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], nil
}

func (s *MemoryRecordStore) Count(_ context.Context, filter RecordFilter) (int64, error) {
	return int64(len(s.filtered(filter.Identifier))), nil
}

func (s *MemoryRecordStore) Delete(_ context.Context, identifier string, seq int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := recordKey{identifier, seq}
	if _, ok := s.records[k]; !ok {
		return false, nil
	}
	delete(s.records, k)
	return true, nil
}

func (s *MemoryRecordStore) DeleteByIdentifier(_ context.Context, identifier string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for k := range s.records {
		if k.identifier == identifier {
			delete(s.records, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryRecordStore) filtered(identifier string) []QRRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]QRRecord, 0, len(s.records))
	for k, rec := range s.records {
		if identifier == "" || k.identifier == identifier {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out
}

func sortRecords(records []QRRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Identifier != records[j].Identifier {
			return records[i].Identifier < records[j].Identifier
		}
		return records[i].SequenceNumber < records[j].SequenceNumber
	})
}

// MemoryAuditStore is an in-process AuditStore.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	entries []AuditEntry
}

// NewMemoryAuditStore creates an empty audit store.
func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{}
}

func (s *MemoryAuditStore) Insert(_ context.Context, entry AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryAuditStore) List(_ context.Context, filter AuditLogFilter) ([]AuditEntry, error) {
	filter = filter.normalized()
	matched := s.matching(filter)

	if filter.Offset >= len(matched) {
		return []AuditEntry{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (s *MemoryAuditStore) Count(_ context.Context, filter AuditLogFilter) (int64, error) {
	return int64(len(s.matching(filter.normalized()))), nil
}

func (s *MemoryAuditStore) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

// matching returns entries newest first.
func (s *MemoryAuditStore) matching(filter AuditLogFilter) []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AuditEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if e.CreatedAt.Before(filter.StartTime) || e.CreatedAt.After(filter.EndTime) {
			continue
		}
		out = append(out, e)
	}
	return out
}
