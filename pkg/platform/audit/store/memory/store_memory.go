package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "rsu/pkg/platform/audit"
)

type record struct {
	entry       audit.Entry
	publishedAt *time.Time
}

// InMemoryStore keeps entries in insertion order. It implements both
// audit.Store and audit.Outbox.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func (s *InMemoryStore) Append(_ context.Context, entry audit.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record{entry: entry})
	return nil
}

// List returns matching entries newest first.
func (s *InMemoryStore) List(_ context.Context, filter audit.Filter, offset, limit int) ([]audit.Entry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []audit.Entry
	for _, r := range s.records {
		if filter.Matches(r.entry) {
			matched = append(matched, r.entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := len(matched)
	if offset >= total {
		return []audit.Entry{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *InMemoryStore) FetchUnpublished(_ context.Context, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Entry
	for _, r := range s.records {
		if r.publishedAt != nil {
			continue
		}
		out = append(out, r.entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if _, ok := want[s.records[i].entry.ID]; ok && s.records[i].publishedAt == nil {
			t := at
			s.records[i].publishedAt = &t
		}
	}
	return nil
}
