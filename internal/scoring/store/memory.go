// Package store persists vulnerability assessments. Assessments are
// append-only: stores never update or delete a row.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rsu/internal/scoring"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

// InMemory keeps each person's assessments in append order.
type InMemory struct {
	mu       sync.RWMutex
	byPerson map[id.PersonID][]scoring.Assessment
}

func NewInMemory() *InMemory {
	return &InMemory{byPerson: make(map[id.PersonID][]scoring.Assessment)}
}

func (s *InMemory) Append(_ context.Context, a *scoring.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPerson[a.PersonID] = append(s.byPerson[a.PersonID], clone(a))
	return nil
}

// Latest returns the most recent assessment of a person.
func (s *InMemory) Latest(_ context.Context, personID id.PersonID) (*scoring.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.latestLocked(personID)
	if !ok {
		return nil, fmt.Errorf("assessment for person %s: %w", personID, sentinel.ErrNotFound)
	}
	return a, nil
}

// History returns every assessment of a person, newest first.
func (s *InMemory) History(_ context.Context, personID id.PersonID) ([]*scoring.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.byPerson[personID]
	out := make([]*scoring.Assessment, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		a := clone(&entries[i])
		out = append(out, &a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AssessedAt.After(out[j].AssessedAt)
	})
	return out, nil
}

// LatestForPersons returns the latest assessment of each listed person that
// has one.
func (s *InMemory) LatestForPersons(_ context.Context, ids []id.PersonID) (map[id.PersonID]*scoring.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.PersonID]*scoring.Assessment, len(ids))
	for _, personID := range ids {
		if a, ok := s.latestLocked(personID); ok {
			out[personID] = a
		}
	}
	return out, nil
}

// ListLatest pages over the latest assessment of every person, highest score
// first.
func (s *InMemory) ListLatest(ctx context.Context, filter scoring.AssessmentFilter, offset, limit int) ([]*scoring.Assessment, int, error) {
	all, err := s.AllLatest(ctx)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]*scoring.Assessment, 0, len(all))
	for _, a := range all {
		if filter.Tier == "" || a.Tier == filter.Tier {
			matched = append(matched, a)
		}
	}
	total := len(matched)
	if offset >= total {
		return []*scoring.Assessment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// AllLatest returns the latest assessment of every assessed person.
func (s *InMemory) AllLatest(_ context.Context) ([]*scoring.Assessment, error) {
	s.mu.RLock()
	out := make([]*scoring.Assessment, 0, len(s.byPerson))
	for personID := range s.byPerson {
		if a, ok := s.latestLocked(personID); ok {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PersonID.String() < out[j].PersonID.String()
	})
	return out, nil
}

func (s *InMemory) latestLocked(personID id.PersonID) (*scoring.Assessment, bool) {
	entries := s.byPerson[personID]
	if len(entries) == 0 {
		return nil, false
	}
	latest := 0
	for i := range entries {
		if !entries[i].AssessedAt.Before(entries[latest].AssessedAt) {
			latest = i
		}
	}
	a := clone(&entries[latest])
	return &a, true
}

func clone(a *scoring.Assessment) scoring.Assessment {
	c := *a
	c.MissingComponents = append([]string(nil), a.MissingComponents...)
	if a.HouseholdID != nil {
		hid := *a.HouseholdID
		c.HouseholdID = &hid
	}
	return c
}
