package person

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded person store for tests and database-less runs.
// Records are stored and returned by value so callers cannot mutate state
// outside Execute.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[id.PersonID]models.Person
	byRSU map[id.RSUID]id.PersonID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[id.PersonID]models.Person),
		byRSU: make(map[id.RSUID]id.PersonID),
	}
}

// Create inserts p. Returns ErrAlreadyUsed when the RSU-ID is taken.
func (s *InMemory) Create(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byRSU[p.RSUID]; taken {
		return fmt.Errorf("rsu_id %s: %w", p.RSUID, sentinel.ErrAlreadyUsed)
	}
	s.byID[p.ID] = *p
	s.byRSU[p.RSUID] = p.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[personID]
	if !ok || p.IsDeleted() {
		return nil, fmt.Errorf("person %s: %w", personID, sentinel.ErrNotFound)
	}
	return &p, nil
}

func (s *InMemory) FindByRSUID(ctx context.Context, rsuID id.RSUID) (*models.Person, error) {
	s.mu.RLock()
	personID, ok := s.byRSU[rsuID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("person %s: %w", rsuID, sentinel.ErrNotFound)
	}
	return s.FindByID(ctx, personID)
}

// FindMany returns the live persons among ids. Unknown ids are omitted.
func (s *InMemory) FindMany(_ context.Context, ids []id.PersonID) (map[id.PersonID]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.PersonID]*models.Person, len(ids))
	for _, personID := range ids {
		if p, ok := s.byID[personID]; ok && !p.IsDeleted() {
			out[personID] = &p
		}
	}
	return out, nil
}

// List returns matching persons newest first along with the total match count.
func (s *InMemory) List(_ context.Context, filter models.PersonFilter, offset, limit int) ([]*models.Person, int, error) {
	s.mu.RLock()
	matched := make([]*models.Person, 0)
	for _, p := range s.byID {
		if filter.Matches(&p) {
			matched = append(matched, &p)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(matched)
	total := len(matched)
	if offset >= total {
		return []*models.Person{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// ListByHousehold returns the live members of a household, oldest record first.
func (s *InMemory) ListByHousehold(_ context.Context, householdID id.HouseholdID) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0)
	for _, p := range s.byID {
		if !p.IsDeleted() && p.BelongsTo(householdID) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// All returns every live person. Used by in-memory analytics.
func (s *InMemory) All(_ context.Context) ([]*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0, len(s.byID))
	for _, p := range s.byID {
		if !p.IsDeleted() {
			out = append(out, &p)
		}
	}
	return out, nil
}

// Execute runs validate then mutate on a copy of the person under the write lock
// and stores the result. Soft-deleted persons are not found.
func (s *InMemory) Execute(_ context.Context, personID id.PersonID, validate func(*models.Person) error, mutate func(*models.Person)) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[personID]
	if !ok || p.IsDeleted() {
		return nil, fmt.Errorf("person %s: %w", personID, sentinel.ErrNotFound)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	mutate(&p)
	s.byID[personID] = p
	return &p, nil
}

func sortNewestFirst(persons []*models.Person) {
	sort.Slice(persons, func(i, j int) bool {
		if persons[i].CreatedAt.Equal(persons[j].CreatedAt) {
			return persons[i].ID.String() < persons[j].ID.String()
		}
		return persons[i].CreatedAt.After(persons[j].CreatedAt)
	})
}
