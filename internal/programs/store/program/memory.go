package program

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded program store. Records are kept by value.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[id.ProgramID]models.Program
	byCode map[string]id.ProgramID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.ProgramID]models.Program),
		byCode: make(map[string]id.ProgramID),
	}
}

// Create inserts p. Returns ErrAlreadyUsed when the code is taken.
func (s *InMemory) Create(_ context.Context, p *models.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCode[p.Code]; taken {
		return fmt.Errorf("program code %s: %w", p.Code, sentinel.ErrAlreadyUsed)
	}
	s.byID[p.ID] = *p
	s.byCode[p.Code] = p.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, programID id.ProgramID) (*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[programID]
	if !ok {
		return nil, fmt.Errorf("program %s: %w", programID, sentinel.ErrNotFound)
	}
	return &p, nil
}

// List returns matching programs newest first along with the total match count.
func (s *InMemory) List(_ context.Context, filter models.ProgramFilter, offset, limit int) ([]*models.Program, int, error) {
	s.mu.RLock()
	matched := make([]*models.Program, 0)
	for _, p := range s.byID {
		if filter.Matches(&p) {
			matched = append(matched, &p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if offset >= total {
		return []*models.Program{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// All returns every program. Used by in-memory analytics.
func (s *InMemory) All(_ context.Context) ([]*models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Program, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, &p)
	}
	return out, nil
}

// Execute runs validate then mutate on a copy under the write lock and stores
// the result.
func (s *InMemory) Execute(_ context.Context, programID id.ProgramID, validate func(*models.Program) error, mutate func(*models.Program)) (*models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[programID]
	if !ok {
		return nil, fmt.Errorf("program %s: %w", programID, sentinel.ErrNotFound)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	mutate(&p)
	s.byID[programID] = p
	return &p, nil
}
