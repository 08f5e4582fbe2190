package household

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded household store.
type InMemory struct {
	mu         sync.RWMutex
	households map[id.HouseholdID]models.Household
}

func NewInMemory() *InMemory {
	return &InMemory{households: make(map[id.HouseholdID]models.Household)}
}

func (s *InMemory) Create(_ context.Context, h *models.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.households[h.ID]; exists {
		return fmt.Errorf("household %s: %w", h.ID, sentinel.ErrAlreadyUsed)
	}
	s.households[h.ID] = *h
	return nil
}

func (s *InMemory) FindByID(_ context.Context, householdID id.HouseholdID) (*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.households[householdID]
	if !ok || h.IsDeleted() {
		return nil, fmt.Errorf("household %s: %w", householdID, sentinel.ErrNotFound)
	}
	return &h, nil
}

func (s *InMemory) FindMany(_ context.Context, ids []id.HouseholdID) (map[id.HouseholdID]*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.HouseholdID]*models.Household, len(ids))
	for _, householdID := range ids {
		if h, ok := s.households[householdID]; ok && !h.IsDeleted() {
			out[householdID] = &h
		}
	}
	return out, nil
}

func (s *InMemory) List(_ context.Context, filter models.HouseholdFilter, offset, limit int) ([]*models.Household, int, error) {
	s.mu.RLock()
	matched := make([]*models.Household, 0)
	for _, h := range s.households {
		if filter.Matches(&h) {
			matched = append(matched, &h)
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
		return []*models.Household{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// All returns every live household.
func (s *InMemory) All(_ context.Context) ([]*models.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Household, 0, len(s.households))
	for _, h := range s.households {
		if !h.IsDeleted() {
			out = append(out, &h)
		}
	}
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, householdID id.HouseholdID, validate func(*models.Household) error, mutate func(*models.Household)) (*models.Household, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.households[householdID]
	if !ok || h.IsDeleted() {
		return nil, fmt.Errorf("household %s: %w", householdID, sentinel.ErrNotFound)
	}
	if err := validate(&h); err != nil {
		return nil, err
	}
	mutate(&h)
	s.households[householdID] = h
	return &h, nil
}
