package payment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded payment store. Records are kept by value.
type InMemory struct {
	mu          sync.RWMutex
	byID        map[id.PaymentID]models.Payment
	byReference map[string]id.PaymentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:        make(map[id.PaymentID]models.Payment),
		byReference: make(map[string]id.PaymentID),
	}
}

// Create inserts p. Returns ErrAlreadyUsed when the reference is taken.
func (s *InMemory) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byReference[p.Reference]; taken {
		return fmt.Errorf("payment reference %s: %w", p.Reference, sentinel.ErrAlreadyUsed)
	}
	s.byID[p.ID] = *p
	s.byReference[p.Reference] = p.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	return &p, nil
}

// List returns matching payments newest first along with the total match count.
func (s *InMemory) List(_ context.Context, filter models.PaymentFilter, offset, limit int) ([]*models.Payment, int, error) {
	matched := s.matching(filter)
	total := len(matched)
	if offset >= total {
		return []*models.Payment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// ListByProgram returns every payment of a program.
func (s *InMemory) ListByProgram(_ context.Context, programID id.ProgramID) ([]*models.Payment, error) {
	return s.matching(models.PaymentFilter{ProgramID: &programID}), nil
}

// All returns every payment. Used by in-memory analytics.
func (s *InMemory) All(_ context.Context) ([]*models.Payment, error) {
	return s.matching(models.PaymentFilter{}), nil
}

func (s *InMemory) matching(filter models.PaymentFilter) []*models.Payment {
	s.mu.RLock()
	matched := make([]*models.Payment, 0)
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
	return matched
}

// Execute runs validate then mutate on a copy under the write lock and stores
// the result.
func (s *InMemory) Execute(_ context.Context, paymentID id.PaymentID, validate func(*models.Payment) error, mutate func(*models.Payment)) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	mutate(&p)
	s.byID[paymentID] = p
	return &p, nil
}
