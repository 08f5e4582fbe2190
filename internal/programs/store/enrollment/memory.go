package enrollment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

type pairKey struct {
	program id.ProgramID
	person  id.PersonID
}

// InMemory is a mutex-guarded enrollment store. Records are kept by value.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[id.EnrollmentID]models.Enrollment
	byPair map[pairKey]id.EnrollmentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.EnrollmentID]models.Enrollment),
		byPair: make(map[pairKey]id.EnrollmentID),
	}
}

// Create inserts e. Returns ErrAlreadyUsed when the person is already enrolled
// in the program.
func (s *InMemory) Create(_ context.Context, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{program: e.ProgramID, person: e.PersonID}
	if _, taken := s.byPair[key]; taken {
		return fmt.Errorf("enrollment for person %s in program %s: %w", e.PersonID, e.ProgramID, sentinel.ErrAlreadyUsed)
	}
	s.byID[e.ID] = *e
	s.byPair[key] = e.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[enrollmentID]
	if !ok {
		return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, sentinel.ErrNotFound)
	}
	return &e, nil
}

// List returns matching enrollments newest first along with the total match count.
func (s *InMemory) List(_ context.Context, filter models.EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int, error) {
	matched := s.matching(filter)
	total := len(matched)
	if offset >= total {
		return []*models.Enrollment{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// ListByProgram returns every enrollment of a program.
func (s *InMemory) ListByProgram(_ context.Context, programID id.ProgramID) ([]*models.Enrollment, error) {
	return s.matching(models.EnrollmentFilter{ProgramID: &programID}), nil
}

// All returns every enrollment. Used by in-memory analytics.
func (s *InMemory) All(_ context.Context) ([]*models.Enrollment, error) {
	return s.matching(models.EnrollmentFilter{}), nil
}

func (s *InMemory) matching(filter models.EnrollmentFilter) []*models.Enrollment {
	s.mu.RLock()
	matched := make([]*models.Enrollment, 0)
	for _, e := range s.byID {
		if filter.Matches(&e) {
			matched = append(matched, &e)
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
func (s *InMemory) Execute(_ context.Context, enrollmentID id.EnrollmentID, validate func(*models.Enrollment) error, mutate func(*models.Enrollment)) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[enrollmentID]
	if !ok {
		return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, sentinel.ErrNotFound)
	}
	if err := validate(&e); err != nil {
		return nil, err
	}
	mutate(&e)
	s.byID[enrollmentID] = e
	return &e, nil
}
