package adapters

import (
	"context"
	"errors"
	"fmt"

	"rsu/internal/eligibility/ports"
	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

type personFinder interface {
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	FindMany(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*models.Person, error)
}

type householdFinder interface {
	FindByID(ctx context.Context, householdID id.HouseholdID) (*models.Household, error)
	FindMany(ctx context.Context, ids []id.HouseholdID) (map[id.HouseholdID]*models.Household, error)
}

// RegistryAdapter implements ports.RegistryPort over the registry stores.
type RegistryAdapter struct {
	persons    personFinder
	households householdFinder
}

func NewRegistryAdapter(persons personFinder, households householdFinder) *RegistryAdapter {
	return &RegistryAdapter{persons: persons, households: households}
}

func (a *RegistryAdapter) Person(ctx context.Context, personID id.PersonID) (*ports.PersonRecord, error) {
	p, err := a.persons.FindByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	rec := toRecord(p)
	if p.HouseholdID == nil {
		return rec, nil
	}
	h, err := a.households.FindByID(ctx, *p.HouseholdID)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load household: %w", err)
	case !h.IsDeleted():
		rec.HouseholdSize = h.Size
	}
	return rec, nil
}

func (a *RegistryAdapter) People(ctx context.Context, personIDs []id.PersonID) (map[id.PersonID]*ports.PersonRecord, error) {
	persons, err := a.persons.FindMany(ctx, personIDs)
	if err != nil {
		return nil, err
	}
	householdIDs := make([]id.HouseholdID, 0, len(persons))
	for _, p := range persons {
		if p.HouseholdID != nil {
			householdIDs = append(householdIDs, *p.HouseholdID)
		}
	}
	households, err := a.households.FindMany(ctx, householdIDs)
	if err != nil {
		return nil, fmt.Errorf("load households: %w", err)
	}

	out := make(map[id.PersonID]*ports.PersonRecord, len(persons))
	for personID, p := range persons {
		rec := toRecord(p)
		if p.HouseholdID != nil {
			if h, ok := households[*p.HouseholdID]; ok && !h.IsDeleted() {
				rec.HouseholdSize = h.Size
			}
		}
		out[personID] = rec
	}
	return out, nil
}

func toRecord(p *models.Person) *ports.PersonRecord {
	return &ports.PersonRecord{
		PersonID:  p.ID,
		BirthDate: p.BirthDate,
		Gender:    string(p.Gender),
		Province:  p.Province,
	}
}
