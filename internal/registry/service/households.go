package service

import (
	"context"
	"errors"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/requestcontext"
)

func (s *Service) CreateHousehold(ctx context.Context, details models.HouseholdDetails) (*models.Household, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	h, err := models.NewHousehold(id.NewHouseholdID(), details, now, operatorID)
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.households.Create(ctx, h); err != nil {
			return wrapHouseholdErr(err, "create household")
		}
		return s.emit(ctx, audit.Household(h.ID), audit.ActionHouseholdCreated, map[string]string{
			"province": h.Province,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncHouseholdCreated()
	s.logger.InfoContext(ctx, "household registered",
		"household_id", h.ID,
		"operator_id", operatorID,
	)
	return h, nil
}

func (s *Service) GetHousehold(ctx context.Context, householdID id.HouseholdID) (*models.Household, error) {
	h, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		return nil, wrapHouseholdErr(err, "load household")
	}
	return h, nil
}

func (s *Service) ListHouseholds(ctx context.Context, filter models.HouseholdFilter, offset, limit int) ([]*models.Household, int, error) {
	households, total, err := s.households.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, wrapHouseholdErr(err, "list households")
	}
	return households, total, nil
}

// FindHouseholds returns the live households among ids keyed by id.
func (s *Service) FindHouseholds(ctx context.Context, ids []id.HouseholdID) (map[id.HouseholdID]*models.Household, error) {
	found, err := s.households.FindMany(ctx, ids)
	if err != nil {
		return nil, wrapHouseholdErr(err, "load households")
	}
	return found, nil
}

func (s *Service) UpdateHousehold(ctx context.Context, householdID id.HouseholdID, patch models.HouseholdPatch) (*models.Household, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	var updated *models.Household
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.households.Execute(ctx, householdID,
			func(h *models.Household) error {
				candidate := *h
				candidate.ApplyPatch(patch, now, operatorID)
				return candidate.Validate()
			},
			func(h *models.Household) {
				h.ApplyPatch(patch, now, operatorID)
			},
		)
		if err != nil {
			return wrapHouseholdErr(err, "update household")
		}
		return s.emit(ctx, audit.Household(householdID), audit.ActionHouseholdUpdated, nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteHousehold soft-deletes a household. Members keep their reference and
// score without household indicators until they are moved.
func (s *Service) DeleteHousehold(ctx context.Context, householdID id.HouseholdID) error {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		_, err := s.households.Execute(ctx, householdID, noValidation[models.Household],
			func(h *models.Household) {
				h.MarkDeleted(now, operatorID)
			},
		)
		if err != nil {
			return wrapHouseholdErr(err, "delete household")
		}
		return s.emit(ctx, audit.Household(householdID), audit.ActionHouseholdDeleted, nil)
	})
}

// AddMember links a person to a household. Moving a person out of a household
// they head clears that household's head.
func (s *Service) AddMember(ctx context.Context, householdID id.HouseholdID, personID id.PersonID) (*models.Person, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	var member *models.Person
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.households.FindByID(ctx, householdID); err != nil {
			return wrapHouseholdErr(err, "load household")
		}

		var previous *id.HouseholdID
		var err error
		member, err = s.persons.Execute(ctx, personID,
			func(p *models.Person) error {
				if p.BelongsTo(householdID) {
					return dErrors.New(dErrors.CodeConflict, "person is already a member of this household")
				}
				previous = p.HouseholdID
				return nil
			},
			func(p *models.Person) {
				p.ApplyHousehold(householdID, now, operatorID)
			},
		)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.FieldError("person_id", "person not found")
			}
			return wrapPersonErr(err, "add household member")
		}
		if previous != nil {
			if err := s.releaseHead(ctx, *previous, personID); err != nil {
				return err
			}
		}
		details := map[string]string{"person_id": personID.String()}
		if previous != nil {
			details["previous_household_id"] = previous.String()
		}
		return s.emit(ctx, audit.Household(householdID), audit.ActionMemberAdded, details)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// SetHead assigns the head of household. The person must already be a member.
func (s *Service) SetHead(ctx context.Context, householdID id.HouseholdID, personID id.PersonID) (*models.Household, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	var updated *models.Household
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		person, err := s.persons.FindByID(ctx, personID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.FieldError("person_id", "person not found")
			}
			return wrapPersonErr(err, "load person")
		}
		updated, err = s.households.Execute(ctx, householdID,
			func(h *models.Household) error {
				return h.CanSetHead(person)
			},
			func(h *models.Household) {
				h.ApplyHead(personID, now, operatorID)
			},
		)
		if err != nil {
			return wrapHouseholdErr(err, "set household head")
		}
		return s.emit(ctx, audit.Household(householdID), audit.ActionHeadAssigned, map[string]string{
			"person_id": personID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListMembers returns the live members of a live household.
func (s *Service) ListMembers(ctx context.Context, householdID id.HouseholdID) ([]*models.Person, error) {
	if _, err := s.households.FindByID(ctx, householdID); err != nil {
		return nil, wrapHouseholdErr(err, "load household")
	}
	members, err := s.persons.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, wrapPersonErr(err, "list household members")
	}
	return members, nil
}
