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

// CreatePerson registers a person and assigns a fresh RSU-ID.
// A referenced household must exist.
func (s *Service) CreatePerson(ctx context.Context, details models.PersonDetails) (*models.Person, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	var created *models.Person
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if details.HouseholdID != nil {
			if err := s.requireHousehold(ctx, *details.HouseholdID); err != nil {
				return err
			}
		}
		for attempt := 1; ; attempt++ {
			p, err := models.NewPerson(id.NewPersonID(), id.NewRSUID(now), details, now, operatorID)
			if err != nil {
				return err
			}
			err = s.persons.Create(ctx, p)
			if errors.Is(err, sentinel.ErrAlreadyUsed) && attempt < maxRSUIDAttempts {
				s.metrics.IncRSUIDCollision()
				continue
			}
			if err != nil {
				return wrapPersonErr(err, "create person")
			}
			created = p
			break
		}
		return s.emit(ctx, audit.Person(created.ID), audit.ActionPersonCreated, map[string]string{
			"rsu_id": created.RSUID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPersonCreated()
	s.logger.InfoContext(ctx, "person registered",
		"person_id", created.ID,
		"rsu_id", created.RSUID,
		"operator_id", operatorID,
	)
	return created, nil
}

func (s *Service) GetPerson(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	p, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		return nil, wrapPersonErr(err, "load person")
	}
	return p, nil
}

func (s *Service) GetPersonByRSUID(ctx context.Context, rsuID id.RSUID) (*models.Person, error) {
	p, err := s.persons.FindByRSUID(ctx, rsuID)
	if err != nil {
		return nil, wrapPersonErr(err, "load person")
	}
	return p, nil
}

// ListPersons returns one page of live persons and the total match count.
func (s *Service) ListPersons(ctx context.Context, filter models.PersonFilter, offset, limit int) ([]*models.Person, int, error) {
	persons, total, err := s.persons.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, wrapPersonErr(err, "list persons")
	}
	return persons, total, nil
}

// FindPersons returns the live persons among ids keyed by id.
func (s *Service) FindPersons(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*models.Person, error) {
	found, err := s.persons.FindMany(ctx, ids)
	if err != nil {
		return nil, wrapPersonErr(err, "load persons")
	}
	return found, nil
}

// UpdatePerson applies a partial update. The patched record must still satisfy
// the person invariants.
func (s *Service) UpdatePerson(ctx context.Context, personID id.PersonID, patch models.PersonPatch) (*models.Person, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	var updated *models.Person
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.persons.Execute(ctx, personID,
			func(p *models.Person) error {
				candidate := *p
				candidate.ApplyPatch(patch, now, operatorID)
				return candidate.Validate(now)
			},
			func(p *models.Person) {
				p.ApplyPatch(patch, now, operatorID)
			},
		)
		if err != nil {
			return wrapPersonErr(err, "update person")
		}
		return s.emit(ctx, audit.Person(personID), audit.ActionPersonUpdated, nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePerson soft-deletes a person. A deleted head of household is removed
// from the household's head slot.
func (s *Service) DeletePerson(ctx context.Context, personID id.PersonID) error {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		deleted, err := s.persons.Execute(ctx, personID, noValidation[models.Person],
			func(p *models.Person) {
				p.MarkDeleted(now, operatorID)
			},
		)
		if err != nil {
			return wrapPersonErr(err, "delete person")
		}
		if deleted.HouseholdID != nil {
			if err := s.releaseHead(ctx, *deleted.HouseholdID, personID); err != nil {
				return err
			}
		}
		return s.emit(ctx, audit.Person(personID), audit.ActionPersonDeleted, map[string]string{
			"rsu_id": deleted.RSUID.String(),
		})
	})
	if err != nil {
		return err
	}

	s.metrics.IncPersonDeleted()
	s.logger.InfoContext(ctx, "person deleted",
		"person_id", personID,
		"operator_id", operatorID,
	)
	return nil
}

// VerifyIdentity records that the person's identity document has been checked.
func (s *Service) VerifyIdentity(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	var verified *models.Person
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		verified, err = s.persons.Execute(ctx, personID,
			func(p *models.Person) error {
				return p.CanVerifyIdentity()
			},
			func(p *models.Person) {
				p.ApplyIdentityVerification(now, operatorID)
			},
		)
		if err != nil {
			return wrapPersonErr(err, "verify identity")
		}
		return s.emit(ctx, audit.Person(personID), audit.ActionIdentityVerified, nil)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncIdentityVerified()
	return verified, nil
}

func (s *Service) requireHousehold(ctx context.Context, householdID id.HouseholdID) error {
	if _, err := s.households.FindByID(ctx, householdID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.FieldError("household_id", "household not found")
		}
		return wrapHouseholdErr(err, "load household")
	}
	return nil
}

// releaseHead clears personID from the head slot of householdID if it holds it.
// A missing household is not an error.
func (s *Service) releaseHead(ctx context.Context, householdID id.HouseholdID, personID id.PersonID) error {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)
	_, err := s.households.Execute(ctx, householdID,
		func(h *models.Household) error {
			if h.HeadID == nil || *h.HeadID != personID {
				return errHeadUnchanged
			}
			return nil
		},
		func(h *models.Household) {
			h.ClearHeadIf(personID, now, operatorID)
		},
	)
	if err == nil || errors.Is(err, errHeadUnchanged) || errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	return wrapHouseholdErr(err, "release household head")
}

var errHeadUnchanged = errors.New("head unchanged")
