package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

type EnrollmentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *EnrollmentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestEnrollmentStoreSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentStoreSuite))
}

func (s *EnrollmentStoreSuite) TestCreateRejectsDuplicatePair() {
	programID := id.NewProgramID()
	personID := id.NewPersonID()
	first := models.NewEnrollment(id.NewEnrollmentID(), programID, personID, 70, "", s.now, id.NewOperatorID())
	s.Require().NoError(s.store.Create(s.ctx, first))

	dup := models.NewEnrollment(id.NewEnrollmentID(), programID, personID, 70, "", s.now, id.NewOperatorID())
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrAlreadyUsed)

	other := models.NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), personID, 70, "", s.now, id.NewOperatorID())
	s.NoError(s.store.Create(s.ctx, other))
}

func (s *EnrollmentStoreSuite) TestListAndFilters() {
	programID := id.NewProgramID()
	personID := id.NewPersonID()
	a := models.NewEnrollment(id.NewEnrollmentID(), programID, personID, 70, "", s.now, id.NewOperatorID())
	b := models.NewEnrollment(id.NewEnrollmentID(), programID, id.NewPersonID(), 40, "", s.now.Add(time.Minute), id.NewOperatorID())
	b.ApplyReject("score", s.now)
	c := models.NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), personID, 90, "", s.now.Add(2*time.Minute), id.NewOperatorID())
	for _, e := range []*models.Enrollment{a, b, c} {
		s.Require().NoError(s.store.Create(s.ctx, e))
	}

	s.Run("by program", func() {
		page, total, err := s.store.List(s.ctx, models.EnrollmentFilter{ProgramID: &programID}, 0, 20)
		s.Require().NoError(err)
		s.Equal(2, total)
		s.Equal(b.ID, page[0].ID)
	})

	s.Run("by person", func() {
		_, total, err := s.store.List(s.ctx, models.EnrollmentFilter{PersonID: &personID}, 0, 20)
		s.Require().NoError(err)
		s.Equal(2, total)
	})

	s.Run("by status", func() {
		page, total, err := s.store.List(s.ctx, models.EnrollmentFilter{Status: models.EnrollmentRejected}, 0, 20)
		s.Require().NoError(err)
		s.Equal(1, total)
		s.Equal(b.ID, page[0].ID)
	})

	s.Run("list by program", func() {
		all, err := s.store.ListByProgram(s.ctx, programID)
		s.Require().NoError(err)
		s.Len(all, 2)
	})
}

func (s *EnrollmentStoreSuite) TestExecute() {
	e := models.NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), id.NewPersonID(), 70, "", s.now, id.NewOperatorID())
	s.Require().NoError(s.store.Create(s.ctx, e))

	updated, err := s.store.Execute(s.ctx, e.ID,
		func(e *models.Enrollment) error { return e.CanApprove() },
		func(e *models.Enrollment) { e.ApplyApprove("", s.now) },
	)
	s.Require().NoError(err)
	s.Equal(models.EnrollmentApproved, updated.Status)

	_, err = s.store.Execute(s.ctx, e.ID,
		func(e *models.Enrollment) error { return e.CanApprove() },
		func(e *models.Enrollment) { e.ApplyApprove("", s.now) },
	)
	s.Error(err)

	_, err = s.store.Execute(s.ctx, id.NewEnrollmentID(),
		func(*models.Enrollment) error { return nil },
		func(*models.Enrollment) {},
	)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
