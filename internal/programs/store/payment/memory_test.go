package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

type PaymentStoreSuite struct {
	suite.Suite
	store      *InMemory
	ctx        context.Context
	now        time.Time
	enrollment *models.Enrollment
}

func (s *PaymentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s.enrollment = models.NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), id.NewPersonID(), 80, "", s.now, id.NewOperatorID())
}

func TestPaymentStoreSuite(t *testing.T) {
	suite.Run(t, new(PaymentStoreSuite))
}

func (s *PaymentStoreSuite) newPayment(amount int64, at time.Time) *models.Payment {
	p, err := models.NewPayment(id.NewPaymentID(), s.enrollment, amount, nil, at, id.NewOperatorID())
	s.Require().NoError(err)
	return p
}

func (s *PaymentStoreSuite) TestCreateRejectsDuplicateReference() {
	p := s.newPayment(100, s.now)
	s.Require().NoError(s.store.Create(s.ctx, p))

	dup := s.newPayment(100, s.now)
	dup.Reference = p.Reference
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrAlreadyUsed)
}

func (s *PaymentStoreSuite) TestListByProgramAndStatus() {
	pending := s.newPayment(100, s.now)
	processing := s.newPayment(200, s.now.Add(time.Minute))
	processing.ApplyProcess(s.now)
	elsewhere, err := models.NewPayment(id.NewPaymentID(),
		models.NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), id.NewPersonID(), 80, "", s.now, id.NewOperatorID()),
		300, nil, s.now, id.NewOperatorID())
	s.Require().NoError(err)
	for _, p := range []*models.Payment{pending, processing, elsewhere} {
		s.Require().NoError(s.store.Create(s.ctx, p))
	}

	programID := s.enrollment.ProgramID
	all, err := s.store.ListByProgram(s.ctx, programID)
	s.Require().NoError(err)
	s.Len(all, 2)

	page, total, err := s.store.List(s.ctx, models.PaymentFilter{ProgramID: &programID, Status: models.PaymentProcessing}, 0, 20)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(processing.ID, page[0].ID)

	enrollmentID := s.enrollment.ID
	_, total, err = s.store.List(s.ctx, models.PaymentFilter{EnrollmentID: &enrollmentID}, 0, 20)
	s.Require().NoError(err)
	s.Equal(2, total)
}

func (s *PaymentStoreSuite) TestExecute() {
	p := s.newPayment(100, s.now)
	s.Require().NoError(s.store.Create(s.ctx, p))

	updated, err := s.store.Execute(s.ctx, p.ID,
		func(p *models.Payment) error { return p.CanTransition(models.PaymentProcessing) },
		func(p *models.Payment) { p.ApplyProcess(s.now) },
	)
	s.Require().NoError(err)
	s.Equal(models.PaymentProcessing, updated.Status)
	s.Require().NotNil(updated.ProcessedAt)

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.PaymentProcessing, found.Status)
}
