package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/requestcontext"
)

// PaymentRequest schedules a payment for an active enrollment. A nil Amount
// uses the program's amount per payment.
type PaymentRequest struct {
	EnrollmentID id.EnrollmentID
	Amount       *int64
	ScheduledFor *time.Time
}

func (s *Service) CreatePayment(ctx context.Context, req PaymentRequest) (*models.Payment, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	enrollment, err := s.enrollments.FindByID(ctx, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.FieldError("enrollment_id", "enrollment not found")
		}
		return nil, wrapEnrollmentErr(err, "load enrollment")
	}
	if err := enrollment.CanReceivePayment(); err != nil {
		return nil, err
	}

	var amount int64
	if req.Amount != nil {
		amount = *req.Amount
	} else {
		program, err := s.programs.FindByID(ctx, enrollment.ProgramID)
		if err != nil {
			return nil, wrapProgramErr(err, "load program")
		}
		amount = program.AmountPerPayment
	}

	p, err := models.NewPayment(id.NewPaymentID(), enrollment, amount, req.ScheduledFor, now, operatorID)
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, p); err != nil {
			return wrapPaymentErr(err, "create payment")
		}
		return s.emit(ctx, audit.Payment(p.ID), audit.ActionPaymentCreated, map[string]string{
			"enrollment_id": p.EnrollmentID.String(),
			"amount":        strconv.FormatInt(p.Amount, 10),
			"reference":     p.Reference,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentTransition(string(models.PaymentPending))
	s.logger.InfoContext(ctx, "payment created",
		"payment_id", p.ID,
		"enrollment_id", p.EnrollmentID,
		"amount", p.Amount,
		"operator_id", operatorID,
	)
	return p, nil
}

func (s *Service) GetPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, wrapPaymentErr(err, "load payment")
	}
	return p, nil
}

func (s *Service) ListPayments(ctx context.Context, filter models.PaymentFilter, offset, limit int) ([]*models.Payment, int, error) {
	payments, total, err := s.payments.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, wrapPaymentErr(err, "list payments")
	}
	return payments, total, nil
}

func (s *Service) ProcessPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionPayment(ctx, paymentID, models.PaymentProcessing, audit.ActionPaymentProcessing,
		func(p *models.Payment) error { return p.CanTransition(models.PaymentProcessing) },
		func(p *models.Payment) { p.ApplyProcess(now) },
		nil,
	)
}

func (s *Service) FailPayment(ctx context.Context, paymentID id.PaymentID, reason string) (*models.Payment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionPayment(ctx, paymentID, models.PaymentFailed, audit.ActionPaymentFailed,
		func(p *models.Payment) error { return p.CanFail(reason) },
		func(p *models.Payment) { p.ApplyFail(reason, now) },
		map[string]string{"reason": reason},
	)
}

func (s *Service) CancelPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionPayment(ctx, paymentID, models.PaymentCancelled, audit.ActionPaymentCancelled,
		func(p *models.Payment) error { return p.CanTransition(models.PaymentCancelled) },
		func(p *models.Payment) { p.ApplyCancel(now) },
		nil,
	)
}

func (s *Service) transitionPayment(
	ctx context.Context,
	paymentID id.PaymentID,
	status models.PaymentStatus,
	action audit.Action,
	validate func(*models.Payment) error,
	mutate func(*models.Payment),
	details map[string]string,
) (*models.Payment, error) {
	var updated *models.Payment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.payments.Execute(ctx, paymentID, validate, mutate)
		if err != nil {
			return wrapPaymentErr(err, "update payment")
		}
		return s.emit(ctx, audit.Payment(paymentID), action, details)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPaymentTransition(string(status))
	s.logger.InfoContext(ctx, "payment status changed",
		"payment_id", paymentID,
		"status", status,
		"operator_id", requestcontext.OperatorID(ctx),
	)
	return updated, nil
}

// CompletePayment marks a processing payment completed and adds its amount to
// the enrollment's totals and the program's spent budget. Payment, enrollment
// and program rows are locked in that order; the completion is refused when it
// would overspend the program budget.
func (s *Service) CompletePayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	ctx, span := tracer.Start(ctx, "programs.CompletePayment",
		trace.WithAttributes(attribute.String("payment_id", paymentID.String())),
	)
	defer span.End()

	start := time.Now()
	now := requestcontext.Now(ctx)

	var completed *models.Payment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Check all three rows before writing any: in-memory runs have no rollback.
		current, err := s.payments.FindByID(ctx, paymentID)
		if err != nil {
			return wrapPaymentErr(err, "load payment")
		}
		if err := current.CanTransition(models.PaymentCompleted); err != nil {
			return err
		}
		if _, err := s.enrollments.FindByID(ctx, current.EnrollmentID); err != nil {
			return wrapEnrollmentErr(err, "load enrollment")
		}
		program, err := s.programs.FindByID(ctx, current.ProgramID)
		if err != nil {
			return wrapProgramErr(err, "load program")
		}
		if err := program.CanSpend(current.Amount); err != nil {
			return err
		}

		completed, err = s.payments.Execute(ctx, paymentID,
			func(p *models.Payment) error { return p.CanTransition(models.PaymentCompleted) },
			func(p *models.Payment) { p.ApplyComplete(now) },
		)
		if err != nil {
			return wrapPaymentErr(err, "complete payment")
		}
		_, err = s.enrollments.Execute(ctx, completed.EnrollmentID,
			func(*models.Enrollment) error { return nil },
			func(e *models.Enrollment) { e.ApplyPayment(completed.Amount, now) },
		)
		if err != nil {
			return wrapEnrollmentErr(err, "update enrollment totals")
		}
		_, err = s.programs.Execute(ctx, completed.ProgramID,
			func(p *models.Program) error { return p.CanSpend(completed.Amount) },
			func(p *models.Program) { p.ApplySpend(completed.Amount, now) },
		)
		if err != nil {
			return wrapProgramErr(err, "update program budget")
		}
		return s.emit(ctx, audit.Payment(paymentID), audit.ActionPaymentCompleted, map[string]string{
			"enrollment_id": completed.EnrollmentID.String(),
			"program_id":    completed.ProgramID.String(),
			"amount":        strconv.FormatInt(completed.Amount, 10),
		})
	})
	if err != nil {
		if _, ok := dErrors.Fields(err)["amount"]; ok {
			s.metrics.IncBudgetRejection()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment completion failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int64("amount", completed.Amount))
	s.metrics.IncPaymentTransition(string(models.PaymentCompleted))
	s.metrics.ObservePaymentCompleted(completed.Amount, time.Since(start))
	s.logger.InfoContext(ctx, "payment completed",
		"payment_id", paymentID,
		"enrollment_id", completed.EnrollmentID,
		"program_id", completed.ProgramID,
		"amount", completed.Amount,
		"duration_ms", time.Since(start).Milliseconds(),
		"operator_id", requestcontext.OperatorID(ctx),
	)
	return completed, nil
}
