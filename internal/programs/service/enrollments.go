package service

import (
	"context"
	"errors"
	"fmt"

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

// EnrollmentRequest asks for a person to be enrolled in a program.
type EnrollmentRequest struct {
	ProgramID id.ProgramID
	PersonID  id.PersonID
	Notes     string
}

// CreateEnrollment records a pending enrollment together with the person's
// current eligibility score for the program.
func (s *Service) CreateEnrollment(ctx context.Context, req EnrollmentRequest) (*models.Enrollment, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	program, err := s.programs.FindByID(ctx, req.ProgramID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.FieldError("program_id", "program not found")
		}
		return nil, wrapProgramErr(err, "load program")
	}
	if err := program.CanEnroll(); err != nil {
		return nil, err
	}

	result, err := s.evaluator.Evaluate(ctx, req.PersonID, program.Criteria)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.FieldError("person_id", "person not found")
		}
		return nil, err
	}

	e := models.NewEnrollment(id.NewEnrollmentID(), program.ID, req.PersonID, result.Score, req.Notes, now, operatorID)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.enrollments.Create(ctx, e); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.FieldError("person_id", "person is already enrolled in this program")
			}
			return wrapEnrollmentErr(err, "create enrollment")
		}
		return s.emit(ctx, audit.Enrollment(e.ID), audit.ActionEnrollmentCreated, map[string]string{
			"program_id":        program.ID.String(),
			"person_id":         req.PersonID.String(),
			"eligibility_score": fmt.Sprintf("%.2f", e.EligibilityScore),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncEnrollmentTransition(string(models.EnrollmentPending))
	s.logger.InfoContext(ctx, "enrollment created",
		"enrollment_id", e.ID,
		"program_id", program.ID,
		"person_id", req.PersonID,
		"eligibility_score", e.EligibilityScore,
		"operator_id", operatorID,
	)
	return e, nil
}

func (s *Service) GetEnrollment(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	e, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, wrapEnrollmentErr(err, "load enrollment")
	}
	return e, nil
}

func (s *Service) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int, error) {
	enrollments, total, err := s.enrollments.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, wrapEnrollmentErr(err, "list enrollments")
	}
	return enrollments, total, nil
}

// ApproveEnrollment approves a pending enrollment and counts the person as a
// beneficiary of the program. The enrollment and program rows are locked in
// that order.
func (s *Service) ApproveEnrollment(ctx context.Context, enrollmentID id.EnrollmentID, reason string) (*models.Enrollment, error) {
	ctx, span := tracer.Start(ctx, "programs.ApproveEnrollment",
		trace.WithAttributes(attribute.String("enrollment_id", enrollmentID.String())),
	)
	defer span.End()

	now := requestcontext.Now(ctx)

	var approved *models.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Check both rows before writing either: in-memory runs have no rollback.
		current, err := s.enrollments.FindByID(ctx, enrollmentID)
		if err != nil {
			return wrapEnrollmentErr(err, "load enrollment")
		}
		if err := current.CanApprove(); err != nil {
			return err
		}
		program, err := s.programs.FindByID(ctx, current.ProgramID)
		if err != nil {
			return wrapProgramErr(err, "load program")
		}
		if err := program.CanAddBeneficiary(); err != nil {
			return err
		}

		approved, err = s.enrollments.Execute(ctx, enrollmentID,
			func(e *models.Enrollment) error { return e.CanApprove() },
			func(e *models.Enrollment) { e.ApplyApprove(reason, now) },
		)
		if err != nil {
			return wrapEnrollmentErr(err, "approve enrollment")
		}
		_, err = s.programs.Execute(ctx, approved.ProgramID,
			func(p *models.Program) error { return p.CanAddBeneficiary() },
			func(p *models.Program) { p.ApplyBeneficiaryAdded(now) },
		)
		if err != nil {
			return wrapProgramErr(err, "update program beneficiaries")
		}
		return s.emit(ctx, audit.Enrollment(enrollmentID), audit.ActionEnrollmentApproved, map[string]string{
			"program_id": approved.ProgramID.String(),
			"person_id":  approved.PersonID.String(),
		})
	})
	if err != nil {
		if dErrors.Fields(err)["program_id"] == "program is full" {
			s.metrics.IncCapacityRejection()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "approval failed")
		return nil, err
	}

	s.metrics.IncEnrollmentTransition(string(models.EnrollmentApproved))
	s.logger.InfoContext(ctx, "enrollment approved",
		"enrollment_id", enrollmentID,
		"program_id", approved.ProgramID,
		"operator_id", requestcontext.OperatorID(ctx),
	)
	return approved, nil
}

func (s *Service) RejectEnrollment(ctx context.Context, enrollmentID id.EnrollmentID, reason string) (*models.Enrollment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionEnrollment(ctx, enrollmentID, models.EnrollmentRejected, audit.ActionEnrollmentRejected,
		func(e *models.Enrollment) error { return e.CanReject(reason) },
		func(e *models.Enrollment) { e.ApplyReject(reason, now) },
		map[string]string{"reason": reason},
	)
}

func (s *Service) ActivateEnrollment(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionEnrollment(ctx, enrollmentID, models.EnrollmentActive, audit.ActionEnrollmentActivated,
		func(e *models.Enrollment) error { return e.CanTransition(models.EnrollmentActive) },
		func(e *models.Enrollment) { e.ApplyActivate(now) },
		nil,
	)
}

func (s *Service) SuspendEnrollment(ctx context.Context, enrollmentID id.EnrollmentID, reason string) (*models.Enrollment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionEnrollment(ctx, enrollmentID, models.EnrollmentSuspended, audit.ActionEnrollmentSuspended,
		func(e *models.Enrollment) error { return e.CanSuspend(reason) },
		func(e *models.Enrollment) { e.ApplySuspend(reason, now) },
		map[string]string{"reason": reason},
	)
}

func (s *Service) CompleteEnrollment(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	now := requestcontext.Now(ctx)
	return s.transitionEnrollment(ctx, enrollmentID, models.EnrollmentCompleted, audit.ActionEnrollmentCompleted,
		func(e *models.Enrollment) error { return e.CanTransition(models.EnrollmentCompleted) },
		func(e *models.Enrollment) { e.ApplyComplete(now) },
		nil,
	)
}

func (s *Service) transitionEnrollment(
	ctx context.Context,
	enrollmentID id.EnrollmentID,
	status models.EnrollmentStatus,
	action audit.Action,
	validate func(*models.Enrollment) error,
	mutate func(*models.Enrollment),
	details map[string]string,
) (*models.Enrollment, error) {
	var updated *models.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.enrollments.Execute(ctx, enrollmentID, validate, mutate)
		if err != nil {
			return wrapEnrollmentErr(err, "update enrollment")
		}
		return s.emit(ctx, audit.Enrollment(enrollmentID), action, details)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncEnrollmentTransition(string(status))
	s.logger.InfoContext(ctx, "enrollment status changed",
		"enrollment_id", enrollmentID,
		"status", status,
		"operator_id", requestcontext.OperatorID(ctx),
	)
	return updated, nil
}
