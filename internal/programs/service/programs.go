package service

import (
	"context"
	"errors"
	"strconv"

	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/requestcontext"
)

func (s *Service) CreateProgram(ctx context.Context, details models.ProgramDetails) (*models.Program, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	p, err := models.NewProgram(id.NewProgramID(), details, now, operatorID)
	if err != nil {
		return nil, err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.programs.Create(ctx, p); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.FieldError("code", "a program with this code already exists")
			}
			return wrapProgramErr(err, "create program")
		}
		return s.emit(ctx, audit.Program(p.ID), audit.ActionProgramCreated, map[string]string{
			"code":         p.Code,
			"budget_total": strconv.FormatInt(p.BudgetTotal, 10),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "program created",
		"program_id", p.ID,
		"code", p.Code,
		"operator_id", operatorID,
	)
	return p, nil
}

func (s *Service) GetProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	p, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		return nil, wrapProgramErr(err, "load program")
	}
	return p, nil
}

func (s *Service) ListPrograms(ctx context.Context, filter models.ProgramFilter, offset, limit int) ([]*models.Program, int, error) {
	programs, total, err := s.programs.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, wrapProgramErr(err, "list programs")
	}
	return programs, total, nil
}

// UpdateProgram edits a draft or paused program.
func (s *Service) UpdateProgram(ctx context.Context, programID id.ProgramID, patch models.ProgramPatch) (*models.Program, error) {
	now := requestcontext.Now(ctx)

	var updated *models.Program
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.programs.Execute(ctx, programID,
			func(p *models.Program) error {
				if err := p.CanUpdate(); err != nil {
					return err
				}
				candidate := *p
				candidate.ApplyPatch(patch, now)
				return candidate.Validate()
			},
			func(p *models.Program) {
				p.ApplyPatch(patch, now)
			},
		)
		if err != nil {
			return wrapProgramErr(err, "update program")
		}
		return s.emit(ctx, audit.Program(programID), audit.ActionProgramUpdated, nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) ActivateProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	return s.transitionProgram(ctx, programID, models.ProgramActive, audit.ActionProgramActivated,
		func(p *models.Program) error { return p.CanActivate() })
}

func (s *Service) PauseProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	return s.transitionProgram(ctx, programID, models.ProgramPaused, audit.ActionProgramPaused,
		func(p *models.Program) error { return p.CanPause() })
}

func (s *Service) CloseProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	return s.transitionProgram(ctx, programID, models.ProgramClosed, audit.ActionProgramClosed,
		func(p *models.Program) error { return p.CanClose() })
}

func (s *Service) transitionProgram(ctx context.Context, programID id.ProgramID, status models.ProgramStatus, action audit.Action, validate func(*models.Program) error) (*models.Program, error) {
	now := requestcontext.Now(ctx)

	var updated *models.Program
	var from models.ProgramStatus
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.programs.Execute(ctx, programID,
			func(p *models.Program) error {
				from = p.Status
				return validate(p)
			},
			func(p *models.Program) {
				p.ApplyStatus(status, now)
			},
		)
		if err != nil {
			return wrapProgramErr(err, "update program status")
		}
		return s.emit(ctx, audit.Program(programID), action, map[string]string{
			"from": string(from),
			"to":   string(status),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncProgramTransition(string(status))
	s.logger.InfoContext(ctx, "program status changed",
		"program_id", programID,
		"from", from,
		"to", status,
		"operator_id", requestcontext.OperatorID(ctx),
	)
	return updated, nil
}

// Reconcile recomputes the program's beneficiary and budget counters and every
// enrollment's payment totals from their sources and reports any difference.
// Counters are not corrected.
func (s *Service) Reconcile(ctx context.Context, programID id.ProgramID) (*models.Reconciliation, error) {
	var result *models.Reconciliation
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		program, err := s.programs.FindByID(ctx, programID)
		if err != nil {
			return wrapProgramErr(err, "load program")
		}
		enrollments, err := s.enrollments.ListByProgram(ctx, programID)
		if err != nil {
			return wrapEnrollmentErr(err, "load enrollments")
		}
		payments, err := s.payments.ListByProgram(ctx, programID)
		if err != nil {
			return wrapPaymentErr(err, "load payments")
		}
		result = models.Reconcile(program, enrollments, payments, requestcontext.Now(ctx))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.HasDrift() {
		s.metrics.IncReconcileDrift()
		s.logger.WarnContext(ctx, "program counters drifted",
			"program_id", programID,
			"recorded_beneficiaries", result.Recorded.CurrentBeneficiaries,
			"derived_beneficiaries", result.Derived.CurrentBeneficiaries,
			"recorded_budget_spent", result.Recorded.BudgetSpent,
			"derived_budget_spent", result.Derived.BudgetSpent,
			"enrollments_drifted", len(result.Enrollments),
		)
	}
	return result, nil
}
