// Package service manages social programs, enrollments and payments.
//
// Program counters (CurrentBeneficiaries, BudgetSpent) and enrollment totals
// are updated in the same transaction as the transition that changes them,
// with every touched row locked. Reconcile recomputes them from their sources
// without writing.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"

	"rsu/internal/eligibility"
	"rsu/internal/programs/metrics"
	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/platform/tx"
)

var tracer = otel.Tracer("rsu/programs")

type ProgramStore interface {
	Create(ctx context.Context, p *models.Program) error
	FindByID(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	List(ctx context.Context, filter models.ProgramFilter, offset, limit int) ([]*models.Program, int, error)
	Execute(ctx context.Context, programID id.ProgramID, validate func(*models.Program) error, mutate func(*models.Program)) (*models.Program, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, e *models.Enrollment) error
	FindByID(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int, error)
	ListByProgram(ctx context.Context, programID id.ProgramID) ([]*models.Enrollment, error)
	Execute(ctx context.Context, enrollmentID id.EnrollmentID, validate func(*models.Enrollment) error, mutate func(*models.Enrollment)) (*models.Enrollment, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByID(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter, offset, limit int) ([]*models.Payment, int, error)
	ListByProgram(ctx context.Context, programID id.ProgramID) ([]*models.Payment, error)
	Execute(ctx context.Context, paymentID id.PaymentID, validate func(*models.Payment) error, mutate func(*models.Payment)) (*models.Payment, error)
}

// Evaluator computes a person's match against a criteria document.
type Evaluator interface {
	Evaluate(ctx context.Context, personID id.PersonID, criteria eligibility.Criteria) (eligibility.Result, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, target audit.Target, action audit.Action, details map[string]string) error
}

type Service struct {
	programs       ProgramStore
	enrollments    EnrollmentStore
	payments       PaymentStore
	evaluator      Evaluator
	auditPublisher AuditPublisher
	tx             tx.Runner
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithTxRunner sets the transaction runner. In-memory deployments must pass a
// tx.LockingRunner so multi-row transitions are serialized.
func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(programs ProgramStore, enrollments EnrollmentStore, payments PaymentStore, evaluator Evaluator, opts ...Option) *Service {
	s := &Service{
		programs:    programs,
		enrollments: enrollments,
		payments:    payments,
		evaluator:   evaluator,
		tx:          tx.NopRunner{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) emit(ctx context.Context, target audit.Target, action audit.Action, details map[string]string) error {
	if s.auditPublisher == nil {
		return nil
	}
	return s.auditPublisher.Emit(ctx, target, action, details)
}

func wrapErr(err error, notFound, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}

func wrapProgramErr(err error, action string) error {
	return wrapErr(err, "program not found", action)
}

func wrapEnrollmentErr(err error, action string) error {
	return wrapErr(err, "enrollment not found", action)
}

func wrapPaymentErr(err error, action string) error {
	return wrapErr(err, "payment not found", action)
}
