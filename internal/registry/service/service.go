// Package service implements the registry of persons and households.
package service

import (
	"context"
	"errors"
	"log/slog"

	"rsu/internal/registry/metrics"
	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/platform/tx"
)

type PersonStore interface {
	Create(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	FindByRSUID(ctx context.Context, rsuID id.RSUID) (*models.Person, error)
	FindMany(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*models.Person, error)
	List(ctx context.Context, filter models.PersonFilter, offset, limit int) ([]*models.Person, int, error)
	ListByHousehold(ctx context.Context, householdID id.HouseholdID) ([]*models.Person, error)
	Execute(ctx context.Context, personID id.PersonID, validate func(*models.Person) error, mutate func(*models.Person)) (*models.Person, error)
}

type HouseholdStore interface {
	Create(ctx context.Context, h *models.Household) error
	FindByID(ctx context.Context, householdID id.HouseholdID) (*models.Household, error)
	FindMany(ctx context.Context, ids []id.HouseholdID) (map[id.HouseholdID]*models.Household, error)
	List(ctx context.Context, filter models.HouseholdFilter, offset, limit int) ([]*models.Household, int, error)
	Execute(ctx context.Context, householdID id.HouseholdID, validate func(*models.Household) error, mutate func(*models.Household)) (*models.Household, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, target audit.Target, action audit.Action, details map[string]string) error
}

// maxRSUIDAttempts bounds retries when a generated RSU-ID is already taken.
const maxRSUIDAttempts = 3

// Service orchestrates person and household management. Every mutation and its
// audit entry are written in one transaction.
type Service struct {
	persons        PersonStore
	households     HouseholdStore
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

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(persons PersonStore, households HouseholdStore, opts ...Option) *Service {
	s := &Service{
		persons:    persons,
		households: households,
		tx:         tx.NopRunner{},
		logger:     slog.Default(),
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

func wrapPersonErr(err error, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "person not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}

func wrapHouseholdErr(err error, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "household not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}

func noValidation[T any](*T) error { return nil }
