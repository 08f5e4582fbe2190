// Package service serves the analytics dashboard with a cache-aside policy.
package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"rsu/internal/analytics"
	"rsu/internal/analytics/export"
	"rsu/internal/analytics/metrics"
	programs "rsu/internal/programs/models"
	registry "rsu/internal/registry/models"
	"rsu/internal/scoring"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/requestcontext"
)

const failedMessage = "failed to compute analytics"

type PersonSource interface {
	All(ctx context.Context) ([]*registry.Person, error)
}

type HouseholdSource interface {
	All(ctx context.Context) ([]*registry.Household, error)
}

type AssessmentSource interface {
	AllLatest(ctx context.Context) ([]*scoring.Assessment, error)
}

type ProgramSource interface {
	All(ctx context.Context) ([]*programs.Program, error)
}

type EnrollmentSource interface {
	All(ctx context.Context) ([]*programs.Enrollment, error)
}

type PaymentSource interface {
	All(ctx context.Context) ([]*programs.Payment, error)
}

// Sources are the read models the dashboard is computed from.
type Sources struct {
	Persons     PersonSource
	Households  HouseholdSource
	Assessments AssessmentSource
	Programs    ProgramSource
	Enrollments EnrollmentSource
	Payments    PaymentSource
}

// Cache stores computed dashboards. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context) (*analytics.Dashboard, bool, error)
	Set(ctx context.Context, d *analytics.Dashboard) error
}

type Service struct {
	sources Sources
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
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

// WithCache enables cache-aside reads. Without it every request recomputes.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func New(sources Sources, opts ...Option) *Service {
	s := &Service{
		sources: sources,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns the cached dashboard or computes and caches a fresh one.
// Cache faults degrade to recomputation; source faults are internal errors.
func (s *Service) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	if s.cache != nil {
		d, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.metrics.IncCacheLookup("error")
			s.logger.WarnContext(ctx, "analytics cache read failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		case ok:
			s.metrics.IncCacheLookup("hit")
			return d, nil
		default:
			s.metrics.IncCacheLookup("miss")
		}
	}

	d, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, d); err != nil {
			s.logger.WarnContext(ctx, "analytics cache write failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	return d, nil
}

// Export renders the dashboard as an XLSX workbook.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := export.Render(d)
	if err != nil {
		s.metrics.IncComputeFailure()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, failedMessage)
	}
	return raw, nil
}

func (s *Service) compute(ctx context.Context) (*analytics.Dashboard, error) {
	start := time.Now()
	snap, err := s.load(ctx)
	if err != nil {
		s.metrics.IncComputeFailure()
		s.logger.ErrorContext(ctx, "analytics sources failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, failedMessage)
	}
	d := analytics.Compute(snap, requestcontext.Now(ctx))
	s.metrics.ObserveCompute(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "analytics computed",
		"request_id", requestcontext.RequestID(ctx),
		"persons", d.Persons.Total,
		"programs", d.Programs.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return d, nil
}

// load reads every source concurrently; the first failure cancels the rest.
func (s *Service) load(ctx context.Context) (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Persons, err = s.sources.Persons.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Households, err = s.sources.Households.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Assessments, err = s.sources.Assessments.AllLatest(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Programs, err = s.sources.Programs.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Enrollments, err = s.sources.Enrollments.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Payments, err = s.sources.Payments.All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}
	return snap, nil
}
