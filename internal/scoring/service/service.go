// Package service records vulnerability assessments for registered persons.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"rsu/internal/registry/models"
	"rsu/internal/scoring"
	"rsu/internal/scoring/metrics"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/platform/tx"
	"rsu/pkg/requestcontext"
)

var tracer = otel.Tracer("rsu/scoring")

const (
	defaultBatchWorkers = 4
	defaultBatchMaxSize = 500
)

type PersonReader interface {
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
}

type HouseholdReader interface {
	FindByID(ctx context.Context, householdID id.HouseholdID) (*models.Household, error)
}

type Store interface {
	Append(ctx context.Context, a *scoring.Assessment) error
	Latest(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error)
	History(ctx context.Context, personID id.PersonID) ([]*scoring.Assessment, error)
	ListLatest(ctx context.Context, filter scoring.AssessmentFilter, offset, limit int) ([]*scoring.Assessment, int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, target audit.Target, action audit.Action, details map[string]string) error
}

// Service computes and records assessments. Every assessment is appended
// together with its audit entry; earlier assessments are never touched.
type Service struct {
	persons        PersonReader
	households     HouseholdReader
	store          Store
	engine         *scoring.Engine
	auditPublisher AuditPublisher
	tx             tx.Runner
	logger         *slog.Logger
	metrics        *metrics.Metrics
	batchWorkers   int
	batchMaxSize   int
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

// WithBatchWorkers bounds how many batch items are scored concurrently.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithBatchMaxSize caps the number of persons accepted in one batch.
func WithBatchMaxSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchMaxSize = n
		}
	}
}

func New(persons PersonReader, households HouseholdReader, store Store, opts ...Option) *Service {
	s := &Service{
		persons:      persons,
		households:   households,
		store:        store,
		engine:       scoring.NewEngine(),
		tx:           tx.NopRunner{},
		logger:       slog.Default(),
		batchWorkers: defaultBatchWorkers,
		batchMaxSize: defaultBatchMaxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assess scores one person and appends the assessment. A household that is
// absent, dangling, deleted, or malformed yields a partial assessment rather
// than an error.
func (s *Service) Assess(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error) {
	ctx, span := tracer.Start(ctx, "scoring.Assess",
		trace.WithAttributes(attribute.String("person_id", personID.String())),
	)
	defer span.End()

	a, err := s.assess(ctx, personID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("score", a.Score),
		attribute.String("tier", string(a.Tier)),
		attribute.Bool("partial", a.Partial),
	)
	return a, nil
}

func (s *Service) assess(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error) {
	now := requestcontext.Now(ctx)
	operatorID := requestcontext.OperatorID(ctx)

	person, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		return nil, wrapErr(err, "person not found", "load person")
	}
	household, issue, err := s.loadHousehold(ctx, person)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load household")
	}

	result := s.engine.Compute(person, household, issue, now)
	a := scoring.NewAssessment(person.ID, person.HouseholdID, result, operatorID)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Append(ctx, a); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record assessment")
		}
		return s.emit(ctx, audit.Assessment(a.ID), audit.ActionAssessmentRecorded, map[string]string{
			"person_id": person.ID.String(),
			"score":     strconv.FormatFloat(a.Score, 'f', 2, 64),
			"tier":      string(a.Tier),
			"partial":   strconv.FormatBool(a.Partial),
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveAssessment(string(a.Tier), a.Score, a.Partial)
	if a.Partial {
		s.logger.WarnContext(ctx, "partial assessment recorded",
			"person_id", person.ID,
			"household_issue", string(result.HouseholdIssue),
			"score", a.Score,
		)
	} else {
		s.logger.InfoContext(ctx, "assessment recorded",
			"person_id", person.ID,
			"score", a.Score,
			"tier", a.Tier,
		)
	}
	return a, nil
}

// loadHousehold resolves the household used for scoring. Only store faults
// are returned as errors; every unusable household is reported as an issue.
func (s *Service) loadHousehold(ctx context.Context, person *models.Person) (*models.Household, scoring.HouseholdIssue, error) {
	if person.HouseholdID == nil {
		return nil, scoring.HouseholdNone, nil
	}
	h, err := s.households.FindByID(ctx, *person.HouseholdID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, scoring.HouseholdMissing, nil
	}
	if err != nil {
		return nil, scoring.HouseholdOK, err
	}
	if h.IsDeleted() {
		return nil, scoring.HouseholdMissing, nil
	}
	if err := h.Validate(); err != nil {
		return nil, scoring.HouseholdMalformed, nil
	}
	return h, scoring.HouseholdOK, nil
}

// AssessBatch scores each person independently on a bounded worker pool.
// Per-item failures are reported in the result and never fail the batch;
// each recorded assessment is committed on its own.
func (s *Service) AssessBatch(ctx context.Context, personIDs []id.PersonID) (*scoring.BatchResult, error) {
	if len(personIDs) == 0 {
		return nil, dErrors.FieldError("person_ids", "at least one person is required")
	}
	if len(personIDs) > s.batchMaxSize {
		return nil, dErrors.FieldError("person_ids", fmt.Sprintf("at most %d persons per batch", s.batchMaxSize))
	}

	ctx, span := tracer.Start(ctx, "scoring.AssessBatch",
		trace.WithAttributes(attribute.Int("batch_size", len(personIDs))),
	)
	defer span.End()
	start := time.Now()

	type outcome struct {
		assessment *scoring.Assessment
		err        error
	}
	outcomes := make([]outcome, len(personIDs))

	var g errgroup.Group
	g.SetLimit(s.batchWorkers)
	for i, personID := range personIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}
			a, err := s.assessRecovered(ctx, personID)
			outcomes[i] = outcome{assessment: a, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &scoring.BatchResult{
		Results: make([]*scoring.Assessment, 0, len(personIDs)),
		Errors:  make([]scoring.BatchError, 0),
	}
	for i, o := range outcomes {
		result.Processed++
		switch {
		case o.err != nil:
			result.Failed++
			result.Errors = append(result.Errors, batchError(personIDs[i], o.err))
			s.metrics.IncBatchItem("failed")
		case o.assessment.Partial:
			result.Failed++
			result.Results = append(result.Results, o.assessment)
			result.Errors = append(result.Errors, scoring.BatchError{
				PersonID: personIDs[i],
				Reason:   scoring.ReasonHouseholdUnavailable,
				Message:  "household indicators unavailable; partial assessment recorded",
			})
			s.metrics.IncBatchItem("partial")
		default:
			result.Succeeded++
			result.Results = append(result.Results, o.assessment)
			s.metrics.IncBatchItem("succeeded")
		}
	}

	elapsed := time.Since(start)
	s.metrics.ObserveBatchDuration(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("succeeded", result.Succeeded),
		attribute.Int("failed", result.Failed),
	)
	s.logger.InfoContext(ctx, "batch scoring finished",
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}

// assessRecovered scores one batch item, reporting a panic as an internal error.
func (s *Service) assessRecovered(ctx context.Context, personID id.PersonID) (a *scoring.Assessment, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "panic while scoring batch item",
				"person_id", personID.String(),
				"panic", fmt.Sprint(r),
			)
			a = nil
			err = dErrors.New(dErrors.CodeInternal, fmt.Sprintf("panic while scoring person: %v", r))
		}
	}()
	return s.assess(ctx, personID)
}

func batchError(personID id.PersonID, err error) scoring.BatchError {
	be := scoring.BatchError{PersonID: personID, Message: err.Error()}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), dErrors.HasCode(err, dErrors.CodeTimeout):
		be.Reason = scoring.ReasonCancelled
		be.Message = "batch cancelled before the item was scored"
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		be.Reason = scoring.ReasonNotFound
		be.Message = "person not found"
	default:
		be.Reason = scoring.ReasonInternal
		be.Message = "failed to score person"
	}
	return be
}

// Latest returns the person's most recent assessment.
func (s *Service) Latest(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	a, err := s.store.Latest(ctx, personID)
	if err != nil {
		return nil, wrapErr(err, "person has no assessment", "load assessment")
	}
	return a, nil
}

// History returns every assessment of the person, newest first.
func (s *Service) History(ctx context.Context, personID id.PersonID) ([]*scoring.Assessment, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	history, err := s.store.History(ctx, personID)
	if err != nil {
		return nil, wrapErr(err, "person has no assessment", "load assessment history")
	}
	return history, nil
}

// ListAssessments pages over each person's latest assessment.
func (s *Service) ListAssessments(ctx context.Context, filter scoring.AssessmentFilter, offset, limit int) ([]*scoring.Assessment, int, error) {
	assessments, total, err := s.store.ListLatest(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assessments")
	}
	return assessments, total, nil
}

func (s *Service) requirePerson(ctx context.Context, personID id.PersonID) error {
	if _, err := s.persons.FindByID(ctx, personID); err != nil {
		return wrapErr(err, "person not found", "load person")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, target audit.Target, action audit.Action, details map[string]string) error {
	if s.auditPublisher == nil {
		return nil
	}
	return s.auditPublisher.Emit(ctx, target, action, details)
}

func wrapErr(err error, notFound, action string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}
