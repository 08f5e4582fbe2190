// Package service evaluates persons against program criteria.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rsu/internal/eligibility"
	"rsu/internal/eligibility/metrics"
	"rsu/internal/eligibility/ports"
	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/requestcontext"
)

var tracer = otel.Tracer("rsu/eligibility")

const defaultMaxBulkSize = 500

// Service builds match profiles from the registry and the latest assessment
// and applies eligibility.Match. It never writes.
type Service struct {
	registry    ports.RegistryPort
	scoring     ports.ScoringPort
	programs    ports.ProgramPort
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxBulkSize int
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

func WithMaxBulkSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBulkSize = n
		}
	}
}

func New(registry ports.RegistryPort, scoring ports.ScoringPort, programs ports.ProgramPort, opts ...Option) *Service {
	s := &Service{
		registry:    registry,
		scoring:     scoring,
		programs:    programs,
		logger:      slog.Default(),
		maxBulkSize: defaultMaxBulkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate matches one person against criteria.
func (s *Service) Evaluate(ctx context.Context, personID id.PersonID, criteria eligibility.Criteria) (eligibility.Result, error) {
	ctx, span := tracer.Start(ctx, "eligibility.Evaluate",
		trace.WithAttributes(attribute.String("person_id", personID.String())),
	)
	defer span.End()

	rec, err := s.registry.Person(ctx, personID)
	if err != nil {
		span.SetStatus(codes.Error, "person lookup failed")
		return eligibility.Result{}, wrapErr(err, "person not found", "load person")
	}
	score, err := s.scoring.LatestScore(ctx, personID)
	if err != nil {
		span.SetStatus(codes.Error, "score lookup failed")
		return eligibility.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vulnerability score")
	}

	result := eligibility.Match(profile(rec, score, requestcontext.Now(ctx)), criteria)
	s.metrics.ObserveCheck(result.Score, result.Eligible())
	span.SetAttributes(
		attribute.Float64("match_score", result.Score),
		attribute.Bool("eligible", result.Eligible()),
	)
	return result, nil
}

// Check matches one person against a program's criteria.
func (s *Service) Check(ctx context.Context, programID id.ProgramID, personID id.PersonID) (*eligibility.Check, error) {
	criteria, err := s.programs.Criteria(ctx, programID)
	if err != nil {
		return nil, wrapErr(err, "program not found", "load program")
	}
	result, err := s.Evaluate(ctx, personID, criteria)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "eligibility checked",
		"program_id", programID,
		"person_id", personID,
		"score", result.Score,
		"eligible", result.Eligible(),
	)
	return &eligibility.Check{ProgramID: programID, PersonID: personID, Result: result}, nil
}

// CheckBulk matches many persons against one program. Unknown persons are
// reported in Missing and do not fail the call.
func (s *Service) CheckBulk(ctx context.Context, programID id.ProgramID, personIDs []id.PersonID) (*eligibility.BulkResult, error) {
	if len(personIDs) == 0 {
		return nil, dErrors.FieldError("person_ids", "at least one person is required")
	}
	if len(personIDs) > s.maxBulkSize {
		return nil, dErrors.FieldError("person_ids", fmt.Sprintf("at most %d persons per request", s.maxBulkSize))
	}

	ctx, span := tracer.Start(ctx, "eligibility.CheckBulk",
		trace.WithAttributes(
			attribute.String("program_id", programID.String()),
			attribute.Int("persons", len(personIDs)),
		),
	)
	defer span.End()

	criteria, err := s.programs.Criteria(ctx, programID)
	if err != nil {
		return nil, wrapErr(err, "program not found", "load program")
	}

	unique := dedupe(personIDs)
	records, err := s.registry.People(ctx, unique)
	if err != nil {
		span.SetStatus(codes.Error, "person lookup failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load persons")
	}
	scores, err := s.scoring.LatestScores(ctx, unique)
	if err != nil {
		span.SetStatus(codes.Error, "score lookup failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vulnerability scores")
	}

	now := requestcontext.Now(ctx)
	out := &eligibility.BulkResult{
		ProgramID: programID,
		Checks:    make([]eligibility.Check, 0, len(unique)),
		Missing:   make([]id.PersonID, 0),
	}
	for _, personID := range unique {
		rec, ok := records[personID]
		if !ok {
			out.Missing = append(out.Missing, personID)
			continue
		}
		var score *float64
		if v, ok := scores[personID]; ok {
			score = &v
		}
		result := eligibility.Match(profile(rec, score, now), criteria)
		s.metrics.ObserveCheck(result.Score, result.Eligible())
		out.Checked++
		if result.Eligible() {
			out.Eligible++
		}
		out.Checks = append(out.Checks, eligibility.Check{ProgramID: programID, PersonID: personID, Result: result})
	}

	s.logger.InfoContext(ctx, "bulk eligibility checked",
		"program_id", programID,
		"checked", out.Checked,
		"eligible", out.Eligible,
		"missing", len(out.Missing),
	)
	return out, nil
}

func profile(rec *ports.PersonRecord, score *float64, now time.Time) eligibility.Profile {
	return eligibility.Profile{
		Age:                models.AgeAt(rec.BirthDate, now),
		Gender:             rec.Gender,
		Province:           rec.Province,
		HouseholdSize:      rec.HouseholdSize,
		VulnerabilityScore: score,
	}
}

func dedupe(ids []id.PersonID) []id.PersonID {
	seen := make(map[id.PersonID]struct{}, len(ids))
	out := make([]id.PersonID, 0, len(ids))
	for _, personID := range ids {
		if _, ok := seen[personID]; ok {
			continue
		}
		seen[personID] = struct{}{}
		out = append(out, personID)
	}
	return out
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
