// Package app assembles storage, the bounded contexts and the HTTP router
// from a Server config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	analyticscache "rsu/internal/analytics/cache"
	analyticshandler "rsu/internal/analytics/handler"
	analyticsmetrics "rsu/internal/analytics/metrics"
	analyticsservice "rsu/internal/analytics/service"
	audithandler "rsu/internal/audit/handler"
	"rsu/internal/eligibility/adapters"
	eligibilityhandler "rsu/internal/eligibility/handler"
	eligibilitymetrics "rsu/internal/eligibility/metrics"
	eligibilityservice "rsu/internal/eligibility/service"
	httpapi "rsu/internal/http"
	jwttoken "rsu/internal/jwt_token"
	"rsu/internal/platform/config"
	"rsu/internal/platform/kafka"
	"rsu/internal/platform/metrics"
	"rsu/internal/platform/postgres"
	"rsu/internal/platform/redis"
	programshandler "rsu/internal/programs/handler"
	programsmetrics "rsu/internal/programs/metrics"
	programsservice "rsu/internal/programs/service"
	ratelimit "rsu/internal/ratelimit/middleware"
	ratelimitmodels "rsu/internal/ratelimit/models"
	"rsu/internal/ratelimit/store/bucket"
	registryhandler "rsu/internal/registry/handler"
	registrymetrics "rsu/internal/registry/metrics"
	registryservice "rsu/internal/registry/service"
	scoringhandler "rsu/internal/scoring/handler"
	scoringmetrics "rsu/internal/scoring/metrics"
	scoringservice "rsu/internal/scoring/service"
	"rsu/pkg/platform/audit/outbox"
	"rsu/pkg/platform/audit/publisher"
	"rsu/pkg/platform/circuit"
	authmw "rsu/pkg/platform/middleware/auth"
)

// App is a fully wired process. Metrics register with the default
// Prometheus registry, so build at most one App per process.
type App struct {
	Handler http.Handler

	cfg     config.Server
	log     *slog.Logger
	stores  *stores
	closers []func() error
}

// New opens the configured backends and wires every context. Without a
// DATABASE_URL the stores live in process memory; without a REDIS_URL the
// analytics cache is off and revocations and rate limits stay local.
func New(ctx context.Context, cfg config.Server, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	health := map[string]httpapi.HealthCheck{}

	a.stores = newMemoryStores()
	if cfg.Postgres.URL != "" {
		db, err := openPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.stores = newPostgresStores(db)
		health["postgres"] = db.PingContext
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, redisClient.Close)
		health["redis"] = redisClient.Health
	}

	st := a.stores
	auditPublisher := publisher.New(st.audit,
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
	)

	registryMetrics := registrymetrics.New()
	scoringMetrics := scoringmetrics.New()

	registrySvc := registryservice.New(st.persons, st.households,
		registryservice.WithLogger(log),
		registryservice.WithMetrics(registryMetrics),
		registryservice.WithAuditPublisher(auditPublisher),
		registryservice.WithTxRunner(st.runner),
	)

	scoringSvc := scoringservice.New(st.persons, st.households, st.assessments,
		scoringservice.WithLogger(log),
		scoringservice.WithMetrics(scoringMetrics),
		scoringservice.WithAuditPublisher(auditPublisher),
		scoringservice.WithTxRunner(st.runner),
		scoringservice.WithBatchWorkers(cfg.Scoring.BatchWorkers),
		scoringservice.WithBatchMaxSize(cfg.Scoring.BatchMaxSize),
	)

	eligibilitySvc := eligibilityservice.New(
		adapters.NewRegistryAdapter(st.persons, st.households),
		adapters.NewScoringAdapter(st.assessments),
		adapters.NewProgramAdapter(st.programs),
		eligibilityservice.WithLogger(log),
		eligibilityservice.WithMetrics(eligibilitymetrics.New()),
	)

	programsSvc := programsservice.New(st.programs, st.enrollments, st.payments, eligibilitySvc,
		programsservice.WithLogger(log),
		programsservice.WithMetrics(programsmetrics.New()),
		programsservice.WithAuditPublisher(auditPublisher),
		programsservice.WithTxRunner(st.runner),
	)

	analyticsOpts := []analyticsservice.Option{
		analyticsservice.WithLogger(log),
		analyticsservice.WithMetrics(analyticsmetrics.New()),
	}
	if redisClient != nil {
		analyticsOpts = append(analyticsOpts,
			analyticsservice.WithCache(analyticscache.NewRedis(redisClient.Client, cfg.Analytics.CacheTTL)))
	}
	analyticsSvc := analyticsservice.New(analyticsservice.Sources{
		Persons:     st.persons,
		Households:  st.households,
		Assessments: st.assessments,
		Programs:    st.programs,
		Enrollments: st.enrollments,
		Payments:    st.payments,
	}, analyticsOpts...)

	var revocations authmw.TokenRevocationChecker = jwttoken.NewInMemoryTRL()
	if redisClient != nil {
		revocations = jwttoken.NewRedisTRL(redisClient.Client)
	}
	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	a.Handler = httpapi.NewRouter(httpapi.Config{
		Logger:      log,
		Metrics:     metrics.New(),
		Validator:   jwttoken.NewJWTServiceAdapter(jwtService),
		Revocations: revocations,
		Health:      health,
		RateLimit:   newRateLimiter(cfg.RateLimit, redisClient, log).RateLimitOperator,
	}, httpapi.Handlers{
		Registry:    registryhandler.New(registrySvc, log, registryMetrics),
		Scoring:     scoringhandler.New(scoringSvc, log, scoringMetrics),
		Eligibility: eligibilityhandler.New(eligibilitySvc, log),
		Programs:    programshandler.New(programsSvc, log),
		Analytics:   analyticshandler.New(analyticsSvc, log),
		Audit:       audithandler.New(auditPublisher, log),
	})
	return a, nil
}

// Close releases the backends in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// RunAuditRelay relays the audit outbox to Kafka until ctx is cancelled.
// The returned channel closes once the relay has stopped; it is closed
// immediately when no brokers are configured.
func (a *App) RunAuditRelay(ctx context.Context) (<-chan struct{}, error) {
	cfg := a.cfg.Kafka
	done := make(chan struct{})
	client, err := kafka.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		a.log.Info("KAFKA_BROKERS not set, audit relay disabled")
		close(done)
		return done, nil
	}
	if err := outbox.EnsureTopic(ctx, client.Admin, cfg.AuditTopic, 3, 1); err != nil {
		client.Close()
		return nil, err
	}

	relay := outbox.NewRelay(a.stores.audit, a.stores.runner, client,
		outbox.WithTopic(cfg.AuditTopic),
		outbox.WithBatchSize(cfg.RelayBatch),
		outbox.WithInterval(cfg.RelayInterval),
		outbox.WithLogger(a.log),
	)
	go func() {
		defer close(done)
		defer client.Close()
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("audit relay stopped", "error", err)
		}
	}()
	return done, nil
}

// newRateLimiter shares budgets across instances through Redis when it is
// configured and keeps them in process memory otherwise.
func newRateLimiter(cfg config.RateLimitConfig, redisClient *redis.Client, log *slog.Logger) *ratelimit.Middleware {
	reads := ratelimitmodels.Limit{RequestsPerWindow: cfg.ReadsPerMinute, Window: time.Minute}
	writes := ratelimitmodels.Limit{RequestsPerWindow: cfg.WritesPerMinute, Window: time.Minute}
	disabled := ratelimit.WithDisabled(!cfg.Enabled)

	if redisClient == nil {
		return ratelimit.New(bucket.NewInMemoryBucketStore(), reads, writes, log, disabled)
	}
	return ratelimit.New(bucket.NewRedisBucketStore(redisClient.Client), reads, writes, log,
		disabled,
		ratelimit.WithFallback(bucket.NewInMemoryBucketStore(), circuit.New("ratelimit-redis")),
	)
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
