// Package middleware enforces per-operator request budgets on the API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rsu/internal/ratelimit/models"
	"rsu/pkg/platform/circuit"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/requestcontext"
)

// Limiter is a sliding-window bucket store.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  Limiter
	fallback Limiter
	breaker  *circuit.Breaker
	limits   map[models.Class]models.Limit
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithFallback serves limits from fallback once the breaker opens on
// repeated primary failures. Without it, primary failures let requests through.
func WithFallback(fallback Limiter, breaker *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.fallback = fallback
		m.breaker = breaker
	}
}

// WithDisabled turns the middleware into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(limiter Limiter, reads, writes models.Limit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		limits: map[models.Class]models.Limit{
			models.ClassRead:  reads,
			models.ClassWrite: writes,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimitOperator must run after authentication: the bucket key is the
// operator ID from the request context.
func (m *Middleware) RateLimitOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		operatorID := requestcontext.OperatorID(ctx)
		class := models.ClassForMethod(r.Method)
		limit := m.limits[class]

		result, degraded, err := m.check(ctx, models.NewOperatorKey(operatorID, class), limit)
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check operator rate limit",
				"request_id", requestcontext.RequestID(ctx),
				"operator_id", operatorID,
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}
		addRateLimitHeaders(w, result)

		if !result.Allowed {
			m.logger.WarnContext(ctx, "operator rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"operator_id", operatorID,
				"class", class,
			)
			writeRateLimitExceeded(w, result)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) check(ctx context.Context, key string, limit models.Limit) (*models.RateLimitResult, bool, error) {
	result, err := m.limiter.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if m.fallback == nil {
		return result, false, err
	}

	if err == nil {
		usePrimary, change := m.breaker.RecordSuccess()
		if change.Closed {
			m.logger.InfoContext(ctx, "rate limiter recovered", "breaker", m.breaker.Name())
		}
		return result, !usePrimary, nil
	}

	useFallback, change := m.breaker.RecordFailure()
	if change.Opened {
		m.logger.WarnContext(ctx, "rate limiter degraded to in-memory fallback",
			"breaker", m.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return nil, false, err
	}
	result, err = m.fallback.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	return result, true, err
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests for this operator. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
