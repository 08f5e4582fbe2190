package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rsu/internal/ratelimit/models"
	"rsu/internal/ratelimit/store/bucket"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/circuit"
	"rsu/pkg/requestcontext"
	"rsu/pkg/testutil"
)

// flakyLimiter delegates to an in-memory store until told to fail.
type flakyLimiter struct {
	store *bucket.InMemoryBucketStore
	err   error
}

func (f *flakyLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.store.Allow(ctx, key, limit, window)
}

type RateLimitSuite struct {
	suite.Suite
	primary  *flakyLimiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
	operator id.OperatorID
}

func TestRateLimitSuite(t *testing.T) {
	suite.Run(t, new(RateLimitSuite))
}

func (s *RateLimitSuite) SetupTest() {
	s.primary = &flakyLimiter{store: bucket.NewInMemoryBucketStore()}
	s.breaker = circuit.New("ratelimit", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.operator = id.NewOperatorID()
}

func (s *RateLimitSuite) handler(opts ...Option) http.Handler {
	m := New(s.primary,
		models.Limit{RequestsPerWindow: 3, Window: time.Minute},
		models.Limit{RequestsPerWindow: 1, Window: time.Minute},
		s.logger, opts...)
	return m.RateLimitOperator(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func (s *RateLimitSuite) do(h http.Handler, method string, operator id.OperatorID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/persons", nil)
	req = testutil.WithOperator(req, operator, requestcontext.RoleAgent)
	return testutil.DoRequest(h, req)
}

func (s *RateLimitSuite) TestReadBudget() {
	h := s.handler()
	for i := range 3 {
		rr := s.do(h, http.MethodGet, s.operator)
		s.Equal(http.StatusNoContent, rr.Code)
		s.Equal("3", rr.Header().Get("X-RateLimit-Limit"))
		s.Equal(strconv.Itoa(2-i), rr.Header().Get("X-RateLimit-Remaining"))
	}

	rr := s.do(h, http.MethodGet, s.operator)
	s.Equal(http.StatusTooManyRequests, rr.Code)
	s.NotEmpty(rr.Header().Get("Retry-After"))
	body := testutil.UnmarshalResponse[models.RateLimitExceededResponse](s.T(), rr)
	s.Equal("rate_limit_exceeded", body.Error)
	s.Positive(body.RetryAfter)
}

func (s *RateLimitSuite) TestWritesHaveTheirOwnBudget() {
	h := s.handler()
	s.Equal(http.StatusNoContent, s.do(h, http.MethodPost, s.operator).Code)
	s.Equal(http.StatusTooManyRequests, s.do(h, http.MethodPatch, s.operator).Code)
	s.Equal(http.StatusNoContent, s.do(h, http.MethodGet, s.operator).Code)
}

func (s *RateLimitSuite) TestOperatorsAreIsolated() {
	h := s.handler()
	s.Equal(http.StatusNoContent, s.do(h, http.MethodPost, s.operator).Code)
	s.Equal(http.StatusNoContent, s.do(h, http.MethodPost, id.NewOperatorID()).Code)
}

func (s *RateLimitSuite) TestPrimaryFailureWithoutFallbackFailsOpen() {
	s.primary.err = errors.New("redis: connection refused")
	h := s.handler()
	for range 3 {
		s.Equal(http.StatusNoContent, s.do(h, http.MethodPost, s.operator).Code)
	}
}

func (s *RateLimitSuite) TestBreakerSwitchesToFallback() {
	h := s.handler(WithFallback(bucket.NewInMemoryBucketStore(), s.breaker))
	s.primary.err = errors.New("redis: connection refused")

	rr := s.do(h, http.MethodPost, s.operator)
	s.Equal(http.StatusNoContent, rr.Code, "below the failure threshold requests pass")
	s.Empty(rr.Header().Get("X-RateLimit-Status"))

	rr = s.do(h, http.MethodPost, s.operator)
	s.Equal(http.StatusNoContent, rr.Code)
	s.Equal("degraded", rr.Header().Get("X-RateLimit-Status"))
	s.True(s.breaker.IsOpen())

	rr = s.do(h, http.MethodPost, s.operator)
	s.Equal(http.StatusTooManyRequests, rr.Code, "fallback enforces the write budget")

	s.primary.err = nil
	rr = s.do(h, http.MethodGet, s.operator)
	s.Equal(http.StatusNoContent, rr.Code)
	s.Empty(rr.Header().Get("X-RateLimit-Status"))
	s.False(s.breaker.IsOpen())
}

func (s *RateLimitSuite) TestDisabled() {
	s.primary.err = errors.New("unused")
	h := s.handler(WithDisabled(true))
	for range 5 {
		s.Equal(http.StatusNoContent, s.do(h, http.MethodPost, s.operator).Code)
	}
}
