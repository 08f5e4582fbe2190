package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	jwttoken "rsu/internal/jwt_token"
	"rsu/internal/platform/config"
	id "rsu/pkg/domain"
	"rsu/pkg/requestcontext"
)

// AppSuite drives a fully wired in-memory process through its HTTP API.
// Metrics register globally, so the suite builds a single App.
type AppSuite struct {
	suite.Suite
	app    *App
	tokens map[requestcontext.Role]string
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupSuite() {
	cfg := config.Server{
		Auth: config.AuthConfig{
			JWTSigningKey: "test-signing-key",
			JWTIssuer:     "rsu",
			JWTAudience:   "rsu-api",
			TokenTTL:      time.Hour,
		},
		Scoring:   config.ScoringConfig{BatchWorkers: 2, BatchMaxSize: 50},
		Analytics: config.AnalyticsConfig{CacheTTL: time.Minute},
		RateLimit: config.RateLimitConfig{Enabled: true, ReadsPerMinute: 1000, WritesPerMinute: 1000},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	a, err := New(context.Background(), cfg, logger)
	s.Require().NoError(err)
	s.app = a

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	s.tokens = map[requestcontext.Role]string{}
	for _, role := range []requestcontext.Role{requestcontext.RoleViewer, requestcontext.RoleAgent, requestcontext.RoleAdmin} {
		token, err := jwt.GenerateOperatorToken(id.NewOperatorID(), role, time.Hour)
		s.Require().NoError(err)
		s.tokens[role] = token
	}
}

func (s *AppSuite) TearDownSuite() {
	s.NoError(s.app.Close())
}

func (s *AppSuite) call(role requestcontext.Role, method, path, body string) (int, map[string]any) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[role])
	}
	rr := httptest.NewRecorder()
	s.app.Handler.ServeHTTP(rr, req)

	var out map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}
	return rr.Code, out
}

func (s *AppSuite) mustCall(role requestcontext.Role, method, path, body string, status int) map[string]any {
	code, out := s.call(role, method, path, body)
	s.Require().Equal(status, code, "%s %s: %v", method, path, out)
	return out
}

func (s *AppSuite) TestBeneficiaryLifecycle() {
	const (
		agent  = requestcontext.RoleAgent
		admin  = requestcontext.RoleAdmin
		viewer = requestcontext.RoleViewer
	)

	household := s.mustCall(agent, http.MethodPost, "/api/v1/households", `{
		"province": "Anjouan", "zone": "rural", "size": 6, "members_under5": 2, "members_under15": 3,
		"monthly_income": 60000, "housing": "precarious"
	}`, http.StatusCreated)
	householdID := household["id"].(string)

	person := s.mustCall(agent, http.MethodPost, "/api/v1/persons", `{
		"first_name": "Amina", "last_name": "Said", "birth_date": "1988-03-14", "gender": "F",
		"province": "Anjouan", "zone": "rural", "monthly_income": 20000,
		"employment_status": "informal", "education_level": "primary",
		"household_id": "`+householdID+`"
	}`, http.StatusCreated)
	personID := person["id"].(string)
	s.Regexp(`^RSU-\d{4}-[0-9A-F]{8}$`, person["rsu_id"])

	assessment := s.mustCall(agent, http.MethodPost, "/api/v1/persons/"+personID+"/assessments", "", http.StatusCreated)
	s.NotEmpty(assessment["tier"])
	s.Equal(false, assessment["partial"])

	program := s.mustCall(admin, http.MethodPost, "/api/v1/programs", `{
		"code": "CASH-ANJ", "name": "Cash transfer Anjouan", "budget_total": 1000000,
		"max_beneficiaries": 10, "amount_per_payment": 50000, "frequency": "monthly",
		"start_date": "2026-01-01", "criteria": {"provinces": ["Anjouan"]}
	}`, http.StatusCreated)
	programID := program["id"].(string)
	s.Equal("draft", program["status"])

	s.Run("enrollment needs an active program", func() {
		code, _ := s.call(agent, http.MethodPost, "/api/v1/enrollments",
			`{"program_id":"`+programID+`","person_id":"`+personID+`"}`)
		s.Equal(http.StatusBadRequest, code)
	})

	activated := s.mustCall(admin, http.MethodPost, "/api/v1/programs/"+programID+"/activate", "", http.StatusOK)
	s.Equal("active", activated["status"])

	check := s.mustCall(agent, http.MethodPost, "/api/v1/programs/"+programID+"/eligibility",
		`{"person_id":"`+personID+`"}`, http.StatusOK)
	s.Equal(personID, check["person_id"])

	enrollment := s.mustCall(agent, http.MethodPost, "/api/v1/enrollments",
		`{"program_id":"`+programID+`","person_id":"`+personID+`"}`, http.StatusCreated)
	enrollmentID := enrollment["id"].(string)
	s.Equal("PENDING", enrollment["status"])

	s.Run("agents cannot decide enrollments", func() {
		code, _ := s.call(agent, http.MethodPost, "/api/v1/enrollments/"+enrollmentID+"/approve", "")
		s.Equal(http.StatusForbidden, code)
	})

	s.Equal("APPROVED", s.mustCall(admin, http.MethodPost, "/api/v1/enrollments/"+enrollmentID+"/approve", "", http.StatusOK)["status"])
	s.Equal("ACTIVE", s.mustCall(admin, http.MethodPost, "/api/v1/enrollments/"+enrollmentID+"/activate", "", http.StatusOK)["status"])

	payment := s.mustCall(admin, http.MethodPost, "/api/v1/payments",
		`{"enrollment_id":"`+enrollmentID+`"}`, http.StatusCreated)
	paymentID := payment["id"].(string)
	s.InDelta(50000, payment["amount"], 0)

	s.Equal("PROCESSING", s.mustCall(admin, http.MethodPost, "/api/v1/payments/"+paymentID+"/process", "", http.StatusOK)["status"])
	s.Equal("COMPLETED", s.mustCall(admin, http.MethodPost, "/api/v1/payments/"+paymentID+"/complete", "", http.StatusOK)["status"])

	s.Run("completed payment cannot be cancelled", func() {
		code, _ := s.call(admin, http.MethodPost, "/api/v1/payments/"+paymentID+"/cancel", "")
		s.Equal(http.StatusConflict, code)
	})

	current := s.mustCall(viewer, http.MethodGet, "/api/v1/programs/"+programID, "", http.StatusOK)
	s.InDelta(50000, current["budget_spent"], 0)
	s.InDelta(1, current["current_beneficiaries"], 0)

	s.mustCall(viewer, http.MethodGet, "/api/v1/programs/"+programID+"/reconciliation", "", http.StatusOK)

	dashboard := s.mustCall(viewer, http.MethodGet, "/api/v1/analytics/dashboard", "", http.StatusOK)
	s.InDelta(1, dashboard["persons"].(map[string]any)["total"], 0)
	s.InDelta(1, dashboard["payments"].(map[string]any)["total"], 0)

	trail := s.mustCall(admin, http.MethodGet, "/api/v1/audit?kind=program&entity_id="+programID, "", http.StatusOK)
	s.GreaterOrEqual(trail["count"], float64(2))

	s.Run("viewers cannot write", func() {
		code, _ := s.call(viewer, http.MethodPost, "/api/v1/households", `{}`)
		s.Equal(http.StatusForbidden, code)
	})
}

func (s *AppSuite) TestUnauthenticated() {
	code, _ := s.call("", http.MethodGet, "/api/v1/persons", "")
	s.Equal(http.StatusUnauthorized, code)

	code, body := s.call("", http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, code)
	s.Equal("ok", body["status"])
}

func (s *AppSuite) TestRelayDisabledWithoutBrokers() {
	done, err := s.app.RunAuditRelay(context.Background())
	s.Require().NoError(err)
	select {
	case <-done:
	default:
		s.Fail("relay channel should be closed when no brokers are configured")
	}
}
