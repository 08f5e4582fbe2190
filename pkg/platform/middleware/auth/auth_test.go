package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	id "rsu/pkg/domain"
	"rsu/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) { return v.claims, v.err }

type stubRevocation struct {
	revoked bool
	err     error
}

func (c stubRevocation) IsTokenRevoked(context.Context, string) (bool, error) { return c.revoked, c.err }

type AuthMiddlewareSuite struct {
	suite.Suite
	logger     *slog.Logger
	operatorID id.OperatorID
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.operatorID = id.NewOperatorID()
}

func (s *AuthMiddlewareSuite) validClaims(role string) *JWTClaims {
	return &JWTClaims{OperatorID: s.operatorID.String(), Role: role, JTI: "jti-1"}
}

func (s *AuthMiddlewareSuite) serve(mw func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, bool) {
	called := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		s.Equal(s.operatorID, requestcontext.OperatorID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, called
}

func (s *AuthMiddlewareSuite) bearer(method string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/persons", nil)
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	s.Run("valid token injects operator", func() {
		mw := RequireAuth(stubValidator{claims: s.validClaims("agent")}, nil, s.logger)
		rr, called := s.serve(mw, s.bearer(http.MethodGet))
		s.True(called)
		s.Equal(http.StatusNoContent, rr.Code)
	})

	s.Run("missing header is unauthorized", func() {
		mw := RequireAuth(stubValidator{claims: s.validClaims("agent")}, nil, s.logger)
		rr, called := s.serve(mw, httptest.NewRequest(http.MethodGet, "/", nil))
		s.False(called)
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Contains(rr.Body.String(), `"error":"unauthorized"`)
	})

	s.Run("invalid token is unauthorized", func() {
		mw := RequireAuth(stubValidator{err: errors.New("bad signature")}, nil, s.logger)
		rr, called := s.serve(mw, s.bearer(http.MethodGet))
		s.False(called)
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("unknown role is unauthorized", func() {
		mw := RequireAuth(stubValidator{claims: s.validClaims("root")}, nil, s.logger)
		rr, called := s.serve(mw, s.bearer(http.MethodGet))
		s.False(called)
		s.Equal(http.StatusUnauthorized, rr.Code)
	})

	s.Run("revoked token is unauthorized", func() {
		mw := RequireAuth(stubValidator{claims: s.validClaims("admin")}, stubRevocation{revoked: true}, s.logger)
		rr, called := s.serve(mw, s.bearer(http.MethodGet))
		s.False(called)
		s.Equal(http.StatusUnauthorized, rr.Code)
		s.Contains(rr.Body.String(), "revoked")
	})

	s.Run("revocation lookup failure is internal", func() {
		mw := RequireAuth(stubValidator{claims: s.validClaims("admin")}, stubRevocation{err: errors.New("redis down")}, s.logger)
		rr, called := s.serve(mw, s.bearer(http.MethodGet))
		s.False(called)
		s.Equal(http.StatusInternalServerError, rr.Code)
	})
}

func (s *AuthMiddlewareSuite) TestRequireRole() {
	cases := []struct {
		name     string
		role     requestcontext.Role
		required requestcontext.Role
		method   string
		write    bool
		want     int
	}{
		{"admin passes admin gate", requestcontext.RoleAdmin, requestcontext.RoleAdmin, http.MethodPost, false, http.StatusNoContent},
		{"agent blocked at admin gate", requestcontext.RoleAgent, requestcontext.RoleAdmin, http.MethodPost, false, http.StatusForbidden},
		{"viewer reads through write gate", requestcontext.RoleViewer, requestcontext.RoleAgent, http.MethodGet, true, http.StatusNoContent},
		{"viewer blocked writing", requestcontext.RoleViewer, requestcontext.RoleAgent, http.MethodPost, true, http.StatusForbidden},
		{"agent writes through agent gate", requestcontext.RoleAgent, requestcontext.RoleAgent, http.MethodPatch, true, http.StatusNoContent},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			mw := RequireRole(tc.required, s.logger)
			if tc.write {
				mw = RequireWriteRole(tc.required, s.logger)
			}
			req := httptest.NewRequest(tc.method, "/", nil)
			req = req.WithContext(requestcontext.WithOperator(req.Context(), s.operatorID, tc.role))
			rr, _ := s.serve(mw, req)
			assert.Equal(s.T(), tc.want, rr.Code)
		})
	}

	s.Run("unauthenticated request is unauthorized", func() {
		rr := httptest.NewRecorder()
		RequireRole(requestcontext.RoleViewer, s.logger)(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusUnauthorized, rr.Code)
	})
}
