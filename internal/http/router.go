// Package httpapi assembles the public router: shared middleware, role gates
// and the per-context handlers under /api/v1.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rsu/internal/platform/metrics"
	"rsu/pkg/platform/httputil"
	authmw "rsu/pkg/platform/middleware/auth"
	"rsu/pkg/platform/middleware/request"
	"rsu/pkg/requestcontext"
)

const healthTimeout = 2 * time.Second

// Registrar mounts a bounded context's routes.
type Registrar interface {
	Register(r chi.Router)
}

// ProgramRoutes splits program endpoints by the role they require.
type ProgramRoutes interface {
	RegisterReads(r chi.Router)
	RegisterAgentWrites(r chi.Router)
	RegisterAdminWrites(r chi.Router)
}

// Handlers are the mounted contexts. Nil entries are skipped.
type Handlers struct {
	Registry    Registrar
	Scoring     Registrar
	Eligibility Registrar
	Programs    ProgramRoutes
	Analytics   Registrar
	Audit       Registrar
}

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// Config carries the router's collaborators.
type Config struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Validator   authmw.JWTValidator
	Revocations authmw.TokenRevocationChecker
	Health      map[string]HealthCheck
	// RateLimit runs after authentication. Nil disables it.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter wires every endpoint. Role gates:
//   - viewer: GET everywhere except the audit log
//   - agent: registry writes, assessments, eligibility checks, enrollment creation
//   - admin: program management, enrollment decisions, payments, audit log
func NewRouter(cfg Config, h Handlers) chi.Router {
	logger := cfg.Logger
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(middleware.Recoverer)
	r.Use(cfg.Metrics.Middleware)
	r.Use(request.AccessLog(logger))

	r.Get("/health", healthHandler(cfg.Health, logger))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(authmw.RequireAuth(cfg.Validator, cfg.Revocations, logger))
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit)
		}

		api.Group(func(agent chi.Router) {
			agent.Use(authmw.RequireWriteRole(requestcontext.RoleAgent, logger))
			mount(agent, h.Registry)
			mount(agent, h.Scoring)
			mount(agent, h.Eligibility)
			if h.Programs != nil {
				h.Programs.RegisterAgentWrites(agent)
			}
		})

		api.Group(func(viewer chi.Router) {
			viewer.Use(authmw.RequireRole(requestcontext.RoleViewer, logger))
			mount(viewer, h.Analytics)
			if h.Programs != nil {
				h.Programs.RegisterReads(viewer)
			}
		})

		api.Group(func(admin chi.Router) {
			admin.Use(authmw.RequireRole(requestcontext.RoleAdmin, logger))
			mount(admin, h.Audit)
			if h.Programs != nil {
				h.Programs.RegisterAdminWrites(admin)
			}
		})
	})
	return r
}

func mount(r chi.Router, reg Registrar) {
	if reg != nil {
		reg.Register(r)
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"dependency", name,
					"error", err,
				)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
