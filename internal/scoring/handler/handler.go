package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rsu/internal/scoring"
	"rsu/internal/scoring/metrics"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/requestcontext"
)

// Service defines the scoring operations used by the HTTP layer.
type Service interface {
	Assess(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error)
	AssessBatch(ctx context.Context, personIDs []id.PersonID) (*scoring.BatchResult, error)
	History(ctx context.Context, personID id.PersonID) ([]*scoring.Assessment, error)
	ListAssessments(ctx context.Context, filter scoring.AssessmentFilter, offset, limit int) ([]*scoring.Assessment, int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts assessment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/persons/{id}/assessments", h.HandleAssess)
	r.Get("/persons/{id}/assessments", h.HandleHistory)
	r.Post("/assessments/batch", h.HandleBatch)
	r.Get("/assessments", h.HandleList)
}

func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.Assess(ctx, personID)
	if err != nil {
		h.logger.WarnContext(ctx, "assessment failed",
			"request_id", requestID,
			"person_id", personID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromAssessment(a))
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	history, err := h.service.History(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAssessments(history))
}

// HandleBatch handles POST /assessments/batch. Per-item failures are part of
// a 200 response.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.AssessBatch(ctx, req.ParsedPersonIDs())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "batch assessment completed",
		"request_id", requestID,
		"processed", result.Processed,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromBatch(result))
}

// HandleList handles GET /assessments?tier=&page=, listing each person's
// latest assessment.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var filter scoring.AssessmentFilter
	if raw := r.URL.Query().Get("tier"); raw != "" {
		if filter.Tier, err = scoring.ParseTier(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	assessments, total, err := h.service.ListAssessments(ctx, filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromAssessments(assessments), total, page))
}
