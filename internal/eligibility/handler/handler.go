package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rsu/internal/eligibility"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/requestcontext"
)

// Service defines the eligibility operations used by the HTTP layer.
type Service interface {
	Check(ctx context.Context, programID id.ProgramID, personID id.PersonID) (*eligibility.Check, error)
	CheckBulk(ctx context.Context, programID id.ProgramID, personIDs []id.PersonID) (*eligibility.BulkResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/programs/{id}/eligibility", h.HandleCheck)
	r.Post("/programs/{id}/eligibility/bulk", h.HandleBulk)
}

func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	check, err := h.service.Check(ctx, programID, req.personID)
	if err != nil {
		h.logger.WarnContext(ctx, "eligibility check failed",
			"request_id", requestID,
			"program_id", programID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCheck(*check))
}

func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[BulkCheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.CheckBulk(ctx, programID, req.personIDs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "bulk eligibility completed",
		"request_id", requestID,
		"program_id", programID,
		"checked", result.Checked,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromBulk(result))
}
