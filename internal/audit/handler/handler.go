// Package handler exposes the audit log for review.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/requestcontext"
)

// Service lists audit entries newest first.
type Service interface {
	List(ctx context.Context, filter audit.Filter, offset, limit int) ([]audit.Entry, int, error)
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

func (h *Handler) Register(r chi.Router) {
	r.Get("/audit", h.HandleList)
}

type EntryResponse struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	EntityID  string            `json:"entity_id"`
	Action    string            `json:"action"`
	ActorID   string            `json:"actor_id"`
	RequestID string            `json:"request_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

func FromEntries(entries []audit.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			ID:        e.ID.String(),
			Kind:      string(e.Target.Kind()),
			EntityID:  e.Target.EntityID(),
			Action:    string(e.Action),
			ActorID:   e.ActorID.String(),
			RequestID: e.RequestID,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		}
	}
	return out
}

// HandleList handles GET /audit?kind=&entity_id=&page=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	var filter audit.Filter
	if raw := strings.TrimSpace(q.Get("kind")); raw != "" {
		if filter.Kind, err = audit.ParseKind(strings.ToLower(raw)); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	filter.EntityID = strings.ToLower(strings.TrimSpace(q.Get("entity_id")))

	entries, total, err := h.service.List(ctx, filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		h.logger.ErrorContext(ctx, "list audit entries failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromEntries(entries), total, page))
}
