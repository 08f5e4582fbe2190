package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rsu/internal/registry/metrics"
	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/requestcontext"
)

// Service defines the registry operations used by the HTTP layer.
type Service interface {
	CreatePerson(ctx context.Context, details models.PersonDetails) (*models.Person, error)
	GetPerson(ctx context.Context, personID id.PersonID) (*models.Person, error)
	GetPersonByRSUID(ctx context.Context, rsuID id.RSUID) (*models.Person, error)
	ListPersons(ctx context.Context, filter models.PersonFilter, offset, limit int) ([]*models.Person, int, error)
	UpdatePerson(ctx context.Context, personID id.PersonID, patch models.PersonPatch) (*models.Person, error)
	DeletePerson(ctx context.Context, personID id.PersonID) error
	VerifyIdentity(ctx context.Context, personID id.PersonID) (*models.Person, error)
	CreateHousehold(ctx context.Context, details models.HouseholdDetails) (*models.Household, error)
	GetHousehold(ctx context.Context, householdID id.HouseholdID) (*models.Household, error)
	ListHouseholds(ctx context.Context, filter models.HouseholdFilter, offset, limit int) ([]*models.Household, int, error)
	UpdateHousehold(ctx context.Context, householdID id.HouseholdID, patch models.HouseholdPatch) (*models.Household, error)
	DeleteHousehold(ctx context.Context, householdID id.HouseholdID) error
	AddMember(ctx context.Context, householdID id.HouseholdID, personID id.PersonID) (*models.Person, error)
	SetHead(ctx context.Context, householdID id.HouseholdID, personID id.PersonID) (*models.Household, error)
	ListMembers(ctx context.Context, householdID id.HouseholdID) ([]*models.Person, error)
}

// Handler wires registry endpoints to the registry service.
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

// Register mounts person and household endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/persons", h.HandleListPersons)
	r.Post("/persons", h.HandleCreatePerson)
	r.Get("/persons/by-rsu/{rsuID}", h.HandleGetPersonByRSUID)
	r.Get("/persons/{id}", h.HandleGetPerson)
	r.Patch("/persons/{id}", h.HandleUpdatePerson)
	r.Delete("/persons/{id}", h.HandleDeletePerson)
	r.Post("/persons/{id}/verify-identity", h.HandleVerifyIdentity)

	r.Get("/households", h.HandleListHouseholds)
	r.Post("/households", h.HandleCreateHousehold)
	r.Get("/households/{id}", h.HandleGetHousehold)
	r.Patch("/households/{id}", h.HandleUpdateHousehold)
	r.Delete("/households/{id}", h.HandleDeleteHousehold)
	r.Get("/households/{id}/members", h.HandleListMembers)
	r.Post("/households/{id}/members", h.HandleAddMember)
	r.Post("/households/{id}/head", h.HandleSetHead)
}

func (h *Handler) HandleCreatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreatePersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.CreatePerson(ctx, req.Details())
	if err != nil {
		h.logger.WarnContext(ctx, "create person failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "person created",
		"request_id", requestID,
		"person_id", p.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPerson(p, requestcontext.Now(ctx)))
}

func (h *Handler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetPerson(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPerson(p, requestcontext.Now(ctx)))
}

func (h *Handler) HandleGetPersonByRSUID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rsuID, err := id.ParseRSUID(chi.URLParam(r, "rsuID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetPersonByRSUID(ctx, rsuID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPerson(p, requestcontext.Now(ctx)))
}

// HandleListPersons handles GET /persons?province=&gender=&household_id=&page=.
func (h *Handler) HandleListPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	filter := models.PersonFilter{Province: q.Get("province")}
	if raw := q.Get("gender"); raw != "" {
		if filter.Gender, err = models.ParseGender(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if raw := q.Get("household_id"); raw != "" {
		householdID, err := id.ParseHouseholdID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.HouseholdID = &householdID
	}

	persons, total, err := h.service.ListPersons(ctx, filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromPersons(persons, requestcontext.Now(ctx)), total, page))
}

func (h *Handler) HandleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdatePersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.UpdatePerson(ctx, personID, req.Patch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPerson(p, requestcontext.Now(ctx)))
}

func (h *Handler) HandleDeletePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeletePerson(ctx, personID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleVerifyIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.VerifyIdentity(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "identity verified",
		"request_id", requestcontext.RequestID(ctx),
		"person_id", personID,
		"operator_id", requestcontext.OperatorID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromPerson(p, requestcontext.Now(ctx)))
}

func (h *Handler) HandleCreateHousehold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[HouseholdRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	household, err := h.service.CreateHousehold(ctx, req.Details())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromHousehold(household))
}

func (h *Handler) HandleGetHousehold(w http.ResponseWriter, r *http.Request) {
	householdID, err := id.ParseHouseholdID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	household, err := h.service.GetHousehold(r.Context(), householdID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromHousehold(household))
}

// HandleListHouseholds handles GET /households?province=&zone=&page=.
func (h *Handler) HandleListHouseholds(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	filter := models.HouseholdFilter{Province: q.Get("province")}
	if raw := q.Get("zone"); raw != "" {
		if filter.Zone, err = models.ParseZone(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	households, total, err := h.service.ListHouseholds(r.Context(), filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromHouseholds(households), total, page))
}

func (h *Handler) HandleUpdateHousehold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	householdID, err := id.ParseHouseholdID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateHouseholdRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	household, err := h.service.UpdateHousehold(ctx, householdID, req.Patch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromHousehold(household))
}

func (h *Handler) HandleDeleteHousehold(w http.ResponseWriter, r *http.Request) {
	householdID, err := id.ParseHouseholdID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteHousehold(r.Context(), householdID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	householdID, err := id.ParseHouseholdID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	members, err := h.service.ListMembers(ctx, householdID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPersons(members, requestcontext.Now(ctx)))
}

func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	householdID, err := id.ParseHouseholdID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[PersonRefRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	member, err := h.service.AddMember(ctx, householdID, req.ParsedPersonID())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPerson(member, requestcontext.Now(ctx)))
}

func (h *Handler) HandleSetHead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	householdID, err := id.ParseHouseholdID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[PersonRefRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	household, err := h.service.SetHead(ctx, householdID, req.ParsedPersonID())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromHousehold(household))
}
