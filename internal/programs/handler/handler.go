package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rsu/internal/programs/models"
	"rsu/internal/programs/service"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/requestcontext"
)

// Service defines the program, enrollment and payment operations used by the
// HTTP layer.
type Service interface {
	CreateProgram(ctx context.Context, details models.ProgramDetails) (*models.Program, error)
	GetProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	ListPrograms(ctx context.Context, filter models.ProgramFilter, offset, limit int) ([]*models.Program, int, error)
	UpdateProgram(ctx context.Context, programID id.ProgramID, patch models.ProgramPatch) (*models.Program, error)
	ActivateProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	PauseProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	CloseProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error)
	Reconcile(ctx context.Context, programID id.ProgramID) (*models.Reconciliation, error)

	CreateEnrollment(ctx context.Context, req service.EnrollmentRequest) (*models.Enrollment, error)
	GetEnrollment(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, filter models.EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int, error)
	ApproveEnrollment(ctx context.Context, enrollmentID id.EnrollmentID, reason string) (*models.Enrollment, error)
	RejectEnrollment(ctx context.Context, enrollmentID id.EnrollmentID, reason string) (*models.Enrollment, error)
	ActivateEnrollment(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error)
	SuspendEnrollment(ctx context.Context, enrollmentID id.EnrollmentID, reason string) (*models.Enrollment, error)
	CompleteEnrollment(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error)

	CreatePayment(ctx context.Context, req service.PaymentRequest) (*models.Payment, error)
	GetPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter, offset, limit int) ([]*models.Payment, int, error)
	ProcessPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	CompletePayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
	FailPayment(ctx context.Context, paymentID id.PaymentID, reason string) (*models.Payment, error)
	CancelPayment(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error)
}

// Handler wires program, enrollment and payment endpoints to the service.
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

// RegisterReads mounts the GET endpoints.
func (h *Handler) RegisterReads(r chi.Router) {
	r.Get("/programs", h.HandleListPrograms)
	r.Get("/programs/{id}", h.HandleGetProgram)
	r.Get("/programs/{id}/reconciliation", h.HandleReconcile)
	r.Get("/enrollments", h.HandleListEnrollments)
	r.Get("/enrollments/{id}", h.HandleGetEnrollment)
	r.Get("/payments", h.HandleListPayments)
	r.Get("/payments/{id}", h.HandleGetPayment)
}

// RegisterAgentWrites mounts the writes open to field agents.
func (h *Handler) RegisterAgentWrites(r chi.Router) {
	r.Post("/enrollments", h.HandleCreateEnrollment)
}

// RegisterAdminWrites mounts program management, enrollment decisions and
// payments.
func (h *Handler) RegisterAdminWrites(r chi.Router) {
	r.Post("/programs", h.HandleCreateProgram)
	r.Patch("/programs/{id}", h.HandleUpdateProgram)
	r.Post("/programs/{id}/activate", h.programAction(h.service.ActivateProgram, "activate program"))
	r.Post("/programs/{id}/pause", h.programAction(h.service.PauseProgram, "pause program"))
	r.Post("/programs/{id}/close", h.programAction(h.service.CloseProgram, "close program"))

	r.Post("/enrollments/{id}/approve", h.HandleApproveEnrollment)
	r.Post("/enrollments/{id}/reject", h.enrollmentDecision(h.service.RejectEnrollment, "reject enrollment"))
	r.Post("/enrollments/{id}/activate", h.enrollmentAction(h.service.ActivateEnrollment, "activate enrollment"))
	r.Post("/enrollments/{id}/suspend", h.enrollmentDecision(h.service.SuspendEnrollment, "suspend enrollment"))
	r.Post("/enrollments/{id}/complete", h.enrollmentAction(h.service.CompleteEnrollment, "complete enrollment"))

	r.Post("/payments", h.HandleCreatePayment)
	r.Post("/payments/{id}/process", h.paymentAction(h.service.ProcessPayment, "process payment"))
	r.Post("/payments/{id}/complete", h.paymentAction(h.service.CompletePayment, "complete payment"))
	r.Post("/payments/{id}/fail", h.HandleFailPayment)
	r.Post("/payments/{id}/cancel", h.paymentAction(h.service.CancelPayment, "cancel payment"))
}

// Register mounts every endpoint without role separation.
func (h *Handler) Register(r chi.Router) {
	h.RegisterReads(r)
	h.RegisterAgentWrites(r)
	h.RegisterAdminWrites(r)
}

func (h *Handler) HandleCreateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.CreateProgram(ctx, req.Details())
	if err != nil {
		h.fail(ctx, w, "create program", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromProgram(p))
}

func (h *Handler) HandleGetProgram(w http.ResponseWriter, r *http.Request) {
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetProgram(r.Context(), programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProgram(p))
}

// HandleListPrograms handles GET /programs?status=&page=.
func (h *Handler) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var filter models.ProgramFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		if filter.Status, err = models.ParseProgramStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	programs, total, err := h.service.ListPrograms(r.Context(), filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromPrograms(programs), total, page))
}

func (h *Handler) HandleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProgramRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.UpdateProgram(ctx, programID, req.Patch())
	if err != nil {
		h.fail(ctx, w, "update program", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProgram(p))
}

func (h *Handler) programAction(action func(context.Context, id.ProgramID) (*models.Program, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		p, err := action(ctx, programID)
		if err != nil {
			h.fail(ctx, w, name, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, FromProgram(p))
	}
}

func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	programID, err := id.ParseProgramID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.service.Reconcile(r.Context(), programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromReconciliation(result))
}

func (h *Handler) HandleCreateEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[CreateEnrollmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	e, err := h.service.CreateEnrollment(ctx, req.Request())
	if err != nil {
		h.fail(ctx, w, "create enrollment", err)
		return
	}
	h.logger.InfoContext(ctx, "enrollment created",
		"request_id", requestID,
		"enrollment_id", e.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromEnrollment(e))
}

func (h *Handler) HandleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	enrollmentID, err := id.ParseEnrollmentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.GetEnrollment(r.Context(), enrollmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEnrollment(e))
}

// HandleListEnrollments handles GET /enrollments?program_id=&person_id=&status=&page=.
func (h *Handler) HandleListEnrollments(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	var filter models.EnrollmentFilter
	if raw := q.Get("program_id"); raw != "" {
		programID, err := id.ParseProgramID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.ProgramID = &programID
	}
	if raw := q.Get("person_id"); raw != "" {
		personID, err := id.ParsePersonID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.PersonID = &personID
	}
	if raw := q.Get("status"); raw != "" {
		if filter.Status, err = models.ParseEnrollmentStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	enrollments, total, err := h.service.ListEnrollments(r.Context(), filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromEnrollments(enrollments), total, page))
}

// HandleApproveEnrollment accepts an optional {"reason": "..."} body.
func (h *Handler) HandleApproveEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	enrollmentID, err := id.ParseEnrollmentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req ReasonRequest
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.service.ApproveEnrollment(ctx, enrollmentID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "approve enrollment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEnrollment(e))
}

func (h *Handler) enrollmentDecision(action func(context.Context, id.EnrollmentID, string) (*models.Enrollment, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		enrollmentID, err := id.ParseEnrollmentID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		req, ok := httputil.DecodeAndPrepare[ReasonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
		e, err := action(ctx, enrollmentID, req.Reason)
		if err != nil {
			h.fail(ctx, w, name, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, FromEnrollment(e))
	}
}

func (h *Handler) enrollmentAction(action func(context.Context, id.EnrollmentID) (*models.Enrollment, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		enrollmentID, err := id.ParseEnrollmentID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		e, err := action(ctx, enrollmentID)
		if err != nil {
			h.fail(ctx, w, name, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, FromEnrollment(e))
	}
}

func (h *Handler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePaymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, err := h.service.CreatePayment(ctx, req.Request())
	if err != nil {
		h.fail(ctx, w, "create payment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromPayment(p))
}

func (h *Handler) HandleGetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetPayment(r.Context(), paymentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPayment(p))
}

// HandleListPayments handles GET /payments?program_id=&enrollment_id=&status=&page=.
func (h *Handler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	page, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q := r.URL.Query()
	var filter models.PaymentFilter
	if raw := q.Get("program_id"); raw != "" {
		programID, err := id.ParseProgramID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.ProgramID = &programID
	}
	if raw := q.Get("enrollment_id"); raw != "" {
		enrollmentID, err := id.ParseEnrollmentID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.EnrollmentID = &enrollmentID
	}
	if raw := q.Get("status"); raw != "" {
		if filter.Status, err = models.ParsePaymentStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	payments, total, err := h.service.ListPayments(r.Context(), filter, httputil.Offset(page), httputil.PageSize)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(FromPayments(payments), total, page))
}

func (h *Handler) HandleFailPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReasonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	p, err := h.service.FailPayment(ctx, paymentID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "fail payment", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPayment(p))
}

func (h *Handler) paymentAction(action func(context.Context, id.PaymentID) (*models.Payment, error), name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		paymentID, err := id.ParsePaymentID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		p, err := action(ctx, paymentID)
		if err != nil {
			h.fail(ctx, w, name, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, FromPayment(p))
	}
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, action string, err error) {
	h.logger.WarnContext(ctx, action+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"operator_id", requestcontext.OperatorID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

// decodeOptional decodes a JSON body into v when one is present.
func decodeOptional(r *http.Request, v *ReasonRequest) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeBadRequest, "invalid JSON body")
	}
	return v.Validate()
}
