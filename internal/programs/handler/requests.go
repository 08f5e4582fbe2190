package handler

import (
	"encoding/json"
	"strings"
	"time"

	"rsu/internal/eligibility"
	"rsu/internal/programs/models"
	"rsu/internal/programs/service"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

func parseDate(fields dErrors.FieldErrors, field, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		fields.Add(field, field+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

// CreateProgramRequest is the body of POST /programs.
type CreateProgramRequest struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	BudgetTotal      int64           `json:"budget_total"`
	MaxBeneficiaries int             `json:"max_beneficiaries"`
	AmountPerPayment int64           `json:"amount_per_payment"`
	Frequency        string          `json:"frequency"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Criteria         json.RawMessage `json:"criteria"`

	details models.ProgramDetails
}

func (r *CreateProgramRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	d := models.ProgramDetails{
		Code:             r.Code,
		Name:             r.Name,
		Description:      r.Description,
		BudgetTotal:      r.BudgetTotal,
		MaxBeneficiaries: r.MaxBeneficiaries,
		AmountPerPayment: r.AmountPerPayment,
		EndDate:          parseDate(fields, "end_date", r.EndDate),
	}
	if start := parseDate(fields, "start_date", r.StartDate); start != nil {
		d.StartDate = *start
	} else if strings.TrimSpace(r.StartDate) == "" {
		fields.Add("start_date", "start_date is required")
	}
	frequency, err := models.ParseFrequency(r.Frequency)
	fields.Merge(err)
	d.Frequency = frequency
	criteria, err := eligibility.ParseCriteria(r.Criteria)
	fields.Merge(err)
	d.Criteria = criteria

	if err := fields.Err("invalid program"); err != nil {
		return err
	}
	r.details = d
	return nil
}

func (r *CreateProgramRequest) Details() models.ProgramDetails {
	return r.details
}

// UpdateProgramRequest is the body of PATCH /programs/{id}. Absent fields are
// left unchanged.
type UpdateProgramRequest struct {
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	BudgetTotal      *int64          `json:"budget_total"`
	MaxBeneficiaries *int            `json:"max_beneficiaries"`
	AmountPerPayment *int64          `json:"amount_per_payment"`
	Frequency        *string         `json:"frequency"`
	StartDate        *string         `json:"start_date"`
	EndDate          *string         `json:"end_date"`
	Criteria         json.RawMessage `json:"criteria"`

	patch models.ProgramPatch
}

func (r *UpdateProgramRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	patch := models.ProgramPatch{
		Name:             r.Name,
		Description:      r.Description,
		BudgetTotal:      r.BudgetTotal,
		MaxBeneficiaries: r.MaxBeneficiaries,
		AmountPerPayment: r.AmountPerPayment,
	}
	if r.Frequency != nil {
		frequency, err := models.ParseFrequency(*r.Frequency)
		fields.Merge(err)
		patch.Frequency = &frequency
	}
	if r.StartDate != nil {
		patch.StartDate = parseDate(fields, "start_date", *r.StartDate)
		if patch.StartDate == nil {
			fields.Add("start_date", "start_date cannot be empty")
		}
	}
	if r.EndDate != nil {
		patch.EndDate = parseDate(fields, "end_date", *r.EndDate)
	}
	if len(r.Criteria) > 0 {
		criteria, err := eligibility.ParseCriteria(r.Criteria)
		fields.Merge(err)
		patch.Criteria = &criteria
	}
	if err := fields.Err("invalid program update"); err != nil {
		return err
	}
	r.patch = patch
	return nil
}

func (r *UpdateProgramRequest) Patch() models.ProgramPatch {
	return r.patch
}

// CreateEnrollmentRequest is the body of POST /enrollments.
type CreateEnrollmentRequest struct {
	ProgramID string `json:"program_id"`
	PersonID  string `json:"person_id"`
	Notes     string `json:"notes"`

	req service.EnrollmentRequest
}

func (r *CreateEnrollmentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	programID, err := id.ParseProgramID(r.ProgramID)
	if err != nil {
		fields.Add("program_id", err.Error())
	}
	personID, err := id.ParsePersonID(r.PersonID)
	if err != nil {
		fields.Add("person_id", err.Error())
	}
	if err := fields.Err("invalid enrollment"); err != nil {
		return err
	}
	r.req = service.EnrollmentRequest{ProgramID: programID, PersonID: personID, Notes: r.Notes}
	return nil
}

func (r *CreateEnrollmentRequest) Request() service.EnrollmentRequest {
	return r.req
}

// ReasonRequest carries the justification of a decision. Whether a reason is
// required depends on the transition.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

func (r *ReasonRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	return nil
}

// CreatePaymentRequest is the body of POST /payments.
type CreatePaymentRequest struct {
	EnrollmentID string `json:"enrollment_id"`
	Amount       *int64 `json:"amount"`
	ScheduledFor string `json:"scheduled_for"`

	req service.PaymentRequest
}

func (r *CreatePaymentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	enrollmentID, err := id.ParseEnrollmentID(r.EnrollmentID)
	if err != nil {
		fields.Add("enrollment_id", err.Error())
	}
	if r.Amount != nil && *r.Amount <= 0 {
		fields.Add("amount", "amount must be positive")
	}
	scheduled := parseDate(fields, "scheduled_for", r.ScheduledFor)
	if err := fields.Err("invalid payment"); err != nil {
		return err
	}
	r.req = service.PaymentRequest{EnrollmentID: enrollmentID, Amount: r.Amount, ScheduledFor: scheduled}
	return nil
}

func (r *CreatePaymentRequest) Request() service.PaymentRequest {
	return r.req
}
