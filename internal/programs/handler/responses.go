package handler

import (
	"encoding/json"
	"math"
	"time"

	"rsu/internal/programs/models"
)

type ProgramResponse struct {
	ID                   string          `json:"id"`
	Code                 string          `json:"code"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	BudgetTotal          int64           `json:"budget_total"`
	BudgetSpent          int64           `json:"budget_spent"`
	RemainingBudget      int64           `json:"remaining_budget"`
	Utilization          float64         `json:"utilization"`
	MaxBeneficiaries     int             `json:"max_beneficiaries"`
	CurrentBeneficiaries int             `json:"current_beneficiaries"`
	AmountPerPayment     int64           `json:"amount_per_payment"`
	Frequency            string          `json:"frequency"`
	StartDate            string          `json:"start_date"`
	EndDate              *string         `json:"end_date"`
	Criteria             json.RawMessage `json:"criteria"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func FromProgram(p *models.Program) ProgramResponse {
	resp := ProgramResponse{
		ID:                   p.ID.String(),
		Code:                 p.Code,
		Name:                 p.Name,
		Description:          p.Description,
		BudgetTotal:          p.BudgetTotal,
		BudgetSpent:          p.BudgetSpent,
		RemainingBudget:      p.RemainingBudget(),
		Utilization:          math.Round(p.Utilization()*100) / 100,
		MaxBeneficiaries:     p.MaxBeneficiaries,
		CurrentBeneficiaries: p.CurrentBeneficiaries,
		AmountPerPayment:     p.AmountPerPayment,
		Frequency:            string(p.Frequency),
		StartDate:            p.StartDate.Format(dateLayout),
		Criteria:             p.Criteria.Document(),
		Status:               string(p.Status),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}

func FromPrograms(programs []*models.Program) []ProgramResponse {
	out := make([]ProgramResponse, len(programs))
	for i, p := range programs {
		out[i] = FromProgram(p)
	}
	return out
}

type EnrollmentResponse struct {
	ID               string     `json:"id"`
	ProgramID        string     `json:"program_id"`
	PersonID         string     `json:"person_id"`
	EligibilityScore float64    `json:"eligibility_score"`
	Status           string     `json:"status"`
	TotalReceived    int64      `json:"total_received"`
	PaymentsCount    int        `json:"payments_count"`
	Notes            string     `json:"notes,omitempty"`
	DecisionReason   string     `json:"decision_reason,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at"`
	ActivatedAt      *time.Time `json:"activated_at"`
	EndedAt          *time.Time `json:"ended_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func FromEnrollment(e *models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:               e.ID.String(),
		ProgramID:        e.ProgramID.String(),
		PersonID:         e.PersonID.String(),
		EligibilityScore: e.EligibilityScore,
		Status:           string(e.Status),
		TotalReceived:    e.TotalReceived,
		PaymentsCount:    e.PaymentsCount,
		Notes:            e.Notes,
		DecisionReason:   e.DecisionReason,
		ApprovedAt:       e.ApprovedAt,
		ActivatedAt:      e.ActivatedAt,
		EndedAt:          e.EndedAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromEnrollments(enrollments []*models.Enrollment) []EnrollmentResponse {
	out := make([]EnrollmentResponse, len(enrollments))
	for i, e := range enrollments {
		out[i] = FromEnrollment(e)
	}
	return out
}

type PaymentResponse struct {
	ID            string     `json:"id"`
	EnrollmentID  string     `json:"enrollment_id"`
	ProgramID     string     `json:"program_id"`
	Amount        int64      `json:"amount"`
	Status        string     `json:"status"`
	Reference     string     `json:"reference"`
	FailureReason string     `json:"failure_reason,omitempty"`
	ScheduledFor  *string    `json:"scheduled_for"`
	ProcessedAt   *time.Time `json:"processed_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func FromPayment(p *models.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID.String(),
		EnrollmentID:  p.EnrollmentID.String(),
		ProgramID:     p.ProgramID.String(),
		Amount:        p.Amount,
		Status:        string(p.Status),
		Reference:     p.Reference,
		FailureReason: p.FailureReason,
		ProcessedAt:   p.ProcessedAt,
		CompletedAt:   p.CompletedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.ScheduledFor != nil {
		scheduled := p.ScheduledFor.Format(dateLayout)
		resp.ScheduledFor = &scheduled
	}
	return resp
}

func FromPayments(payments []*models.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = FromPayment(p)
	}
	return out
}

type CountersResponse struct {
	CurrentBeneficiaries int   `json:"current_beneficiaries"`
	BudgetSpent          int64 `json:"budget_spent"`
}

type EnrollmentDriftResponse struct {
	EnrollmentID          string `json:"enrollment_id"`
	RecordedTotalReceived int64  `json:"recorded_total_received"`
	DerivedTotalReceived  int64  `json:"derived_total_received"`
	RecordedPaymentsCount int    `json:"recorded_payments_count"`
	DerivedPaymentsCount  int    `json:"derived_payments_count"`
}

type ReconciliationResponse struct {
	ProgramID   string                    `json:"program_id"`
	Drift       bool                      `json:"drift"`
	Recorded    CountersResponse          `json:"recorded"`
	Derived     CountersResponse          `json:"derived"`
	Enrollments []EnrollmentDriftResponse `json:"enrollments"`
	CheckedAt   time.Time                 `json:"checked_at"`
}

func FromReconciliation(r *models.Reconciliation) ReconciliationResponse {
	resp := ReconciliationResponse{
		ProgramID:   r.ProgramID.String(),
		Drift:       r.HasDrift(),
		Recorded:    CountersResponse(r.Recorded),
		Derived:     CountersResponse(r.Derived),
		Enrollments: make([]EnrollmentDriftResponse, len(r.Enrollments)),
		CheckedAt:   r.CheckedAt,
	}
	for i, d := range r.Enrollments {
		resp.Enrollments[i] = EnrollmentDriftResponse{
			EnrollmentID:          d.EnrollmentID.String(),
			RecordedTotalReceived: d.RecordedTotalReceived,
			DerivedTotalReceived:  d.DerivedTotalReceived,
			RecordedPaymentsCount: d.RecordedPaymentsCount,
			DerivedPaymentsCount:  d.DerivedPaymentsCount,
		}
	}
	return resp
}
