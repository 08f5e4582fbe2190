package models

import (
	"strings"
	"time"

	"rsu/internal/eligibility"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

type ProgramStatus string

const (
	ProgramDraft  ProgramStatus = "draft"
	ProgramActive ProgramStatus = "active"
	ProgramPaused ProgramStatus = "paused"
	ProgramClosed ProgramStatus = "closed"
)

func ParseProgramStatus(s string) (ProgramStatus, error) {
	switch st := ProgramStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ProgramDraft, ProgramActive, ProgramPaused, ProgramClosed:
		return st, nil
	}
	return "", dErrors.FieldError("status", "status must be one of draft, active, paused, closed")
}

type Frequency string

const (
	FrequencyOneTime   Frequency = "one_time"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnual    Frequency = "annual"
)

func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return f, nil
	}
	return "", dErrors.FieldError("frequency", "frequency must be one of one_time, monthly, quarterly, annual")
}

const maxCodeLength = 32

// Program is a social assistance program.
//
// Invariants:
//   - BudgetTotal > 0 and 0 <= BudgetSpent <= BudgetTotal
//   - 0 < AmountPerPayment <= BudgetTotal
//   - MaxBeneficiaries == 0 means unlimited; otherwise CurrentBeneficiaries <= MaxBeneficiaries
//   - EndDate, when set, is not before StartDate
//
// CurrentBeneficiaries and BudgetSpent are maintained incrementally inside the
// transactions that approve enrollments and complete payments.
type Program struct {
	ID                   id.ProgramID
	Code                 string
	Name                 string
	Description          string
	BudgetTotal          int64
	BudgetSpent          int64
	MaxBeneficiaries     int
	CurrentBeneficiaries int
	AmountPerPayment     int64
	Frequency            Frequency
	StartDate            time.Time
	EndDate              *time.Time
	Criteria             eligibility.Criteria
	Status               ProgramStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CreatedBy            id.OperatorID
}

// ProgramDetails are the caller-supplied attributes of a program.
type ProgramDetails struct {
	Code             string
	Name             string
	Description      string
	BudgetTotal      int64
	MaxBeneficiaries int
	AmountPerPayment int64
	Frequency        Frequency
	StartDate        time.Time
	EndDate          *time.Time
	Criteria         eligibility.Criteria
}

// NewProgram builds a draft program.
func NewProgram(programID id.ProgramID, d ProgramDetails, now time.Time, by id.OperatorID) (*Program, error) {
	p := &Program{
		ID:               programID,
		Code:             strings.ToUpper(strings.TrimSpace(d.Code)),
		Name:             strings.TrimSpace(d.Name),
		Description:      strings.TrimSpace(d.Description),
		BudgetTotal:      d.BudgetTotal,
		MaxBeneficiaries: d.MaxBeneficiaries,
		AmountPerPayment: d.AmountPerPayment,
		Frequency:        d.Frequency,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		Criteria:         d.Criteria,
		Status:           ProgramDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        by,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) Validate() error {
	fields := dErrors.FieldErrors{}
	switch {
	case p.Code == "":
		fields.Add("code", "code is required")
	case len(p.Code) > maxCodeLength:
		fields.Add("code", "code must be at most 32 characters")
	}
	if p.Name == "" {
		fields.Add("name", "name is required")
	}
	if p.BudgetTotal <= 0 {
		fields.Add("budget_total", "budget_total must be positive")
	}
	if p.BudgetSpent > p.BudgetTotal {
		fields.Add("budget_total", "budget_total cannot be below budget_spent")
	}
	switch {
	case p.AmountPerPayment <= 0:
		fields.Add("amount_per_payment", "amount_per_payment must be positive")
	case p.AmountPerPayment > p.BudgetTotal:
		fields.Add("amount_per_payment", "amount_per_payment cannot exceed budget_total")
	}
	if p.MaxBeneficiaries < 0 {
		fields.Add("max_beneficiaries", "max_beneficiaries cannot be negative")
	} else if p.MaxBeneficiaries > 0 && p.CurrentBeneficiaries > p.MaxBeneficiaries {
		fields.Add("max_beneficiaries", "max_beneficiaries cannot be below current_beneficiaries")
	}
	if _, err := ParseFrequency(string(p.Frequency)); err != nil {
		fields.Merge(err)
	}
	if p.StartDate.IsZero() {
		fields.Add("start_date", "start_date is required")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		fields.Add("end_date", "end_date cannot be before start_date")
	}
	return fields.Err("invalid program")
}

// RemainingBudget is what completed payments may still draw.
func (p *Program) RemainingBudget() int64 {
	return p.BudgetTotal - p.BudgetSpent
}

// Utilization is the spent share of the budget as a percentage.
func (p *Program) Utilization() float64 {
	if p.BudgetTotal <= 0 {
		return 0
	}
	return float64(p.BudgetSpent) / float64(p.BudgetTotal) * 100
}

// ProgramPatch is a partial update. Nil fields are left unchanged.
type ProgramPatch struct {
	Name             *string
	Description      *string
	BudgetTotal      *int64
	MaxBeneficiaries *int
	AmountPerPayment *int64
	Frequency        *Frequency
	StartDate        *time.Time
	EndDate          *time.Time
	Criteria         *eligibility.Criteria
}

// CanUpdate allows edits while the program is not distributing funds.
func (p *Program) CanUpdate() error {
	if p.Status != ProgramDraft && p.Status != ProgramPaused {
		return dErrors.New(dErrors.CodeConflict, "program can only be updated while draft or paused")
	}
	return nil
}

// ApplyPatch mutates p. Call Validate afterwards.
func (p *Program) ApplyPatch(patch ProgramPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.BudgetTotal != nil {
		p.BudgetTotal = *patch.BudgetTotal
	}
	if patch.MaxBeneficiaries != nil {
		p.MaxBeneficiaries = *patch.MaxBeneficiaries
	}
	if patch.AmountPerPayment != nil {
		p.AmountPerPayment = *patch.AmountPerPayment
	}
	if patch.Frequency != nil {
		p.Frequency = *patch.Frequency
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		end := *patch.EndDate
		p.EndDate = &end
	}
	if patch.Criteria != nil {
		p.Criteria = *patch.Criteria
	}
	p.UpdatedAt = now
}

func (p *Program) CanActivate() error {
	if p.Status != ProgramDraft && p.Status != ProgramPaused {
		return transitionError("program", string(p.Status), string(ProgramActive))
	}
	return nil
}

func (p *Program) CanPause() error {
	if p.Status != ProgramActive {
		return transitionError("program", string(p.Status), string(ProgramPaused))
	}
	return nil
}

func (p *Program) CanClose() error {
	if p.Status != ProgramActive && p.Status != ProgramPaused {
		return transitionError("program", string(p.Status), string(ProgramClosed))
	}
	return nil
}

// ApplyStatus records a transition already checked by the matching Can* method.
func (p *Program) ApplyStatus(status ProgramStatus, now time.Time) {
	p.Status = status
	p.UpdatedAt = now
}

// CanEnroll checks that the program accepts new enrollments.
func (p *Program) CanEnroll() error {
	if p.Status != ProgramActive {
		return dErrors.FieldError("program_id", "program is not active")
	}
	return nil
}

// CanAddBeneficiary checks status and capacity before an approval.
func (p *Program) CanAddBeneficiary() error {
	if p.Status != ProgramActive {
		return dErrors.New(dErrors.CodeConflict, "program is not active")
	}
	if p.MaxBeneficiaries > 0 && p.CurrentBeneficiaries >= p.MaxBeneficiaries {
		return dErrors.FieldError("program_id", "program is full")
	}
	return nil
}

func (p *Program) ApplyBeneficiaryAdded(now time.Time) {
	p.CurrentBeneficiaries++
	p.UpdatedAt = now
}

// CanSpend checks that amount fits in the remaining budget.
func (p *Program) CanSpend(amount int64) error {
	if amount > p.RemainingBudget() {
		return dErrors.FieldError("amount", "payment exceeds remaining program budget")
	}
	return nil
}

func (p *Program) ApplySpend(amount int64, now time.Time) {
	p.BudgetSpent += amount
	p.UpdatedAt = now
}

func transitionError(entity, from, to string) error {
	return dErrors.New(dErrors.CodeConflict, "cannot move "+entity+" from "+from+" to "+to)
}
