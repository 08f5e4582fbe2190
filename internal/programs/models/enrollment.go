package models

import (
	"strings"
	"time"

	"rsu/internal/eligibility"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentApproved  EnrollmentStatus = "APPROVED"
	EnrollmentRejected  EnrollmentStatus = "REJECTED"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentPending:  {EnrollmentApproved, EnrollmentRejected},
	EnrollmentApproved: {EnrollmentActive},
	EnrollmentActive:   {EnrollmentSuspended, EnrollmentCompleted},
}

func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	st := EnrollmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected,
		EnrollmentActive, EnrollmentSuspended, EnrollmentCompleted:
		return st, nil
	}
	return "", dErrors.FieldError("status", "unknown enrollment status")
}

// Enrollment links a person to a program.
//
// Invariants:
//   - at most one enrollment per (ProgramID, PersonID)
//   - Status only moves along enrollmentTransitions
//   - ApprovedAt is set once the enrollment has counted toward the program's beneficiaries
//   - TotalReceived and PaymentsCount only change when a payment completes
type Enrollment struct {
	ID               id.EnrollmentID
	ProgramID        id.ProgramID
	PersonID         id.PersonID
	EligibilityScore float64
	Status           EnrollmentStatus
	TotalReceived    int64
	PaymentsCount    int
	Notes            string
	DecisionReason   string
	ApprovedAt       *time.Time
	ActivatedAt      *time.Time
	EndedAt          *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CreatedBy        id.OperatorID
}

func NewEnrollment(enrollmentID id.EnrollmentID, programID id.ProgramID, personID id.PersonID, score float64, notes string, now time.Time, by id.OperatorID) *Enrollment {
	return &Enrollment{
		ID:               enrollmentID,
		ProgramID:        programID,
		PersonID:         personID,
		EligibilityScore: score,
		Status:           EnrollmentPending,
		Notes:            strings.TrimSpace(notes),
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        by,
	}
}

// CanTransition reports whether the state machine allows moving to next.
func (e *Enrollment) CanTransition(next EnrollmentStatus) error {
	for _, allowed := range enrollmentTransitions[e.Status] {
		if allowed == next {
			return nil
		}
	}
	return transitionError("enrollment", string(e.Status), string(next))
}

// CanApprove requires a pending enrollment whose score clears the threshold.
func (e *Enrollment) CanApprove() error {
	if err := e.CanTransition(EnrollmentApproved); err != nil {
		return err
	}
	if e.EligibilityScore < eligibility.Threshold {
		return dErrors.FieldError("eligibility_score", "eligibility score is below the program threshold")
	}
	return nil
}

func (e *Enrollment) ApplyApprove(reason string, now time.Time) {
	t := now
	e.Status = EnrollmentApproved
	e.ApprovedAt = &t
	e.DecisionReason = strings.TrimSpace(reason)
	e.UpdatedAt = now
}

func (e *Enrollment) CanReject(reason string) error {
	if err := e.CanTransition(EnrollmentRejected); err != nil {
		return err
	}
	return requireReason(reason)
}

func (e *Enrollment) ApplyReject(reason string, now time.Time) {
	t := now
	e.Status = EnrollmentRejected
	e.DecisionReason = strings.TrimSpace(reason)
	e.EndedAt = &t
	e.UpdatedAt = now
}

func (e *Enrollment) ApplyActivate(now time.Time) {
	t := now
	e.Status = EnrollmentActive
	e.ActivatedAt = &t
	e.UpdatedAt = now
}

func (e *Enrollment) CanSuspend(reason string) error {
	if err := e.CanTransition(EnrollmentSuspended); err != nil {
		return err
	}
	return requireReason(reason)
}

func (e *Enrollment) ApplySuspend(reason string, now time.Time) {
	t := now
	e.Status = EnrollmentSuspended
	e.DecisionReason = strings.TrimSpace(reason)
	e.EndedAt = &t
	e.UpdatedAt = now
}

func (e *Enrollment) ApplyComplete(now time.Time) {
	t := now
	e.Status = EnrollmentCompleted
	e.EndedAt = &t
	e.UpdatedAt = now
}

// CountsAsBeneficiary reports whether the enrollment was ever approved.
// Beneficiary counters are never decremented.
func (e *Enrollment) CountsAsBeneficiary() bool {
	return e.ApprovedAt != nil
}

// CanReceivePayment requires an active enrollment.
func (e *Enrollment) CanReceivePayment() error {
	if e.Status != EnrollmentActive {
		return dErrors.FieldError("enrollment_id", "enrollment is not active")
	}
	return nil
}

func (e *Enrollment) ApplyPayment(amount int64, now time.Time) {
	e.TotalReceived += amount
	e.PaymentsCount++
	e.UpdatedAt = now
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return dErrors.FieldError("reason", "reason is required")
	}
	return nil
}
