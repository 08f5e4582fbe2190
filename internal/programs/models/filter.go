package models

import (
	id "rsu/pkg/domain"
)

// ProgramFilter narrows program listings. Zero fields match everything.
type ProgramFilter struct {
	Status ProgramStatus
}

func (f ProgramFilter) Matches(p *Program) bool {
	return f.Status == "" || f.Status == p.Status
}

type EnrollmentFilter struct {
	ProgramID *id.ProgramID
	PersonID  *id.PersonID
	Status    EnrollmentStatus
}

func (f EnrollmentFilter) Matches(e *Enrollment) bool {
	if f.ProgramID != nil && *f.ProgramID != e.ProgramID {
		return false
	}
	if f.PersonID != nil && *f.PersonID != e.PersonID {
		return false
	}
	if f.Status != "" && f.Status != e.Status {
		return false
	}
	return true
}

type PaymentFilter struct {
	ProgramID    *id.ProgramID
	EnrollmentID *id.EnrollmentID
	Status       PaymentStatus
}

func (f PaymentFilter) Matches(p *Payment) bool {
	if f.ProgramID != nil && *f.ProgramID != p.ProgramID {
		return false
	}
	if f.EnrollmentID != nil && *f.EnrollmentID != p.EnrollmentID {
		return false
	}
	if f.Status != "" && f.Status != p.Status {
		return false
	}
	return true
}
