package models

import (
	"time"

	id "rsu/pkg/domain"
)

// Counters are the denormalized totals a program carries.
type Counters struct {
	CurrentBeneficiaries int
	BudgetSpent          int64
}

// EnrollmentDrift reports an enrollment whose payment totals disagree with its
// completed payments.
type EnrollmentDrift struct {
	EnrollmentID          id.EnrollmentID
	RecordedTotalReceived int64
	DerivedTotalReceived  int64
	RecordedPaymentsCount int
	DerivedPaymentsCount  int
}

// Reconciliation compares recorded counters with values derived from the
// underlying enrollments and completed payments. It never modifies anything.
type Reconciliation struct {
	ProgramID   id.ProgramID
	Recorded    Counters
	Derived     Counters
	Enrollments []EnrollmentDrift
	CheckedAt   time.Time
}

// HasDrift reports whether any recorded counter differs from its derived value.
func (r *Reconciliation) HasDrift() bool {
	return r.Recorded != r.Derived || len(r.Enrollments) > 0
}

// Reconcile derives counters for program from its enrollments and payments.
func Reconcile(program *Program, enrollments []*Enrollment, payments []*Payment, now time.Time) *Reconciliation {
	r := &Reconciliation{
		ProgramID: program.ID,
		Recorded: Counters{
			CurrentBeneficiaries: program.CurrentBeneficiaries,
			BudgetSpent:          program.BudgetSpent,
		},
		Enrollments: []EnrollmentDrift{},
		CheckedAt:   now,
	}

	type totals struct {
		amount int64
		count  int
	}
	byEnrollment := make(map[id.EnrollmentID]totals)
	for _, p := range payments {
		if p.ProgramID != program.ID || p.Status != PaymentCompleted {
			continue
		}
		r.Derived.BudgetSpent += p.Amount
		t := byEnrollment[p.EnrollmentID]
		t.amount += p.Amount
		t.count++
		byEnrollment[p.EnrollmentID] = t
	}

	for _, e := range enrollments {
		if e.ProgramID != program.ID {
			continue
		}
		if e.CountsAsBeneficiary() {
			r.Derived.CurrentBeneficiaries++
		}
		t := byEnrollment[e.ID]
		if t.amount != e.TotalReceived || t.count != e.PaymentsCount {
			r.Enrollments = append(r.Enrollments, EnrollmentDrift{
				EnrollmentID:          e.ID,
				RecordedTotalReceived: e.TotalReceived,
				DerivedTotalReceived:  t.amount,
				RecordedPaymentsCount: e.PaymentsCount,
				DerivedPaymentsCount:  t.count,
			})
		}
	}
	return r
}
