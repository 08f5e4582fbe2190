package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func validProgramDetails() ProgramDetails {
	return ProgramDetails{
		Code:             " cash-2025 ",
		Name:             "Cash transfer",
		BudgetTotal:      1_000_000,
		MaxBeneficiaries: 2,
		AmountPerPayment: 25_000,
		Frequency:        FrequencyMonthly,
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func activeProgram(t *testing.T) *Program {
	t.Helper()
	p, err := NewProgram(id.NewProgramID(), validProgramDetails(), now, id.NewOperatorID())
	require.NoError(t, err)
	p.ApplyStatus(ProgramActive, now)
	return p
}

func TestNewProgram(t *testing.T) {
	t.Run("normalizes code and starts as draft", func(t *testing.T) {
		p, err := NewProgram(id.NewProgramID(), validProgramDetails(), now, id.NewOperatorID())
		require.NoError(t, err)
		assert.Equal(t, "CASH-2025", p.Code)
		assert.Equal(t, ProgramDraft, p.Status)
	})

	t.Run("budget must be positive", func(t *testing.T) {
		d := validProgramDetails()
		d.BudgetTotal = 0
		_, err := NewProgram(id.NewProgramID(), d, now, id.NewOperatorID())
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "budget_total")
	})

	t.Run("amount cannot exceed budget", func(t *testing.T) {
		d := validProgramDetails()
		d.AmountPerPayment = d.BudgetTotal + 1
		_, err := NewProgram(id.NewProgramID(), d, now, id.NewOperatorID())
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "amount_per_payment")
	})

	t.Run("end date before start date", func(t *testing.T) {
		d := validProgramDetails()
		end := d.StartDate.AddDate(0, 0, -1)
		d.EndDate = &end
		_, err := NewProgram(id.NewProgramID(), d, now, id.NewOperatorID())
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "end_date")
	})

	t.Run("unknown frequency", func(t *testing.T) {
		d := validProgramDetails()
		d.Frequency = "weekly"
		_, err := NewProgram(id.NewProgramID(), d, now, id.NewOperatorID())
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "frequency")
	})
}

func TestProgramTransitions(t *testing.T) {
	p, err := NewProgram(id.NewProgramID(), validProgramDetails(), now, id.NewOperatorID())
	require.NoError(t, err)

	require.Error(t, p.CanPause())
	require.Error(t, p.CanClose())
	require.NoError(t, p.CanActivate())
	p.ApplyStatus(ProgramActive, now)

	require.Error(t, p.CanActivate())
	require.Error(t, p.CanUpdate())
	require.NoError(t, p.CanPause())
	p.ApplyStatus(ProgramPaused, now)

	require.NoError(t, p.CanUpdate())
	require.NoError(t, p.CanActivate())
	require.NoError(t, p.CanClose())
	p.ApplyStatus(ProgramClosed, now)

	err = p.CanActivate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestProgramCapacityAndBudget(t *testing.T) {
	t.Run("full program rejects beneficiaries", func(t *testing.T) {
		p := activeProgram(t)
		p.ApplyBeneficiaryAdded(now)
		p.ApplyBeneficiaryAdded(now)
		err := p.CanAddBeneficiary()
		require.Error(t, err)
		assert.Equal(t, "program is full", dErrors.Fields(err)["program_id"])
	})

	t.Run("zero max beneficiaries is unlimited", func(t *testing.T) {
		p := activeProgram(t)
		p.MaxBeneficiaries = 0
		for range 10 {
			p.ApplyBeneficiaryAdded(now)
		}
		require.NoError(t, p.CanAddBeneficiary())
	})

	t.Run("paused program rejects beneficiaries", func(t *testing.T) {
		p := activeProgram(t)
		p.ApplyStatus(ProgramPaused, now)
		assert.True(t, dErrors.HasCode(p.CanAddBeneficiary(), dErrors.CodeConflict))
	})

	t.Run("spend up to the budget", func(t *testing.T) {
		p := activeProgram(t)
		require.NoError(t, p.CanSpend(p.BudgetTotal))
		p.ApplySpend(p.BudgetTotal-10, now)
		require.NoError(t, p.CanSpend(10))
		err := p.CanSpend(11)
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "amount")
		assert.InDelta(t, 99.999, p.Utilization(), 0.001)
	})

	t.Run("budget cannot be patched below spent", func(t *testing.T) {
		p := activeProgram(t)
		p.ApplySpend(500_000, now)
		smaller := int64(400_000)
		p.ApplyPatch(ProgramPatch{BudgetTotal: &smaller}, now)
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "budget_total")
	})
}

func TestEnrollmentStateMachine(t *testing.T) {
	newEnrollment := func(score float64) *Enrollment {
		return NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), id.NewPersonID(), score, " referred ", now, id.NewOperatorID())
	}

	t.Run("happy path", func(t *testing.T) {
		e := newEnrollment(72)
		assert.Equal(t, "referred", e.Notes)
		require.NoError(t, e.CanApprove())
		e.ApplyApprove("", now)
		assert.True(t, e.CountsAsBeneficiary())
		require.Error(t, e.CanReceivePayment())

		require.NoError(t, e.CanTransition(EnrollmentActive))
		e.ApplyActivate(now)
		require.NoError(t, e.CanReceivePayment())

		e.ApplyPayment(1000, now)
		e.ApplyPayment(500, now)
		assert.Equal(t, int64(1500), e.TotalReceived)
		assert.Equal(t, 2, e.PaymentsCount)

		require.NoError(t, e.CanTransition(EnrollmentCompleted))
		e.ApplyComplete(now)
		require.NotNil(t, e.EndedAt)
		assert.True(t, dErrors.HasCode(e.CanTransition(EnrollmentActive), dErrors.CodeConflict))
	})

	t.Run("score below threshold cannot be approved", func(t *testing.T) {
		e := newEnrollment(49.99)
		err := e.CanApprove()
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "eligibility_score")
	})

	t.Run("score at threshold can be approved", func(t *testing.T) {
		require.NoError(t, newEnrollment(50).CanApprove())
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		e := newEnrollment(20)
		assert.Contains(t, dErrors.Fields(e.CanReject("  ")), "reason")
		require.NoError(t, e.CanReject("outside target area"))
		e.ApplyReject("outside target area", now)
		assert.False(t, e.CountsAsBeneficiary())
		require.Error(t, e.CanTransition(EnrollmentApproved))
	})

	t.Run("suspend only from active", func(t *testing.T) {
		e := newEnrollment(80)
		require.Error(t, e.CanSuspend("fraud"))
		e.ApplyApprove("", now)
		e.ApplyActivate(now)
		require.NoError(t, e.CanSuspend("fraud"))
		e.ApplySuspend("fraud", now)
		assert.Equal(t, EnrollmentSuspended, e.Status)
		assert.True(t, e.CountsAsBeneficiary())
	})
}

func TestPayment(t *testing.T) {
	enrollment := NewEnrollment(id.NewEnrollmentID(), id.NewProgramID(), id.NewPersonID(), 80, "", now, id.NewOperatorID())

	t.Run("reference format", func(t *testing.T) {
		p, err := NewPayment(id.NewPaymentID(), enrollment, 100, nil, now, id.NewOperatorID())
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^PAY-20250301-[0-9A-F]{8}$`), p.Reference)
		assert.Equal(t, enrollment.ProgramID, p.ProgramID)
		assert.Equal(t, PaymentPending, p.Status)
	})

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := NewPayment(id.NewPaymentID(), enrollment, 0, nil, now, id.NewOperatorID())
		require.Error(t, err)
		assert.Contains(t, dErrors.Fields(err), "amount")
	})

	t.Run("transitions", func(t *testing.T) {
		p, err := NewPayment(id.NewPaymentID(), enrollment, 100, nil, now, id.NewOperatorID())
		require.NoError(t, err)
		require.Error(t, p.CanTransition(PaymentCompleted))
		require.NoError(t, p.CanTransition(PaymentProcessing))
		p.ApplyProcess(now)
		assert.Contains(t, dErrors.Fields(p.CanFail("")), "reason")
		require.NoError(t, p.CanTransition(PaymentCompleted))
		p.ApplyComplete(now)
		require.Error(t, p.CanTransition(PaymentCancelled))
	})

	t.Run("pending payment can be cancelled", func(t *testing.T) {
		p, err := NewPayment(id.NewPaymentID(), enrollment, 100, nil, now, id.NewOperatorID())
		require.NoError(t, err)
		require.NoError(t, p.CanTransition(PaymentCancelled))
	})
}

func TestReconcile(t *testing.T) {
	program := activeProgram(t)
	approved := NewEnrollment(id.NewEnrollmentID(), program.ID, id.NewPersonID(), 80, "", now, id.NewOperatorID())
	approved.ApplyApprove("", now)
	approved.ApplyActivate(now)
	rejected := NewEnrollment(id.NewEnrollmentID(), program.ID, id.NewPersonID(), 10, "", now, id.NewOperatorID())
	rejected.ApplyReject("no", now)

	paid, err := NewPayment(id.NewPaymentID(), approved, 300, nil, now, id.NewOperatorID())
	require.NoError(t, err)
	paid.ApplyProcess(now)
	paid.ApplyComplete(now)
	failed, err := NewPayment(id.NewPaymentID(), approved, 700, nil, now, id.NewOperatorID())
	require.NoError(t, err)
	failed.ApplyProcess(now)
	failed.ApplyFail("bank rejected", now)

	t.Run("consistent counters", func(t *testing.T) {
		program.ApplyBeneficiaryAdded(now)
		program.ApplySpend(300, now)
		approved.ApplyPayment(300, now)

		r := Reconcile(program, []*Enrollment{approved, rejected}, []*Payment{paid, failed}, now)
		assert.False(t, r.HasDrift())
		assert.Equal(t, Counters{CurrentBeneficiaries: 1, BudgetSpent: 300}, r.Derived)
		assert.Empty(t, r.Enrollments)
	})

	t.Run("detects drift", func(t *testing.T) {
		program.ApplySpend(50, now)
		approved.ApplyPayment(50, now)

		r := Reconcile(program, []*Enrollment{approved, rejected}, []*Payment{paid, failed}, now)
		assert.True(t, r.HasDrift())
		assert.Equal(t, int64(350), r.Recorded.BudgetSpent)
		assert.Equal(t, int64(300), r.Derived.BudgetSpent)
		require.Len(t, r.Enrollments, 1)
		assert.Equal(t, approved.ID, r.Enrollments[0].EnrollmentID)
		assert.Equal(t, 2, r.Enrollments[0].RecordedPaymentsCount)
		assert.Equal(t, 1, r.Enrollments[0].DerivedPaymentsCount)
	})
}
