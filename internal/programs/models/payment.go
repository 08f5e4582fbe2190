package models

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentCancelled  PaymentStatus = "CANCELLED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentCancelled},
	PaymentProcessing: {PaymentCompleted, PaymentFailed, PaymentCancelled},
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled:
		return st, nil
	}
	return "", dErrors.FieldError("status", "unknown payment status")
}

// Payment is a single disbursement to an enrollment.
//
// Invariants:
//   - Amount > 0
//   - Reference is unique: PAY-<yyyymmdd>-<8 uppercase hex>
//   - only a COMPLETED payment contributes to enrollment and program counters
type Payment struct {
	ID            id.PaymentID
	EnrollmentID  id.EnrollmentID
	ProgramID     id.ProgramID
	Amount        int64
	Status        PaymentStatus
	Reference     string
	FailureReason string
	ScheduledFor  *time.Time
	ProcessedAt   *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     id.OperatorID
}

// NewReference generates a payment reference stamped with the creation day.
func NewReference(now time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("PAY-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(u[:4])))
}

func NewPayment(paymentID id.PaymentID, enrollment *Enrollment, amount int64, scheduledFor *time.Time, now time.Time, by id.OperatorID) (*Payment, error) {
	if amount <= 0 {
		return nil, dErrors.FieldError("amount", "amount must be positive")
	}
	return &Payment{
		ID:           paymentID,
		EnrollmentID: enrollment.ID,
		ProgramID:    enrollment.ProgramID,
		Amount:       amount,
		Status:       PaymentPending,
		Reference:    NewReference(now),
		ScheduledFor: scheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    by,
	}, nil
}

func (p *Payment) CanTransition(next PaymentStatus) error {
	for _, allowed := range paymentTransitions[p.Status] {
		if allowed == next {
			return nil
		}
	}
	return transitionError("payment", string(p.Status), string(next))
}

func (p *Payment) ApplyProcess(now time.Time) {
	t := now
	p.Status = PaymentProcessing
	p.ProcessedAt = &t
	p.UpdatedAt = now
}

func (p *Payment) ApplyComplete(now time.Time) {
	t := now
	p.Status = PaymentCompleted
	p.CompletedAt = &t
	p.UpdatedAt = now
}

func (p *Payment) CanFail(reason string) error {
	if err := p.CanTransition(PaymentFailed); err != nil {
		return err
	}
	return requireReason(reason)
}

func (p *Payment) ApplyFail(reason string, now time.Time) {
	p.Status = PaymentFailed
	p.FailureReason = strings.TrimSpace(reason)
	p.UpdatedAt = now
}

func (p *Payment) ApplyCancel(now time.Time) {
	p.Status = PaymentCancelled
	p.UpdatedAt = now
}
