// Package audit records who changed what in the registry.
//
// Every mutation emits one Entry. The Target is a closed tagged union over the
// registry's entity kinds; construct it with the per-kind helpers so an entry can
// never point at an unknown kind.
package audit

import (
	"time"

	"github.com/google/uuid"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

// EntityKind names the entity an entry refers to.
type EntityKind string

const (
	KindPerson     EntityKind = "person"
	KindHousehold  EntityKind = "household"
	KindAssessment EntityKind = "assessment"
	KindProgram    EntityKind = "program"
	KindEnrollment EntityKind = "enrollment"
	KindPayment    EntityKind = "payment"
)

var validKinds = map[EntityKind]struct{}{
	KindPerson:     {},
	KindHousehold:  {},
	KindAssessment: {},
	KindProgram:    {},
	KindEnrollment: {},
	KindPayment:    {},
}

// ParseKind validates a kind from external input.
func ParseKind(s string) (EntityKind, error) {
	k := EntityKind(s)
	if _, ok := validKinds[k]; !ok {
		return "", dErrors.FieldError("kind", "unknown entity kind")
	}
	return k, nil
}

// Target identifies the audited entity.
type Target struct {
	kind     EntityKind
	entityID string
}

func Person(pid id.PersonID) Target         { return Target{KindPerson, pid.String()} }
func Household(hid id.HouseholdID) Target   { return Target{KindHousehold, hid.String()} }
func Assessment(aid id.AssessmentID) Target { return Target{KindAssessment, aid.String()} }
func Program(pid id.ProgramID) Target       { return Target{KindProgram, pid.String()} }
func Enrollment(eid id.EnrollmentID) Target { return Target{KindEnrollment, eid.String()} }
func Payment(pid id.PaymentID) Target       { return Target{KindPayment, pid.String()} }

// RestoreTarget rebuilds a target from persisted columns.
func RestoreTarget(kind, entityID string) (Target, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Target{}, err
	}
	return Target{kind: k, entityID: entityID}, nil
}

func (t Target) Kind() EntityKind { return t.kind }
func (t Target) EntityID() string { return t.entityID }

// Key is the partition key used when relaying entries: "<kind>:<entity id>".
func (t Target) Key() string { return string(t.kind) + ":" + t.entityID }

// Action is the verb recorded for an entry.
type Action string

const (
	ActionPersonCreated    Action = "person_created"
	ActionPersonUpdated    Action = "person_updated"
	ActionPersonDeleted    Action = "person_deleted"
	ActionIdentityVerified Action = "identity_verified"

	ActionHouseholdCreated Action = "household_created"
	ActionHouseholdUpdated Action = "household_updated"
	ActionHouseholdDeleted Action = "household_deleted"
	ActionMemberAdded      Action = "member_added"
	ActionHeadAssigned     Action = "head_assigned"

	ActionAssessmentRecorded Action = "assessment_recorded"

	ActionProgramCreated   Action = "program_created"
	ActionProgramUpdated   Action = "program_updated"
	ActionProgramActivated Action = "program_activated"
	ActionProgramPaused    Action = "program_paused"
	ActionProgramClosed    Action = "program_closed"

	ActionEnrollmentCreated   Action = "enrollment_created"
	ActionEnrollmentApproved  Action = "enrollment_approved"
	ActionEnrollmentRejected  Action = "enrollment_rejected"
	ActionEnrollmentActivated Action = "enrollment_activated"
	ActionEnrollmentSuspended Action = "enrollment_suspended"
	ActionEnrollmentCompleted Action = "enrollment_completed"

	ActionPaymentCreated    Action = "payment_created"
	ActionPaymentProcessing Action = "payment_processing"
	ActionPaymentCompleted  Action = "payment_completed"
	ActionPaymentFailed     Action = "payment_failed"
	ActionPaymentCancelled  Action = "payment_cancelled"
)

// Entry is one audit record. Entries are append-only.
type Entry struct {
	ID        uuid.UUID
	Target    Target
	Action    Action
	ActorID   id.OperatorID
	RequestID string
	Timestamp time.Time
	Details   map[string]string
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind     EntityKind
	EntityID string
}

// Matches reports whether e passes the filter.
func (f Filter) Matches(e Entry) bool {
	if f.Kind != "" && e.Target.Kind() != f.Kind {
		return false
	}
	if f.EntityID != "" && e.Target.EntityID() != f.EntityID {
		return false
	}
	return true
}

