// Package domain holds identifier primitives shared across bounded contexts.
//
// Each entity has its own UUID-backed ID type so the compiler rejects passing a
// PersonID where a ProgramID is expected. Construct IDs from external input with
// the Parse* functions; they reject empty, malformed, and nil UUIDs.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "rsu/pkg/domain-errors"
)

type (
	PersonID     uuid.UUID
	HouseholdID  uuid.UUID
	AssessmentID uuid.UUID
	ProgramID    uuid.UUID
	EnrollmentID uuid.UUID
	PaymentID    uuid.UUID
	OperatorID   uuid.UUID
)

// maxIDLength bounds input before handing it to uuid.Parse.
const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID("person_id", s)
	return PersonID(u), err
}

func ParseHouseholdID(s string) (HouseholdID, error) {
	u, err := parseUUID("household_id", s)
	return HouseholdID(u), err
}

func ParseAssessmentID(s string) (AssessmentID, error) {
	u, err := parseUUID("assessment_id", s)
	return AssessmentID(u), err
}

func ParseProgramID(s string) (ProgramID, error) {
	u, err := parseUUID("program_id", s)
	return ProgramID(u), err
}

func ParseEnrollmentID(s string) (EnrollmentID, error) {
	u, err := parseUUID("enrollment_id", s)
	return EnrollmentID(u), err
}

func ParsePaymentID(s string) (PaymentID, error) {
	u, err := parseUUID("payment_id", s)
	return PaymentID(u), err
}

func ParseOperatorID(s string) (OperatorID, error) {
	u, err := parseUUID("operator_id", s)
	return OperatorID(u), err
}

func NewPersonID() PersonID         { return PersonID(uuid.New()) }
func NewHouseholdID() HouseholdID   { return HouseholdID(uuid.New()) }
func NewAssessmentID() AssessmentID { return AssessmentID(uuid.New()) }
func NewProgramID() ProgramID       { return ProgramID(uuid.New()) }
func NewEnrollmentID() EnrollmentID { return EnrollmentID(uuid.New()) }
func NewPaymentID() PaymentID       { return PaymentID(uuid.New()) }
func NewOperatorID() OperatorID     { return OperatorID(uuid.New()) }

func (id PersonID) String() string     { return uuid.UUID(id).String() }
func (id HouseholdID) String() string  { return uuid.UUID(id).String() }
func (id AssessmentID) String() string { return uuid.UUID(id).String() }
func (id ProgramID) String() string    { return uuid.UUID(id).String() }
func (id EnrollmentID) String() string { return uuid.UUID(id).String() }
func (id PaymentID) String() string    { return uuid.UUID(id).String() }
func (id OperatorID) String() string   { return uuid.UUID(id).String() }

func (id PersonID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id HouseholdID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id AssessmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ProgramID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id EnrollmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id OperatorID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func (id PersonID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id HouseholdID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id AssessmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ProgramID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id EnrollmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id PaymentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id OperatorID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
