package models

import (
	"strings"
	"time"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

const (
	maxNameLength = 100
	maxAge        = 130
)

// Person is a registered individual.
//
// Invariants:
//   - FirstName and LastName are non-empty
//   - BirthDate is not in the future
//   - IsPregnant implies Gender F
//   - MonthlyIncome is non-negative
//   - RSUID is assigned at creation and never changes
type Person struct {
	ID               id.PersonID
	RSUID            id.RSUID
	FirstName        string
	LastName         string
	BirthDate        time.Time
	Gender           Gender
	Province         string
	Zone             Zone
	Phone            string
	NationalIDNumber string
	IdentityVerified bool
	MonthlyIncome    int64
	EmploymentStatus EmploymentStatus
	HasBankAccount   bool
	HasDisability    bool
	IsPregnant       bool
	EducationLevel   EducationLevel
	HouseholdID      *id.HouseholdID
	Entity
}

// PersonDetails are the caller-supplied attributes of a person.
type PersonDetails struct {
	FirstName        string
	LastName         string
	BirthDate        time.Time
	Gender           Gender
	Province         string
	Zone             Zone
	Phone            string
	NationalIDNumber string
	MonthlyIncome    int64
	EmploymentStatus EmploymentStatus
	HasBankAccount   bool
	HasDisability    bool
	IsPregnant       bool
	EducationLevel   EducationLevel
	HouseholdID      *id.HouseholdID
}

// NewPerson validates details and builds a person.
func NewPerson(personID id.PersonID, rsuID id.RSUID, d PersonDetails, now time.Time, by id.OperatorID) (*Person, error) {
	p := &Person{
		ID:               personID,
		RSUID:            rsuID,
		FirstName:        strings.TrimSpace(d.FirstName),
		LastName:         strings.TrimSpace(d.LastName),
		BirthDate:        d.BirthDate,
		Gender:           d.Gender,
		Province:         strings.TrimSpace(d.Province),
		Zone:             d.Zone,
		Phone:            strings.TrimSpace(d.Phone),
		NationalIDNumber: strings.TrimSpace(d.NationalIDNumber),
		MonthlyIncome:    d.MonthlyIncome,
		EmploymentStatus: d.EmploymentStatus,
		HasBankAccount:   d.HasBankAccount,
		HasDisability:    d.HasDisability,
		IsPregnant:       d.IsPregnant,
		EducationLevel:   d.EducationLevel,
		HouseholdID:      d.HouseholdID,
		Entity:           newEntity(now, by),
	}
	if err := p.Validate(now); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the person's invariants as of now.
func (p *Person) Validate(now time.Time) error {
	fields := dErrors.FieldErrors{}
	checkName(fields, "first_name", p.FirstName)
	checkName(fields, "last_name", p.LastName)

	switch {
	case p.BirthDate.IsZero():
		fields.Add("birth_date", "birth_date is required")
	case p.BirthDate.After(now):
		fields.Add("birth_date", "birth_date cannot be in the future")
	case p.Age(now) > maxAge:
		fields.Add("birth_date", "birth_date is implausibly old")
	}

	if _, err := ParseGender(string(p.Gender)); err != nil {
		fields.Merge(err)
	}
	if p.Province == "" {
		fields.Add("province", "province is required")
	}
	if _, err := ParseZone(string(p.Zone)); err != nil {
		fields.Merge(err)
	}
	if _, err := ParseEmploymentStatus(string(p.EmploymentStatus)); err != nil {
		fields.Merge(err)
	}
	if _, err := ParseEducationLevel(string(p.EducationLevel)); err != nil {
		fields.Merge(err)
	}
	if p.MonthlyIncome < 0 {
		fields.Add("monthly_income", "monthly_income cannot be negative")
	}
	if p.IsPregnant && p.Gender != GenderFemale {
		fields.Add("is_pregnant", "is_pregnant requires gender F")
	}
	return fields.Err("invalid person")
}

func checkName(fields dErrors.FieldErrors, field, v string) {
	switch {
	case v == "":
		fields.Add(field, field+" is required")
	case len(v) > maxNameLength:
		fields.Add(field, field+" must be 100 characters or less")
	}
}

// Age returns the completed years of age at the given instant.
func (p *Person) Age(at time.Time) int {
	return AgeAt(p.BirthDate, at)
}

// AgeAt returns completed years between birth and at. A zero birth date or a
// birth date after at yields 0.
func AgeAt(birth, at time.Time) int {
	if birth.IsZero() {
		return 0
	}
	years := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PersonPatch is a partial update. Nil fields are left unchanged.
type PersonPatch struct {
	FirstName        *string
	LastName         *string
	BirthDate        *time.Time
	Gender           *Gender
	Province         *string
	Zone             *Zone
	Phone            *string
	NationalIDNumber *string
	MonthlyIncome    *int64
	EmploymentStatus *EmploymentStatus
	HasBankAccount   *bool
	HasDisability    *bool
	IsPregnant       *bool
	EducationLevel   *EducationLevel
}

// ApplyPatch mutates p. Call Validate afterwards.
func (p *Person) ApplyPatch(patch PersonPatch, now time.Time, by id.OperatorID) {
	setString(&p.FirstName, patch.FirstName)
	setString(&p.LastName, patch.LastName)
	if patch.BirthDate != nil {
		p.BirthDate = *patch.BirthDate
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	setString(&p.Province, patch.Province)
	if patch.Zone != nil {
		p.Zone = *patch.Zone
	}
	setString(&p.Phone, patch.Phone)
	if patch.NationalIDNumber != nil && strings.TrimSpace(*patch.NationalIDNumber) != p.NationalIDNumber {
		p.NationalIDNumber = strings.TrimSpace(*patch.NationalIDNumber)
		// a new document has not been checked yet
		p.IdentityVerified = false
	}
	if patch.MonthlyIncome != nil {
		p.MonthlyIncome = *patch.MonthlyIncome
	}
	if patch.EmploymentStatus != nil {
		p.EmploymentStatus = *patch.EmploymentStatus
	}
	if patch.HasBankAccount != nil {
		p.HasBankAccount = *patch.HasBankAccount
	}
	if patch.HasDisability != nil {
		p.HasDisability = *patch.HasDisability
	}
	if patch.IsPregnant != nil {
		p.IsPregnant = *patch.IsPregnant
	}
	if patch.EducationLevel != nil {
		p.EducationLevel = *patch.EducationLevel
	}
	p.Touch(now, by)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// CanVerifyIdentity checks that there is a document to verify.
func (p *Person) CanVerifyIdentity() error {
	if p.NationalIDNumber == "" {
		return dErrors.FieldError("national_id_number", "national_id_number is required to verify identity")
	}
	if p.IdentityVerified {
		return dErrors.New(dErrors.CodeConflict, "identity is already verified")
	}
	return nil
}

// ApplyIdentityVerification marks the identity document as checked.
func (p *Person) ApplyIdentityVerification(now time.Time, by id.OperatorID) {
	p.IdentityVerified = true
	p.Touch(now, by)
}

// ApplyHousehold links the person to a household.
func (p *Person) ApplyHousehold(householdID id.HouseholdID, now time.Time, by id.OperatorID) {
	hid := householdID
	p.HouseholdID = &hid
	p.Touch(now, by)
}

// BelongsTo reports whether the person is a member of householdID.
func (p *Person) BelongsTo(householdID id.HouseholdID) bool {
	return p.HouseholdID != nil && *p.HouseholdID == householdID
}
