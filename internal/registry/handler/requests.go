package handler

import (
	"strings"
	"time"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

func parseDate(fields dErrors.FieldErrors, field, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fields.Add(field, field+" is required")
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		fields.Add(field, field+" must be a date in YYYY-MM-DD format")
		return time.Time{}
	}
	return t
}

// CreatePersonRequest is the body of POST /persons.
type CreatePersonRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	BirthDate        string `json:"birth_date"`
	Gender           string `json:"gender"`
	Province         string `json:"province"`
	Zone             string `json:"zone"`
	Phone            string `json:"phone"`
	NationalIDNumber string `json:"national_id_number"`
	MonthlyIncome    int64  `json:"monthly_income"`
	EmploymentStatus string `json:"employment_status"`
	HasBankAccount   bool   `json:"has_bank_account"`
	HasDisability    bool   `json:"has_disability"`
	IsPregnant       bool   `json:"is_pregnant"`
	EducationLevel   string `json:"education_level"`
	HouseholdID      string `json:"household_id"`

	details models.PersonDetails
}

// Validate parses enums and dates. Cross-field invariants are checked by the
// model when the person is built.
func (r *CreatePersonRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	d := models.PersonDetails{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		BirthDate:        parseDate(fields, "birth_date", r.BirthDate),
		Province:         r.Province,
		Phone:            r.Phone,
		NationalIDNumber: r.NationalIDNumber,
		MonthlyIncome:    r.MonthlyIncome,
		HasBankAccount:   r.HasBankAccount,
		HasDisability:    r.HasDisability,
		IsPregnant:       r.IsPregnant,
	}
	var err error
	if d.Gender, err = models.ParseGender(r.Gender); err != nil {
		fields.Merge(err)
	}
	if d.Zone, err = models.ParseZone(r.Zone); err != nil {
		fields.Merge(err)
	}
	if d.EmploymentStatus, err = models.ParseEmploymentStatus(r.EmploymentStatus); err != nil {
		fields.Merge(err)
	}
	if d.EducationLevel, err = models.ParseEducationLevel(r.EducationLevel); err != nil {
		fields.Merge(err)
	}
	if strings.TrimSpace(r.HouseholdID) != "" {
		householdID, err := id.ParseHouseholdID(r.HouseholdID)
		if err != nil {
			fields.Add("household_id", "invalid household_id")
		} else {
			d.HouseholdID = &householdID
		}
	}
	if err := fields.Err("invalid person"); err != nil {
		return err
	}
	r.details = d
	return nil
}

func (r *CreatePersonRequest) Details() models.PersonDetails {
	return r.details
}

// UpdatePersonRequest is the body of PATCH /persons/{id}. Omitted fields are
// left unchanged.
type UpdatePersonRequest struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	BirthDate        *string `json:"birth_date"`
	Gender           *string `json:"gender"`
	Province         *string `json:"province"`
	Zone             *string `json:"zone"`
	Phone            *string `json:"phone"`
	NationalIDNumber *string `json:"national_id_number"`
	MonthlyIncome    *int64  `json:"monthly_income"`
	EmploymentStatus *string `json:"employment_status"`
	HasBankAccount   *bool   `json:"has_bank_account"`
	HasDisability    *bool   `json:"has_disability"`
	IsPregnant       *bool   `json:"is_pregnant"`
	EducationLevel   *string `json:"education_level"`

	patch models.PersonPatch
}

func (r *UpdatePersonRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	patch := models.PersonPatch{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Province:         r.Province,
		Phone:            r.Phone,
		NationalIDNumber: r.NationalIDNumber,
		MonthlyIncome:    r.MonthlyIncome,
		HasBankAccount:   r.HasBankAccount,
		HasDisability:    r.HasDisability,
		IsPregnant:       r.IsPregnant,
	}
	if r.BirthDate != nil {
		if t := parseDate(fields, "birth_date", *r.BirthDate); !t.IsZero() {
			patch.BirthDate = &t
		}
	}
	if r.Gender != nil {
		g, err := models.ParseGender(*r.Gender)
		fields.Merge(err)
		patch.Gender = &g
	}
	if r.Zone != nil {
		z, err := models.ParseZone(*r.Zone)
		fields.Merge(err)
		patch.Zone = &z
	}
	if r.EmploymentStatus != nil {
		e, err := models.ParseEmploymentStatus(*r.EmploymentStatus)
		fields.Merge(err)
		patch.EmploymentStatus = &e
	}
	if r.EducationLevel != nil {
		e, err := models.ParseEducationLevel(*r.EducationLevel)
		fields.Merge(err)
		patch.EducationLevel = &e
	}
	if err := fields.Err("invalid person update"); err != nil {
		return err
	}
	r.patch = patch
	return nil
}

func (r *UpdatePersonRequest) Patch() models.PersonPatch {
	return r.patch
}

// HouseholdRequest is the body of POST /households.
type HouseholdRequest struct {
	Province        string `json:"province"`
	Zone            string `json:"zone"`
	Size            int    `json:"size"`
	MembersUnder5   int    `json:"members_under5"`
	MembersUnder15  int    `json:"members_under15"`
	MembersOver64   int    `json:"members_over64"`
	DisabledMembers int    `json:"disabled_members"`
	PregnantMembers int    `json:"pregnant_members"`
	MonthlyIncome   int64  `json:"monthly_income"`
	Housing         string `json:"housing"`
	HasWater        bool   `json:"has_water"`
	HasElectricity  bool   `json:"has_electricity"`

	details models.HouseholdDetails
}

func (r *HouseholdRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	d := models.HouseholdDetails{
		Province:        r.Province,
		Size:            r.Size,
		MembersUnder5:   r.MembersUnder5,
		MembersUnder15:  r.MembersUnder15,
		MembersOver64:   r.MembersOver64,
		DisabledMembers: r.DisabledMembers,
		PregnantMembers: r.PregnantMembers,
		MonthlyIncome:   r.MonthlyIncome,
		HasWater:        r.HasWater,
		HasElectricity:  r.HasElectricity,
	}
	var err error
	if d.Zone, err = models.ParseZone(r.Zone); err != nil {
		fields.Merge(err)
	}
	if d.Housing, err = models.ParseHousing(r.Housing); err != nil {
		fields.Merge(err)
	}
	if err := fields.Err("invalid household"); err != nil {
		return err
	}
	r.details = d
	return nil
}

func (r *HouseholdRequest) Details() models.HouseholdDetails {
	return r.details
}

// UpdateHouseholdRequest is the body of PATCH /households/{id}.
type UpdateHouseholdRequest struct {
	Province        *string `json:"province"`
	Zone            *string `json:"zone"`
	Size            *int    `json:"size"`
	MembersUnder5   *int    `json:"members_under5"`
	MembersUnder15  *int    `json:"members_under15"`
	MembersOver64   *int    `json:"members_over64"`
	DisabledMembers *int    `json:"disabled_members"`
	PregnantMembers *int    `json:"pregnant_members"`
	MonthlyIncome   *int64  `json:"monthly_income"`
	Housing         *string `json:"housing"`
	HasWater        *bool   `json:"has_water"`
	HasElectricity  *bool   `json:"has_electricity"`

	patch models.HouseholdPatch
}

func (r *UpdateHouseholdRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	fields := dErrors.FieldErrors{}
	patch := models.HouseholdPatch{
		Province:        r.Province,
		Size:            r.Size,
		MembersUnder5:   r.MembersUnder5,
		MembersUnder15:  r.MembersUnder15,
		MembersOver64:   r.MembersOver64,
		DisabledMembers: r.DisabledMembers,
		PregnantMembers: r.PregnantMembers,
		MonthlyIncome:   r.MonthlyIncome,
		HasWater:        r.HasWater,
		HasElectricity:  r.HasElectricity,
	}
	if r.Zone != nil {
		z, err := models.ParseZone(*r.Zone)
		fields.Merge(err)
		patch.Zone = &z
	}
	if r.Housing != nil {
		h, err := models.ParseHousing(*r.Housing)
		fields.Merge(err)
		patch.Housing = &h
	}
	if err := fields.Err("invalid household update"); err != nil {
		return err
	}
	r.patch = patch
	return nil
}

func (r *UpdateHouseholdRequest) Patch() models.HouseholdPatch {
	return r.patch
}

// PersonRefRequest is the body of POST /households/{id}/members and /head.
type PersonRefRequest struct {
	PersonID string `json:"person_id"`

	personID id.PersonID
}

func (r *PersonRefRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	personID, err := id.ParsePersonID(r.PersonID)
	if err != nil {
		return dErrors.FieldError("person_id", err.Error())
	}
	r.personID = personID
	return nil
}

func (r *PersonRefRequest) ParsedPersonID() id.PersonID {
	return r.personID
}
