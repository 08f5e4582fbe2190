package models

import (
	"strings"
	"time"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

// Household groups persons living together.
//
// Invariants:
//   - Size >= 1
//   - MembersUnder5 <= MembersUnder15
//   - MembersUnder15 + MembersOver64 <= Size
//   - DisabledMembers and PregnantMembers are each <= Size
//   - HeadID, when set, references a person whose HouseholdID is this household
type Household struct {
	ID              id.HouseholdID
	HeadID          *id.PersonID
	Province        string
	Zone            Zone
	Size            int
	MembersUnder5   int
	MembersUnder15  int
	MembersOver64   int
	DisabledMembers int
	PregnantMembers int
	MonthlyIncome   int64
	Housing         Housing
	HasWater        bool
	HasElectricity  bool
	Entity
}

// HouseholdDetails are the caller-supplied attributes of a household.
type HouseholdDetails struct {
	Province        string
	Zone            Zone
	Size            int
	MembersUnder5   int
	MembersUnder15  int
	MembersOver64   int
	DisabledMembers int
	PregnantMembers int
	MonthlyIncome   int64
	Housing         Housing
	HasWater        bool
	HasElectricity  bool
}

func NewHousehold(householdID id.HouseholdID, d HouseholdDetails, now time.Time, by id.OperatorID) (*Household, error) {
	h := &Household{
		ID:              householdID,
		Province:        strings.TrimSpace(d.Province),
		Zone:            d.Zone,
		Size:            d.Size,
		MembersUnder5:   d.MembersUnder5,
		MembersUnder15:  d.MembersUnder15,
		MembersOver64:   d.MembersOver64,
		DisabledMembers: d.DisabledMembers,
		PregnantMembers: d.PregnantMembers,
		MonthlyIncome:   d.MonthlyIncome,
		Housing:         d.Housing,
		HasWater:        d.HasWater,
		HasElectricity:  d.HasElectricity,
		Entity:          newEntity(now, by),
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks the composition invariants. Rows loaded from storage that
// fail it are treated as malformed by scoring.
func (h *Household) Validate() error {
	fields := dErrors.FieldErrors{}
	if h.Province == "" {
		fields.Add("province", "province is required")
	}
	if _, err := ParseZone(string(h.Zone)); err != nil {
		fields.Merge(err)
	}
	if _, err := ParseHousing(string(h.Housing)); err != nil {
		fields.Merge(err)
	}
	if h.Size < 1 {
		fields.Add("size", "size must be at least 1")
	}
	for field, n := range map[string]int{
		"members_under5":   h.MembersUnder5,
		"members_under15":  h.MembersUnder15,
		"members_over64":   h.MembersOver64,
		"disabled_members": h.DisabledMembers,
		"pregnant_members": h.PregnantMembers,
	} {
		if n < 0 {
			fields.Add(field, field+" cannot be negative")
		}
	}
	if h.MembersUnder5 > h.MembersUnder15 {
		fields.Add("members_under5", "members_under5 cannot exceed members_under15")
	}
	if h.MembersUnder15+h.MembersOver64 > h.Size {
		fields.Add("size", "size must be at least members_under15 + members_over64")
	}
	if h.DisabledMembers > h.Size {
		fields.Add("disabled_members", "disabled_members cannot exceed size")
	}
	if h.PregnantMembers > h.Size {
		fields.Add("pregnant_members", "pregnant_members cannot exceed size")
	}
	if h.MonthlyIncome < 0 {
		fields.Add("monthly_income", "monthly_income cannot be negative")
	}
	return fields.Err("invalid household")
}

// DependencyRatio is (under 15 + over 64) / size. Zero when size is not positive.
func (h *Household) DependencyRatio() float64 {
	if h.Size <= 0 {
		return 0
	}
	return float64(h.MembersUnder15+h.MembersOver64) / float64(h.Size)
}

// HouseholdPatch is a partial update. Nil fields are left unchanged.
type HouseholdPatch struct {
	Province        *string
	Zone            *Zone
	Size            *int
	MembersUnder5   *int
	MembersUnder15  *int
	MembersOver64   *int
	DisabledMembers *int
	PregnantMembers *int
	MonthlyIncome   *int64
	Housing         *Housing
	HasWater        *bool
	HasElectricity  *bool
}

// ApplyPatch mutates h. Call Validate afterwards.
func (h *Household) ApplyPatch(patch HouseholdPatch, now time.Time, by id.OperatorID) {
	setString(&h.Province, patch.Province)
	if patch.Zone != nil {
		h.Zone = *patch.Zone
	}
	setInt(&h.Size, patch.Size)
	setInt(&h.MembersUnder5, patch.MembersUnder5)
	setInt(&h.MembersUnder15, patch.MembersUnder15)
	setInt(&h.MembersOver64, patch.MembersOver64)
	setInt(&h.DisabledMembers, patch.DisabledMembers)
	setInt(&h.PregnantMembers, patch.PregnantMembers)
	if patch.MonthlyIncome != nil {
		h.MonthlyIncome = *patch.MonthlyIncome
	}
	if patch.Housing != nil {
		h.Housing = *patch.Housing
	}
	if patch.HasWater != nil {
		h.HasWater = *patch.HasWater
	}
	if patch.HasElectricity != nil {
		h.HasElectricity = *patch.HasElectricity
	}
	h.Touch(now, by)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// CanSetHead checks that person may head this household.
func (h *Household) CanSetHead(person *Person) error {
	if person.IsDeleted() {
		return dErrors.FieldError("person_id", "person not found")
	}
	if !person.BelongsTo(h.ID) {
		return dErrors.FieldError("person_id", "head of household must be a member of the household")
	}
	return nil
}

// ApplyHead records the head of household.
func (h *Household) ApplyHead(personID id.PersonID, now time.Time, by id.OperatorID) {
	pid := personID
	h.HeadID = &pid
	h.Touch(now, by)
}

// ClearHeadIf removes the head when it is personID. Reports whether it changed.
func (h *Household) ClearHeadIf(personID id.PersonID, now time.Time, by id.OperatorID) bool {
	if h.HeadID == nil || *h.HeadID != personID {
		return false
	}
	h.HeadID = nil
	h.Touch(now, by)
	return true
}
