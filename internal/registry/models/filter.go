package models

import (
	id "rsu/pkg/domain"
	"rsu/pkg/platform/strings"
)

// PersonFilter narrows person listings. Zero fields match everything.
type PersonFilter struct {
	Province    string
	Gender      Gender
	HouseholdID *id.HouseholdID
}

func (f PersonFilter) Matches(p *Person) bool {
	if p.IsDeleted() {
		return false
	}
	if f.Province != "" && !strings.EqualNormalized(f.Province, p.Province) {
		return false
	}
	if f.Gender != "" && f.Gender != p.Gender {
		return false
	}
	if f.HouseholdID != nil && !p.BelongsTo(*f.HouseholdID) {
		return false
	}
	return true
}

// HouseholdFilter narrows household listings.
type HouseholdFilter struct {
	Province string
	Zone     Zone
}

func (f HouseholdFilter) Matches(h *Household) bool {
	if h.IsDeleted() {
		return false
	}
	if f.Province != "" && !strings.EqualNormalized(f.Province, h.Province) {
		return false
	}
	if f.Zone != "" && f.Zone != h.Zone {
		return false
	}
	return true
}
