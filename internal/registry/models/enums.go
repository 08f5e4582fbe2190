package models

import (
	"strings"

	dErrors "rsu/pkg/domain-errors"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	}
	return "", dErrors.FieldError("gender", "gender must be M or F")
}

// Zone is the settlement classification of a residence.
type Zone string

const (
	ZoneUrban     Zone = "urban"
	ZonePeriUrban Zone = "peri_urban"
	ZoneRural     Zone = "rural"
	ZoneRemote    Zone = "remote"
)

func ParseZone(s string) (Zone, error) {
	switch z := Zone(strings.ToLower(strings.TrimSpace(s))); z {
	case ZoneUrban, ZonePeriUrban, ZoneRural, ZoneRemote:
		return z, nil
	}
	return "", dErrors.FieldError("zone", "zone must be one of urban, peri_urban, rural, remote")
}

type EducationLevel string

const (
	EducationNone      EducationLevel = "none"
	EducationPrimary   EducationLevel = "primary"
	EducationSecondary EducationLevel = "secondary"
	EducationHigher    EducationLevel = "higher"
)

func ParseEducationLevel(s string) (EducationLevel, error) {
	switch e := EducationLevel(strings.ToLower(strings.TrimSpace(s))); e {
	case EducationNone, EducationPrimary, EducationSecondary, EducationHigher:
		return e, nil
	}
	return "", dErrors.FieldError("education_level", "education_level must be one of none, primary, secondary, higher")
}

type EmploymentStatus string

const (
	EmploymentFormal     EmploymentStatus = "formal"
	EmploymentInformal   EmploymentStatus = "informal"
	EmploymentUnemployed EmploymentStatus = "unemployed"
	EmploymentStudent    EmploymentStatus = "student"
	EmploymentRetired    EmploymentStatus = "retired"
)

func ParseEmploymentStatus(s string) (EmploymentStatus, error) {
	switch e := EmploymentStatus(strings.ToLower(strings.TrimSpace(s))); e {
	case EmploymentFormal, EmploymentInformal, EmploymentUnemployed, EmploymentStudent, EmploymentRetired:
		return e, nil
	}
	return "", dErrors.FieldError("employment_status", "employment_status must be one of formal, informal, unemployed, student, retired")
}

type Housing string

const (
	HousingAdequate   Housing = "adequate"
	HousingPrecarious Housing = "precarious"
	HousingMakeshift  Housing = "makeshift"
)

func ParseHousing(s string) (Housing, error) {
	switch h := Housing(strings.ToLower(strings.TrimSpace(s))); h {
	case HousingAdequate, HousingPrecarious, HousingMakeshift:
		return h, nil
	}
	return "", dErrors.FieldError("housing", "housing must be one of adequate, precarious, makeshift")
}

// Substandard reports whether the housing counts as precarious for scoring.
func (h Housing) Substandard() bool {
	return h == HousingPrecarious || h == HousingMakeshift
}
