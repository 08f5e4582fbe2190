package scoring

import (
	"time"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

// Tier is the risk classification of a vulnerability score.
type Tier string

const (
	TierLow      Tier = "LOW"
	TierModerate Tier = "MODERATE"
	TierHigh     Tier = "HIGH"
	TierExtreme  Tier = "EXTREME"
)

// Tier thresholds. Lower bounds are inclusive.
const (
	extremeFloor  = 75.0
	highFloor     = 50.0
	moderateFloor = 25.0
)

// TierFor classifies a score.
func TierFor(score float64) Tier {
	switch {
	case score >= extremeFloor:
		return TierExtreme
	case score >= highFloor:
		return TierHigh
	case score >= moderateFloor:
		return TierModerate
	default:
		return TierLow
	}
}

func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierLow, TierModerate, TierHigh, TierExtreme:
		return t, nil
	}
	return "", dErrors.FieldError("tier", "tier must be one of LOW, MODERATE, HIGH, EXTREME")
}

// Tiers lists tiers from least to most vulnerable.
func Tiers() []Tier {
	return []Tier{TierLow, TierModerate, TierHigh, TierExtreme}
}

// Components missing from a partial result.
const (
	ComponentHousehold = "household_composition"
	ComponentHousing   = "housing_conditions"
)

// HouseholdIssue explains why household indicators were not used.
type HouseholdIssue string

const (
	HouseholdOK        HouseholdIssue = ""
	HouseholdNone      HouseholdIssue = "no_household"
	HouseholdMissing   HouseholdIssue = "household_missing"
	HouseholdMalformed HouseholdIssue = "household_malformed"
)

// Result is the output of one engine run.
type Result struct {
	Score             float64
	Economic          float64
	Household         float64
	Social            float64
	Tier              Tier
	Partial           bool
	MissingComponents []string
	HouseholdIssue    HouseholdIssue
	ComputedAt        time.Time
}

// Assessment is an immutable snapshot of a person's score. A new assessment is
// appended on every computation; earlier ones are never rewritten.
type Assessment struct {
	ID                id.AssessmentID
	PersonID          id.PersonID
	HouseholdID       *id.HouseholdID
	Score             float64
	EconomicScore     float64
	HouseholdScore    float64
	SocialScore       float64
	Tier              Tier
	Partial           bool
	MissingComponents []string
	AssessedAt        time.Time
	AssessedBy        id.OperatorID
}

// NewAssessment snapshots a result for a person.
func NewAssessment(personID id.PersonID, householdID *id.HouseholdID, r Result, by id.OperatorID) *Assessment {
	var hid *id.HouseholdID
	if householdID != nil {
		h := *householdID
		hid = &h
	}
	missing := append([]string{}, r.MissingComponents...)
	return &Assessment{
		ID:                id.NewAssessmentID(),
		PersonID:          personID,
		HouseholdID:       hid,
		Score:             r.Score,
		EconomicScore:     r.Economic,
		HouseholdScore:    r.Household,
		SocialScore:       r.Social,
		Tier:              r.Tier,
		Partial:           r.Partial,
		MissingComponents: missing,
		AssessedAt:        r.ComputedAt,
		AssessedBy:        by,
	}
}

// AssessmentFilter narrows assessment listings to the latest assessment of
// each person. An empty Tier matches every tier.
type AssessmentFilter struct {
	Tier Tier
}

// BatchError records why one item of a batch failed.
type BatchError struct {
	PersonID id.PersonID
	Reason   string
	Message  string
}

// BatchResult summarizes a batch run. Per-item failures never fail the batch.
type BatchResult struct {
	Processed int
	Succeeded int
	Failed    int
	Results   []*Assessment
	Errors    []BatchError
}

// Batch failure reasons.
const (
	ReasonNotFound             = "not_found"
	ReasonHouseholdUnavailable = "household_unavailable"
	ReasonInternal             = "internal_error"
	ReasonCancelled            = "cancelled"
)
