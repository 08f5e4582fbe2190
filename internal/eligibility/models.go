package eligibility

import (
	id "rsu/pkg/domain"
)

// Threshold is the minimum score at which a person counts as eligible.
// Callers apply it; Match never does.
const Threshold = 50.0

// Criterion names and their point weights.
const (
	CriterionVulnerability = "min_vulnerability_score"
	CriterionAge           = "age_range"
	CriterionProvince      = "provinces"
	CriterionGender        = "gender"
	CriterionHouseholdSize = "min_household_size"
)

var weights = map[string]int{
	CriterionVulnerability: 40,
	CriterionAge:           20,
	CriterionProvince:      20,
	CriterionGender:        10,
	CriterionHouseholdSize: 10,
}

// criterionOrder fixes the order outcomes are reported in.
var criterionOrder = []string{
	CriterionVulnerability,
	CriterionAge,
	CriterionProvince,
	CriterionGender,
	CriterionHouseholdSize,
}

// Profile holds the person attributes matching reads.
// HouseholdSize is zero when the person has no usable household.
// VulnerabilityScore is nil when the person has never been assessed.
type Profile struct {
	Age                int
	Gender             string
	Province           string
	HouseholdSize      int
	VulnerabilityScore *float64
}

// Outcome reports one criterion. Unspecified criteria are satisfied and carry
// no weight in the score.
type Outcome struct {
	Criterion string
	Weight    int
	Specified bool
	Satisfied bool
}

// Result is the match between a profile and criteria.
type Result struct {
	Score    float64
	Outcomes []Outcome
}

// Eligible applies Threshold to the score.
func (r Result) Eligible() bool {
	return r.Score >= Threshold
}

// Check is a match of one person against one program.
type Check struct {
	ProgramID id.ProgramID
	PersonID  id.PersonID
	Result    Result
}

// BulkResult summarizes a bulk check. Persons that could not be found are
// listed in Missing and skipped.
type BulkResult struct {
	ProgramID id.ProgramID
	Checked   int
	Eligible  int
	Checks    []Check
	Missing   []id.PersonID
}
