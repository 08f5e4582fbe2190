// Package analytics computes read-only rollups over the registry, the latest
// vulnerability assessments and program bookkeeping.
package analytics

import "time"

// Age brackets used by the person breakdown.
const (
	AgeChildren = "0-14"
	AgeYouth    = "15-24"
	AgeAdults   = "25-64"
	AgeElderly  = "65+"
)

// AgeBrackets lists the brackets in display order.
func AgeBrackets() []string {
	return []string{AgeChildren, AgeYouth, AgeAdults, AgeElderly}
}

// AgeBracket places an age in its bracket.
func AgeBracket(age int) string {
	switch {
	case age < 15:
		return AgeChildren
	case age < 25:
		return AgeYouth
	case age < 65:
		return AgeAdults
	default:
		return AgeElderly
	}
}

// Dashboard is a point-in-time snapshot of every rollup. It is cached as JSON
// and served as-is.
type Dashboard struct {
	GeneratedAt   time.Time          `json:"generated_at"`
	Persons       PersonStats        `json:"persons"`
	Households    HouseholdStats     `json:"households"`
	Vulnerability VulnerabilityStats `json:"vulnerability"`
	Programs      ProgramStats       `json:"programs"`
	Enrollments   EnrollmentStats    `json:"enrollments"`
	Payments      PaymentStats       `json:"payments"`
}

type PersonStats struct {
	Total        int            `json:"total"`
	ByProvince   map[string]int `json:"by_province"`
	ByGender     map[string]int `json:"by_gender"`
	ByAgeBracket map[string]int `json:"by_age_bracket"`
}

type HouseholdStats struct {
	Total       int     `json:"total"`
	AverageSize float64 `json:"average_size"`
}

// VulnerabilityStats summarizes the latest assessment of each assessed person.
type VulnerabilityStats struct {
	Assessed int            `json:"assessed"`
	ByTier   map[string]int `json:"by_tier"`
	Mean     float64        `json:"mean"`
	Median   float64        `json:"median"`
	StdDev   float64        `json:"stddev"`
}

type ProgramStats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	TotalBudget int64          `json:"total_budget"`
	TotalSpent  int64          `json:"total_spent"`
	Utilization float64        `json:"utilization"`
}

type EnrollmentStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

// StatusAmount is the count and summed amount of payments in one status.
type StatusAmount struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

type PaymentStats struct {
	Total    int                     `json:"total"`
	Amount   int64                   `json:"amount"`
	ByStatus map[string]StatusAmount `json:"by_status"`
}
