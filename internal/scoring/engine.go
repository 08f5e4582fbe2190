package scoring

import (
	"math"
	"time"

	"rsu/internal/registry/models"
)

// Component shares of the combined score. The weighted components are added
// and the sum is capped at componentCap.
const (
	economicShare  = 0.7
	householdShare = 0.6
	socialShare    = 0.4
)

const componentCap = 100.0

// Engine computes vulnerability scores. It is pure: the same inputs always
// produce the same result.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Compute scores a person. household may be nil when issue explains why it is
// unavailable; in that case household-derived indicators contribute zero and
// the result is partial.
func (e *Engine) Compute(person *models.Person, household *models.Household, issue HouseholdIssue, at time.Time) Result {
	if household == nil && issue == HouseholdOK {
		issue = HouseholdNone
	}
	if issue != HouseholdOK {
		household = nil
	}

	economic := economicScore(person, household)
	composition := householdScore(household)
	social := socialScore(person)
	score := round2(capped(economicShare*economic + householdShare*composition + socialShare*social))

	r := Result{
		Score:          score,
		Economic:       economic,
		Household:      composition,
		Social:         social,
		Tier:           TierFor(score),
		HouseholdIssue: issue,
		ComputedAt:     at,
	}
	if issue != HouseholdOK {
		r.Partial = true
		r.MissingComponents = []string{ComponentHousehold, ComponentHousing}
	}
	return r
}

func economicScore(p *models.Person, h *models.Household) float64 {
	var s float64
	switch {
	case p.MonthlyIncome < 50_000:
		s += 40
	case p.MonthlyIncome < 100_000:
		s += 30
	case p.MonthlyIncome < 200_000:
		s += 15
	}
	if p.EmploymentStatus == models.EmploymentInformal || p.EmploymentStatus == models.EmploymentUnemployed {
		s += 20
	}
	if !p.HasBankAccount {
		s += 10
	}
	if h != nil {
		if h.Housing.Substandard() {
			s += 10
		}
		if !h.HasWater {
			s += 10
		}
		if !h.HasElectricity {
			s += 10
		}
	}
	return capped(s)
}

func householdScore(h *models.Household) float64 {
	if h == nil {
		return 0
	}
	var s float64
	switch {
	case h.Size >= 8:
		s += 50
	case h.Size >= 6:
		s += 40
	case h.Size >= 4:
		s += 20
	}
	switch ratio := h.DependencyRatio(); {
	case ratio >= 0.6:
		s += 30
	case ratio >= 0.4:
		s += 20
	case ratio >= 0.2:
		s += 10
	}
	if h.DisabledMembers > 0 {
		s += 20
	}
	if h.PregnantMembers > 0 {
		s += 10
	}
	if h.MembersUnder5 > 0 {
		s += 10
	}
	return capped(s)
}

func socialScore(p *models.Person) float64 {
	var s float64
	switch p.EducationLevel {
	case models.EducationNone:
		s += 40
	case models.EducationPrimary:
		s += 25
	case models.EducationSecondary:
		s += 10
	}
	switch p.Zone {
	case models.ZoneRemote, models.ZoneRural:
		s += 30
	case models.ZonePeriUrban:
		s += 15
	}
	if !p.IdentityVerified {
		s += 20
	}
	if p.HasDisability {
		s += 10
	}
	return capped(s)
}

func capped(v float64) float64 {
	return math.Max(0, math.Min(componentCap, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
