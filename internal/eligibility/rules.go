package eligibility

import (
	"math"
	"strings"

	rsustrings "rsu/pkg/platform/strings"
)

// Match scores profile against criteria as the percentage of specified
// criterion weight that is satisfied. With nothing specified the score is 100.
// This is pure domain logic with no I/O.
func Match(profile Profile, criteria Criteria) Result {
	outcomes := make([]Outcome, 0, len(criterionOrder))
	var earned, possible int
	for _, name := range criterionOrder {
		specified, satisfied := evaluate(name, profile, criteria)
		o := Outcome{
			Criterion: name,
			Weight:    weights[name],
			Specified: specified,
			Satisfied: satisfied || !specified,
		}
		if specified {
			possible += o.Weight
			if satisfied {
				earned += o.Weight
			}
		}
		outcomes = append(outcomes, o)
	}

	score := 100.0
	if possible > 0 {
		score = math.Round(float64(earned)/float64(possible)*100*100) / 100
	}
	return Result{Score: score, Outcomes: outcomes}
}

func evaluate(name string, p Profile, c Criteria) (specified, satisfied bool) {
	switch name {
	case CriterionVulnerability:
		if c.MinVulnerabilityScore == nil {
			return false, true
		}
		return true, p.VulnerabilityScore != nil && *p.VulnerabilityScore >= *c.MinVulnerabilityScore
	case CriterionAge:
		if c.MinAge == nil && c.MaxAge == nil {
			return false, true
		}
		ok := (c.MinAge == nil || p.Age >= *c.MinAge) && (c.MaxAge == nil || p.Age <= *c.MaxAge)
		return true, ok
	case CriterionProvince:
		if len(c.Provinces) == 0 {
			return false, true
		}
		return true, rsustrings.ContainsNormalized(c.Provinces, p.Province)
	case CriterionGender:
		if c.Gender == "" {
			return false, true
		}
		return true, strings.EqualFold(c.Gender, p.Gender)
	case CriterionHouseholdSize:
		if c.MinHouseholdSize == nil {
			return false, true
		}
		return true, p.HouseholdSize >= *c.MinHouseholdSize
	}
	return false, true
}
