package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func matchingProfile() Profile {
	return Profile{
		Age:                34,
		Gender:             "F",
		Province:           "Anjouan",
		HouseholdSize:      6,
		VulnerabilityScore: ptr(68.5),
	}
}

func fullCriteria() Criteria {
	return Criteria{
		MinVulnerabilityScore: ptr(50.0),
		MinAge:                ptr(18),
		MaxAge:                ptr(60),
		Provinces:             []string{"Grande Comore", "anjouan "},
		Gender:                "F",
		MinHouseholdSize:      ptr(4),
	}
}

func TestMatch(t *testing.T) {
	t.Run("every specified criterion satisfied scores 100", func(t *testing.T) {
		r := Match(matchingProfile(), fullCriteria())
		assert.Equal(t, 100.0, r.Score)
		assert.True(t, r.Eligible())
		assert.Len(t, r.Outcomes, 5)
	})

	t.Run("no criteria scores 100", func(t *testing.T) {
		r := Match(Profile{}, Criteria{})
		assert.Equal(t, 100.0, r.Score)
		for _, o := range r.Outcomes {
			assert.False(t, o.Specified)
			assert.True(t, o.Satisfied)
		}
	})

	t.Run("absent criteria never reduce the score", func(t *testing.T) {
		p := matchingProfile()
		p.Province = "Mohéli"
		p.Gender = "M"
		c := Criteria{MinVulnerabilityScore: ptr(50.0), MinAge: ptr(18)}
		assert.Equal(t, 100.0, Match(p, c).Score)
	})

	t.Run("weights are proportional to specified criteria", func(t *testing.T) {
		p := matchingProfile()
		p.Province = "Mohéli"
		// 100 possible, province (20) missed
		assert.Equal(t, 80.0, Match(p, fullCriteria()).Score)

		c := Criteria{MinVulnerabilityScore: ptr(90.0), Gender: "F"}
		// 50 possible, 10 earned
		r := Match(matchingProfile(), c)
		assert.Equal(t, 20.0, r.Score)
		assert.False(t, r.Eligible())
	})

	t.Run("missing assessment fails the vulnerability floor", func(t *testing.T) {
		p := matchingProfile()
		p.VulnerabilityScore = nil
		r := Match(p, Criteria{MinVulnerabilityScore: ptr(10.0), MinHouseholdSize: ptr(2)})
		assert.InDelta(t, 20.0, r.Score, 0.001)
	})

	t.Run("age bounds are inclusive", func(t *testing.T) {
		c := Criteria{MinAge: ptr(18), MaxAge: ptr(34)}
		p := matchingProfile()
		assert.Equal(t, 100.0, Match(p, c).Score)
		p.Age = 35
		assert.Equal(t, 0.0, Match(p, c).Score)
		p.Age = 18
		assert.Equal(t, 100.0, Match(p, c).Score)
	})

	t.Run("only a maximum age", func(t *testing.T) {
		p := matchingProfile()
		p.Age = 70
		assert.Equal(t, 0.0, Match(p, Criteria{MaxAge: ptr(64)}).Score)
	})

	t.Run("scores are rounded to two decimals", func(t *testing.T) {
		p := matchingProfile()
		p.HouseholdSize = 1
		p.Gender = "M"
		// 100 possible, 80 earned
		assert.Equal(t, 80.0, Match(p, fullCriteria()).Score)

		c := Criteria{MinAge: ptr(40), Provinces: []string{"Anjouan"}, Gender: "F", MinHouseholdSize: ptr(2)}
		// 60 possible, 40 earned
		assert.Equal(t, 66.67, Match(matchingProfile(), c).Score)
	})

	t.Run("eligibility threshold is inclusive", func(t *testing.T) {
		assert.True(t, Result{Score: 50}.Eligible())
		assert.False(t, Result{Score: 49.99}.Eligible())
	})
}
