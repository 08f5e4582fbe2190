package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
)

var assessedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func basePerson() *models.Person {
	householdID := id.NewHouseholdID()
	return &models.Person{
		ID:               id.NewPersonID(),
		FirstName:        "Amina",
		LastName:         "Said",
		BirthDate:        time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:           models.GenderFemale,
		Province:         "Anjouan",
		Zone:             models.ZoneRural,
		MonthlyIncome:    40_000,
		EmploymentStatus: models.EmploymentInformal,
		EducationLevel:   models.EducationPrimary,
		HouseholdID:      &householdID,
	}
}

func baseHousehold(p *models.Person) *models.Household {
	return &models.Household{
		ID:             *p.HouseholdID,
		Province:       "Anjouan",
		Zone:           models.ZoneRural,
		Size:           7,
		MembersUnder5:  1,
		MembersUnder15: 3,
		MembersOver64:  1,
		Housing:        models.HousingAdequate,
		HasWater:       true,
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		tier  Tier
	}{
		{100, TierExtreme},
		{75, TierExtreme},
		{74.99, TierHigh},
		{50, TierHigh},
		{49.99, TierModerate},
		{25, TierModerate},
		{24.99, TierLow},
		{0, TierLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.score), "score %v", tt.score)
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("HIGH")
	require.NoError(t, err)
	assert.Equal(t, TierHigh, tier)

	_, err = ParseTier("high")
	require.Error(t, err)
}

func TestEngineCompute(t *testing.T) {
	engine := NewEngine()

	t.Run("low income alone yields the documented economic minimum", func(t *testing.T) {
		p := basePerson()
		p.EmploymentStatus = models.EmploymentFormal
		p.HasBankAccount = true
		h := baseHousehold(p)
		h.HasElectricity = true
		r := engine.Compute(p, h, HouseholdOK, assessedAt)
		assert.Equal(t, 40.0, r.Economic)
	})

	t.Run("large poor household without bank or electricity is high risk", func(t *testing.T) {
		p := basePerson()
		p.EmploymentStatus = models.EmploymentFormal
		p.EducationLevel = models.EducationHigher
		p.Zone = models.ZoneUrban
		p.IdentityVerified = true
		h := baseHousehold(p)
		h.MembersUnder5 = 0
		h.MembersUnder15 = 0
		h.MembersOver64 = 0

		r := engine.Compute(p, h, HouseholdOK, assessedAt)
		assert.Equal(t, 60.0, r.Economic)
		assert.Equal(t, 40.0, r.Household)
		assert.Zero(t, r.Social)
		// 0.7*60 + 0.6*40
		assert.Equal(t, 66.0, r.Score)
		assert.GreaterOrEqual(t, r.Score, 60.0)
		assert.Equal(t, TierHigh, r.Tier)
	})

	t.Run("reference household saturates at extreme", func(t *testing.T) {
		p := basePerson()
		r := engine.Compute(p, baseHousehold(p), HouseholdOK, assessedAt)

		assert.Equal(t, 80.0, r.Economic)
		assert.Equal(t, 70.0, r.Household)
		assert.Equal(t, 75.0, r.Social)
		assert.Equal(t, 100.0, r.Score)
		assert.Equal(t, TierExtreme, r.Tier)
		assert.False(t, r.Partial)
		assert.Equal(t, assessedAt, r.ComputedAt)
	})

	t.Run("components are capped at 100", func(t *testing.T) {
		p := basePerson()
		p.EmploymentStatus = models.EmploymentUnemployed
		p.EducationLevel = models.EducationNone
		p.Zone = models.ZoneRemote
		p.HasDisability = true
		h := baseHousehold(p)
		h.Size = 9
		h.MembersUnder15 = 5
		h.MembersOver64 = 2
		h.DisabledMembers = 1
		h.PregnantMembers = 1
		h.Housing = models.HousingMakeshift
		h.HasWater = false

		r := engine.Compute(p, h, HouseholdOK, assessedAt)
		assert.Equal(t, 100.0, r.Economic)
		assert.Equal(t, 100.0, r.Household)
		assert.Equal(t, 100.0, r.Social)
		assert.Equal(t, 100.0, r.Score)
		assert.Equal(t, TierExtreme, r.Tier)
	})

	t.Run("comfortable person is low risk", func(t *testing.T) {
		p := basePerson()
		p.MonthlyIncome = 450_000
		p.EmploymentStatus = models.EmploymentFormal
		p.HasBankAccount = true
		p.EducationLevel = models.EducationHigher
		p.Zone = models.ZoneUrban
		p.IdentityVerified = true
		h := baseHousehold(p)
		h.Size = 2
		h.MembersUnder5 = 0
		h.MembersUnder15 = 0
		h.MembersOver64 = 0
		h.HasElectricity = true

		r := engine.Compute(p, h, HouseholdOK, assessedAt)
		assert.Zero(t, r.Score)
		assert.Equal(t, TierLow, r.Tier)
	})

	t.Run("missing household is neutral and partial", func(t *testing.T) {
		p := basePerson()
		r := engine.Compute(p, nil, HouseholdMissing, assessedAt)

		assert.True(t, r.Partial)
		assert.Equal(t, HouseholdMissing, r.HouseholdIssue)
		assert.ElementsMatch(t, []string{ComponentHousehold, ComponentHousing}, r.MissingComponents)
		assert.Zero(t, r.Household)
		assert.Equal(t, 70.0, r.Economic, "housing, water and electricity contribute nothing")
	})

	t.Run("malformed household is ignored even when supplied", func(t *testing.T) {
		p := basePerson()
		h := baseHousehold(p)
		h.MembersUnder5 = 9
		r := engine.Compute(p, h, HouseholdMalformed, assessedAt)
		assert.True(t, r.Partial)
		assert.Zero(t, r.Household)
	})

	t.Run("nil household without an issue is treated as no household", func(t *testing.T) {
		p := basePerson()
		p.HouseholdID = nil
		r := engine.Compute(p, nil, HouseholdOK, assessedAt)
		assert.True(t, r.Partial)
		assert.Equal(t, HouseholdNone, r.HouseholdIssue)
	})

	t.Run("score is rounded to two decimals", func(t *testing.T) {
		p := basePerson()
		p.MonthlyIncome = 150_000
		p.EmploymentStatus = models.EmploymentFormal
		p.HasBankAccount = true
		p.EducationLevel = models.EducationSecondary
		p.Zone = models.ZonePeriUrban
		p.IdentityVerified = true
		h := baseHousehold(p)
		h.HasElectricity = true
		h.Size = 3
		h.MembersUnder5 = 0
		h.MembersUnder15 = 1
		h.MembersOver64 = 0

		r := engine.Compute(p, h, HouseholdOK, assessedAt)
		// 0.7*15 + 0.6*10 + 0.4*25
		assert.Equal(t, 26.5, r.Score)
		assert.Equal(t, TierModerate, r.Tier)
	})
}
