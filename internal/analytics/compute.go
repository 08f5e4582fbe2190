package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	programs "rsu/internal/programs/models"
	registry "rsu/internal/registry/models"
	"rsu/internal/scoring"
)

// Snapshot is the raw material of a dashboard.
type Snapshot struct {
	Persons     []*registry.Person
	Households  []*registry.Household
	Assessments []*scoring.Assessment
	Programs    []*programs.Program
	Enrollments []*programs.Enrollment
	Payments    []*programs.Payment
}

// Compute builds the dashboard for snap as of now. It is pure.
func Compute(snap Snapshot, now time.Time) *Dashboard {
	return &Dashboard{
		GeneratedAt:   now,
		Persons:       personStats(snap.Persons, now),
		Households:    householdStats(snap.Households),
		Vulnerability: vulnerabilityStats(snap.Assessments),
		Programs:      programStats(snap.Programs),
		Enrollments:   enrollmentStats(snap.Enrollments),
		Payments:      paymentStats(snap.Payments),
	}
}

func personStats(persons []*registry.Person, now time.Time) PersonStats {
	out := PersonStats{
		Total:        len(persons),
		ByProvince:   make(map[string]int),
		ByGender:     map[string]int{string(registry.GenderMale): 0, string(registry.GenderFemale): 0},
		ByAgeBracket: make(map[string]int, 4),
	}
	for _, b := range AgeBrackets() {
		out.ByAgeBracket[b] = 0
	}
	for _, p := range persons {
		province := strings.TrimSpace(p.Province)
		if province == "" {
			province = "unknown"
		}
		out.ByProvince[province]++
		out.ByGender[string(p.Gender)]++
		out.ByAgeBracket[AgeBracket(p.Age(now))]++
	}
	return out
}

func householdStats(households []*registry.Household) HouseholdStats {
	out := HouseholdStats{Total: len(households)}
	if len(households) == 0 {
		return out
	}
	sizes := make([]float64, len(households))
	for i, h := range households {
		sizes[i] = float64(h.Size)
	}
	out.AverageSize = round2(stat.Mean(sizes, nil))
	return out
}

func vulnerabilityStats(assessments []*scoring.Assessment) VulnerabilityStats {
	out := VulnerabilityStats{
		Assessed: len(assessments),
		ByTier:   make(map[string]int, 4),
	}
	for _, t := range scoring.Tiers() {
		out.ByTier[string(t)] = 0
	}
	if len(assessments) == 0 {
		return out
	}
	scores := make([]float64, len(assessments))
	for i, a := range assessments {
		scores[i] = a.Score
		out.ByTier[string(a.Tier)]++
	}
	sort.Float64s(scores)
	out.Mean = round2(stat.Mean(scores, nil))
	out.Median = round2(stat.Quantile(0.5, stat.Empirical, scores, nil))
	if len(scores) > 1 {
		out.StdDev = round2(stat.StdDev(scores, nil))
	}
	return out
}

func programStats(list []*programs.Program) ProgramStats {
	out := ProgramStats{
		Total:    len(list),
		ByStatus: zeroCounts(programs.ProgramDraft, programs.ProgramActive, programs.ProgramPaused, programs.ProgramClosed),
	}
	for _, p := range list {
		out.ByStatus[string(p.Status)]++
		out.TotalBudget += p.BudgetTotal
		out.TotalSpent += p.BudgetSpent
	}
	if out.TotalBudget > 0 {
		out.Utilization = round2(float64(out.TotalSpent) / float64(out.TotalBudget) * 100)
	}
	return out
}

func enrollmentStats(list []*programs.Enrollment) EnrollmentStats {
	out := EnrollmentStats{
		Total: len(list),
		ByStatus: zeroCounts(programs.EnrollmentPending, programs.EnrollmentApproved, programs.EnrollmentRejected,
			programs.EnrollmentActive, programs.EnrollmentSuspended, programs.EnrollmentCompleted),
	}
	for _, e := range list {
		out.ByStatus[string(e.Status)]++
	}
	return out
}

func paymentStats(list []*programs.Payment) PaymentStats {
	out := PaymentStats{
		Total:    len(list),
		ByStatus: make(map[string]StatusAmount, 5),
	}
	for _, s := range []programs.PaymentStatus{programs.PaymentPending, programs.PaymentProcessing,
		programs.PaymentCompleted, programs.PaymentFailed, programs.PaymentCancelled} {
		out.ByStatus[string(s)] = StatusAmount{}
	}
	for _, p := range list {
		sa := out.ByStatus[string(p.Status)]
		sa.Count++
		sa.Amount += p.Amount
		out.ByStatus[string(p.Status)] = sa
		out.Amount += p.Amount
	}
	return out
}

func zeroCounts[S ~string](statuses ...S) map[string]int {
	out := make(map[string]int, len(statuses))
	for _, s := range statuses {
		out[string(s)] = 0
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
