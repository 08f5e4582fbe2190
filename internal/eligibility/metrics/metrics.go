package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for eligibility checks.
type Metrics struct {
	Checks      *prometheus.CounterVec
	MatchScores prometheus.Histogram
}

// New registers the eligibility metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		Checks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_eligibility_checks_total",
			Help: "Eligibility checks, labeled by outcome",
		}, []string{"outcome"}),
		MatchScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsu_eligibility_match_score",
			Help:    "Distribution of eligibility match scores",
			Buckets: []float64{0, 25, 50, 75, 100},
		}),
	}
}

func (m *Metrics) ObserveCheck(score float64, eligible bool) {
	if m == nil {
		return
	}
	outcome := "ineligible"
	if eligible {
		outcome = "eligible"
	}
	m.Checks.WithLabelValues(outcome).Inc()
	m.MatchScores.Observe(score)
}
