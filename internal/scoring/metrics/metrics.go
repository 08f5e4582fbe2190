package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for vulnerability scoring.
type Metrics struct {
	AssessmentsRecorded *prometheus.CounterVec
	PartialAssessments  prometheus.Counter
	BatchItems          *prometheus.CounterVec
	ScoreDistribution   prometheus.Histogram
	BatchDuration       prometheus.Histogram
}

// New registers the scoring metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		AssessmentsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_scoring_assessments_total",
			Help: "Assessments recorded, labeled by risk tier",
		}, []string{"tier"}),
		PartialAssessments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_scoring_partial_assessments_total",
			Help: "Assessments computed without household indicators",
		}),
		BatchItems: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_scoring_batch_items_total",
			Help: "Batch items processed, labeled by outcome",
		}, []string{"outcome"}),
		ScoreDistribution: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsu_scoring_score",
			Help:    "Distribution of combined vulnerability scores",
			Buckets: []float64{10, 25, 40, 50, 60, 75, 90, 100},
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsu_scoring_batch_duration_seconds",
			Help:    "Wall time of batch scoring runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveAssessment(tier string, score float64, partial bool) {
	if m == nil {
		return
	}
	m.AssessmentsRecorded.WithLabelValues(tier).Inc()
	m.ScoreDistribution.Observe(score)
	if partial {
		m.PartialAssessments.Inc()
	}
}

func (m *Metrics) IncBatchItem(outcome string) {
	if m != nil {
		m.BatchItems.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveBatchDuration(seconds float64) {
	if m != nil {
		m.BatchDuration.Observe(seconds)
	}
}
