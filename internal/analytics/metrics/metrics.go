package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for dashboard computation.
type Metrics struct {
	CacheLookups    *prometheus.CounterVec
	ComputeDuration prometheus.Histogram
	ComputeFailures prometheus.Counter
}

// New registers the analytics metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_analytics_cache_lookups_total",
			Help: "Dashboard cache lookups, labeled by result (hit, miss, error)",
		}, []string{"result"}),
		ComputeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsu_analytics_compute_duration_seconds",
			Help:    "Time to load sources and compute the dashboard",
			Buckets: prometheus.DefBuckets,
		}),
		ComputeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_analytics_compute_failures_total",
			Help: "Dashboard computations that failed",
		}),
	}
}

func (m *Metrics) IncCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveCompute(seconds float64) {
	if m != nil {
		m.ComputeDuration.Observe(seconds)
	}
}

func (m *Metrics) IncComputeFailure() {
	if m != nil {
		m.ComputeFailures.Inc()
	}
}
