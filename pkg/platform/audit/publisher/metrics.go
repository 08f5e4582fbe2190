package publisher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "rsu/pkg/platform/audit"
)

// Metrics tracks audit persistence.
type Metrics struct {
	EntriesEmitted  *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

// NewMetrics registers audit metrics with the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		EntriesEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_audit_entries_total",
			Help: "Audit entries persisted by action",
		}, []string{"action"}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_audit_persist_failures_total",
			Help: "Audit entries that failed to persist",
		}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsu_audit_persist_duration_seconds",
			Help:    "Duration of audit entry writes",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

func (m *Metrics) ObservePersist(start time.Time, action audit.Action) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(time.Since(start).Seconds())
	m.EntriesEmitted.WithLabelValues(string(action)).Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}
