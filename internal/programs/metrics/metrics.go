package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for programs, enrollments and payments.
type Metrics struct {
	ProgramTransitions    *prometheus.CounterVec
	EnrollmentTransitions *prometheus.CounterVec
	PaymentTransitions    *prometheus.CounterVec
	CapacityRejections    prometheus.Counter
	BudgetRejections      prometheus.Counter
	AmountDisbursed       prometheus.Counter
	CompletionDuration    prometheus.Histogram
	ReconcileDrift        prometheus.Counter
}

// New registers the program metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		ProgramTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_programs_transitions_total",
			Help: "Program status changes, labeled by target status",
		}, []string{"status"}),
		EnrollmentTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_programs_enrollment_transitions_total",
			Help: "Enrollment status changes, labeled by target status",
		}, []string{"status"}),
		PaymentTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rsu_programs_payment_transitions_total",
			Help: "Payment status changes, labeled by target status",
		}, []string{"status"}),
		CapacityRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_programs_capacity_rejections_total",
			Help: "Approvals refused because the program was full",
		}),
		BudgetRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_programs_budget_rejections_total",
			Help: "Payment completions refused because the budget was exhausted",
		}),
		AmountDisbursed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_programs_amount_disbursed_total",
			Help: "Sum of completed payment amounts",
		}),
		CompletionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsu_programs_payment_completion_duration_seconds",
			Help:    "Time spent completing a payment, including row locks",
			Buckets: prometheus.DefBuckets,
		}),
		ReconcileDrift: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_programs_reconcile_drift_total",
			Help: "Reconciliations that found counters out of line with their sources",
		}),
	}
}

func (m *Metrics) IncProgramTransition(status string) {
	if m != nil {
		m.ProgramTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncEnrollmentTransition(status string) {
	if m != nil {
		m.EnrollmentTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncPaymentTransition(status string) {
	if m != nil {
		m.PaymentTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncCapacityRejection() {
	if m != nil {
		m.CapacityRejections.Inc()
	}
}

func (m *Metrics) IncBudgetRejection() {
	if m != nil {
		m.BudgetRejections.Inc()
	}
}

func (m *Metrics) ObservePaymentCompleted(amount int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AmountDisbursed.Add(float64(amount))
	m.CompletionDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) IncReconcileDrift() {
	if m != nil {
		m.ReconcileDrift.Inc()
	}
}
