package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	PersonsCreated    prometheus.Counter
	PersonsDeleted    prometheus.Counter
	HouseholdsCreated prometheus.Counter
	IdentityVerified  prometheus.Counter
	RSUIDCollisions   prometheus.Counter
}

// New registers the registry metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		PersonsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_registry_persons_created_total",
			Help: "Total persons registered",
		}),
		PersonsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_registry_persons_deleted_total",
			Help: "Total persons soft-deleted",
		}),
		HouseholdsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_registry_households_created_total",
			Help: "Total households registered",
		}),
		IdentityVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_registry_identity_verified_total",
			Help: "Total identity documents marked verified",
		}),
		RSUIDCollisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rsu_registry_rsu_id_collisions_total",
			Help: "RSU-ID generation retries caused by collisions",
		}),
	}
}

func (m *Metrics) IncPersonCreated() {
	if m != nil {
		m.PersonsCreated.Inc()
	}
}

func (m *Metrics) IncPersonDeleted() {
	if m != nil {
		m.PersonsDeleted.Inc()
	}
}

func (m *Metrics) IncHouseholdCreated() {
	if m != nil {
		m.HouseholdsCreated.Inc()
	}
}

func (m *Metrics) IncIdentityVerified() {
	if m != nil {
		m.IdentityVerified.Inc()
	}
}

func (m *Metrics) IncRSUIDCollision() {
	if m != nil {
		m.RSUIDCollisions.Inc()
	}
}
