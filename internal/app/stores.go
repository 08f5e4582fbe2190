package app

import (
	"context"
	"database/sql"

	programsmodels "rsu/internal/programs/models"
	programsservice "rsu/internal/programs/service"
	enrollmentstore "rsu/internal/programs/store/enrollment"
	paymentstore "rsu/internal/programs/store/payment"
	programstore "rsu/internal/programs/store/program"
	registry "rsu/internal/registry/models"
	registryservice "rsu/internal/registry/service"
	householdstore "rsu/internal/registry/store/household"
	personstore "rsu/internal/registry/store/person"
	"rsu/internal/scoring"
	scoringservice "rsu/internal/scoring/service"
	scoringstore "rsu/internal/scoring/store"
	id "rsu/pkg/domain"
	audit "rsu/pkg/platform/audit"
	auditmemory "rsu/pkg/platform/audit/store/memory"
	auditpostgres "rsu/pkg/platform/audit/store/postgres"
	"rsu/pkg/platform/tx"
)

// Each store is read by several contexts; these unions name everything the
// wiring below asks of one backend.

type personStore interface {
	registryservice.PersonStore
	All(ctx context.Context) ([]*registry.Person, error)
}

type householdStore interface {
	registryservice.HouseholdStore
	All(ctx context.Context) ([]*registry.Household, error)
}

type assessmentStore interface {
	scoringservice.Store
	LatestForPersons(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*scoring.Assessment, error)
	AllLatest(ctx context.Context) ([]*scoring.Assessment, error)
}

type programStore interface {
	programsservice.ProgramStore
	All(ctx context.Context) ([]*programsmodels.Program, error)
}

type enrollmentStore interface {
	programsservice.EnrollmentStore
	All(ctx context.Context) ([]*programsmodels.Enrollment, error)
}

type paymentStore interface {
	programsservice.PaymentStore
	All(ctx context.Context) ([]*programsmodels.Payment, error)
}

type auditStore interface {
	audit.Store
	audit.Outbox
}

type stores struct {
	runner      tx.Runner
	persons     personStore
	households  householdStore
	assessments assessmentStore
	programs    programStore
	enrollments enrollmentStore
	payments    paymentStore
	audit       auditStore
}

// newMemoryStores backs every context with process memory. The locking
// runner serializes transactions so cross-store invariants still hold.
func newMemoryStores() *stores {
	return &stores{
		runner:      tx.NewLockingRunner(),
		persons:     personstore.NewInMemory(),
		households:  householdstore.NewInMemory(),
		assessments: scoringstore.NewInMemory(),
		programs:    programstore.NewInMemory(),
		enrollments: enrollmentstore.NewInMemory(),
		payments:    paymentstore.NewInMemory(),
		audit:       auditmemory.NewInMemoryStore(),
	}
}

func newPostgresStores(db *sql.DB) *stores {
	return &stores{
		runner:      tx.NewSQLRunner(db),
		persons:     personstore.NewPostgres(db),
		households:  householdstore.NewPostgres(db),
		assessments: scoringstore.NewPostgres(db),
		programs:    programstore.NewPostgres(db),
		enrollments: enrollmentstore.NewPostgres(db),
		payments:    paymentstore.NewPostgres(db),
		audit:       auditpostgres.New(db),
	}
}
