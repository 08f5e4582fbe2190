// Package ports declares what the eligibility service needs from other
// modules. Adapters implement them in-process.
package ports

import (
	"context"
	"time"

	"rsu/internal/eligibility"
	id "rsu/pkg/domain"
)

// PersonRecord is the registry data matching reads.
// HouseholdSize is zero when the household is absent or deleted.
type PersonRecord struct {
	PersonID      id.PersonID
	BirthDate     time.Time
	Gender        string
	Province      string
	HouseholdSize int
}

// RegistryPort looks up persons. Person returns sentinel.ErrNotFound for
// unknown or deleted persons; People omits them.
type RegistryPort interface {
	Person(ctx context.Context, personID id.PersonID) (*PersonRecord, error)
	People(ctx context.Context, personIDs []id.PersonID) (map[id.PersonID]*PersonRecord, error)
}

// ScoringPort reads latest vulnerability scores. Unassessed persons are
// absent from the results.
type ScoringPort interface {
	LatestScore(ctx context.Context, personID id.PersonID) (*float64, error)
	LatestScores(ctx context.Context, personIDs []id.PersonID) (map[id.PersonID]float64, error)
}

// ProgramPort resolves a program's criteria document.
type ProgramPort interface {
	Criteria(ctx context.Context, programID id.ProgramID) (eligibility.Criteria, error)
}
