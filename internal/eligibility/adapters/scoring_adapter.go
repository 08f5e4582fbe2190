package adapters

import (
	"context"
	"errors"

	"rsu/internal/scoring"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

type assessmentReader interface {
	Latest(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error)
	LatestForPersons(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*scoring.Assessment, error)
}

// ScoringAdapter implements ports.ScoringPort over the assessment store.
type ScoringAdapter struct {
	assessments assessmentReader
}

func NewScoringAdapter(assessments assessmentReader) *ScoringAdapter {
	return &ScoringAdapter{assessments: assessments}
}

func (a *ScoringAdapter) LatestScore(ctx context.Context, personID id.PersonID) (*float64, error) {
	latest, err := a.assessments.Latest(ctx, personID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	score := latest.Score
	return &score, nil
}

func (a *ScoringAdapter) LatestScores(ctx context.Context, personIDs []id.PersonID) (map[id.PersonID]float64, error) {
	latest, err := a.assessments.LatestForPersons(ctx, personIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[id.PersonID]float64, len(latest))
	for personID, assessment := range latest {
		out[personID] = assessment.Score
	}
	return out, nil
}
