package handler

import (
	"time"

	"rsu/internal/scoring"
)

type AssessmentResponse struct {
	ID                string    `json:"id"`
	PersonID          string    `json:"person_id"`
	HouseholdID       *string   `json:"household_id"`
	Score             float64   `json:"score"`
	EconomicScore     float64   `json:"economic_score"`
	HouseholdScore    float64   `json:"household_score"`
	SocialScore       float64   `json:"social_score"`
	Tier              string    `json:"tier"`
	Partial           bool      `json:"partial"`
	MissingComponents []string  `json:"missing_components"`
	AssessedAt        time.Time `json:"assessed_at"`
	AssessedBy        string    `json:"assessed_by,omitempty"`
}

func FromAssessment(a *scoring.Assessment) AssessmentResponse {
	resp := AssessmentResponse{
		ID:                a.ID.String(),
		PersonID:          a.PersonID.String(),
		Score:             a.Score,
		EconomicScore:     a.EconomicScore,
		HouseholdScore:    a.HouseholdScore,
		SocialScore:       a.SocialScore,
		Tier:              string(a.Tier),
		Partial:           a.Partial,
		MissingComponents: a.MissingComponents,
		AssessedAt:        a.AssessedAt,
	}
	if resp.MissingComponents == nil {
		resp.MissingComponents = []string{}
	}
	if a.HouseholdID != nil {
		hid := a.HouseholdID.String()
		resp.HouseholdID = &hid
	}
	if !a.AssessedBy.IsNil() {
		resp.AssessedBy = a.AssessedBy.String()
	}
	return resp
}

func FromAssessments(assessments []*scoring.Assessment) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(assessments))
	for _, a := range assessments {
		out = append(out, FromAssessment(a))
	}
	return out
}

type BatchErrorResponse struct {
	PersonID string `json:"person_id"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

type BatchResponse struct {
	Processed int                  `json:"processed"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Results   []AssessmentResponse `json:"results"`
	Errors    []BatchErrorResponse `json:"errors"`
}

func FromBatch(r *scoring.BatchResult) BatchResponse {
	resp := BatchResponse{
		Processed: r.Processed,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Results:   FromAssessments(r.Results),
		Errors:    make([]BatchErrorResponse, 0, len(r.Errors)),
	}
	for _, e := range r.Errors {
		resp.Errors = append(resp.Errors, BatchErrorResponse{
			PersonID: e.PersonID.String(),
			Reason:   e.Reason,
			Message:  e.Message,
		})
	}
	return resp
}
