package handler

import (
	"rsu/internal/eligibility"
)

type OutcomeResponse struct {
	Criterion string `json:"criterion"`
	Weight    int    `json:"weight"`
	Specified bool   `json:"specified"`
	Satisfied bool   `json:"satisfied"`
}

type CheckResponse struct {
	ProgramID string            `json:"program_id"`
	PersonID  string            `json:"person_id"`
	Score     float64           `json:"score"`
	Eligible  bool              `json:"eligible"`
	Threshold float64           `json:"threshold"`
	Criteria  []OutcomeResponse `json:"criteria"`
}

func FromCheck(c eligibility.Check) CheckResponse {
	resp := CheckResponse{
		ProgramID: c.ProgramID.String(),
		PersonID:  c.PersonID.String(),
		Score:     c.Result.Score,
		Eligible:  c.Result.Eligible(),
		Threshold: eligibility.Threshold,
		Criteria:  make([]OutcomeResponse, 0, len(c.Result.Outcomes)),
	}
	for _, o := range c.Result.Outcomes {
		resp.Criteria = append(resp.Criteria, OutcomeResponse{
			Criterion: o.Criterion,
			Weight:    o.Weight,
			Specified: o.Specified,
			Satisfied: o.Satisfied,
		})
	}
	return resp
}

type BulkResponse struct {
	ProgramID string          `json:"program_id"`
	Checked   int             `json:"checked"`
	Eligible  int             `json:"eligible"`
	Results   []CheckResponse `json:"results"`
	Missing   []string        `json:"missing"`
}

func FromBulk(r *eligibility.BulkResult) BulkResponse {
	resp := BulkResponse{
		ProgramID: r.ProgramID.String(),
		Checked:   r.Checked,
		Eligible:  r.Eligible,
		Results:   make([]CheckResponse, 0, len(r.Checks)),
		Missing:   make([]string, 0, len(r.Missing)),
	}
	for _, c := range r.Checks {
		resp.Results = append(resp.Results, FromCheck(c))
	}
	for _, personID := range r.Missing {
		resp.Missing = append(resp.Missing, personID.String())
	}
	return resp
}
