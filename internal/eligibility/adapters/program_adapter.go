package adapters

import (
	"context"

	"rsu/internal/eligibility"
	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
)

type programReader interface {
	FindByID(ctx context.Context, programID id.ProgramID) (*models.Program, error)
}

// ProgramAdapter implements ports.ProgramPort over the program store.
type ProgramAdapter struct {
	programs programReader
}

func NewProgramAdapter(programs programReader) *ProgramAdapter {
	return &ProgramAdapter{programs: programs}
}

func (a *ProgramAdapter) Criteria(ctx context.Context, programID id.ProgramID) (eligibility.Criteria, error) {
	p, err := a.programs.FindByID(ctx, programID)
	if err != nil {
		return eligibility.Criteria{}, err
	}
	return p.Criteria, nil
}
