package handler

import (
	"strconv"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

// BatchRequest is the body of POST /assessments/batch.
type BatchRequest struct {
	PersonIDs []string `json:"person_ids"`

	personIDs []id.PersonID
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.PersonIDs) == 0 {
		return dErrors.FieldError("person_ids", "at least one person is required")
	}
	fields := dErrors.FieldErrors{}
	parsed := make([]id.PersonID, 0, len(r.PersonIDs))
	for i, raw := range r.PersonIDs {
		personID, err := id.ParsePersonID(raw)
		if err != nil {
			fields.Add("person_ids["+strconv.Itoa(i)+"]", err.Error())
			continue
		}
		parsed = append(parsed, personID)
	}
	if err := fields.Err("invalid person_ids"); err != nil {
		return err
	}
	r.personIDs = parsed
	return nil
}

func (r *BatchRequest) ParsedPersonIDs() []id.PersonID {
	return r.personIDs
}
