package handler

import (
	"strconv"

	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
)

// CheckRequest is the body of POST /programs/{id}/eligibility.
type CheckRequest struct {
	PersonID string `json:"person_id"`

	personID id.PersonID
}

func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	personID, err := id.ParsePersonID(r.PersonID)
	if err != nil {
		return dErrors.FieldError("person_id", err.Error())
	}
	r.personID = personID
	return nil
}

// BulkCheckRequest is the body of POST /programs/{id}/eligibility/bulk.
type BulkCheckRequest struct {
	PersonIDs []string `json:"person_ids"`

	personIDs []id.PersonID
}

func (r *BulkCheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.PersonIDs) == 0 {
		return dErrors.FieldError("person_ids", "at least one person is required")
	}
	fields := dErrors.FieldErrors{}
	r.personIDs = make([]id.PersonID, 0, len(r.PersonIDs))
	for i, raw := range r.PersonIDs {
		personID, err := id.ParsePersonID(raw)
		if err != nil {
			fields.Add("person_ids["+strconv.Itoa(i)+"]", err.Error())
			continue
		}
		r.personIDs = append(r.personIDs, personID)
	}
	return fields.Err("invalid person_ids")
}
