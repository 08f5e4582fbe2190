package models

import (
	"time"

	id "rsu/pkg/domain"
)

// Entity carries the bookkeeping fields shared by registry records.
// Records are never hard-deleted; DeletedAt marks them invisible to reads.
type Entity struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	CreatedBy id.OperatorID
	UpdatedBy id.OperatorID
}

func newEntity(now time.Time, by id.OperatorID) Entity {
	return Entity{CreatedAt: now, UpdatedAt: now, CreatedBy: by, UpdatedBy: by}
}

func (e *Entity) IsDeleted() bool {
	return e.DeletedAt != nil
}

// Touch records a modification.
func (e *Entity) Touch(now time.Time, by id.OperatorID) {
	e.UpdatedAt = now
	e.UpdatedBy = by
}

// MarkDeleted soft-deletes the record.
func (e *Entity) MarkDeleted(now time.Time, by id.OperatorID) {
	t := now
	e.DeletedAt = &t
	e.Touch(now, by)
}
