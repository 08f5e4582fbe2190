package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists entries. Append must join the caller's transaction when one
// is present in ctx so the entry commits or rolls back with the business write.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, filter Filter, offset, limit int) ([]Entry, int, error)
}

// Outbox exposes unpublished entries to the relay.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}
