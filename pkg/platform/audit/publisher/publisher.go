// Package publisher emits audit entries with fail-closed semantics.
//
// Emit writes synchronously through the audit store. Services call it inside
// the same transaction as the business write; if the entry cannot be
// persisted the error is returned and the operation must fail.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "rsu/pkg/platform/audit"
	"rsu/pkg/requestcontext"
)

// Publisher emits audit entries.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a publisher backed by store.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records action against target. Actor, request ID and timestamp are
// taken from the request context.
func (p *Publisher) Emit(ctx context.Context, target audit.Target, action audit.Action, details map[string]string) error {
	if target.Kind() == "" {
		return fmt.Errorf("audit entry requires a target")
	}
	if action == "" {
		return fmt.Errorf("audit entry requires an action")
	}

	start := time.Now()
	entry := audit.Entry{
		ID:        uuid.New(),
		Target:    target,
		Action:    action,
		ActorID:   requestcontext.OperatorID(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
		Details:   details,
	}

	if err := p.store.Append(ctx, entry); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit persistence failed",
				"action", action,
				"kind", target.Kind(),
				"entity_id", target.EntityID(),
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	p.metrics.ObservePersist(start, action)
	return nil
}

// List returns entries matching filter, newest first.
func (p *Publisher) List(ctx context.Context, filter audit.Filter, offset, limit int) ([]audit.Entry, int, error) {
	return p.store.List(ctx, filter, offset, limit)
}
