package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "rsu/pkg/domain"
	audit "rsu/pkg/platform/audit"
	txcontext "rsu/pkg/platform/tx"
)

// Store implements audit.Store and audit.Outbox over the audit_log table.
// Rows are written in the caller's transaction; published_at stays NULL until
// the relay has delivered the row to Kafka.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append writes an entry to the audit log.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	var actorID *uuid.UUID
	if !entry.ActorID.IsNil() {
		a := uuid.UUID(entry.ActorID)
		actorID = &a
	}

	query := `
		INSERT INTO audit_log (id, kind, entity_id, action, actor_id, request_id, occurred_at, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		entry.ID,
		string(entry.Target.Kind()),
		entry.Target.EntityID(),
		string(entry.Action),
		actorID,
		entry.RequestID,
		entry.Timestamp,
		details,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns matching entries newest first with the total match count.
func (s *Store) List(ctx context.Context, filter audit.Filter, offset, limit int) ([]audit.Entry, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		where = append(where, "kind = $"+strconv.Itoa(len(args)))
	}
	if filter.EntityID != "" {
		args = append(args, filter.EntityID)
		where = append(where, "entity_id = $"+strconv.Itoa(len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	args = append(args, limit, offset)
	query := `
		SELECT id, kind, entity_id, action, actor_id, request_id, occurred_at, details
		FROM audit_log` + clause + `
		ORDER BY occurred_at DESC
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FetchUnpublished locks up to limit unpublished rows, oldest first. Call it
// inside a transaction so concurrent relays skip each other's rows.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]audit.Entry, error) {
	query := `
		SELECT id, kind, entity_id, action, actor_id, request_id, occurred_at, details
		FROM audit_log
		WHERE published_at IS NULL
		ORDER BY occurred_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// MarkPublished stamps the given rows as delivered.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, u := range ids {
		raw[i] = u.String()
	}
	query := `UPDATE audit_log SET published_at = $1 WHERE id = ANY($2::uuid[]) AND published_at IS NULL`
	if _, err := s.execer(ctx).ExecContext(ctx, query, at, pq.Array(raw)); err != nil {
		return fmt.Errorf("mark audit entries published: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]audit.Entry, error) {
	var entries []audit.Entry
	for rows.Next() {
		var (
			entry     audit.Entry
			kind      string
			entityID  string
			action    string
			actorID   *uuid.UUID
			detailRaw []byte
		)
		if err := rows.Scan(&entry.ID, &kind, &entityID, &action, &actorID, &entry.RequestID, &entry.Timestamp, &detailRaw); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		target, err := audit.RestoreTarget(kind, entityID)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry %s: %w", entry.ID, err)
		}
		entry.Target = target
		entry.Action = audit.Action(action)
		if actorID != nil {
			entry.ActorID = id.OperatorID(*actorID)
		}
		if len(detailRaw) > 0 {
			if err := json.Unmarshal(detailRaw, &entry.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
