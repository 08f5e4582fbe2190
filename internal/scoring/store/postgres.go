package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rsu/internal/scoring"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
	txcontext "rsu/pkg/platform/tx"
)

const assessmentColumns = `id, person_id, household_id, score, economic_score, household_score, social_score,
	tier, partial, missing_components, assessed_at, assessed_by`

// latestPerPerson selects the newest assessment of every person.
const latestPerPerson = `
	SELECT DISTINCT ON (person_id) ` + assessmentColumns + `
	FROM assessments
	ORDER BY person_id, assessed_at DESC, id DESC`

// PostgresStore persists assessments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, a *scoring.Assessment) error {
	query := `
		INSERT INTO assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	var householdID *uuid.UUID
	if a.HouseholdID != nil {
		u := uuid.UUID(*a.HouseholdID)
		householdID = &u
	}
	var assessedBy *uuid.UUID
	if !a.AssessedBy.IsNil() {
		u := uuid.UUID(a.AssessedBy)
		assessedBy = &u
	}
	missing := a.MissingComponents
	if missing == nil {
		missing = []string{}
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(a.ID),
		uuid.UUID(a.PersonID),
		householdID,
		a.Score,
		a.EconomicScore,
		a.HouseholdScore,
		a.SocialScore,
		string(a.Tier),
		a.Partial,
		pq.Array(missing),
		a.AssessedAt,
		assessedBy,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, personID id.PersonID) (*scoring.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments
		WHERE person_id = $1
		ORDER BY assessed_at DESC, id DESC
		LIMIT 1`
	a, err := scanAssessment(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(personID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assessment for person %s: %w", personID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find latest assessment: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) History(ctx context.Context, personID id.PersonID) ([]*scoring.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments
		WHERE person_id = $1
		ORDER BY assessed_at DESC, id DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("list assessment history: %w", err)
	}
	defer rows.Close()
	return scanAssessments(rows)
}

func (s *PostgresStore) LatestForPersons(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*scoring.Assessment, error) {
	out := make(map[id.PersonID]*scoring.Assessment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, personID := range ids {
		raw[i] = personID.String()
	}
	query := `SELECT DISTINCT ON (person_id) ` + assessmentColumns + `
		FROM assessments
		WHERE person_id = ANY($1::uuid[])
		ORDER BY person_id, assessed_at DESC, id DESC`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find latest assessments: %w", err)
	}
	defer rows.Close()
	assessments, err := scanAssessments(rows)
	if err != nil {
		return nil, err
	}
	for _, a := range assessments {
		out[a.PersonID] = a
	}
	return out, nil
}

func (s *PostgresStore) ListLatest(ctx context.Context, filter scoring.AssessmentFilter, offset, limit int) ([]*scoring.Assessment, int, error) {
	where := ""
	args := []any{}
	if filter.Tier != "" {
		args = append(args, string(filter.Tier))
		where = " WHERE tier = $1"
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM (` + latestPerPerson + `) latest` + where
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assessments: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM (%s) latest%s
		ORDER BY score DESC, person_id
		LIMIT $%d OFFSET $%d`, assessmentColumns, latestPerPerson, where, len(args)-1, len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()
	assessments, err := scanAssessments(rows)
	if err != nil {
		return nil, 0, err
	}
	return assessments, total, nil
}

func (s *PostgresStore) AllLatest(ctx context.Context) ([]*scoring.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM (` + latestPerPerson + `) latest ORDER BY score DESC, person_id`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list latest assessments: %w", err)
	}
	defer rows.Close()
	return scanAssessments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*scoring.Assessment, error) {
	var (
		a            scoring.Assessment
		assessmentID uuid.UUID
		personID     uuid.UUID
		householdID  *uuid.UUID
		tier         string
		missing      pq.StringArray
		assessedBy   *uuid.UUID
	)
	err := row.Scan(
		&assessmentID,
		&personID,
		&householdID,
		&a.Score,
		&a.EconomicScore,
		&a.HouseholdScore,
		&a.SocialScore,
		&tier,
		&a.Partial,
		&missing,
		&a.AssessedAt,
		&assessedBy,
	)
	if err != nil {
		return nil, err
	}
	a.ID = id.AssessmentID(assessmentID)
	a.PersonID = id.PersonID(personID)
	if householdID != nil {
		hid := id.HouseholdID(*householdID)
		a.HouseholdID = &hid
	}
	a.Tier = scoring.Tier(tier)
	a.MissingComponents = []string(missing)
	if assessedBy != nil {
		a.AssessedBy = id.OperatorID(*assessedBy)
	}
	return &a, nil
}

func scanAssessments(rows *sql.Rows) ([]*scoring.Assessment, error) {
	out := make([]*scoring.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}
