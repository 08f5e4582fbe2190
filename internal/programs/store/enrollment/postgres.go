package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"rsu/internal/platform/postgres"
	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
	txcontext "rsu/pkg/platform/tx"
)

const pairConstraint = "enrollments_program_id_person_id_key"

const enrollmentColumns = `id, program_id, person_id, eligibility_score, status, total_received,
	payments_count, notes, decision_reason, approved_at, activated_at, ended_at, created_at,
	updated_at, created_by`

// PostgresStore persists enrollments in PostgreSQL.
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

func (s *PostgresStore) Create(ctx context.Context, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	var createdBy *uuid.UUID
	if !e.CreatedBy.IsNil() {
		u := uuid.UUID(e.CreatedBy)
		createdBy = &u
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(e.ID),
		uuid.UUID(e.ProgramID),
		uuid.UUID(e.PersonID),
		e.EligibilityScore,
		string(e.Status),
		e.TotalReceived,
		e.PaymentsCount,
		e.Notes,
		e.DecisionReason,
		e.ApprovedAt,
		e.ActivatedAt,
		e.EndedAt,
		e.CreatedAt,
		e.UpdatedAt,
		createdBy,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, pairConstraint) {
			return fmt.Errorf("enrollment for person %s in program %s: %w", e.PersonID, e.ProgramID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, enrollmentID id.EnrollmentID) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	e, err := scanEnrollment(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(enrollmentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find enrollment by id: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.EnrollmentFilter, offset, limit int) ([]*models.Enrollment, int, error) {
	var where []string
	var args []any
	if filter.ProgramID != nil {
		args = append(args, uuid.UUID(*filter.ProgramID))
		where = append(where, "program_id = $"+strconv.Itoa(len(args)))
	}
	if filter.PersonID != nil {
		args = append(args, uuid.UUID(*filter.PersonID))
		where = append(where, "person_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollments"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments` + clause + `
		ORDER BY created_at DESC, id
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()
	enrollments, err := scanEnrollments(rows)
	if err != nil {
		return nil, 0, err
	}
	return enrollments, total, nil
}

func (s *PostgresStore) ListByProgram(ctx context.Context, programID id.ProgramID) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE program_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(programID))
	if err != nil {
		return nil, fmt.Errorf("list program enrollments: %w", err)
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

func (s *PostgresStore) All(ctx context.Context) ([]*models.Enrollment, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT `+enrollmentColumns+` FROM enrollments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate then mutate,
// and writes the result back. It joins the caller's transaction when there is
// one and otherwise opens its own.
func (s *PostgresStore) Execute(ctx context.Context, enrollmentID id.EnrollmentID, validate func(*models.Enrollment) error, mutate func(*models.Enrollment)) (*models.Enrollment, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, enrollmentID, validate, mutate)
	}
	var result *models.Enrollment
	err := txcontext.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.execute(ctx, enrollmentID, validate, mutate)
		return err
	})
	return result, err
}

func (s *PostgresStore) execute(ctx context.Context, enrollmentID id.EnrollmentID, validate func(*models.Enrollment) error, mutate func(*models.Enrollment)) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1 FOR UPDATE`
	e, err := scanEnrollment(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(enrollmentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment %s: %w", enrollmentID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock enrollment: %w", err)
	}
	if err := validate(e); err != nil {
		return nil, err
	}
	mutate(e)

	update := `
		UPDATE enrollments SET
			status = $2, total_received = $3, payments_count = $4, notes = $5, decision_reason = $6,
			approved_at = $7, activated_at = $8, ended_at = $9, updated_at = $10
		WHERE id = $1
	`
	_, err = s.execer(ctx).ExecContext(ctx, update,
		uuid.UUID(e.ID),
		string(e.Status),
		e.TotalReceived,
		e.PaymentsCount,
		e.Notes,
		e.DecisionReason,
		e.ApprovedAt,
		e.ActivatedAt,
		e.EndedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollment(row rowScanner) (*models.Enrollment, error) {
	var (
		e            models.Enrollment
		enrollmentID uuid.UUID
		programID    uuid.UUID
		personID     uuid.UUID
		status       string
		createdBy    *uuid.UUID
	)
	err := row.Scan(
		&enrollmentID,
		&programID,
		&personID,
		&e.EligibilityScore,
		&status,
		&e.TotalReceived,
		&e.PaymentsCount,
		&e.Notes,
		&e.DecisionReason,
		&e.ApprovedAt,
		&e.ActivatedAt,
		&e.EndedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}
	e.ID = id.EnrollmentID(enrollmentID)
	e.ProgramID = id.ProgramID(programID)
	e.PersonID = id.PersonID(personID)
	e.Status = models.EnrollmentStatus(status)
	if createdBy != nil {
		e.CreatedBy = id.OperatorID(*createdBy)
	}
	return &e, nil
}

func scanEnrollments(rows *sql.Rows) ([]*models.Enrollment, error) {
	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return enrollments, nil
}
