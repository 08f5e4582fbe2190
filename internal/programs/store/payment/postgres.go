package payment

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

const referenceConstraint = "payments_reference_key"

const paymentColumns = `id, enrollment_id, program_id, amount, status, reference, failure_reason,
	scheduled_for, processed_at, completed_at, created_at, updated_at, created_by`

// PostgresStore persists payments in PostgreSQL.
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

func (s *PostgresStore) Create(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	var createdBy *uuid.UUID
	if !p.CreatedBy.IsNil() {
		u := uuid.UUID(p.CreatedBy)
		createdBy = &u
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID),
		uuid.UUID(p.EnrollmentID),
		uuid.UUID(p.ProgramID),
		p.Amount,
		string(p.Status),
		p.Reference,
		p.FailureReason,
		p.ScheduledFor,
		p.ProcessedAt,
		p.CompletedAt,
		p.CreatedAt,
		p.UpdatedAt,
		createdBy,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, referenceConstraint) {
			return fmt.Errorf("payment reference %s: %w", p.Reference, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(paymentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find payment by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.PaymentFilter, offset, limit int) ([]*models.Payment, int, error) {
	var where []string
	var args []any
	if filter.ProgramID != nil {
		args = append(args, uuid.UUID(*filter.ProgramID))
		where = append(where, "program_id = $"+strconv.Itoa(len(args)))
	}
	if filter.EnrollmentID != nil {
		args = append(args, uuid.UUID(*filter.EnrollmentID))
		where = append(where, "enrollment_id = $"+strconv.Itoa(len(args)))
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
	if err := s.execer(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM payments"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + paymentColumns + ` FROM payments` + clause + `
		ORDER BY created_at DESC, id
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	payments, err := scanPayments(rows)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (s *PostgresStore) ListByProgram(ctx context.Context, programID id.ProgramID) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE program_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(programID))
	if err != nil {
		return nil, fmt.Errorf("list program payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (s *PostgresStore) All(ctx context.Context) ([]*models.Payment, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate then mutate,
// and writes the result back. It joins the caller's transaction when there is
// one and otherwise opens its own.
func (s *PostgresStore) Execute(ctx context.Context, paymentID id.PaymentID, validate func(*models.Payment) error, mutate func(*models.Payment)) (*models.Payment, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, paymentID, validate, mutate)
	}
	var result *models.Payment
	err := txcontext.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.execute(ctx, paymentID, validate, mutate)
		return err
	})
	return result, err
}

func (s *PostgresStore) execute(ctx context.Context, paymentID id.PaymentID, validate func(*models.Payment) error, mutate func(*models.Payment)) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	p, err := scanPayment(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(paymentID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)

	update := `
		UPDATE payments SET
			status = $2, failure_reason = $3, processed_at = $4, completed_at = $5, updated_at = $6
		WHERE id = $1
	`
	_, err = s.execer(ctx).ExecContext(ctx, update,
		uuid.UUID(p.ID),
		string(p.Status),
		p.FailureReason,
		p.ProcessedAt,
		p.CompletedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var (
		p            models.Payment
		paymentID    uuid.UUID
		enrollmentID uuid.UUID
		programID    uuid.UUID
		status       string
		createdBy    *uuid.UUID
	)
	err := row.Scan(
		&paymentID,
		&enrollmentID,
		&programID,
		&p.Amount,
		&status,
		&p.Reference,
		&p.FailureReason,
		&p.ScheduledFor,
		&p.ProcessedAt,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.PaymentID(paymentID)
	p.EnrollmentID = id.EnrollmentID(enrollmentID)
	p.ProgramID = id.ProgramID(programID)
	p.Status = models.PaymentStatus(status)
	if createdBy != nil {
		p.CreatedBy = id.OperatorID(*createdBy)
	}
	return &p, nil
}

func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}
