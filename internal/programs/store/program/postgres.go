package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"rsu/internal/eligibility"
	"rsu/internal/platform/postgres"
	"rsu/internal/programs/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
	txcontext "rsu/pkg/platform/tx"
)

const codeConstraint = "programs_code_key"

const programColumns = `id, code, name, description, budget_total, budget_spent, max_beneficiaries,
	current_beneficiaries, amount_per_payment, frequency, start_date, end_date, criteria, status,
	created_at, updated_at, created_by`

// PostgresStore persists programs in PostgreSQL.
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

func (s *PostgresStore) Create(ctx context.Context, p *models.Program) error {
	query := `
		INSERT INTO programs (` + programColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID),
		p.Code,
		p.Name,
		p.Description,
		p.BudgetTotal,
		p.BudgetSpent,
		p.MaxBeneficiaries,
		p.CurrentBeneficiaries,
		p.AmountPerPayment,
		string(p.Frequency),
		p.StartDate,
		p.EndDate,
		[]byte(p.Criteria.Document()),
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
		nullableOperator(p.CreatedBy),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, codeConstraint) {
			return fmt.Errorf("program code %s: %w", p.Code, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert program: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1`
	p, err := scanProgram(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(programID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program %s: %w", programID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find program by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ProgramFilter, offset, limit int) ([]*models.Program, int, error) {
	clause := ""
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clause = " WHERE status = $1"
	}

	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM programs"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count programs: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + programColumns + ` FROM programs` + clause + `
		ORDER BY created_at DESC, id
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()
	programs, err := scanPrograms(rows)
	if err != nil {
		return nil, 0, err
	}
	return programs, total, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]*models.Program, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT `+programColumns+` FROM programs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()
	return scanPrograms(rows)
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate then mutate,
// and writes the result back. It joins the caller's transaction when there is
// one and otherwise opens its own.
func (s *PostgresStore) Execute(ctx context.Context, programID id.ProgramID, validate func(*models.Program) error, mutate func(*models.Program)) (*models.Program, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, programID, validate, mutate)
	}
	var result *models.Program
	err := txcontext.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.execute(ctx, programID, validate, mutate)
		return err
	})
	return result, err
}

func (s *PostgresStore) execute(ctx context.Context, programID id.ProgramID, validate func(*models.Program) error, mutate func(*models.Program)) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE id = $1 FOR UPDATE`
	p, err := scanProgram(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(programID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program %s: %w", programID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock program: %w", err)
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)

	update := `
		UPDATE programs SET
			name = $2, description = $3, budget_total = $4, budget_spent = $5, max_beneficiaries = $6,
			current_beneficiaries = $7, amount_per_payment = $8, frequency = $9, start_date = $10,
			end_date = $11, criteria = $12, status = $13, updated_at = $14
		WHERE id = $1
	`
	_, err = s.execer(ctx).ExecContext(ctx, update,
		uuid.UUID(p.ID),
		p.Name,
		p.Description,
		p.BudgetTotal,
		p.BudgetSpent,
		p.MaxBeneficiaries,
		p.CurrentBeneficiaries,
		p.AmountPerPayment,
		string(p.Frequency),
		p.StartDate,
		p.EndDate,
		[]byte(p.Criteria.Document()),
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update program: %w", err)
	}
	return p, nil
}

func nullableOperator(operatorID id.OperatorID) *uuid.UUID {
	if operatorID.IsNil() {
		return nil
	}
	u := uuid.UUID(operatorID)
	return &u
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (*models.Program, error) {
	var (
		p         models.Program
		programID uuid.UUID
		frequency string
		status    string
		criteria  []byte
		createdBy *uuid.UUID
	)
	err := row.Scan(
		&programID,
		&p.Code,
		&p.Name,
		&p.Description,
		&p.BudgetTotal,
		&p.BudgetSpent,
		&p.MaxBeneficiaries,
		&p.CurrentBeneficiaries,
		&p.AmountPerPayment,
		&frequency,
		&p.StartDate,
		&p.EndDate,
		&criteria,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.ProgramID(programID)
	p.Frequency = models.Frequency(frequency)
	p.Status = models.ProgramStatus(status)
	p.Criteria, err = eligibility.ParseCriteria(criteria)
	if err != nil {
		return nil, fmt.Errorf("program %s criteria: %w", p.ID, err)
	}
	if createdBy != nil {
		p.CreatedBy = id.OperatorID(*createdBy)
	}
	return &p, nil
}

func scanPrograms(rows *sql.Rows) ([]*models.Program, error) {
	programs := make([]*models.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return programs, nil
}
