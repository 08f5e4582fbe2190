package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rsu/internal/platform/postgres"
	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
	rsustrings "rsu/pkg/platform/strings"
	txcontext "rsu/pkg/platform/tx"
)

const rsuIDConstraint = "persons_rsu_id_key"

const personColumns = `id, rsu_id, first_name, last_name, birth_date, gender, province, zone, phone,
	national_id_number, identity_verified, monthly_income, employment_status, has_bank_account,
	has_disability, is_pregnant, education_level, household_id, created_at, updated_at, deleted_at,
	created_by, updated_by`

// PostgresStore persists persons in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed person store.
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

func (s *PostgresStore) Create(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO persons (` + personColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query, personArgs(p)...)
	if err != nil {
		if postgres.IsUniqueViolation(err, rsuIDConstraint) {
			return fmt.Errorf("rsu_id %s: %w", p.RSUID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPerson(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(personID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person %s: %w", personID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find person by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindByRSUID(ctx context.Context, rsuID id.RSUID) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE rsu_id = $1 AND deleted_at IS NULL`
	p, err := scanPerson(s.execer(ctx).QueryRowContext(ctx, query, string(rsuID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person %s: %w", rsuID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find person by rsu_id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) FindMany(ctx context.Context, ids []id.PersonID) (map[id.PersonID]*models.Person, error) {
	out := make(map[id.PersonID]*models.Person, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, personID := range ids {
		raw[i] = personID.String()
	}
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find persons: %w", err)
	}
	defer rows.Close()
	persons, err := scanPersons(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range persons {
		out[p.ID] = p
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.PersonFilter, offset, limit int) ([]*models.Person, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any
	if filter.Province != "" {
		args = append(args, rsustrings.Normalize(filter.Province))
		where = append(where, `lower(regexp_replace(trim(province), '\s+', ' ', 'g')) = $`+strconv.Itoa(len(args)))
	}
	if filter.Gender != "" {
		args = append(args, string(filter.Gender))
		where = append(where, "gender = $"+strconv.Itoa(len(args)))
	}
	if filter.HouseholdID != nil {
		args = append(args, uuid.UUID(*filter.HouseholdID))
		where = append(where, "household_id = $"+strconv.Itoa(len(args)))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM persons"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count persons: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + personColumns + ` FROM persons` + clause + `
		ORDER BY created_at DESC, id
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()
	persons, err := scanPersons(rows)
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

func (s *PostgresStore) ListByHousehold(ctx context.Context, householdID id.HouseholdID) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons
		WHERE household_id = $1 AND deleted_at IS NULL
		ORDER BY created_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(householdID))
	if err != nil {
		return nil, fmt.Errorf("list household members: %w", err)
	}
	defer rows.Close()
	return scanPersons(rows)
}

// All returns every live person.
func (s *PostgresStore) All(ctx context.Context) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE deleted_at IS NULL ORDER BY created_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all persons: %w", err)
	}
	defer rows.Close()
	return scanPersons(rows)
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate then mutate,
// and writes the result back. It joins the caller's transaction when there is
// one and otherwise opens its own.
func (s *PostgresStore) Execute(ctx context.Context, personID id.PersonID, validate func(*models.Person) error, mutate func(*models.Person)) (*models.Person, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, personID, validate, mutate)
	}
	var result *models.Person
	err := txcontext.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.execute(ctx, personID, validate, mutate)
		return err
	})
	return result, err
}

func (s *PostgresStore) execute(ctx context.Context, personID id.PersonID, validate func(*models.Person) error, mutate func(*models.Person)) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	p, err := scanPerson(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(personID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person %s: %w", personID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock person: %w", err)
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)

	update := `
		UPDATE persons SET
			first_name = $2, last_name = $3, birth_date = $4, gender = $5, province = $6, zone = $7,
			phone = $8, national_id_number = $9, identity_verified = $10, monthly_income = $11,
			employment_status = $12, has_bank_account = $13, has_disability = $14, is_pregnant = $15,
			education_level = $16, household_id = $17, updated_at = $18, deleted_at = $19, updated_by = $20
		WHERE id = $1
	`
	_, err = s.execer(ctx).ExecContext(ctx, update,
		uuid.UUID(p.ID),
		p.FirstName,
		p.LastName,
		p.BirthDate,
		string(p.Gender),
		p.Province,
		string(p.Zone),
		p.Phone,
		p.NationalIDNumber,
		p.IdentityVerified,
		p.MonthlyIncome,
		string(p.EmploymentStatus),
		p.HasBankAccount,
		p.HasDisability,
		p.IsPregnant,
		string(p.EducationLevel),
		nullableHousehold(p.HouseholdID),
		p.UpdatedAt,
		p.DeletedAt,
		nullableOperator(p.UpdatedBy),
	)
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return p, nil
}

func personArgs(p *models.Person) []any {
	return []any{
		uuid.UUID(p.ID),
		string(p.RSUID),
		p.FirstName,
		p.LastName,
		p.BirthDate,
		string(p.Gender),
		p.Province,
		string(p.Zone),
		p.Phone,
		p.NationalIDNumber,
		p.IdentityVerified,
		p.MonthlyIncome,
		string(p.EmploymentStatus),
		p.HasBankAccount,
		p.HasDisability,
		p.IsPregnant,
		string(p.EducationLevel),
		nullableHousehold(p.HouseholdID),
		p.CreatedAt,
		p.UpdatedAt,
		p.DeletedAt,
		nullableOperator(p.CreatedBy),
		nullableOperator(p.UpdatedBy),
	}
}

func nullableHousehold(householdID *id.HouseholdID) *uuid.UUID {
	if householdID == nil {
		return nil
	}
	u := uuid.UUID(*householdID)
	return &u
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

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		p           models.Person
		personID    uuid.UUID
		rsuID       string
		gender      string
		zone        string
		employment  string
		education   string
		householdID *uuid.UUID
		createdBy   *uuid.UUID
		updatedBy   *uuid.UUID
	)
	err := row.Scan(
		&personID,
		&rsuID,
		&p.FirstName,
		&p.LastName,
		&p.BirthDate,
		&gender,
		&p.Province,
		&zone,
		&p.Phone,
		&p.NationalIDNumber,
		&p.IdentityVerified,
		&p.MonthlyIncome,
		&employment,
		&p.HasBankAccount,
		&p.HasDisability,
		&p.IsPregnant,
		&education,
		&householdID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}
	p.ID = id.PersonID(personID)
	p.RSUID = id.RSUID(rsuID)
	p.Gender = models.Gender(gender)
	p.Zone = models.Zone(zone)
	p.EmploymentStatus = models.EmploymentStatus(employment)
	p.EducationLevel = models.EducationLevel(education)
	if householdID != nil {
		hid := id.HouseholdID(*householdID)
		p.HouseholdID = &hid
	}
	if createdBy != nil {
		p.CreatedBy = id.OperatorID(*createdBy)
	}
	if updatedBy != nil {
		p.UpdatedBy = id.OperatorID(*updatedBy)
	}
	return &p, nil
}

func scanPersons(rows *sql.Rows) ([]*models.Person, error) {
	persons := make([]*models.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}
