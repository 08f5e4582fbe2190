package household

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
	rsustrings "rsu/pkg/platform/strings"
	txcontext "rsu/pkg/platform/tx"
)

const householdColumns = `id, head_id, province, zone, size, members_under5, members_under15, members_over64,
	disabled_members, pregnant_members, monthly_income, housing, has_water, has_electricity,
	created_at, updated_at, deleted_at, created_by, updated_by`

// PostgresStore persists households in PostgreSQL.
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

func (s *PostgresStore) Create(ctx context.Context, h *models.Household) error {
	query := `
		INSERT INTO households (` + householdColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(h.ID),
		nullablePerson(h.HeadID),
		h.Province,
		string(h.Zone),
		h.Size,
		h.MembersUnder5,
		h.MembersUnder15,
		h.MembersOver64,
		h.DisabledMembers,
		h.PregnantMembers,
		h.MonthlyIncome,
		string(h.Housing),
		h.HasWater,
		h.HasElectricity,
		h.CreatedAt,
		h.UpdatedAt,
		h.DeletedAt,
		nullableOperator(h.CreatedBy),
		nullableOperator(h.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert household: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, householdID id.HouseholdID) (*models.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE id = $1 AND deleted_at IS NULL`
	h, err := scanHousehold(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(householdID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("household %s: %w", householdID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find household by id: %w", err)
	}
	return h, nil
}

func (s *PostgresStore) FindMany(ctx context.Context, ids []id.HouseholdID) (map[id.HouseholdID]*models.Household, error) {
	out := make(map[id.HouseholdID]*models.Household, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, householdID := range ids {
		raw[i] = householdID.String()
	}
	query := `SELECT ` + householdColumns + ` FROM households WHERE id = ANY($1::uuid[]) AND deleted_at IS NULL`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("find households: %w", err)
	}
	defer rows.Close()
	households, err := scanHouseholds(rows)
	if err != nil {
		return nil, err
	}
	for _, h := range households {
		out[h.ID] = h
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.HouseholdFilter, offset, limit int) ([]*models.Household, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any
	if filter.Province != "" {
		args = append(args, rsustrings.Normalize(filter.Province))
		where = append(where, `lower(regexp_replace(trim(province), '\s+', ' ', 'g')) = $`+strconv.Itoa(len(args)))
	}
	if filter.Zone != "" {
		args = append(args, string(filter.Zone))
		where = append(where, "zone = $"+strconv.Itoa(len(args)))
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM households"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count households: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + householdColumns + ` FROM households` + clause + `
		ORDER BY created_at DESC, id
		LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()
	households, err := scanHouseholds(rows)
	if err != nil {
		return nil, 0, err
	}
	return households, total, nil
}

// All returns every live household.
func (s *PostgresStore) All(ctx context.Context) ([]*models.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE deleted_at IS NULL ORDER BY created_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all households: %w", err)
	}
	defer rows.Close()
	return scanHouseholds(rows)
}

// Execute locks the household row for the duration of validate and mutate.
func (s *PostgresStore) Execute(ctx context.Context, householdID id.HouseholdID, validate func(*models.Household) error, mutate func(*models.Household)) (*models.Household, error) {
	if _, ok := txcontext.From(ctx); ok {
		return s.execute(ctx, householdID, validate, mutate)
	}
	var result *models.Household
	err := txcontext.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.execute(ctx, householdID, validate, mutate)
		return err
	})
	return result, err
}

func (s *PostgresStore) execute(ctx context.Context, householdID id.HouseholdID, validate func(*models.Household) error, mutate func(*models.Household)) (*models.Household, error) {
	query := `SELECT ` + householdColumns + ` FROM households WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	h, err := scanHousehold(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(householdID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("household %s: %w", householdID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("lock household: %w", err)
	}
	if err := validate(h); err != nil {
		return nil, err
	}
	mutate(h)

	update := `
		UPDATE households SET
			head_id = $2, province = $3, zone = $4, size = $5, members_under5 = $6, members_under15 = $7,
			members_over64 = $8, disabled_members = $9, pregnant_members = $10, monthly_income = $11,
			housing = $12, has_water = $13, has_electricity = $14, updated_at = $15, deleted_at = $16,
			updated_by = $17
		WHERE id = $1
	`
	_, err = s.execer(ctx).ExecContext(ctx, update,
		uuid.UUID(h.ID),
		nullablePerson(h.HeadID),
		h.Province,
		string(h.Zone),
		h.Size,
		h.MembersUnder5,
		h.MembersUnder15,
		h.MembersOver64,
		h.DisabledMembers,
		h.PregnantMembers,
		h.MonthlyIncome,
		string(h.Housing),
		h.HasWater,
		h.HasElectricity,
		h.UpdatedAt,
		h.DeletedAt,
		nullableOperator(h.UpdatedBy),
	)
	if err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	return h, nil
}

func nullablePerson(personID *id.PersonID) *uuid.UUID {
	if personID == nil {
		return nil
	}
	u := uuid.UUID(*personID)
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

func scanHousehold(row rowScanner) (*models.Household, error) {
	var (
		h           models.Household
		householdID uuid.UUID
		headID      *uuid.UUID
		zone        string
		housing     string
		createdBy   *uuid.UUID
		updatedBy   *uuid.UUID
	)
	err := row.Scan(
		&householdID,
		&headID,
		&h.Province,
		&zone,
		&h.Size,
		&h.MembersUnder5,
		&h.MembersUnder15,
		&h.MembersOver64,
		&h.DisabledMembers,
		&h.PregnantMembers,
		&h.MonthlyIncome,
		&housing,
		&h.HasWater,
		&h.HasElectricity,
		&h.CreatedAt,
		&h.UpdatedAt,
		&h.DeletedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}
	h.ID = id.HouseholdID(householdID)
	h.Zone = models.Zone(zone)
	h.Housing = models.Housing(housing)
	if headID != nil {
		pid := id.PersonID(*headID)
		h.HeadID = &pid
	}
	if createdBy != nil {
		h.CreatedBy = id.OperatorID(*createdBy)
	}
	if updatedBy != nil {
		h.UpdatedBy = id.OperatorID(*updatedBy)
	}
	return &h, nil
}

func scanHouseholds(rows *sql.Rows) ([]*models.Household, error) {
	households := make([]*models.Household, 0)
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate households: %w", err)
	}
	return households, nil
}
