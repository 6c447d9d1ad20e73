package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/math-server/internal/domain/personnel"
)

// PersonnelBatchRepository upserts one kind's records per transaction by
// copying them into a transaction-scoped staging table first.
type PersonnelBatchRepository struct {
	pool *pgxpool.Pool
}

func NewPersonnelBatchRepository(pool *pgxpool.Pool) *PersonnelBatchRepository {
	return &PersonnelBatchRepository{pool: pool}
}

func (r *PersonnelBatchRepository) UpsertBatch(ctx context.Context, kind domain.EntityKind, records []domain.Record) (domain.BatchResult, error) {
	if len(records) == 0 {
		return domain.BatchResult{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted, updated int64
	switch kind {
	case domain.KindIndividual:
		inserted, updated, err = upsertIndividuals(ctx, tx, records)
	case domain.KindEmployee:
		inserted, updated, err = upsertEmployees(ctx, tx, records)
	default:
		err = fmt.Errorf("unsupported entity kind %q", kind)
	}
	if err != nil {
		return domain.BatchResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.BatchResult{}, fmt.Errorf("commit %s batch: %w", kind, err)
	}

	return domain.BatchResult{InsertedCount: inserted, UpdatedCount: updated}, nil
}

func upsertIndividuals(ctx context.Context, tx pgx.Tx, records []domain.Record) (int64, int64, error) {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		ind, ok := rec.(domain.Individual)
		if !ok {
			return 0, 0, fmt.Errorf("record %d is %T, not an individual", i, rec)
		}
		rows = append(rows, []any{
			int64(i),
			ind.ExternalID,
			ind.IsDeleted,
			ind.Name,
			ind.Surname,
			ind.Patronymic,
			ind.BirthDate,
			ind.INN,
			ind.SNILS,
			ind.Code,
		})
	}

	if _, err := tx.Exec(ctx, `
CREATE TEMP TABLE stg_individuals (
  row_index BIGINT NOT NULL,
  external_id TEXT NOT NULL,
  is_deleted BOOLEAN NOT NULL,
  name TEXT NOT NULL,
  surname TEXT NOT NULL,
  patronymic TEXT NOT NULL,
  birth_date DATE,
  inn TEXT NOT NULL,
  snils TEXT NOT NULL,
  code TEXT NOT NULL
) ON COMMIT DROP`); err != nil {
		return 0, 0, fmt.Errorf("create individuals staging: %w", err)
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"stg_individuals"},
		[]string{"row_index", "external_id", "is_deleted", "name", "surname", "patronymic", "birth_date", "inn", "snils", "code"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return 0, 0, fmt.Errorf("copy individuals staging: %w", err)
	}

	result, err := tx.Query(ctx, `
WITH staged AS (
    SELECT DISTINCT ON (external_id)
      external_id, is_deleted, name, surname, patronymic, birth_date, inn, snils, code
    FROM stg_individuals
    ORDER BY external_id, row_index DESC
), upserted AS (
    INSERT INTO individuals (external_id, is_deleted, name, surname, patronymic, birth_date, inn, snils, code, created_at, updated_at)
    SELECT external_id, is_deleted, name, surname, patronymic, birth_date, inn, snils, code, NOW(), NOW()
    FROM staged
    ON CONFLICT (external_id) DO UPDATE
      SET is_deleted = EXCLUDED.is_deleted,
          name = EXCLUDED.name,
          surname = EXCLUDED.surname,
          patronymic = EXCLUDED.patronymic,
          birth_date = EXCLUDED.birth_date,
          inn = EXCLUDED.inn,
          snils = EXCLUDED.snils,
          code = EXCLUDED.code,
          updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
)
SELECT inserted FROM upserted
`)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert individuals: %w", err)
	}
	inserted, updated, err := countInsertedUpdated(result)
	result.Close()
	if err != nil {
		return 0, 0, fmt.Errorf("upsert individuals: %w", err)
	}

	// Employees imported before their individual get linked now.
	if _, err := tx.Exec(ctx, `
UPDATE employees e
SET individual_id = i.id, updated_at = NOW()
FROM individuals i
JOIN stg_individuals s ON s.external_id = i.external_id
WHERE e.individual_external_id = i.external_id
  AND e.individual_id IS DISTINCT FROM i.id
`); err != nil {
		return 0, 0, fmt.Errorf("link employees to individuals: %w", err)
	}

	return inserted, updated, nil
}

func upsertEmployees(ctx context.Context, tx pgx.Tx, records []domain.Record) (int64, int64, error) {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		emp, ok := rec.(domain.Employee)
		if !ok {
			return 0, 0, fmt.Errorf("record %d is %T, not an employee", i, rec)
		}
		var individual *string
		if emp.IndividualExternalID != nil {
			individual = nullableText(*emp.IndividualExternalID)
		}
		rows = append(rows, []any{
			int64(i),
			emp.ExternalID,
			emp.IsDeleted,
			individual,
			emp.EmployeeNumber,
			emp.FullName,
			emp.EmploymentDate,
			emp.DismissalDate,
			emp.IsPrimaryWorkplace,
			emp.Code,
		})
	}

	if _, err := tx.Exec(ctx, `
CREATE TEMP TABLE stg_employees (
  row_index BIGINT NOT NULL,
  external_id TEXT NOT NULL,
  is_deleted BOOLEAN NOT NULL,
  individual_external_id TEXT,
  employee_number TEXT NOT NULL,
  full_name TEXT NOT NULL,
  employment_date DATE,
  dismissal_date DATE,
  is_primary_workplace BOOLEAN NOT NULL,
  code TEXT NOT NULL
) ON COMMIT DROP`); err != nil {
		return 0, 0, fmt.Errorf("create employees staging: %w", err)
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"stg_employees"},
		[]string{"row_index", "external_id", "is_deleted", "individual_external_id", "employee_number", "full_name", "employment_date", "dismissal_date", "is_primary_workplace", "code"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return 0, 0, fmt.Errorf("copy employees staging: %w", err)
	}

	// A reference to an individual that is not stored yet stays unresolved.
	result, err := tx.Query(ctx, `
WITH staged AS (
    SELECT DISTINCT ON (external_id)
      external_id, is_deleted, individual_external_id, employee_number, full_name,
      employment_date, dismissal_date, is_primary_workplace, code
    FROM stg_employees
    ORDER BY external_id, row_index DESC
), upserted AS (
    INSERT INTO employees (
      external_id, is_deleted, individual_external_id, individual_id, employee_number, full_name,
      employment_date, dismissal_date, is_primary_workplace, code, created_at, updated_at
    )
    SELECT s.external_id, s.is_deleted, s.individual_external_id, i.id, s.employee_number, s.full_name,
           s.employment_date, s.dismissal_date, s.is_primary_workplace, s.code, NOW(), NOW()
    FROM staged s
    LEFT JOIN individuals i ON i.external_id = s.individual_external_id
    ON CONFLICT (external_id) DO UPDATE
      SET is_deleted = EXCLUDED.is_deleted,
          individual_external_id = EXCLUDED.individual_external_id,
          individual_id = EXCLUDED.individual_id,
          employee_number = EXCLUDED.employee_number,
          full_name = EXCLUDED.full_name,
          employment_date = EXCLUDED.employment_date,
          dismissal_date = EXCLUDED.dismissal_date,
          is_primary_workplace = EXCLUDED.is_primary_workplace,
          code = EXCLUDED.code,
          updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
)
SELECT inserted FROM upserted
`)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert employees: %w", err)
	}
	defer result.Close()

	inserted, updated, err := countInsertedUpdated(result)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert employees: %w", err)
	}
	return inserted, updated, nil
}

func countInsertedUpdated(rows pgx.Rows) (int64, int64, error) {
	var imported int64
	var updated int64

	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return 0, 0, err
		}
		if inserted {
			imported++
		} else {
			updated++
		}
	}

	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	return imported, updated, nil
}

func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
