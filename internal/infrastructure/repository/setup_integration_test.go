package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS import_statuses (
  id UUID PRIMARY KEY,
  requested_by TEXT NOT NULL,
  is_pending BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS individuals (
  id BIGSERIAL PRIMARY KEY,
  external_id VARCHAR(64) NOT NULL UNIQUE,
  is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
  name TEXT NOT NULL DEFAULT '',
  surname TEXT NOT NULL DEFAULT '',
  patronymic TEXT NOT NULL DEFAULT '',
  birth_date DATE,
  inn VARCHAR(12) NOT NULL DEFAULT '',
  snils VARCHAR(14) NOT NULL DEFAULT '',
  code TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS employees (
  id BIGSERIAL PRIMARY KEY,
  external_id VARCHAR(64) NOT NULL UNIQUE,
  is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
  individual_external_id VARCHAR(64),
  individual_id BIGINT REFERENCES individuals(id) ON DELETE SET NULL,
  employee_number TEXT NOT NULL DEFAULT '',
  full_name TEXT NOT NULL DEFAULT '',
  employment_date DATE,
  dismissal_date DATE,
  is_primary_workplace BOOLEAN NOT NULL DEFAULT FALSE,
  code TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS notifications (
  id UUID PRIMARY KEY,
  user_name TEXT NOT NULL,
  job_kind_id TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  is_success BOOLEAN NOT NULL,
  description VARCHAR(255) NOT NULL,
  is_acknowledged BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS calculation_jobs (
  id UUID PRIMARY KEY,
  user_name TEXT NOT NULL,
  kind TEXT NOT NULL,
  input JSONB,
  output JSONB,
  is_ready BOOLEAN NOT NULL DEFAULT FALSE,
  is_processing BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE (user_name, kind)
);
`

const cleanupSQL = `
DELETE FROM employees;
DELETE FROM individuals;
DELETE FROM import_statuses;
DELETE FROM notifications;
DELETE FROM calculation_jobs;
`

// openTestDB connects to TEST_DATABASE_URL and resets the schema. Tests that
// use it must not run in parallel with each other.
func openTestDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	if err := db.Exec(schemaSQL).Error; err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}
	if err := db.Exec(cleanupSQL).Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}
	return db, dsn
}

func openTestPool(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
