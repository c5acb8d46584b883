package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:halaqa.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/halaqa?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Timestamps are unix seconds. week_start_date is a YYYY-MM-DD string,
// attempt_day one of sat,sun,mon,tue,wed,thu,fri.

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  pass_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  number INTEGER NOT NULL,
  name TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  date_of_birth TEXT,
  photo_url TEXT,
  current_naqza INTEGER NOT NULL DEFAULT 20 CHECK (current_naqza BETWEEN 1 AND 20),
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (user_id, number)
);

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
  mode TEXT NOT NULL,
  selected_naqza INTEGER,
  selected_juz INTEGER,
  selected_five_block INTEGER,
  selected_quarter INTEGER,
  selected_half INTEGER,
  thumun_id INTEGER NOT NULL,
  surah_number INTEGER,
  hizb INTEGER,
  juz INTEGER,
  naqza INTEGER,
  fatha_prompts INTEGER NOT NULL DEFAULT 0,
  taradud_count INTEGER NOT NULL DEFAULT 0,
  passed INTEGER NOT NULL,
  score INTEGER NOT NULL CHECK (score BETWEEN 0 AND 100),
  attempt_at INTEGER NOT NULL,
  week_start_date TEXT NOT NULL,
  attempt_day TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_students_user ON students(user_id, number);
CREATE INDEX IF NOT EXISTS idx_sessions_student ON sessions(student_id, created_at);
CREATE INDEX IF NOT EXISTS idx_sessions_week ON sessions(week_start_date);
CREATE INDEX IF NOT EXISTS idx_sessions_attempt ON sessions(attempt_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  pass_hash TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  number INTEGER NOT NULL,
  name TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  date_of_birth TEXT,
  photo_url TEXT,
  current_naqza INTEGER NOT NULL DEFAULT 20 CHECK (current_naqza BETWEEN 1 AND 20),
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (user_id, number)
);

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
  mode TEXT NOT NULL,
  selected_naqza INTEGER,
  selected_juz INTEGER,
  selected_five_block INTEGER,
  selected_quarter INTEGER,
  selected_half INTEGER,
  thumun_id INTEGER NOT NULL,
  surah_number INTEGER,
  hizb INTEGER,
  juz INTEGER,
  naqza INTEGER,
  fatha_prompts INTEGER NOT NULL DEFAULT 0,
  taradud_count INTEGER NOT NULL DEFAULT 0,
  passed BOOLEAN NOT NULL,
  score INTEGER NOT NULL CHECK (score BETWEEN 0 AND 100),
  attempt_at BIGINT NOT NULL,
  week_start_date TEXT NOT NULL,
  attempt_day TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_students_user ON students(user_id, number);
CREATE INDEX IF NOT EXISTS idx_sessions_student ON sessions(student_id, created_at);
CREATE INDEX IF NOT EXISTS idx_sessions_week ON sessions(week_start_date);
CREATE INDEX IF NOT EXISTS idx_sessions_attempt ON sessions(attempt_at);
`
