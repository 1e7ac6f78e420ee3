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
			dsn = "file:sisescolar.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/sisescolar?sslmode=disable"
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

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS rubric_categories (
  id TEXT PRIMARY KEY,
  class_id TEXT NOT NULL,
  term_id TEXT NOT NULL,
  name TEXT NOT NULL,
  weight REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  class_id TEXT NOT NULL,
  term_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  max_score REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS enrollments (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL DEFAULT '',
  class_id TEXT NOT NULL,
  term_id TEXT NOT NULL,
  tutor_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS grades (
  enrollment_id TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
  assignment_id TEXT NOT NULL,
  score REAL,
  feedback TEXT NOT NULL DEFAULT '',
  recorded_by TEXT NOT NULL DEFAULT '',
  recorded_at INTEGER NOT NULL,
  PRIMARY KEY (enrollment_id, assignment_id)
);

CREATE TABLE IF NOT EXISTS term_averages (
  enrollment_id TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
  term_id TEXT NOT NULL,
  average REAL NOT NULL,
  registered_by TEXT NOT NULL DEFAULT '',
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (enrollment_id, term_id)
);

CREATE TABLE IF NOT EXISTS event_log (
  id TEXT PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  actor TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_enrollments_class_term ON enrollments(class_id, term_id);
CREATE INDEX IF NOT EXISTS idx_assignments_class_term ON assignments(class_id, term_id);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS rubric_categories (
  id TEXT PRIMARY KEY,
  class_id TEXT NOT NULL,
  term_id TEXT NOT NULL,
  name TEXT NOT NULL,
  weight DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS assignments (
  id TEXT PRIMARY KEY,
  class_id TEXT NOT NULL,
  term_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  max_score DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS enrollments (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL DEFAULT '',
  class_id TEXT NOT NULL,
  term_id TEXT NOT NULL,
  tutor_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS grades (
  enrollment_id TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
  assignment_id TEXT NOT NULL,
  score DOUBLE PRECISION,
  feedback TEXT NOT NULL DEFAULT '',
  recorded_by TEXT NOT NULL DEFAULT '',
  recorded_at BIGINT NOT NULL,
  PRIMARY KEY (enrollment_id, assignment_id)
);

CREATE TABLE IF NOT EXISTS term_averages (
  enrollment_id TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
  term_id TEXT NOT NULL,
  average DOUBLE PRECISION NOT NULL,
  registered_by TEXT NOT NULL DEFAULT '',
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (enrollment_id, term_id)
);

CREATE TABLE IF NOT EXISTS event_log (
  id TEXT PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  actor TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_enrollments_class_term ON enrollments(class_id, term_id);
CREATE INDEX IF NOT EXISTS idx_assignments_class_term ON assignments(class_id, term_id);
`
