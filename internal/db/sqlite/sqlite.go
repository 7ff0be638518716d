package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/glebarez/sqlite" // registers the "sqlite" database/sql driver

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/db"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Compile-time check: DB implements db.Pinger.
var _ db.Pinger = (*DB)(nil)

// schema creates the applicant and application tables. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS applicant_profile (
		applicant_id  INTEGER PRIMARY KEY,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		date_of_birth TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		phone_number  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS application_detail (
		detail_id        INTEGER PRIMARY KEY,
		applicant_id     INTEGER NOT NULL REFERENCES applicant_profile(applicant_id) ON DELETE CASCADE,
		application_role TEXT NOT NULL DEFAULT '',
		cv_path          TEXT NOT NULL DEFAULT '',
		cv_text          TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_application_detail_applicant ON application_detail(applicant_id)`,
}

// Config holds SQLite connection parameters.
type Config struct {
	Path string // file path or ":memory:"
}

// DB wraps a database/sql handle to a migrated SQLite database.
type DB struct {
	sql *sql.DB
}

// Open connects to SQLite, enables foreign keys and applies the schema.
// A single connection is kept open: SQLite serializes writers anyway,
// and every connection to ":memory:" would otherwise see its own database.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	sqlDB, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	d := &DB{sql: sqlDB}
	if err := d.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.sql.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("enable foreign keys: %w", err)}
	}
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}

// SQL returns the underlying handle.
func (d *DB) SQL() *sql.DB { return d.sql }

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the connection.
func (d *DB) Close() {
	_ = d.sql.Close()
}
