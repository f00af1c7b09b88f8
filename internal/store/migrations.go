package store

import (
	"database/sql"
	"fmt"
	"strings"

	"jaybrain/internal/logging"
)

// CurrentSchemaVersion is the highest migration step this binary knows
// how to apply. Bumped whenever pendingMigrations grows.
const CurrentSchemaVersion = 1

// columnMigration adds one column to one table, tolerating the case
// where the column already exists (SQLite has no "ADD COLUMN IF NOT
// EXISTS", so the probe happens before the ALTER rather than after).
type columnMigration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists additive column changes applied on top of the
// base schemaStatements. New columns land here, never as edits to an
// existing CREATE TABLE, so opening an old store never loses data.
var pendingMigrations = []columnMigration{
	{"memories", "session_id", "TEXT"},
	{"job_boards", "content_hash", "TEXT NOT NULL DEFAULT ''"},
}

// openAndMigrate creates the base schema if missing and applies every
// pending column migration. Safe to call concurrently from multiple
// processes against the same file: CREATE TABLE IF NOT EXISTS and the
// column-existence probe make every step idempotent.
func openAndMigrate(db *sql.DB) error {
	timer := logging.StartTimer(logging.CategoryStore, "openAndMigrate")
	defer timer.Stop()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO _migrations (version) VALUES (?)`, CurrentSchemaVersion,
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}

	applied, skipped := 0, 0
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			skipped++
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(stmt); err != nil {
			if isDuplicateColumnError(err) {
				continue
			}
			return fmt.Errorf("migrate %s.%s: %w", m.Table, m.Column, err)
		}
		applied++
	}

	logging.Store("schema ready: %d column migrations applied, %d tables absent", applied, skipped)
	return nil
}

func tableExists(db *sql.DB, table string) bool {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
	).Scan(&name)
	return err == nil
}

func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false
		}
		if name == column {
			return true
		}
	}
	return false
}

func isDuplicateColumnError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate column")
}
