// Package store is the embedded relational + vector store (C1): one
// SQLite file holding every table in the data model, a forward-only
// migration chain, and a content-addressed vector index used by
// internal/retrieval.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jaybrain/internal/logging"

	_ "modernc.org/sqlite"
)

// Store wraps the single process-wide *sql.DB connection to
// data/jaybrain.store. WAL mode plus a 10s busy timeout make it safe
// for the tool server, the daemon, and short-lived hook scripts to
// share the same file concurrently.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates the data directory if needed, opens the store file, and
// brings its schema up to date. Opening an already-current store is a
// no-op past the PRAGMA setup and column probes.
func Open(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	if err := openAndMigrate(db); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("store opened at %s", path)
	return &Store{db: db, path: path}, nil
}

// OpenMemory opens a transient in-memory store, used by tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared&_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := openAndMigrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: ":memory:"}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw connection for packages (retrieval, graph, forge,
// ...) that compose their own queries against store tables. It is
// exported; because the package sits under internal/, only this
// module's packages can reach around the column allowlist with it.
func (s *Store) DB() *sql.DB { return s.db }

func now() time.Time { return time.Now().UTC() }

// allowedColumns is the hard invariant from the spec: generic row
// updates may only ever touch a column named here. It is a fixed map
// literal, never a runtime dictionary derived from caller input.
var allowedColumns = map[string]map[string]struct{}{
	"tasks": set(
		"title", "description", "status", "priority", "project", "tags",
		"due_date", "queue_position",
	),
	"knowledge": set(
		"title", "content", "category", "tags", "source",
	),
	"forge_concepts": set(
		"term", "definition", "category", "difficulty", "bloom_level",
		"mastery_level", "review_count", "correct_count", "last_reviewed",
		"next_review", "tags", "subject_id",
	),
	"job_boards": set(
		"name", "url", "board_type", "tags", "active", "last_checked", "content_hash",
	),
	"applications": set(
		"status", "resume_path", "cover_letter_path", "applied_date",
	),
	"graph_entities": set(
		"name", "entity_type", "description", "aliases", "memory_ids", "properties",
	),
	"graph_relationships": set(
		"rel_type", "weight", "evidence_ids", "properties",
	),
	"telegram_bot_state": set(
		"last_update_id", "chat_id",
	),
	"cram_topics": set(
		"title", "notes",
	),
	"news_feed_sources": set(
		"name", "url", "active",
	),
	"signalforge_articles": set(
		"title", "content", "cluster_id",
	),
	"signalforge_clusters": set(
		"label",
	),
	"signalforge_synthesis": set(
		"summary",
	),
}

func set(cols ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		m[c] = struct{}{}
	}
	return m
}

// ErrUnknownTable means UpdateRow was called against a table outside
// the allowlist entirely.
type ErrUnknownTable struct{ Table string }

func (e *ErrUnknownTable) Error() string {
	return fmt.Sprintf("store: table %q is not covered by the column allowlist", e.Table)
}

// ErrDisallowedColumn means a field map named a column not on that
// table's allowlist (including id/created_at, which are never
// updatable through this path).
type ErrDisallowedColumn struct {
	Table  string
	Column string
}

func (e *ErrDisallowedColumn) Error() string {
	return fmt.Sprintf("store: column %q is not updatable on table %q", e.Column, e.Table)
}

// UpdateRow applies a field map to one row identified by id. Every key
// in fields is checked against allowedColumns[table] before any SQL is
// composed; the first disallowed key aborts the whole call with no
// statement ever prepared.
func (s *Store) UpdateRow(table, idColumn, id string, fields map[string]any) error {
	cols, ok := allowedColumns[table]
	if !ok {
		return &ErrUnknownTable{Table: table}
	}
	if len(fields) == 0 {
		return nil
	}
	for name := range fields {
		if _, ok := cols[name]; !ok {
			return &ErrDisallowedColumn{Table: table, Column: name}
		}
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for name, val := range fields {
		setClauses = append(setClauses, name+" = ?")
		args = append(args, val)
	}
	hasUpdatedAt := columnExists(s.db, table, "updated_at")
	query := "UPDATE " + table + " SET "
	for i, clause := range setClauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	if hasUpdatedAt {
		query += ", updated_at = ?"
		args = append(args, now())
	}
	query += " WHERE " + idColumn + " = ?"
	args = append(args, id)

	_, err := s.db.Exec(query, args...)
	return err
}
