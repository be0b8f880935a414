// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the citation graph in SQLite. Store implements
// graph.Repository with the same merge rules as the in-memory graph, and
// adds bulk reads, exports and ingestion bookkeeping for the outer layers.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/lawgraph/pkg/types"
)

const timeLayout = time.RFC3339Nano

// Store manages the graph database. A single connection is shared by all
// callers, so every write transaction is serialized by database/sql.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Open opens or creates the SQLite database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig, opts ...Option) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = types.DefaultConfig().Store.Path
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = types.DefaultConfig().Store.BusyTimeout
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=%d", path, busy.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.logger.Debug("opened graph store", zap.String("path", path))
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			key TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT,
			effective_date TEXT,
			enacted_date TEXT,
			source TEXT NOT NULL DEFAULT '',
			retrieved_at TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind)`,
		`CREATE TABLE IF NOT EXISTS edges (
			source_key TEXT NOT NULL,
			target_key TEXT NOT NULL,
			kind TEXT NOT NULL,
			confidence REAL NOT NULL,
			evidence_count INTEGER NOT NULL,
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL,
			span_start INTEGER,
			span_end INTEGER,
			source TEXT NOT NULL DEFAULT '',
			retrieved_at TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (source_key, target_key, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_key)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			source_id TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// inTx runs fn inside a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func scanNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
