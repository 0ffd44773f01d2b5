package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one persisted cleaning invocation: the audit, the cleaned
// data, and enough metadata to list runs without loading the blobs.
type Run struct {
	ID                string    `json:"id"`
	Filename          string    `json:"filename"`
	CreatedAt         time.Time `json:"created_at"`
	RowsBefore        int       `json:"rows_before"`
	RowsAfter         int       `json:"rows_after"`
	DuplicatesRemoved int       `json:"duplicates_removed"`
	AuditJSON         []byte    `json:"-"`
	CleanedCSV        []byte    `json:"-"`
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	filename           TEXT NOT NULL,
	created_at         TIMESTAMP NOT NULL,
	rows_before        INTEGER NOT NULL,
	rows_after         INTEGER NOT NULL,
	duplicates_removed INTEGER NOT NULL,
	audit_json         BLOB NOT NULL,
	cleaned_csv        BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// OpenStore opens (and migrates) the run store at path. Use ":memory:"
// for an ephemeral store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	// One connection keeps ":memory:" stores coherent (each pooled
	// connection would otherwise see its own empty database) and
	// sidesteps SQLITE_BUSY on file stores.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate run store: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun inserts a run.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, filename, created_at, rows_before, rows_after, duplicates_removed, audit_json, cleaned_csv)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Filename, run.CreatedAt.UTC(),
		run.RowsBefore, run.RowsAfter, run.DuplicatesRemoved,
		run.AuditJSON, run.CleanedCSV)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads a run by ID, blobs included.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, created_at, rows_before, rows_after, duplicates_removed, audit_json, cleaned_csv
		 FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Filename, &run.CreatedAt,
			&run.RowsBefore, &run.RowsAfter, &run.DuplicatesRemoved,
			&run.AuditJSON, &run.CleanedCSV)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns recent run metadata, newest first, without the
// audit and data blobs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, created_at, rows_before, rows_after, duplicates_removed
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.Filename, &run.CreatedAt,
			&run.RowsBefore, &run.RowsAfter, &run.DuplicatesRemoved); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
