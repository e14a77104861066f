// Package store keeps the history of suite runs in a SQLite database so
// past outcomes can be listed and compared across code revisions.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tagcheck/internal/testcase"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for suite run history.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Run is one recorded suite execution.
type Run struct {
	ID        string    `json:"id"`
	Suite     string    `json:"suite"`
	StartedAt time.Time `json:"started_at"`
	Results   []Result  `json:"results,omitempty"`
}

// Result is the outcome of one case within a run.
type Result struct {
	CaseName string `json:"case"`
	Prepare  string `json:"prepare"`
	Run      string `json:"run"`
	Test     string `json:"test"`
	Detail   string `json:"detail,omitempty"`
}

// Open creates or opens the history database at path. Pragmas and the
// schema are applied automatically; the function is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma: %w", err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun records the start of a suite execution and returns its ID.
func (s *Store) BeginRun(ctx context.Context, suiteName string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, suite, started_at) VALUES (?, ?, ?)`,
		id, suiteName, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecordResult stores the outcome of one case of a run.
func (s *Store) RecordResult(ctx context.Context, runID, caseName string, prepare, run, test testcase.Status, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (run_id, case_name, prepare, run, test, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, caseName, prepare.String(), run.String(), test.String(), detail)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first, with their per-case
// results attached. limit <= 0 means no limit.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, suite, started_at FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &r.Suite, &started); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Results, err = s.results(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT case_name, prepare, run, test, detail FROM results
		 WHERE run_id = ? ORDER BY case_name`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.CaseName, &r.Prepare, &r.Run, &r.Test, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
