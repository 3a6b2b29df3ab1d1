// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store records completed review runs in a local SQLite database.
// The store is written once per run and read only by the history command;
// it is never consulted to resume or skip work.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/review-engine/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// RunRecord describes one completed review run.
type RunRecord struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	OutputPath string    `json:"output_path"`
	Analyzed   int       `json:"analyzed"`
	Failed     int       `json:"failed"`
}

// PaperRecord describes one reviewed paper within a run.
type PaperRecord struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Year     int      `json:"year"`
	Citation string   `json:"citation"`
}

// Open opens or creates the run-history database at path and bootstraps
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			output_path TEXT NOT NULL,
			analyzed INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			title TEXT NOT NULL,
			authors TEXT,
			year INTEGER,
			citation TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run_id ON papers(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts the run and its reviewed papers in one transaction and
// returns the new run ID. citations must be parallel to summaries.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord, summaries []types.PaperSummary, citations []string) (int64, error) {
	if len(citations) != len(summaries) {
		return 0, fmt.Errorf("got %d citations for %d summaries", len(citations), len(summaries))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, output_path, analyzed, failed) VALUES (?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.OutputPath, rec.Analyzed, rec.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (run_id, title, authors, year, citation) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, summary := range summaries {
		authorsJSON, _ := json.Marshal(summary.Authors)
		_, err := stmt.ExecContext(ctx, runID, summary.Title, string(authorsJSON), summary.Year, citations[i])
		if err != nil {
			return 0, fmt.Errorf("inserting paper %q: %w", summary.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// History returns up to limit runs, newest first. A non-positive limit
// defaults to 20.
func (s *Store) History(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, output_path, analyzed, failed FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started string
		if err := rows.Scan(&rec.ID, &started, &rec.OutputPath, &rec.Analyzed, &rec.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339, started)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Papers returns the reviewed papers recorded for one run, in insertion
// order.
func (s *Store) Papers(ctx context.Context, runID int64) ([]PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, authors, year, citation FROM papers WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var records []PaperRecord
	for rows.Next() {
		var rec PaperRecord
		var authorsJSON string
		if err := rows.Scan(&rec.Title, &authorsJSON, &rec.Year, &rec.Citation); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if authorsJSON != "" {
			if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
				return nil, fmt.Errorf("decoding authors for %q: %w", rec.Title, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
