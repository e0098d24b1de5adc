// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps an optional SQLite copy of every collected
// record. The archive is write-only from the pipeline's point of view:
// it exists for ad-hoc querying with the sqlite3 shell, and nothing in a
// run ever reads it back.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// Store manages the archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path, creating the
// schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
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
			date_from TEXT NOT NULL,
			date_to TEXT NOT NULL,
			total INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			pmid TEXT PRIMARY KEY,
			journal TEXT,
			title TEXT NOT NULL,
			abstract TEXT,
			date TEXT,
			authors TEXT,
			doi TEXT,
			url TEXT,
			run_id INTEGER NOT NULL REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_journal ON papers(journal)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run_id ON papers(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one run and its aggregated records. Records already
// archived by an earlier run keep their original row (first seen wins,
// matching the in-run dedup policy).
func (s *Store) Record(ctx context.Context, r types.DateRange, papers []types.Paper, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (date_from, date_to, total, created_at) VALUES (?, ?, ?, ?)`,
		r.Start.Format(types.DateFormat), r.End.Format(types.DateFormat),
		len(papers), now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO papers (pmid, journal, title, abstract, date, authors, doi, url, run_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		dateStr := ""
		if !p.Date.IsZero() {
			dateStr = p.Date.Format(types.DateFormat)
		}
		if _, err := stmt.ExecContext(ctx,
			p.PMID, p.Journal, p.Title, p.Abstract, dateStr,
			string(authorsJSON), p.DOI, p.URL, runID,
		); err != nil {
			return fmt.Errorf("archiving paper %s: %w", p.PMID, err)
		}
	}

	return tx.Commit()
}
