// Package stats persists a run summary to DuckDB when the `-s` flag is
// set, following the teacher stack's append-only, queryable cache
// pattern.
package stats

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Summary is one run's aggregate counters.
type Summary struct {
	RunID              string
	Backend            string
	Patients           int
	RecordsEmitted     int
	TranscriptsDropped int
	AnnotationsSkipped int
	DurationSeconds    float64
}

// Store manages a DuckDB connection for run-stats persistence.
type Store struct {
	db *sql.DB
}

// Open opens or creates the DuckDB database at path. An empty path
// opens an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create stats directory: %w", err)
			}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS run_stats (
		run_id VARCHAR PRIMARY KEY,
		backend VARCHAR,
		patients BIGINT,
		records_emitted BIGINT,
		transcripts_dropped BIGINT,
		annotations_skipped BIGINT,
		duration_seconds DOUBLE
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS drop_reasons (
		run_id VARCHAR,
		reason VARCHAR,
		count BIGINT
	)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS skip_reasons (
		run_id VARCHAR,
		reason VARCHAR,
		count BIGINT
	)`)
	return err
}

// RecordRun writes the run summary plus its per-reason breakdowns.
func (s *Store) RecordRun(summary Summary, dropReasons, skipReasons map[string]int) error {
	_, err := s.db.Exec(
		`INSERT INTO run_stats (run_id, backend, patients, records_emitted, transcripts_dropped, annotations_skipped, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID, summary.Backend, summary.Patients, summary.RecordsEmitted,
		summary.TranscriptsDropped, summary.AnnotationsSkipped, summary.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert run_stats: %w", err)
	}

	for reason, count := range dropReasons {
		if _, err := s.db.Exec(`INSERT INTO drop_reasons (run_id, reason, count) VALUES (?, ?, ?)`, summary.RunID, reason, count); err != nil {
			return fmt.Errorf("insert drop_reasons: %w", err)
		}
	}
	for reason, count := range skipReasons {
		if _, err := s.db.Exec(`INSERT INTO skip_reasons (run_id, reason, count) VALUES (?, ?, ?)`, summary.RunID, reason, count); err != nil {
			return fmt.Errorf("insert skip_reasons: %w", err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
