// Package store persists summaries of simulation runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// Window is a probability query answered by a run: P(Lo <= total < Hi).
type Window struct {
	Lo          int
	Hi          int
	Probability float64
}

// RunRecord is the summary of one batch of trials.
type RunRecord struct {
	ID        int64
	Region    string
	Trials    int
	Seed      int64
	Timing    string // timing file or recordings directory used
	Mean      float64
	Stdev     float64
	Min       int
	Max       int
	P50       float64
	P90       float64
	Windows   []Window
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("store: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			region TEXT NOT NULL,
			trials INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			timing TEXT NOT NULL DEFAULT '',
			mean REAL NOT NULL,
			stdev REAL NOT NULL,
			min_frames INTEGER NOT NULL,
			max_frames INTEGER NOT NULL,
			p50 REAL NOT NULL,
			p90 REAL NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_region ON runs(region, id DESC);

		CREATE TABLE IF NOT EXISTS run_windows (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			lo INTEGER NOT NULL,
			hi INTEGER NOT NULL,
			probability REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_run_windows_run ON run_windows(run_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and its windows in one transaction.
// A zero CreatedAt is replaced by the current time. Returns the new run ID.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs (region, trials, seed, timing, mean, stdev, min_frames, max_frames, p50, p90, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Region, r.Trials, r.Seed, r.Timing, r.Mean, r.Stdev, r.Min, r.Max, r.P50, r.P90,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("store: cannot save run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: cannot get inserted ID: %w", err)
	}

	for _, w := range r.Windows {
		if _, err := tx.Exec(
			"INSERT INTO run_windows (run_id, lo, hi, probability) VALUES (?, ?, ?, ?)",
			id, w.Lo, w.Hi, w.Probability,
		); err != nil {
			return 0, fmt.Errorf("store: cannot save window: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: cannot commit run: %w", err)
	}
	return id, nil
}

// RecentRuns returns the latest runs, newest first. An empty region matches
// every region; a non-positive limit defaults to 10.
func (s *Store) RecentRuns(region string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, region, trials, seed, timing, mean, stdev, min_frames, max_frames, p50, p90, created_at
		 FROM runs
		 WHERE ? = '' OR region = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		region, region, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Region, &r.Trials, &r.Seed, &r.Timing, &r.Mean, &r.Stdev,
			&r.Min, &r.Max, &r.P50, &r.P90, &createdAt); err != nil {
			return nil, fmt.Errorf("store: cannot scan row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = parsed
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: row iteration error: %w", err)
	}

	for i := range runs {
		w, err := s.windows(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Windows = w
	}
	return runs, nil
}

func (s *Store) windows(runID int64) ([]Window, error) {
	rows, err := s.db.Query(
		"SELECT lo, hi, probability FROM run_windows WHERE run_id = ? ORDER BY rowid",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: cannot query windows: %w", err)
	}
	defer rows.Close()

	var out []Window
	for rows.Next() {
		var w Window
		if err := rows.Scan(&w.Lo, &w.Hi, &w.Probability); err != nil {
			return nil, fmt.Errorf("store: cannot scan window: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
