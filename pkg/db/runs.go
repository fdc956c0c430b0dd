package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one recorded stats run.
type Run struct {
	RunID        int64
	Root         string
	Field        string
	WorkerCount  int
	FileCount    int
	SuccessCount int
	FailedCount  int
	Mean         sql.NullFloat64
	StdDev       sql.NullFloat64
	DurationMS   int64
	CreatedAt    time.Time
}

// RunFailure is one document that failed during a run.
type RunFailure struct {
	FailureID int64
	RunID     int64
	FilePath  string
	ErrorType string
	Message   string
}

// InsertRun records a completed (or failed) run and returns its run_id.
// mean/stddev may be nil when the run produced no result.
func (db *DB) InsertRun(root, field string, workerCount, fileCount, successCount, failedCount int, mean, stddev *float64, duration time.Duration) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (root, field, worker_count, file_count, success_count, failed_count, mean, stddev, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, root, field, workerCount, fileCount, successCount, failedCount,
		nullable(mean), nullable(stddev), duration.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// InsertRunFailure records one failed document for a run.
func (db *DB) InsertRunFailure(runID int64, filePath, errorType, message string) error {
	_, err := db.Exec(`
		INSERT INTO run_failures (run_id, file_path, error_type, message)
		VALUES (?, ?, ?, ?)
	`, runID, filePath, errorType, message)
	if err != nil {
		return fmt.Errorf("failed to insert run failure: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT run_id, root, field, worker_count, file_count, success_count, failed_count, mean, stddev, duration_ms, created_at
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Root, &r.Field, &r.WorkerCount, &r.FileCount, &r.SuccessCount, &r.FailedCount, &r.Mean, &r.StdDev, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, root, field, worker_count, file_count, success_count, failed_count, mean, stddev, duration_ms, created_at
		FROM runs
		WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.Root, &r.Field, &r.WorkerCount, &r.FileCount, &r.SuccessCount, &r.FailedCount, &r.Mean, &r.StdDev, &r.DurationMS, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %d: %w", runID, err)
	}
	return &r, nil
}

// GetLatestRunID returns the highest run_id, or an error when no runs exist.
func (db *DB) GetLatestRunID() (int64, error) {
	var runID sql.NullInt64
	err := db.QueryRow("SELECT MAX(run_id) FROM runs").Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest run: %w", err)
	}
	if !runID.Valid {
		return 0, errors.New("no runs recorded yet")
	}
	return runID.Int64, nil
}

// ListRunFailures returns the failed documents recorded for a run.
func (db *DB) ListRunFailures(runID int64) ([]RunFailure, error) {
	rows, err := db.Query(`
		SELECT failure_id, run_id, file_path, error_type, message
		FROM run_failures
		WHERE run_id = ?
		ORDER BY failure_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run failures: %w", err)
	}
	defer rows.Close()

	var failures []RunFailure
	for rows.Next() {
		var f RunFailure
		if err := rows.Scan(&f.FailureID, &f.RunID, &f.FilePath, &f.ErrorType, &f.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
