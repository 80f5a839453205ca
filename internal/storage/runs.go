package storage

import (
	"fmt"
	"time"
)

// runTimeFormat is fixed-width so created_at sorts lexically.
const runTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Run records one changelog generation.
type Run struct {
	RunID     string
	CacheKey  string
	Format    string
	DiffCount int
	CacheHit  bool
	Duration  time.Duration
	CreatedAt time.Time
}

// RecordRun appends a run to the history.
func (db *DB) RecordRun(run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	hit := 0
	if run.CacheHit {
		hit = 1
	}
	_, err := db.Exec(`
		INSERT INTO changelog_runs (run_id, cache_key, format, diff_count, cache_hit, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CacheKey, run.Format, run.DiffCount, hit, run.Duration.Milliseconds(),
		run.CreatedAt.UTC().Format(runTimeFormat))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, cache_key, format, diff_count, cache_hit, duration_ms, created_at
		FROM changelog_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			hit        int
			durationMs int64
			createdAt  string
		)
		if err := rows.Scan(&r.RunID, &r.CacheKey, &r.Format, &r.DiffCount, &hit, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CacheHit = hit == 1
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt, _ = time.Parse(runTimeFormat, createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
