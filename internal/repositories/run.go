package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/plsync/internal/models"
	"github.com/desertthunder/plsync/internal/shared"
)

// RunRepository persists [models.SyncRun] rows in the history database.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new [RunRepository] with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run row with generated ID and sequence. A run id
// already set by the caller is kept.
func (r *RunRepository) Create(run *models.SyncRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	run.Sequence = sequence

	if run.RunID == "" {
		run.RunID = shared.GenerateID()
	}
	if run.Created.IsZero() {
		run.Created = time.Now()
	}

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, target_id, target_title, dry_run, added, skipped, failed, aborted, error, started_at, finished_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.RunID, run.Sequence, run.TargetID, run.TargetTitle,
		run.DryRun, run.Added, run.Skipped, run.Failed, run.Aborted,
		run.Error, run.StartedAt, run.FinishedAt, run.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Record satisfies the sync engine's recorder interface.
func (r *RunRepository) Record(ctx context.Context, run *models.SyncRun) error {
	return r.Create(run)
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := `
		SELECT id, sequence, target_id, target_title, dry_run, added, skipped, failed, aborted, error, started_at, finished_at, created_at
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	return run, nil
}

// Recent retrieves the most recent runs, newest first. A non-positive limit
// returns everything.
func (r *RunRepository) Recent(limit int) ([]*models.SyncRun, error) {
	query := `
		SELECT id, sequence, target_id, target_title, dry_run, added, skipped, failed, aborted, error, started_at, finished_at, created_at
		FROM runs
		ORDER BY sequence DESC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// RecentForTarget retrieves the most recent runs for one target playlist.
func (r *RunRepository) RecentForTarget(targetID string, limit int) ([]*models.SyncRun, error) {
	query := `
		SELECT id, sequence, target_id, target_title, dry_run, added, skipped, failed, aborted, error, started_at, finished_at, created_at
		FROM runs
		WHERE target_id = ?
		ORDER BY sequence DESC
	`

	args := []any{targetID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.SyncRun, error) {
	var run models.SyncRun
	err := s.Scan(
		&run.RunID, &run.Sequence, &run.TargetID, &run.TargetTitle,
		&run.DryRun, &run.Added, &run.Skipped, &run.Failed, &run.Aborted,
		&run.Error, &run.StartedAt, &run.FinishedAt, &run.Created,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
