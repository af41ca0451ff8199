package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository handles sync run database operations.
type RunRepository struct {
	pool *pgxpool.Pool
}

// Create stores a sync run. A nil ID is replaced with a new one.
func (r *RunRepository) Create(ctx context.Context, run *SyncRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	query := `
		INSERT INTO sync_runs (
			id, rows_added, rows_removed, rows_total, releases_seen,
			releases_failed, partial, started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.RowsAdded,
		run.RowsRemoved,
		run.RowsTotal,
		run.ReleasesSeen,
		run.ReleasesFailed,
		run.Partial,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}
	return nil
}

// Latest retrieves the most recently finished sync run.
func (r *RunRepository) Latest(ctx context.Context) (*SyncRun, error) {
	query := `
		SELECT id, rows_added, rows_removed, rows_total, releases_seen,
			releases_failed, partial, started_at, finished_at
		FROM sync_runs
		ORDER BY finished_at DESC
		LIMIT 1
	`
	var run SyncRun
	err := r.pool.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.RowsAdded,
		&run.RowsRemoved,
		&run.RowsTotal,
		&run.ReleasesSeen,
		&run.ReleasesFailed,
		&run.Partial,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest sync run: %w", err)
	}
	return &run, nil
}
