// Package db mirrors the collection dataset into PostgreSQL.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

//go:embed schema.sql
var schema string

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// EnsureSchema creates the mirror tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Rows returns a RowRepository.
func (db *DB) Rows() *RowRepository {
	return &RowRepository{pool: db.pool}
}

// Runs returns a RunRepository.
func (db *DB) Runs() *RunRepository {
	return &RunRepository{pool: db.pool}
}

// Mirror inserts every dataset row not yet present in the database and
// returns the number inserted. Rows already mirrored are left unchanged.
func (db *DB) Mirror(ctx context.Context, rows []collection.Row) (int, error) {
	records, _ := RecordsFromRows(rows)
	return db.Rows().InsertBatch(ctx, records)
}
