package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// insertChunk bounds the array sizes sent in one statement.
const insertChunk = 1000

// RowRepository handles collection row database operations.
type RowRepository struct {
	pool *pgxpool.Pool
}

// InsertBatch inserts records whose (release_id, track_title) is not stored
// yet and returns how many were inserted. Stored rows win over incoming ones,
// matching the dataset merge.
func (r *RowRepository) InsertBatch(ctx context.Context, records []Record) (int, error) {
	query := `
		INSERT INTO collection_rows (
			release_id, track_title, artist, album_title, label, catalog_number,
			release_date, track_position, duration, producer, remixer
		)
		SELECT * FROM unnest(
			$1::bigint[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[],
			$7::text[], $8::text[], $9::text[], $10::text[], $11::text[]
		)
		ON CONFLICT (release_id, track_title) DO NOTHING
	`

	inserted := 0
	for _, chunk := range chunks(records, insertChunk) {
		cols := columnsOf(chunk)
		tag, err := r.pool.Exec(ctx, query,
			cols.releaseIDs, cols.trackTitles, cols.artists, cols.albumTitles,
			cols.labels, cols.catalogNumbers, cols.releaseDates, cols.trackPositions,
			cols.durations, cols.producers, cols.remixers,
		)
		if err != nil {
			return inserted, fmt.Errorf("batch inserting rows: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Count returns the number of stored rows.
func (r *RowRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM collection_rows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

// GetRelease retrieves the stored tracks of a release in insertion order.
func (r *RowRepository) GetRelease(ctx context.Context, releaseID int64) ([]Record, error) {
	query := `
		SELECT release_id, track_title, artist, album_title, label, catalog_number,
			release_date, track_position, duration, producer, remixer, created_at
		FROM collection_rows
		WHERE release_id = $1
		ORDER BY created_at, track_position
	`
	rows, err := r.pool.Query(ctx, query, releaseID)
	if err != nil {
		return nil, fmt.Errorf("querying release rows: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ReleaseID,
			&rec.TrackTitle,
			&rec.Artist,
			&rec.AlbumTitle,
			&rec.Label,
			&rec.CatalogNumber,
			&rec.ReleaseDate,
			&rec.TrackPosition,
			&rec.Duration,
			&rec.Producer,
			&rec.Remixer,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type recordColumns struct {
	releaseIDs     []int64
	trackTitles    []string
	artists        []string
	albumTitles    []string
	labels         []string
	catalogNumbers []string
	releaseDates   []string
	trackPositions []string
	durations      []string
	producers      []string
	remixers       []string
}

// columnsOf transposes records into the parallel arrays unnest expects.
func columnsOf(records []Record) recordColumns {
	n := len(records)
	cols := recordColumns{
		releaseIDs:     make([]int64, n),
		trackTitles:    make([]string, n),
		artists:        make([]string, n),
		albumTitles:    make([]string, n),
		labels:         make([]string, n),
		catalogNumbers: make([]string, n),
		releaseDates:   make([]string, n),
		trackPositions: make([]string, n),
		durations:      make([]string, n),
		producers:      make([]string, n),
		remixers:       make([]string, n),
	}
	for i, rec := range records {
		cols.releaseIDs[i] = rec.ReleaseID
		cols.trackTitles[i] = rec.TrackTitle
		cols.artists[i] = rec.Artist
		cols.albumTitles[i] = rec.AlbumTitle
		cols.labels[i] = rec.Label
		cols.catalogNumbers[i] = rec.CatalogNumber
		cols.releaseDates[i] = rec.ReleaseDate
		cols.trackPositions[i] = rec.TrackPosition
		cols.durations[i] = rec.Duration
		cols.producers[i] = rec.Producer
		cols.remixers[i] = rec.Remixer
	}
	return cols
}

func chunks(records []Record, size int) [][]Record {
	var out [][]Record
	for len(records) > size {
		out = append(out, records[:size])
		records = records[size:]
	}
	if len(records) > 0 {
		out = append(out, records)
	}
	return out
}
