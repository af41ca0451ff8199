package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

// Record is a dataset row as stored in collection_rows.
type Record struct {
	ReleaseID     int64
	TrackTitle    string
	Artist        string
	AlbumTitle    string
	Label         string
	CatalogNumber string
	ReleaseDate   string
	TrackPosition string
	Duration      string
	Producer      string
	Remixer       string
	CreatedAt     time.Time
}

// RecordsFromRows converts dataset rows to records. Rows whose release id
// does not parse have no primary key and are returned as skipped.
func RecordsFromRows(rows []collection.Row) (records []Record, skipped int) {
	records = make([]Record, 0, len(rows))
	for _, r := range rows {
		id, ok := collection.ParseReleaseID(r.ReleaseID)
		if !ok {
			skipped++
			continue
		}
		records = append(records, Record{
			ReleaseID:     int64(id),
			TrackTitle:    r.TrackTitle,
			Artist:        r.Artist,
			AlbumTitle:    r.AlbumTitle,
			Label:         r.Label,
			CatalogNumber: r.CatalogNumber,
			ReleaseDate:   r.ReleaseDate,
			TrackPosition: r.TrackPosition,
			Duration:      r.Duration,
			Producer:      r.Producer,
			Remixer:       r.Remixer,
		})
	}
	return records, skipped
}

// SyncRun is the stored summary of one sync.
type SyncRun struct {
	ID             uuid.UUID
	RowsAdded      int
	RowsRemoved    int
	RowsTotal      int
	ReleasesSeen   int
	ReleasesFailed int
	Partial        bool
	StartedAt      time.Time
	FinishedAt     time.Time
}
