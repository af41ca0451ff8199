// Package collection turns Discogs collection data into flat track rows and
// merges them into a persisted dataset without producing duplicates.
package collection

import (
	"math"
	"strconv"
	"strings"
)

// Column names of the persisted dataset, in header order.
const (
	ColReleaseID     = "release_id"
	ColArtist        = "Artist"
	ColAlbumTitle    = "Album Title"
	ColLabel         = "Label"
	ColCatalogNumber = "Catalog Number"
	ColReleaseDate   = "Release Date"
	ColTrackTitle    = "Track Title"
	ColTrackPosition = "Track Position"
	ColDuration      = "Duration"
	ColProducer      = "Producer"
	ColRemixer       = "Remixer"
)

// Columns is the fixed dataset schema.
var Columns = []string{
	ColReleaseID,
	ColArtist,
	ColAlbumTitle,
	ColLabel,
	ColCatalogNumber,
	ColReleaseDate,
	ColTrackTitle,
	ColTrackPosition,
	ColDuration,
	ColProducer,
	ColRemixer,
}

// Row is one track of one release.
//
// ReleaseID holds the value as persisted so that rows with an id that does
// not parse survive a load/save cycle unchanged.
type Row struct {
	ReleaseID     string
	Artist        string
	AlbumTitle    string
	Label         string
	CatalogNumber string
	ReleaseDate   string
	TrackTitle    string
	TrackPosition string
	Duration      string
	Producer      string
	Remixer       string

	// Extra holds values of persisted columns outside the fixed schema.
	Extra map[string]string
}

// Key is the identity of a row within a dataset.
type Key struct {
	ReleaseID  int
	TrackTitle string
}

// Key returns the identity key of the row. ok is false when the release id
// does not parse, in which case the row cannot take part in deduplication.
func (r Row) Key() (Key, bool) {
	id, ok := ParseReleaseID(r.ReleaseID)
	if !ok {
		return Key{}, false
	}
	return Key{ReleaseID: id, TrackTitle: r.TrackTitle}, true
}

// Get returns the value of the named column.
func (r Row) Get(column string) string {
	switch column {
	case ColReleaseID:
		return r.ReleaseID
	case ColArtist:
		return r.Artist
	case ColAlbumTitle:
		return r.AlbumTitle
	case ColLabel:
		return r.Label
	case ColCatalogNumber:
		return r.CatalogNumber
	case ColReleaseDate:
		return r.ReleaseDate
	case ColTrackTitle:
		return r.TrackTitle
	case ColTrackPosition:
		return r.TrackPosition
	case ColDuration:
		return r.Duration
	case ColProducer:
		return r.Producer
	case ColRemixer:
		return r.Remixer
	}
	return r.Extra[column]
}

// Set assigns the value of the named column.
func (r *Row) Set(column, value string) {
	switch column {
	case ColReleaseID:
		r.ReleaseID = value
	case ColArtist:
		r.Artist = value
	case ColAlbumTitle:
		r.AlbumTitle = value
	case ColLabel:
		r.Label = value
	case ColCatalogNumber:
		r.CatalogNumber = value
	case ColReleaseDate:
		r.ReleaseDate = value
	case ColTrackTitle:
		r.TrackTitle = value
	case ColTrackPosition:
		r.TrackPosition = value
	case ColDuration:
		r.Duration = value
	case ColProducer:
		r.Producer = value
	case ColRemixer:
		r.Remixer = value
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[column] = value
	}
}

// ParseReleaseID parses a persisted release id. Integral floats such as
// "100.0" are accepted since tabular tools write integer columns that way
// once a column has held a blank.
func ParseReleaseID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(s); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	// Beyond 2^53 a float no longer identifies a single integer.
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// ValidTitle reports whether a track title names a real track. Empty and
// "none" titles are placeholders.
func ValidTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t != "" && !strings.EqualFold(t, "none")
}

// Dataset is an ordered collection of rows.
type Dataset struct {
	Rows []Row

	// ExtraColumns lists persisted columns outside the fixed schema, in the
	// order they were read.
	ExtraColumns []string

	// Backfilled lists fixed columns that were absent when the dataset was
	// loaded and have been filled with empty values.
	Backfilled []string
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// ReleaseIDs returns the set of parseable release ids present in the dataset.
func (d Dataset) ReleaseIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(d.Rows))
	for _, r := range d.Rows {
		if id, ok := ParseReleaseID(r.ReleaseID); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}
