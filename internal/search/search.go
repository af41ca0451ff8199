// Package search filters dataset rows by column values.
package search

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

// Query holds one optional substring filter per searchable column. Empty
// fields match every row; all non-empty fields must match.
type Query struct {
	Artist        string
	AlbumTitle    string
	TrackTitle    string
	Producer      string
	Remixer       string
	Label         string
	CatalogNumber string
	ReleaseDate   string
}

// Form parameter names, in display order.
const (
	ParamArtist        = "artist"
	ParamAlbumTitle    = "album"
	ParamTrackTitle    = "track"
	ParamProducer      = "producer"
	ParamRemixer       = "remixer"
	ParamLabel         = "label"
	ParamCatalogNumber = "catalog"
	ParamReleaseDate   = "release_date"
)

// Field describes one searchable column.
type Field struct {
	Param  string
	Column string
	Value  string
}

// Fields returns the query as an ordered list of form fields.
func (q Query) Fields() []Field {
	return []Field{
		{ParamArtist, collection.ColArtist, q.Artist},
		{ParamAlbumTitle, collection.ColAlbumTitle, q.AlbumTitle},
		{ParamTrackTitle, collection.ColTrackTitle, q.TrackTitle},
		{ParamProducer, collection.ColProducer, q.Producer},
		{ParamRemixer, collection.ColRemixer, q.Remixer},
		{ParamLabel, collection.ColLabel, q.Label},
		{ParamCatalogNumber, collection.ColCatalogNumber, q.CatalogNumber},
		{ParamReleaseDate, collection.ColReleaseDate, q.ReleaseDate},
	}
}

// IsZero reports whether no filter is set.
func (q Query) IsZero() bool {
	for _, f := range q.Fields() {
		if f.Value != "" {
			return false
		}
	}
	return true
}

// QueryFromValues reads a query from form or URL values. Values are trimmed.
func QueryFromValues(v url.Values) Query {
	get := func(key string) string {
		return strings.TrimSpace(v.Get(key))
	}
	return Query{
		Artist:        get(ParamArtist),
		AlbumTitle:    get(ParamAlbumTitle),
		TrackTitle:    get(ParamTrackTitle),
		Producer:      get(ParamProducer),
		Remixer:       get(ParamRemixer),
		Label:         get(ParamLabel),
		CatalogNumber: get(ParamCatalogNumber),
		ReleaseDate:   get(ParamReleaseDate),
	}
}

// Values encodes the non-empty filters as URL values.
func (q Query) Values() url.Values {
	v := url.Values{}
	for _, f := range q.Fields() {
		if f.Value != "" {
			v.Set(f.Param, f.Value)
		}
	}
	return v
}

// Filter returns the rows matching q, in their original order. Matching is a
// case-insensitive substring test using Unicode case folding.
func Filter(rows []collection.Row, q Query) []collection.Row {
	fold := cases.Fold()

	type term struct {
		column string
		needle string
	}
	var terms []term
	for _, f := range q.Fields() {
		if f.Value != "" {
			terms = append(terms, term{column: f.Column, needle: fold.String(f.Value)})
		}
	}

	out := make([]collection.Row, 0, len(rows))
	for _, r := range rows {
		match := true
		for _, t := range terms {
			if !strings.Contains(fold.String(r.Get(t.column)), t.needle) {
				match = false
				break
			}
		}
		if match {
			out = append(out, r)
		}
	}
	return out
}
