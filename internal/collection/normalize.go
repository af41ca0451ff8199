package collection

import (
	"strconv"
	"strings"

	"github.com/justestif/go-vinyl-collection/internal/discogs"
)

// trackTypeHeading marks a tracklist entry that titles a side or section.
const trackTypeHeading = "heading"

// ReleaseMeta holds the release-level values repeated on every row of a release.
type ReleaseMeta struct {
	ReleaseID     int
	Artist        string
	AlbumTitle    string
	Label         string
	CatalogNumber string
	ReleaseDate   string
	ExtraArtists  []discogs.ExtraArtist
}

// NewReleaseMeta builds release metadata from the collection summary, filling
// gaps from the release detail when the summary lacks a field. detail may be nil.
func NewReleaseMeta(info discogs.BasicInformation, detail *discogs.ReleaseDetail) ReleaseMeta {
	if detail == nil {
		detail = &discogs.ReleaseDetail{}
	}

	id := info.ID
	if id == 0 {
		id = detail.ID
	}
	title := info.Title
	if title == "" {
		title = detail.Title
	}
	artists := info.Artists
	if len(artists) == 0 {
		artists = detail.Artists
	}
	labels := info.Labels
	if len(labels) == 0 {
		labels = detail.Labels
	}

	return ReleaseMeta{
		ReleaseID:     id,
		Artist:        joinArtists(artists),
		AlbumTitle:    title,
		Label:         joinLabels(labels, func(l discogs.Label) string { return l.Name }),
		CatalogNumber: joinLabels(labels, func(l discogs.Label) string { return l.CatNo }),
		ReleaseDate:   releaseDate(detail.Released, info.Year, detail.Year),
		ExtraArtists:  detail.ExtraArtists,
	}
}

// Normalize builds the row for one track. ok is false when the track has no
// real title and must be excluded.
func Normalize(meta ReleaseMeta, track discogs.Track) (Row, bool) {
	title := strings.TrimSpace(track.Title)
	if !ValidTitle(title) {
		return Row{}, false
	}

	producers, remixers := ResolveCredits(track.ExtraArtists, meta.ExtraArtists)

	return Row{
		ReleaseID:     strconv.Itoa(meta.ReleaseID),
		Artist:        meta.Artist,
		AlbumTitle:    meta.AlbumTitle,
		Label:         meta.Label,
		CatalogNumber: meta.CatalogNumber,
		ReleaseDate:   meta.ReleaseDate,
		TrackTitle:    title,
		TrackPosition: strings.TrimSpace(track.Position),
		Duration:      strings.TrimSpace(track.Duration),
		Producer:      JoinCredits(producers),
		Remixer:       JoinCredits(remixers),
	}, true
}

// NormalizeRelease builds rows for every valid track of a release in
// tracklist order. Section headings are not tracks and are skipped.
func NormalizeRelease(info discogs.BasicInformation, detail *discogs.ReleaseDetail) []Row {
	if detail == nil {
		return nil
	}

	meta := NewReleaseMeta(info, detail)
	rows := make([]Row, 0, len(detail.Tracklist))
	for _, track := range detail.Tracklist {
		if strings.EqualFold(track.Type, trackTypeHeading) {
			continue
		}
		if row, ok := Normalize(meta, track); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func joinArtists(artists []discogs.Artist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func joinLabels(labels []discogs.Label, field func(discogs.Label) string) string {
	values := make([]string, 0, len(labels))
	for _, l := range labels {
		values = append(values, field(l))
	}
	return strings.Join(values, ", ")
}

// releaseDate prefers the full release date and falls back to the first
// non-zero year.
func releaseDate(released string, years ...int) string {
	if released = strings.TrimSpace(released); released != "" {
		return released
	}
	for _, y := range years {
		if y > 0 {
			return strconv.Itoa(y)
		}
	}
	return ""
}
