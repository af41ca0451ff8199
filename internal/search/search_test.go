package search

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

var rows = []collection.Row{
	{ReleaseID: "1", Artist: "Moodymann", AlbumTitle: "Silentintroduction", TrackTitle: "Misled", Label: "Planet E", CatalogNumber: "PE65234", ReleaseDate: "1997", Producer: "Kenny Dixon Jr."},
	{ReleaseID: "2", Artist: "Theo Parrish", AlbumTitle: "Sound Signature Sounds", TrackTitle: "Summertime Is Here", Label: "Sound Signature", CatalogNumber: "SS001", ReleaseDate: "2000-05-01"},
	{ReleaseID: "3", Artist: "Röyksopp", AlbumTitle: "Melody A.M.", TrackTitle: "Eple", Label: "Wall Of Sound", CatalogNumber: "WALLLP027", ReleaseDate: "2001", Remixer: "Fatboy Slim"},
	{ReleaseID: "4", Artist: "MOODYMANN", AlbumTitle: "Forevernevermore", TrackTitle: "Sunday Morning", Label: "Peacefrog", CatalogNumber: "PF096", ReleaseDate: "2000"},
}

func ids(rs []collection.Row) []string {
	out := []string{}
	for _, r := range rs {
		out = append(out, r.ReleaseID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "empty query matches all", query: Query{}, want: []string{"1", "2", "3", "4"}},
		{name: "case insensitive artist", query: Query{Artist: "moodyMANN"}, want: []string{"1", "4"}},
		{name: "substring label", query: Query{Label: "sound"}, want: []string{"2", "3"}},
		{name: "all fields must match", query: Query{Artist: "moodymann", ReleaseDate: "2000"}, want: []string{"4"}},
		{name: "unicode fold", query: Query{Artist: "RÖYK"}, want: []string{"3"}},
		{name: "empty column never matches a filter", query: Query{Remixer: "a"}, want: []string{"3"}},
		{name: "release date prefix", query: Query{ReleaseDate: "2000"}, want: []string{"2", "4"}},
		{name: "catalog number", query: Query{CatalogNumber: "pf"}, want: []string{"4"}},
		{name: "regex characters are literal", query: Query{AlbumTitle: "A.M."}, want: []string{"3"}},
		{name: "no match", query: Query{TrackTitle: "nothing like this"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rows, tt.query)
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryFromValues(t *testing.T) {
	v := url.Values{
		"artist":       {"  Theo "},
		"album":        {""},
		"catalog":      {"SS"},
		"release_date": {"2000"},
		"unknown":      {"x"},
	}

	got := QueryFromValues(v)
	want := Query{Artist: "Theo", CatalogNumber: "SS", ReleaseDate: "2000"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QueryFromValues() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want, QueryFromValues(got.Values())); diff != "" {
		t.Errorf("Values() does not round trip (-want +got):\n%s", diff)
	}
	if got.IsZero() {
		t.Error("IsZero() = true for non-empty query")
	}
	if !(Query{}).IsZero() {
		t.Error("IsZero() = false for empty query")
	}
}
