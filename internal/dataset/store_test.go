package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

const fullHeader = "release_id,Artist,Album Title,Label,Catalog Number,Release Date,Track Title,Track Position,Duration,Producer,Remixer\n"

func TestLoad_MissingFile(t *testing.T) {
	ds, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Load() rows = %d, want 0", ds.Len())
	}
	if len(ds.Backfilled) != 0 {
		t.Errorf("Backfilled = %v, want none", ds.Backfilled)
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	ds, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("Decode() rows = %d, want 0", ds.Len())
	}
}

func TestDecode_BackfillsMissingColumns(t *testing.T) {
	input := "release_id,Album Title,Artist,Track Title,Position,Label,Catalog Number,Release Date\n" +
		"100,Night Moves,Artist One,A,A1,Label A,LA-1,1998\n"

	ds, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	wantBackfilled := []string{collection.ColDuration, collection.ColProducer, collection.ColRemixer}
	if diff := cmp.Diff(wantBackfilled, ds.Backfilled); diff != "" {
		t.Errorf("Backfilled mismatch (-want +got):\n%s", diff)
	}

	want := collection.Row{
		ReleaseID:     "100",
		Artist:        "Artist One",
		AlbumTitle:    "Night Moves",
		Label:         "Label A",
		CatalogNumber: "LA-1",
		ReleaseDate:   "1998",
		TrackTitle:    "A",
		TrackPosition: "A1",
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(ds.Rows))
	}
	if diff := cmp.Diff(want, ds.Rows[0]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_PositionKeptAsExtraWhenTrackPositionPresent(t *testing.T) {
	input := "release_id,Track Title,Track Position,Position\n1,A,A1,side-a\n"

	ds, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := ds.Rows[0].TrackPosition; got != "A1" {
		t.Errorf("TrackPosition = %q, want A1", got)
	}
	if diff := cmp.Diff([]string{"Position"}, ds.ExtraColumns); diff != "" {
		t.Errorf("ExtraColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_CanonicalizesReleaseIDs(t *testing.T) {
	input := fullHeader +
		"100.0,,,,,,A,,,,\n" +
		"n/a,,,,,,B,,,,\n" +
		",,,,,,C,,,,\n"

	ds, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var got []string
	for _, r := range ds.Rows {
		got = append(got, r.ReleaseID)
	}
	if diff := cmp.Diff([]string{"100", "n/a", ""}, got); diff != "" {
		t.Errorf("release ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_RaggedRowsAndBOM(t *testing.T) {
	input := "\ufeffrelease_id,Track Title,Duration\n1,A\n2,B,3:00,extra\n"

	ds, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(ds.Rows))
	}
	if ds.Rows[0].ReleaseID != "1" || ds.Rows[0].Duration != "" {
		t.Errorf("row 0 = %+v", ds.Rows[0])
	}
	if ds.Rows[1].Duration != "3:00" {
		t.Errorf("row 1 duration = %q, want 3:00", ds.Rows[1].Duration)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "collection.csv")

	ds := collection.Dataset{
		Rows: []collection.Row{
			{
				ReleaseID:     "100",
				Artist:        "Artist A, Artist B",
				AlbumTitle:    `The "Quoted" EP`,
				Label:         "Label",
				CatalogNumber: "CAT-1",
				ReleaseDate:   "1998-05-04",
				TrackTitle:    "A",
				TrackPosition: "A1",
				Duration:      "6:12",
				Producer:      "X",
				Remixer:       "Y, Z",
				Extra:         map[string]string{"Notes": "multi\nline"},
			},
			{ReleaseID: "101", TrackTitle: "B", Extra: map[string]string{"Notes": ""}},
		},
		ExtraColumns: []string{"Notes"},
	}

	if err := Save(path, ds); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(ds.Rows, loaded.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ds.ExtraColumns, loaded.ExtraColumns); diff != "" {
		t.Errorf("extra columns mismatch (-want +got):\n%s", diff)
	}
	if len(loaded.Backfilled) != 0 {
		t.Errorf("Backfilled = %v, want none", loaded.Backfilled)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries after save, want only the dataset", len(entries))
	}
}

func TestEncode_HeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, collection.Dataset{ExtraColumns: []string{"Notes"}}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := strings.TrimSuffix(fullHeader, "\n") + ",Notes\n"
	if got := buf.String(); got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestSave_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.csv")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	ds := collection.Dataset{Rows: []collection.Row{{ReleaseID: "1", TrackTitle: "A"}}}
	if err := Save(path, ds); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), fullHeader) {
		t.Errorf("saved file does not start with the header: %q", data)
	}
}
