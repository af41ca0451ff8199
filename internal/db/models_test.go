package db

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

func TestRecordsFromRows(t *testing.T) {
	rows := []collection.Row{
		{ReleaseID: "100", TrackTitle: "A", Artist: "X", Producer: "P"},
		{ReleaseID: "n/a", TrackTitle: "B"},
		{ReleaseID: "101.0", TrackTitle: "C", Remixer: "R"},
	}

	records, skipped := RecordsFromRows(rows)

	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	want := []Record{
		{ReleaseID: 100, TrackTitle: "A", Artist: "X", Producer: "P"},
		{ReleaseID: 101, TrackTitle: "C", Remixer: "R"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("RecordsFromRows() mismatch (-want +got):\n%s", diff)
	}
}

func TestChunks(t *testing.T) {
	tests := []struct {
		n, size int
		want    []int
	}{
		{n: 0, size: 3, want: nil},
		{n: 2, size: 3, want: []int{2}},
		{n: 3, size: 3, want: []int{3}},
		{n: 7, size: 3, want: []int{3, 3, 1}},
	}
	for _, tt := range tests {
		got := chunks(make([]Record, tt.n), tt.size)
		var sizes []int
		for _, c := range got {
			sizes = append(sizes, len(c))
		}
		if diff := cmp.Diff(tt.want, sizes); diff != "" {
			t.Errorf("chunks(%d, %d) mismatch (-want +got):\n%s", tt.n, tt.size, diff)
		}
	}
}

func TestColumnsOf(t *testing.T) {
	cols := columnsOf([]Record{
		{ReleaseID: 1, TrackTitle: "A", Label: "L1"},
		{ReleaseID: 2, TrackTitle: "B", Duration: "3:00"},
	})

	if diff := cmp.Diff([]int64{1, 2}, cols.releaseIDs); diff != "" {
		t.Errorf("releaseIDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, cols.trackTitles); diff != "" {
		t.Errorf("trackTitles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"L1", ""}, cols.labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "3:00"}, cols.durations); diff != "" {
		t.Errorf("durations mismatch (-want +got):\n%s", diff)
	}
}
