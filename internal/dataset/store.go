// Package dataset loads and saves the collection dataset as a CSV file.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/justestif/go-vinyl-collection/internal/collection"
)

// legacyPositionColumn is the track position header written by earlier
// versions of the updater.
const legacyPositionColumn = "Position"

const utf8BOM = "\ufeff"

// Load reads the dataset at path. A missing file yields an empty dataset.
func Load(path string) (collection.Dataset, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return collection.Dataset{}, nil
	}
	if err != nil {
		return collection.Dataset{}, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Decode(f)
	if err != nil {
		return collection.Dataset{}, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return ds, nil
}

// Decode reads a dataset in CSV form. Columns are matched by header name;
// fixed columns missing from the header are reported in Backfilled and read
// as empty, and unknown columns are carried along as extra columns.
func Decode(r io.Reader) (collection.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return collection.Dataset{}, nil
	}
	if err != nil {
		return collection.Dataset{}, fmt.Errorf("reading header: %w", err)
	}

	columns, extra, backfilled := mapHeader(header)

	var rows []collection.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return collection.Dataset{}, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}

		var row collection.Row
		for i, value := range record {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			row.Set(columns[i], value)
		}
		for _, col := range extra {
			if _, ok := row.Extra[col]; !ok {
				row.Set(col, "")
			}
		}
		if id, ok := collection.ParseReleaseID(row.ReleaseID); ok {
			row.ReleaseID = strconv.Itoa(id)
		}
		rows = append(rows, row)
	}

	return collection.Dataset{
		Rows:         rows,
		ExtraColumns: extra,
		Backfilled:   backfilled,
	}, nil
}

// mapHeader resolves each header cell to a column name. An empty entry in
// columns means the cell is ignored.
func mapHeader(header []string) (columns, extra, backfilled []string) {
	fixed := make(map[string]bool, len(collection.Columns))
	for _, c := range collection.Columns {
		fixed[c] = false
	}

	hasTrackPosition := false
	for _, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)) == collection.ColTrackPosition {
			hasTrackPosition = true
		}
	}

	seen := make(map[string]bool, len(header))
	columns = make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		if name == legacyPositionColumn && !hasTrackPosition {
			name = collection.ColTrackPosition
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns[i] = name

		if _, ok := fixed[name]; ok {
			fixed[name] = true
		} else {
			extra = append(extra, name)
		}
	}

	for _, c := range collection.Columns {
		if !fixed[c] {
			backfilled = append(backfilled, c)
		}
	}
	return columns, extra, backfilled
}

// Encode writes the dataset as CSV: the fixed columns in schema order
// followed by any extra columns.
func Encode(w io.Writer, ds collection.Dataset) error {
	header := make([]string, 0, len(collection.Columns)+len(ds.ExtraColumns))
	header = append(header, collection.Columns...)
	header = append(header, ds.ExtraColumns...)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range ds.Rows {
		for i, col := range header {
			record[i] = row.Get(col)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Save writes the dataset to path. The file is replaced atomically so a
// reader never observes a partially written dataset.
func Save(path string, ds collection.Dataset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dataset directory: %w", err)
		}
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing dataset %s: %w", path, err)
	}
	return nil
}
