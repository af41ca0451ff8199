package web

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/justestif/go-vinyl-collection/internal/collection"
	"github.com/justestif/go-vinyl-collection/internal/dataset"
	"github.com/justestif/go-vinyl-collection/internal/search"
)

const (
	// DefaultDisplayLimit caps the rows rendered in the results table.
	// Downloads always carry every matching row.
	DefaultDisplayLimit = 500

	downloadFilename = "filtered_collection.csv"
)

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	store        *DatasetStore
	templates    *Templates
	logger       *slog.Logger
	displayLimit int
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *DatasetStore, templates *Templates, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:        store,
		templates:    templates,
		logger:       logger,
		displayLimit: DefaultDisplayLimit,
	}
}

// Search handles the search page (GET /).
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	q := search.QueryFromValues(r.URL.Query())

	data := SearchPageData{
		PageData: PageData{
			Title:       `12" Vinyl Collection Search`,
			CurrentPath: r.URL.Path,
		},
		Fields:  fieldsOf(q),
		Results: h.results(q),
	}

	h.render(w, func(buf *bytes.Buffer) error {
		return h.templates.Render(buf, "search", data)
	})
}

// Results handles the results fragment (GET /results).
func (h *Handlers) Results(w http.ResponseWriter, r *http.Request) {
	data := h.results(search.QueryFromValues(r.URL.Query()))

	h.render(w, func(buf *bytes.Buffer) error {
		return h.templates.RenderPartial(buf, "results", data)
	})
}

// Download streams the filtered rows as CSV (GET /download.csv).
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.Get()
	if err != nil {
		h.logger.Error("loading dataset failed", "error", err)
		http.Error(w, "Failed to load dataset", http.StatusInternalServerError)
		return
	}

	filtered := collection.Dataset{
		Rows:         search.Filter(ds.Rows, search.QueryFromValues(r.URL.Query())),
		ExtraColumns: ds.ExtraColumns,
	}

	var buf bytes.Buffer
	if err := dataset.Encode(&buf, filtered); err != nil {
		h.logger.Error("encoding csv failed", "error", err)
		http.Error(w, "Failed to encode CSV", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	w.Write(buf.Bytes())
}

func (h *Handlers) results(q search.Query) ResultsData {
	data := ResultsData{Columns: collection.Columns}

	ds, err := h.store.Get()
	if err != nil {
		h.logger.Error("loading dataset failed", "error", err)
		data.Error = "The collection could not be loaded."
		return data
	}

	matched := search.Filter(ds.Rows, q)
	data.Total = ds.Len()
	data.Matched = len(matched)

	shown := matched
	if h.displayLimit > 0 && len(shown) > h.displayLimit {
		shown = shown[:h.displayLimit]
		data.Truncated = true
	}
	data.Rows = make([][]string, len(shown))
	for i, row := range shown {
		cells := make([]string, len(collection.Columns))
		for j, col := range collection.Columns {
			cells[j] = row.Get(col)
		}
		data.Rows[i] = cells
	}

	data.DownloadURL = "/download.csv"
	if v := q.Values(); len(v) > 0 {
		data.DownloadURL += "?" + v.Encode()
	}
	return data
}

// render buffers the template output so a failed render can still
// produce a clean error response.
func (h *Handlers) render(w http.ResponseWriter, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.Error("rendering template failed", "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func fieldsOf(q search.Query) []FieldData {
	fields := q.Fields()
	out := make([]FieldData, len(fields))
	for i, f := range fields {
		out[i] = FieldData{Name: f.Param, Label: f.Column, Value: f.Value}
	}
	return out
}
