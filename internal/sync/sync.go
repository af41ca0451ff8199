// Package sync merges a Discogs collection folder into the local dataset.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/justestif/go-vinyl-collection/internal/collection"
	"github.com/justestif/go-vinyl-collection/internal/dataset"
	"github.com/justestif/go-vinyl-collection/internal/discogs"
)

// Common errors.
var (
	// ErrSyncInProgress is returned when another sync holds the dataset lock.
	ErrSyncInProgress = errors.New("another sync is already running for this dataset")
)

// Defaults for collection paging.
const (
	DefaultFolderID = 0
	DefaultPageSize = 100
)

// Fetcher is the part of the Discogs client the sync depends on.
type Fetcher interface {
	ListCollectionPage(ctx context.Context, folderID, page, perPage int) ([]discogs.CollectionItem, int, error)
	GetReleaseDetail(ctx context.Context, releaseID int) (*discogs.ReleaseDetail, error)
}

// Mirror receives the merged dataset after it has been saved.
type Mirror interface {
	Mirror(ctx context.Context, rows []collection.Row) (int, error)
}

// Service handles syncing a Discogs collection into a dataset file.
type Service struct {
	fetcher   Fetcher
	folderID  int
	pageSize  int
	stopWhen  func(discogs.CollectionItem) bool
	skipKnown bool
	mirror    Mirror
	logger    *slog.Logger
	lockPath  string
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithFolder sets the collection folder to read. Folder 0 is "All".
func WithFolder(id int) Option {
	return func(s *Service) {
		s.folderID = id
	}
}

// WithPageSize sets the number of collection items requested per page.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithStopWhen stops paging after the first page containing an item for
// which pred returns true. Items on that page are still processed.
// Upstream ordering is not guaranteed, so this only reduces fetch volume on a
// best-effort basis; a full sync without it is always correct.
func WithStopWhen(pred func(discogs.CollectionItem) bool) Option {
	return func(s *Service) {
		s.stopWhen = pred
	}
}

// WithSkipKnownReleases skips the detail fetch for releases that already
// have rows in the dataset. Unlike WithStopWhen this can change the merged
// result: tracks added upstream to a known release are not picked up until a
// sync runs without it.
func WithSkipKnownReleases(skip bool) Option {
	return func(s *Service) {
		s.skipKnown = skip
	}
}

// WithMirror copies the merged dataset to m after every successful save.
func WithMirror(m Mirror) Option {
	return func(s *Service) {
		s.mirror = m
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLockPath overrides the lock file location. The default is the dataset
// path with a ".lock" suffix.
func WithLockPath(path string) Option {
	return func(s *Service) {
		s.lockPath = path
	}
}

// New creates a new sync service.
func New(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher:  fetcher,
		folderID: DefaultFolderID,
		pageSize: DefaultPageSize,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report summarizes one sync run.
type Report struct {
	RunID           string
	RowsAdded       int
	RowsTotal       int
	RowsRemoved     int
	ReleasesSeen    int
	ReleasesSkipped int
	ReleasesFailed  int
	PagesFetched    int
	// Partial is set when paging stopped on an error before the last page.
	Partial    bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// StopWhenAddedBefore returns a predicate matching items added to the
// collection before cutoff. Items with an unparseable date never match.
func StopWhenAddedBefore(cutoff time.Time) func(discogs.CollectionItem) bool {
	return func(item discogs.CollectionItem) bool {
		added, err := time.Parse(time.RFC3339, item.DateAdded)
		if err != nil {
			return false
		}
		return added.Before(cutoff)
	}
}

// Sync runs one read-merge-write cycle against the dataset at path.
//
// The dataset is written once, atomically, after all fetching and merging is
// done. A failed release detail fetch contributes no rows and does not stop
// the run. A failed page fetch stops paging and marks the report partial;
// rejected credentials or a cancelled context abort the run without writing.
func (s *Service) Sync(ctx context.Context, path string) (*Report, error) {
	lockPath := s.lockPath
	if lockPath == "" {
		lockPath = path + ".lock"
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring sync lock: %w", err)
	}
	if !locked {
		return nil, ErrSyncInProgress
	}
	defer lock.Unlock()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
	}
	logger := s.logger.With("run_id", report.RunID, "dataset", path)

	existing, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	if len(existing.Backfilled) > 0 {
		logger.Info("dataset missing columns, filled with empty values", "columns", existing.Backfilled)
	}
	logger.Info("sync started", "existing_rows", existing.Len(), "folder", s.folderID)

	incoming, err := s.fetchRows(ctx, logger, existing, report)
	if err != nil {
		return nil, err
	}

	merged, stats := collection.Merge(existing, incoming)
	if err := dataset.Save(path, merged); err != nil {
		return nil, err
	}

	report.RowsAdded = stats.Added
	report.RowsRemoved = stats.Removed
	report.RowsTotal = merged.Len()
	report.FinishedAt = s.now()

	logger.Info("sync finished",
		"rows_added", report.RowsAdded,
		"rows_removed", report.RowsRemoved,
		"rows_total", report.RowsTotal,
		"releases_seen", report.ReleasesSeen,
		"releases_skipped", report.ReleasesSkipped,
		"releases_failed", report.ReleasesFailed,
		"pages", report.PagesFetched,
		"partial", report.Partial,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	)

	if s.mirror != nil {
		n, err := s.mirror.Mirror(ctx, merged.Rows)
		if err != nil {
			logger.Warn("mirroring dataset failed", "error", err)
		} else {
			logger.Info("dataset mirrored", "rows_inserted", n)
		}
	}

	return report, nil
}

// fetchRows pages through the collection and returns normalized rows for
// every qualifying release.
func (s *Service) fetchRows(ctx context.Context, logger *slog.Logger, existing collection.Dataset, report *Report) ([]collection.Row, error) {
	var known map[int]struct{}
	if s.skipKnown {
		known = existing.ReleaseIDs()
	}
	fetched := make(map[int]struct{})

	var rows []collection.Row
	for page := 1; ; page++ {
		items, totalPages, err := s.fetcher.ListCollectionPage(ctx, s.folderID, page, s.pageSize)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, discogs.ErrUnauthorized) {
				return nil, fmt.Errorf("listing collection: %w", err)
			}
			logger.Warn("collection page failed, stopping early", "page", page, "error", err)
			report.Partial = true
			return rows, nil
		}
		report.PagesFetched++

		stop := false
		for _, item := range items {
			if s.stopWhen != nil && s.stopWhen(item) {
				stop = true
			}

			info := item.BasicInformation
			report.ReleasesSeen++

			if !collection.Qualifies(info.Formats) {
				report.ReleasesSkipped++
				continue
			}
			if _, ok := known[info.ID]; ok {
				report.ReleasesSkipped++
				continue
			}
			if _, ok := fetched[info.ID]; ok {
				report.ReleasesSkipped++
				continue
			}
			fetched[info.ID] = struct{}{}

			detail, err := s.fetcher.GetReleaseDetail(ctx, info.ID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logger.Warn("release detail failed, skipping", "release_id", info.ID, "error", err)
				report.ReleasesFailed++
				continue
			}

			rows = append(rows, collection.NormalizeRelease(info, detail)...)
		}

		logger.Debug("collection page processed", "page", page, "pages", totalPages, "rows", len(rows))

		if page >= totalPages {
			break
		}
		if stop {
			logger.Info("stop condition met, not fetching further pages", "page", page, "pages", totalPages)
			break
		}
	}

	return rows, nil
}
