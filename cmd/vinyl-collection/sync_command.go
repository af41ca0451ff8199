package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/justestif/go-vinyl-collection/internal/config"
	"github.com/justestif/go-vinyl-collection/internal/db"
	"github.com/justestif/go-vinyl-collection/internal/discogs"
	syncer "github.com/justestif/go-vinyl-collection/internal/sync"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge new vinyl releases from the Discogs collection into the dataset",
		Long: `Fetches the configured collection folder, keeps 12-inch vinyl releases,
and appends tracks that are not yet in the dataset. Existing rows are never
modified. The dataset is rewritten once, atomically, at the end of the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := syncOptions(cfg, logger, full, time.Now())

			database := openMirror(cmd.Context(), cfg, logger)
			if database != nil {
				defer database.Close()
				opts = append(opts, syncer.WithMirror(database))
			}

			client := discogs.NewClient(cfg.DiscogsConfig())
			report, err := syncer.New(client, opts...).Sync(cmd.Context(), cfg.Dataset.Path)
			if err != nil {
				if errors.Is(err, discogs.ErrUnauthorized) {
					return fmt.Errorf("discogs rejected the token for %s: %w", cfg.Discogs.Username, err)
				}
				return err
			}

			if database != nil {
				recordRun(cmd.Context(), database, report, logger)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
			if report.Partial {
				fmt.Fprintln(cmd.OutOrStdout(), "Paging stopped early on an error; run sync again to pick up the rest.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Read the whole folder and fetch every release, ignoring cutoff_days and skip_known_releases")
	return cmd
}

func syncOptions(cfg *config.Config, logger *slog.Logger, full bool, now time.Time) []syncer.Option {
	opts := []syncer.Option{
		syncer.WithFolder(cfg.Discogs.FolderID),
		syncer.WithPageSize(cfg.Discogs.PerPage),
		syncer.WithLogger(logger),
	}
	if full {
		return opts
	}
	if cutoff, ok := cfg.Cutoff(now); ok {
		opts = append(opts, syncer.WithStopWhen(syncer.StopWhenAddedBefore(cutoff)))
	}
	if cfg.Sync.SkipKnownReleases {
		opts = append(opts, syncer.WithSkipKnownReleases(true))
	}
	return opts
}

// openMirror connects to the configured database. A missing or unreachable
// database disables mirroring for this run.
func openMirror(ctx context.Context, cfg *config.Config, logger *slog.Logger) *db.DB {
	if cfg.Database.URL == "" {
		return nil
	}
	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Warn("database unavailable, mirror disabled", "error", err)
		return nil
	}
	if err := database.EnsureSchema(ctx); err != nil {
		logger.Warn("database schema setup failed, mirror disabled", "error", err)
		database.Close()
		return nil
	}
	return database
}

func recordRun(ctx context.Context, database *db.DB, report *syncer.Report, logger *slog.Logger) {
	id, err := uuid.Parse(report.RunID)
	if err != nil {
		id = uuid.New()
	}
	run := &db.SyncRun{
		ID:             id,
		RowsAdded:      report.RowsAdded,
		RowsRemoved:    report.RowsRemoved,
		RowsTotal:      report.RowsTotal,
		ReleasesSeen:   report.ReleasesSeen,
		ReleasesFailed: report.ReleasesFailed,
		Partial:        report.Partial,
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
	}
	if err := database.Runs().Create(ctx, run); err != nil {
		logger.Warn("recording sync run failed", "error", err)
	}
}

func renderReport(report *syncer.Report) string {
	rows := [][]string{
		{"Rows added", strconv.Itoa(report.RowsAdded)},
		{"Rows removed by cleanup", strconv.Itoa(report.RowsRemoved)},
		{"Rows total", strconv.Itoa(report.RowsTotal)},
		{"Releases seen", strconv.Itoa(report.ReleasesSeen)},
		{"Releases skipped", strconv.Itoa(report.ReleasesSkipped)},
		{"Releases failed", strconv.Itoa(report.ReleasesFailed)},
		{"Pages fetched", strconv.Itoa(report.PagesFetched)},
		{"Duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Sync", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
