package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/justestif/go-vinyl-collection/internal/db"
)

var errNoDatabase = errors.New("database.url is not set; status needs the PostgreSQL mirror")

// mirrorStatus is the read side of the PostgreSQL mirror.
type mirrorStatus interface {
	LatestRun(ctx context.Context) (*db.SyncRun, error)
	RowCount(ctx context.Context) (int, error)
	ReleaseRecords(ctx context.Context, releaseID int64) ([]db.Record, error)
}

type dbStatus struct {
	database *db.DB
}

func (s dbStatus) LatestRun(ctx context.Context) (*db.SyncRun, error) {
	return s.database.Runs().Latest(ctx)
}

func (s dbStatus) RowCount(ctx context.Context) (int, error) {
	return s.database.Rows().Count(ctx)
}

func (s dbStatus) ReleaseRecords(ctx context.Context, releaseID int64) ([]db.Record, error) {
	return s.database.Rows().GetRelease(ctx, releaseID)
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var releaseID int64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the latest recorded sync and the mirrored row count",
		Long: `Reads the PostgreSQL mirror configured by database.url (or DATABASE_URL).
With --release, lists the mirrored tracks of that release instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errNoDatabase
			}

			database, err := db.New(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer database.Close()

			return writeStatus(cmd.Context(), cmd.OutOrStdout(), dbStatus{database: database}, releaseID)
		},
	}

	cmd.Flags().Int64Var(&releaseID, "release", 0, "List the mirrored tracks of this Discogs release id")
	return cmd
}

func writeStatus(ctx context.Context, out io.Writer, status mirrorStatus, releaseID int64) error {
	if releaseID > 0 {
		records, err := status.ReleaseRecords(ctx, releaseID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintf(out, "No mirrored tracks for release %d\n", releaseID)
			return nil
		}
		fmt.Fprintln(out, renderRecords(records))
		return nil
	}

	count, err := status.RowCount(ctx)
	if err != nil {
		return err
	}

	run, err := status.LatestRun(ctx)
	if errors.Is(err, db.ErrNotFound) {
		fmt.Fprintf(out, "No sync runs recorded yet (%d mirrored rows)\n", count)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, renderRun(run, count))
	return nil
}

func renderRun(run *db.SyncRun, mirrored int) string {
	partial := "no"
	if run.Partial {
		partial = "yes"
	}
	rows := [][]string{
		{"Run", run.ID.String()},
		{"Finished", run.FinishedAt.Format(time.RFC3339)},
		{"Rows added", strconv.Itoa(run.RowsAdded)},
		{"Rows removed by cleanup", strconv.Itoa(run.RowsRemoved)},
		{"Rows total", strconv.Itoa(run.RowsTotal)},
		{"Releases seen", strconv.Itoa(run.ReleasesSeen)},
		{"Releases failed", strconv.Itoa(run.ReleasesFailed)},
		{"Partial", partial},
		{"Mirrored rows", strconv.Itoa(mirrored)},
	}
	return renderTable([]string{"Latest sync", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderRecords(records []db.Record) string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{rec.TrackPosition, rec.TrackTitle, rec.Artist, rec.Producer, rec.Remixer}
	}
	return renderTable([]string{"Position", "Track Title", "Artist", "Producer", "Remixer"}, rows, nil)
}
