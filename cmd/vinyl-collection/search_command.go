package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justestif/go-vinyl-collection/internal/collection"
	"github.com/justestif/go-vinyl-collection/internal/dataset"
	"github.com/justestif/go-vinyl-collection/internal/search"
)

// searchColumns are the dataset columns shown in the terminal table.
var searchColumns = []string{
	collection.ColArtist,
	collection.ColAlbumTitle,
	collection.ColTrackPosition,
	collection.ColTrackTitle,
	collection.ColProducer,
	collection.ColRemixer,
	collection.ColLabel,
	collection.ColCatalogNumber,
	collection.ColReleaseDate,
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var q search.Query
	var limit int
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter the dataset by column values",
		Long: `Every filter is a case-insensitive substring match on its column.
All filters given must match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ds, err := dataset.Load(cfg.Dataset.Path)
			if err != nil {
				return err
			}

			matched := search.Filter(ds.Rows, q)
			out := cmd.OutOrStdout()

			if asCSV {
				return dataset.Encode(out, collection.Dataset{Rows: matched, ExtraColumns: ds.ExtraColumns})
			}

			shown := matched
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			rows := make([][]string, len(shown))
			for i, r := range shown {
				cells := make([]string, len(searchColumns))
				for j, col := range searchColumns {
					cells[j] = r.Get(col)
				}
				rows[i] = cells
			}

			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(searchColumns, rows, nil))
			}
			fmt.Fprintf(out, "Showing %d of %d matching tracks (%d in dataset)\n", len(shown), len(matched), ds.Len())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&q.Artist, "artist", "", "Artist contains")
	flags.StringVar(&q.AlbumTitle, "album", "", "Album title contains")
	flags.StringVar(&q.TrackTitle, "track", "", "Track title contains")
	flags.StringVar(&q.Producer, "producer", "", "Producer contains")
	flags.StringVar(&q.Remixer, "remixer", "", "Remixer contains")
	flags.StringVar(&q.Label, "label", "", "Label contains")
	flags.StringVar(&q.CatalogNumber, "catalog", "", "Catalog number contains")
	flags.StringVar(&q.ReleaseDate, "release-date", "", "Release date contains")
	flags.IntVarP(&limit, "limit", "n", 50, "Maximum rows to print (0 for all)")
	flags.BoolVar(&asCSV, "csv", false, "Write every matching row as CSV instead of a table")
	return cmd
}
