package main

import (
	"github.com/spf13/cobra"

	"github.com/justestif/go-vinyl-collection/internal/web"
	assets "github.com/justestif/go-vinyl-collection/web"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the collection browsing UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Web.Addr
			}

			server, err := web.NewServer(web.ServerConfig{
				Addr:        addr,
				DatasetPath: cfg.Dataset.Path,
				TemplatesFS: assets.Templates(),
				StaticFS:    assets.Static(),
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides web.addr)")
	return cmd
}
