package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-gridgen/internal/server"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid page and JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch, err := a.orchestrator(orchestratorOptions{
				html: []vanilla.Option{vanilla.WithStylesheet("/assets/" + vanilla.StylesheetName)},
			})
			if err != nil {
				return err
			}

			listen := a.cfg.Server.Addr
			if addr != "" {
				listen = addr
			}
			srv, err := server.New(ctx, orch,
				server.WithAddr(listen),
				server.WithTimeouts(
					a.cfg.Server.ReadTimeout.Std(),
					a.cfg.Server.WriteTimeout.Std(),
					a.cfg.Server.ShutdownTimeout.Std(),
				),
				server.WithPage(a.cfg.Page.Title, a.cfg.Page.Intro),
				server.WithLogger(a.logger.Named("http")),
			)
			if err != nil {
				return err
			}

			a.logger.Info("starting gridgen", zap.String("addr", listen), zap.Stringer("model", orch.Model()))
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
