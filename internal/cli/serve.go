package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/taskdesk/internal/api"
	"github.com/nhle/taskdesk/internal/auth"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := o.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.close()

			resolver, err := auth.NewResolver(ctx, e.cfg.Auth)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.cfg.Server.Addr
			}

			srv := api.NewServer(api.Deps{
				Store:       e.store,
				Engine:      e.engine,
				Calendar:    e.cal,
				Resolver:    resolver,
				Logger:      e.log,
				CORSOrigins: e.cfg.Server.CORSOrigins,
			})
			e.log.Info("starting taskdesk api", "driver", e.store.Dialect(), "auth", e.cfg.Auth.Mode)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
