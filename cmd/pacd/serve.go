package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pacd/internal/infrastructure/server"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		host    string
		port    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP query API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			if host != "" {
				cfg.Server.Host = host
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if noWatch {
				cfg.PAC.Watch = false
			}

			srv, err := server.NewServer(cfg, opts.logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				opts.logger.Error("Server stopped", zap.Error(err))
				return err
			}
			opts.logger.Info("Shut down gracefully")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides HOST)")
	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload local scripts when they change")

	return cmd
}
