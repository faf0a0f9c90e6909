package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carson-networks/cashflow-gateway/api"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, port string) error {
	cfg, logger, err := loadConfig(opts, nil)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	logger.Info("cashflow-gateway starting")

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	rest := api.Rest{
		Logger:   logger,
		Port:     cfg.Port,
		Service:  a.svc,
		Sessions: a.session,
	}
	return rest.Serve(ctx)
}
