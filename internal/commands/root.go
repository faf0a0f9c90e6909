package commands

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the top-level cashflow-gateway command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cashflow-gateway",
		Short: "Gateway and terminal client for the cash flow API",
		Long: "cashflow-gateway fronts the remote cash flow API with a session, " +
			"cached statistics and a serialized write queue.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (overrides CASHFLOW_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newLoginCommand(opts))
	root.AddCommand(newLogoutCommand(opts))
	root.AddCommand(newWhoAmICommand(opts))
	root.AddCommand(newStatsCommand(opts))
	root.AddCommand(newMigrateCommand(opts))

	return root
}
