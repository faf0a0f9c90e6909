package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/cashflow-gateway/internal/storage"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply session database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := storage.RunMigrations(cfg.SessionDBPath)
			if err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"preMigrationVersion":  result.PreMigrationVersion,
				"postMigrationVersion": result.PostMigrationVersion,
			}).Info("Migration status")
			fmt.Fprintf(cmd.OutOrStdout(), "session database at version %d\n", result.PostMigrationVersion)
			return nil
		},
	}
}
