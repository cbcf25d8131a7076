package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/flowcoach-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot()
		if err != nil {
			return err
		}

		if err := database.Migrate(rt.db); err != nil {
			return err
		}

		rt.logger.Info().Msg("database migrated")
		return nil
	},
}
