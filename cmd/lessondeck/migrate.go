package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lessondeck/internal/database"
	"github.com/at-ishikawa/lessondeck/schemas"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "db",
		Short: "Apply pending schema migrations to the progress database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			migrations, err := database.LoadMigrations(schemas.Migrations, "migrations")
			if err != nil {
				return fmt.Errorf("database.LoadMigrations > %w", err)
			}

			db, err := database.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()

			applied, err := database.Migrate(cmd.Context(), db, migrations)
			if err != nil {
				return fmt.Errorf("database.Migrate > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
			return nil
		},
	})
	return migrateCmd
}
