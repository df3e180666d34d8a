package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobtracker/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply the embedded schema migrations to the configured PostgreSQL or SQLite database.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var applied []string
	switch cfg.DatabaseDriver {
	case store.DriverSQLite:
		db, err := sql.Open(store.DriverSQLite, cfg.DSN())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		applied, err = store.Migrate(cmd.Context(), db, store.DriverSQLite)
		if err != nil {
			return err
		}
	default:
		pg, err := store.OpenPostgres(cmd.Context(), cfg.DSN())
		if err != nil {
			return err
		}
		defer pg.Close()
		applied, err = pg.Migrate(cmd.Context())
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(applied) == 0 {
		_, _ = fmt.Fprintln(out, "Database is up to date")
		return nil
	}
	for _, name := range applied {
		_, _ = fmt.Fprintf(out, "Applied %s\n", name)
	}
	return nil
}
