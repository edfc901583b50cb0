package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/casos-demo/casos-core/internal/infrastructure/config"
	"github.com/casos-demo/casos-core/internal/infrastructure/database"
	"github.com/casos-demo/casos-core/migrations"
)

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect or roll back the user database schema",
		Long: `Schema migrations run automatically when the server starts.

Use "migrate status" to list applied and pending migrations and
"migrate down" to roll back the most recent one.`,
	}
	cmd.AddCommand(migrateStatusCmd(configPath))
	cmd.AddCommand(migrateDownCmd(configPath))
	return cmd
}

func migrateStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(getConfigPath(*configPath))
			if err != nil {
				return err
			}
			defer db.Close()

			applied, pending, err := db.MigrationStatus(cmd.Context(), migrations.FS)
			if err != nil {
				return err
			}
			printMigrationStatus(cmd.OutOrStdout(), applied, pending)
			return nil
		},
	}
}

func migrateDownCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(getConfigPath(*configPath))
			if err != nil {
				return err
			}
			defer db.Close()

			applied, _, err := db.MigrationStatus(cmd.Context(), migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
				return nil
			}
			if err := db.MigrateDown(cmd.Context(), migrations.FS); err != nil {
				return fmt.Errorf("rolling back: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", applied[len(applied)-1].Version)
			return nil
		},
	}
}

func openDatabase(configPath string) (*database.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func printMigrationStatus(w io.Writer, applied []database.MigrationRecord, pending []database.Migration) {
	for _, r := range applied {
		fmt.Fprintf(w, "applied  %s  %s\n", r.Version, r.AppliedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	for _, m := range pending {
		fmt.Fprintf(w, "pending  %s  %s\n", m.Version, m.Name)
	}
	if len(applied) == 0 && len(pending) == 0 {
		fmt.Fprintln(w, "no migrations")
	}
}
