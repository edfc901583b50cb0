package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/casos-demo/casos-core/internal/auth"
)

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "casos",
		Short:   "Case-management backend",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Long: `casos serves the case-management REST API.

Cases live in memory and are seeded with demo data on startup. User
accounts live in SQLite. MQTT, InfluxDB and Redis are optional and
enabled in the config file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), getConfigPath(configPath))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CASOS_CONFIG or "+defaultConfigPath+")")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), getConfigPath(*configPath))
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print an Argon2id hash for security.demo_user.password_hash",
		Long: `Hash a password with the same Argon2id parameters the server uses.

Put the output in security.demo_user.password_hash to avoid keeping the
demo password in plain text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "casos %s\ncommit: %s\nbuilt:  %s\n", version, commit, date)
		},
	}
}
