// Command migrate applies or reverts the embedded database schema.
package main

import (
	"fmt"
	"os"

	"github.com/JaimeStill/studybuddy/internal/config"
	"github.com/JaimeStill/studybuddy/internal/migrations"
	"github.com/JaimeStill/studybuddy/pkg/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var databaseURL string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the StudyBuddy database schema",
	Long: `migrate applies the schema migrations embedded in the service binary.

Connection settings come from config.toml, its SERVICE_ENV overlay, and the
DATABASE_* environment variables unless --database-url is given.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "pgx5:// connection URL (overrides configuration)")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			return printVersion(cmd, m)
		})
	},
}

func withMigrator(fn func(m *database.Migrator) error) error {
	url, err := resolveURL()
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(migrations.FS, migrations.Dir, url)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func resolveURL() (string, error) {
	if databaseURL != "" {
		return databaseURL, nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return "", err
	}
	return cfg.URL(), nil
}

func printVersion(cmd *cobra.Command, m *database.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
