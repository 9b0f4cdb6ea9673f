package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookwise/calsync/internal/config"
	"github.com/bookwise/calsync/internal/logging"
)

// rootCmd represents the base command for the calsync application
var rootCmd = &cobra.Command{
	Use:   "calsync",
	Short: "Mirrors booking records into Google Calendar",
	Long: `calsync keeps booking records in sync with Google Calendar: it creates,
updates and deletes calendar events that mirror booking state, and persists
the provider's event identifier and refreshed OAuth credentials back into
the relational store.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calsync version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the runtime configuration and installs the process
// logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newVersionCmd())
}
