// Package cli wires the cobra commands for the exporter.
package cli

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag    bool
	envFileFlag    string
	configFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "trino-gsheets",
	Short: "Export Trino query results to Google Sheets",
	Long: `trino-gsheets runs a SQL query against a Trino warehouse and publishes
the result as a new Google Sheet, moving it into a target Drive folder.

Configuration comes from the environment (optionally seeded from a .env
file or a TOML config file); see the export command for the workflow.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "path to a .env file (defaults to ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&configFileFlag, "config", "", "path to a TOML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
