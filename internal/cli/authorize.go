package cli

import (
	"github.com/spf13/cobra"

	"github.com/iDrwish/trino-gsheets/internal/config"
	"github.com/iDrwish/trino-gsheets/internal/google"
	"github.com/iDrwish/trino-gsheets/internal/logger"
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Run the Google authorisation flow and cache the token",
	Long: `Opens a browser to authorise access to Google Sheets and Drive, then
writes the resulting token to the configured token cache file. Later
runs reuse and refresh the cached token without user interaction.`,
	Args: cobra.NoArgs,
	RunE: runAuthorize,
}

func init() {
	rootCmd.AddCommand(authorizeCmd)
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	log := logger.New(verboseFlag)

	cfg, err := config.Load(config.Options{EnvFile: envFileFlag, TOMLFile: configFileFlag})
	if err != nil {
		log.Error("Configuration error: %v", err)
		return err
	}

	oauthCfg, err := google.LoadClientSecret(cfg.Google.ClientSecretFile)
	if err != nil {
		log.Error("Authentication error: %v", err)
		return err
	}

	auth := google.NewAuthenticator(oauthCfg, cfg.Google.TokenPath, log)
	if _, err := auth.Authorize(cmd.Context()); err != nil {
		log.Error("Authorisation failed: %v", err)
		return err
	}

	cmd.Printf("Authorisation complete. Token cached at %s\n", cfg.Google.TokenPath)
	return nil
}
