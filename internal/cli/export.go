package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iDrwish/trino-gsheets/internal/config"
	"github.com/iDrwish/trino-gsheets/internal/export"
	"github.com/iDrwish/trino-gsheets/internal/google"
	"github.com/iDrwish/trino-gsheets/internal/logger"
	"github.com/iDrwish/trino-gsheets/internal/retry"
	"github.com/iDrwish/trino-gsheets/internal/sheets"
	"github.com/iDrwish/trino-gsheets/internal/warehouse"
)

var (
	exportTitle     string
	exportBatchSize int
	exportFolder    string
)

var exportCmd = &cobra.Command{
	Use:   "export [query.sql]",
	Short: "Run a query and publish the result as a Google Sheet",
	Long: `Runs the SQL query in the given file against the configured Trino
warehouse, creates a new Google Sheet with the result, and moves the
sheet into the destination Drive folder.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "spreadsheet title (default: date-stamped)")
	exportCmd.Flags().IntVar(&exportBatchSize, "batch-size", sheets.DefaultBatchSize, "maximum rows per write request")
	exportCmd.Flags().StringVar(&exportFolder, "folder", "", "destination Drive folder ID (overrides DRIVE_FOLDER_ID)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.New(verboseFlag)

	cfg, err := config.Load(config.Options{EnvFile: envFileFlag, TOMLFile: configFileFlag})
	if err != nil {
		log.Error("Configuration error: %v", err)
		return err
	}

	folderID := cfg.Google.DriveFolderID
	if exportFolder != "" {
		folderID = exportFolder
	}

	ctx := cmd.Context()

	log.Info("Authenticating with Google")
	oauthCfg, err := google.LoadClientSecret(cfg.Google.ClientSecretFile)
	if err != nil {
		log.Error("Authentication error: %v", err)
		return err
	}
	auth := google.NewAuthenticator(oauthCfg, cfg.Google.TokenPath, log)
	ts, err := auth.TokenSource(ctx)
	if err != nil {
		log.Error("Authentication error: %v", err)
		return err
	}

	sheetsSvc, err := google.NewSheetsService(ctx, ts)
	if err != nil {
		return fmt.Errorf("create sheets service: %w", err)
	}
	driveSvc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return fmt.Errorf("create drive service: %w", err)
	}

	policy := retry.Default()
	sheetsLimiter := google.NewRateLimiter(google.ServiceSheets)
	driveLimiter := google.NewRateLimiter(google.ServiceDrive)

	runner := &export.Runner{
		Warehouse: warehouse.NewClient(cfg.Trino, log),
		Creator:   sheets.NewCreator(sheetsSvc, sheetsLimiter, policy, log),
		Writer:    sheets.NewWriter(sheets.NewAPISink(sheetsSvc, sheetsLimiter), exportBatchSize, policy, log),
		Mover:     sheets.NewMover(driveSvc, driveLimiter, policy, log),
		Log:       log,
		FolderID:  folderID,
		Title:     exportTitle,
	}

	spreadsheetID, err := runner.Run(ctx, args[0])
	if err != nil {
		log.Error("Export failed: %v", err)
		return err
	}

	cmd.Printf("Created spreadsheet %s\n", spreadsheetID)
	return nil
}
