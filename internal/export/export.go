// Package export orchestrates the one-shot workflow: read the query,
// run it against the warehouse, normalise the result, create the sheet,
// write the values, and move the sheet into the destination folder.
// Execution is strictly sequential; any stage failing aborts the run
// and sink content already written stays as-is.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/iDrwish/trino-gsheets/internal/logger"
	"github.com/iDrwish/trino-gsheets/internal/sheets"
	"github.com/iDrwish/trino-gsheets/internal/warehouse"
)

// QueryRunner executes one SQL query and returns the full result.
type QueryRunner interface {
	Query(ctx context.Context, query string) (*warehouse.Table, error)
}

// SheetCreator creates an empty spreadsheet and returns its ID.
type SheetCreator interface {
	Create(ctx context.Context, title string) (string, error)
}

// SheetWriter delivers a header plus data rows to a spreadsheet.
type SheetWriter interface {
	Write(ctx context.Context, spreadsheetID string, header []string, rows [][]any) error
}

// FileMover relocates a Drive file into a folder.
type FileMover interface {
	Move(ctx context.Context, fileID, folderID string) error
}

// Runner wires the workflow stages together.
type Runner struct {
	Warehouse QueryRunner
	Creator   SheetCreator
	Writer    SheetWriter
	Mover     FileMover
	Log       *logger.Logger

	// FolderID is the destination Drive folder.
	FolderID string

	// Title names the spreadsheet. Empty selects a date-stamped default.
	Title string

	// Now is injectable for the default title. Defaults to time.Now.
	Now func() time.Time
}

// DefaultTitle returns the date-stamped spreadsheet name used when no
// title override is given.
func DefaultTitle(now time.Time) string {
	return fmt.Sprintf("%s Trino Export", now.Format("2006-01-02"))
}

// Run executes the full workflow for the query in sqlPath and returns
// the ID of the created spreadsheet.
func (r *Runner) Run(ctx context.Context, sqlPath string) (string, error) {
	r.Log.Info("Reading SQL query from %s", sqlPath)
	query, err := warehouse.ReadSQLFile(sqlPath)
	if err != nil {
		return "", err
	}

	table, err := r.Warehouse.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("warehouse query: %w", err)
	}

	r.Log.Info("Preparing data for serialization")
	prepared := sheets.Normalize(table)

	title := r.Title
	if title == "" {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		title = DefaultTitle(now())
	}

	spreadsheetID, err := r.Creator.Create(ctx, title)
	if err != nil {
		return "", err
	}

	if err := r.Writer.Write(ctx, spreadsheetID, prepared.Columns, prepared.Rows); err != nil {
		return "", err
	}

	if err := r.Mover.Move(ctx, spreadsheetID, r.FolderID); err != nil {
		return "", err
	}

	r.Log.Info("Export completed successfully")
	return spreadsheetID, nil
}
