package sheets

import (
	"context"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/iDrwish/trino-gsheets/internal/google"
	"github.com/iDrwish/trino-gsheets/internal/logger"
	"github.com/iDrwish/trino-gsheets/internal/retry"
)

// Creator creates new spreadsheets.
type Creator struct {
	svc     *sheetsapi.Service
	limiter *google.RateLimiter
	policy  retry.Policy
	log     *logger.Logger
}

// NewCreator creates a Creator around a Sheets service.
func NewCreator(svc *sheetsapi.Service, limiter *google.RateLimiter, policy retry.Policy, log *logger.Logger) *Creator {
	return &Creator{svc: svc, limiter: limiter, policy: policy, log: log}
}

// Create creates an empty spreadsheet with the given title and returns
// its ID. Transient API failures are retried.
func (c *Creator) Create(ctx context.Context, title string) (string, error) {
	c.log.Info("Creating new Google Sheet: %s", title)

	var spreadsheetID string
	err := c.policy.Do(ctx, "create sheet", google.IsTransient, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		body := &sheetsapi.Spreadsheet{
			Properties: &sheetsapi.SpreadsheetProperties{Title: title},
		}
		resp, err := c.svc.Spreadsheets.Create(body).Fields("spreadsheetId").Context(ctx).Do()
		if err != nil {
			return err
		}
		spreadsheetID = resp.SpreadsheetId
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}

	c.log.Info("Created spreadsheet with ID: %s", spreadsheetID)
	return spreadsheetID, nil
}
