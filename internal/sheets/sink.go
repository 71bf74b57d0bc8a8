package sheets

import (
	"context"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/iDrwish/trino-gsheets/internal/google"
)

// ValueSink abstracts the two value operations the batched writer
// needs: a range-qualified overwrite and a range-qualified append.
type ValueSink interface {
	Update(ctx context.Context, spreadsheetID, valueRange string, values [][]any) error
	Append(ctx context.Context, spreadsheetID, valueRange string, values [][]any) error
}

// APISink implements ValueSink against the live Sheets API, throttled
// by a proactive rate limiter. Values go in RAW, untyped by Sheets.
type APISink struct {
	svc     *sheetsapi.Service
	limiter *google.RateLimiter
}

// NewAPISink creates a sink around a Sheets service.
func NewAPISink(svc *sheetsapi.Service, limiter *google.RateLimiter) *APISink {
	return &APISink{svc: svc, limiter: limiter}
}

// Update overwrites the given range with values.
func (s *APISink) Update(ctx context.Context, spreadsheetID, valueRange string, values [][]any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	body := &sheetsapi.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, valueRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		s.recordRateLimit(err)
		return fmt.Errorf("values update %s: %w", valueRange, err)
	}
	return nil
}

// Append inserts values after previously written content.
func (s *APISink) Append(ctx context.Context, spreadsheetID, valueRange string, values [][]any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	body := &sheetsapi.ValueRange{Values: values}
	_, err := s.svc.Spreadsheets.Values.Append(spreadsheetID, valueRange, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		s.recordRateLimit(err)
		return fmt.Errorf("values append %s: %w", valueRange, err)
	}
	return nil
}

func (s *APISink) recordRateLimit(err error) {
	if google.IsRateLimited(err) {
		s.limiter.RecordRateLimitError(0)
	}
}
