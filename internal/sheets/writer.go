package sheets

import (
	"context"
	"fmt"

	"github.com/iDrwish/trino-gsheets/internal/google"
	"github.com/iDrwish/trino-gsheets/internal/logger"
	"github.com/iDrwish/trino-gsheets/internal/retry"
)

// DefaultBatchSize is the maximum number of rows (header included) sent
// in one values request, keeping payloads under the Sheets limits.
const DefaultBatchSize = 5000

// firstCell is the sink's first addressable cell.
const firstCell = "Sheet1!A1"

// Writer delivers a header row plus data rows to a spreadsheet,
// partitioning into consecutive chunks when the total exceeds
// BatchSize. Partitioning is purely a transport concern: read back in
// order, the sheet equals the header followed by the rows in their
// original order.
type Writer struct {
	sink      ValueSink
	batchSize int
	policy    retry.Policy
	log       *logger.Logger
}

// NewWriter creates a Writer. batchSize <= 0 selects DefaultBatchSize.
func NewWriter(sink ValueSink, batchSize int, policy retry.Policy, log *logger.Logger) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Writer{sink: sink, batchSize: batchSize, policy: policy, log: log}
}

// Write sends the header and rows to the spreadsheet. Within the batch
// threshold a single overwrite covers the full range; beyond it the
// first chunk overwrites at the starting range and every later chunk
// appends after previously written content. Each chunk write runs
// behind the retry policy; a chunk failure aborts the remaining chunks.
// Chunks already committed are not rolled back.
func (w *Writer) Write(ctx context.Context, spreadsheetID string, header []string, rows [][]any) error {
	values := make([][]any, 0, len(rows)+1)
	headerRow := make([]any, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	values = append(values, headerRow)
	values = append(values, rows...)

	if len(values) <= w.batchSize {
		err := w.policy.Do(ctx, "write values", google.IsTransient, func(ctx context.Context) error {
			return w.sink.Update(ctx, spreadsheetID, firstCell, values)
		})
		if err != nil {
			return fmt.Errorf("write data to sheet: %w", err)
		}
		w.log.Info("Successfully wrote %d rows to sheet", len(rows))
		return nil
	}

	batches := (len(values) + w.batchSize - 1) / w.batchSize
	w.log.Info("Data too large, splitting into %d batches", batches)

	for i := 0; i < batches; i++ {
		start := i * w.batchSize
		end := start + w.batchSize
		if end > len(values) {
			end = len(values)
		}
		chunk := values[start:end]

		op := fmt.Sprintf("write batch %d/%d", i+1, batches)
		var err error
		if i == 0 {
			err = w.policy.Do(ctx, op, google.IsTransient, func(ctx context.Context) error {
				return w.sink.Update(ctx, spreadsheetID, firstCell, chunk)
			})
		} else {
			rng := fmt.Sprintf("Sheet1!A%d", start+1)
			err = w.policy.Do(ctx, op, google.IsTransient, func(ctx context.Context) error {
				return w.sink.Append(ctx, spreadsheetID, rng, chunk)
			})
		}
		if err != nil {
			return fmt.Errorf("write data to sheet: %w", err)
		}
		w.log.Info("Batch %d/%d written", i+1, batches)
	}

	w.log.Info("Successfully wrote %d rows to sheet", len(rows))
	return nil
}
