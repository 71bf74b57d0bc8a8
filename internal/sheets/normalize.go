// Package sheets delivers tabular data to a Google Sheet: value
// normalisation, batched writes, spreadsheet creation, and the Drive
// folder move.
package sheets

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iDrwish/trino-gsheets/internal/warehouse"
)

// Canonical string forms for temporal cells.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Normalize reduces every cell of the table to a JSON-encodable
// primitive: temporal values become canonical strings, nil stays nil as
// the explicit absence value, and anything that fails a trial encoding
// is coerced to its string representation. As a last resort, if the
// whole table still fails to encode, every column is coerced to string.
// The input table is never mutated; normalisation works on a copy.
func Normalize(t *warehouse.Table) *warehouse.Table {
	out := t.Clone()

	for col := range out.Columns {
		normalizeColumn(out, col)
	}

	// Whole-table trial encoding. Should always pass after the per-column
	// pass; the blanket coercion is the terminal fallback.
	if _, err := json.Marshal(out.Rows); err != nil {
		for col := range out.Columns {
			coerceColumn(out, col)
		}
	}

	return out
}

// normalizeColumn rewrites temporal cells, then trial-encodes the
// column and coerces it wholesale if any cell still fails.
func normalizeColumn(t *warehouse.Table, col int) {
	for _, row := range t.Rows {
		if col >= len(row) {
			continue
		}
		row[col] = normalizeCell(row[col])
	}

	column := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		if col < len(row) {
			column = append(column, row[col])
		}
	}
	if _, err := json.Marshal(column); err != nil {
		coerceColumn(t, col)
	}
}

// coerceColumn turns every non-nil cell of a column into its string
// representation. Nil cells stay nil; absence survives coercion.
func coerceColumn(t *warehouse.Table, col int) {
	for _, row := range t.Rows {
		if col >= len(row) || row[col] == nil {
			continue
		}
		row[col] = fmt.Sprint(row[col])
	}
}

// normalizeCell maps a single cell to its sink-safe form.
func normalizeCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(dateLayout)
		}
		return val.Format(dateTimeLayout)
	case *time.Time:
		if val == nil {
			return nil
		}
		return normalizeCell(*val)
	default:
		return v
	}
}
