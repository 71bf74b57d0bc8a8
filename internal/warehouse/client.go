// Package warehouse runs SQL against a Trino cluster and returns the
// result as an in-memory Table. It uses Trino's official database/sql
// driver over HTTPS with basic authentication.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	"github.com/trinodb/trino-go-client/trino"

	"github.com/iDrwish/trino-gsheets/internal/config"
	"github.com/iDrwish/trino-gsheets/internal/logger"
)

// Client executes queries against a single Trino catalog/schema.
type Client struct {
	cfg config.Trino
	log *logger.Logger
}

// NewClient creates a warehouse client from the Trino settings.
func NewClient(cfg config.Trino, log *logger.Logger) *Client {
	return &Client{cfg: cfg, log: log}
}

// Query opens a connection, runs the query, and drains the full result
// into a Table. The connection is scoped to this call and closed before
// returning. Failures wrap and return immediately; query errors are
// never retried.
func (c *Client) Query(ctx context.Context, query string) (*Table, error) {
	dsn, err := buildDSN(c.cfg)
	if err != nil {
		return nil, fmt.Errorf("build trino dsn: %w", err)
	}

	c.log.Info("Connecting to Trino at %s:%d", c.cfg.Host, c.cfg.Port)
	db, err := sql.Open("trino", dsn)
	if err != nil {
		return nil, fmt.Errorf("open trino connection: %w", err)
	}
	defer db.Close()

	c.log.Info("Executing SQL query")
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute trino query: %w", err)
	}
	defer rows.Close()

	table, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("read trino result: %w", err)
	}

	c.log.Info("Query executed successfully. Fetched %d rows", table.RowCount())
	return table, nil
}

// buildDSN assembles the driver DSN. Credentials ride in the server URI
// userinfo; the driver applies them as basic auth over HTTPS.
func buildDSN(cfg config.Trino) (string, error) {
	serverURL := url.URL{
		Scheme: "https",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	if cfg.Password != "" {
		serverURL.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		serverURL.User = url.User(cfg.User)
	}

	dsnCfg := &trino.Config{
		ServerURI: serverURL.String(),
		Catalog:   cfg.Catalog,
		Schema:    cfg.Schema,
		Source:    "trino-gsheets",
	}
	return dsnCfg.FormatDSN()
}

// scanRows drains a result set into a Table. Byte-slice cells (how the
// driver surfaces varchar/varbinary in some paths) become strings so
// the table holds only value types.
func scanRows(rows *sql.Rows) (*Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	table := &Table{Columns: columns}
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, cell := range cells {
			if b, ok := cell.([]byte); ok {
				cells[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return table, nil
}

// ReadSQLFile reads literal query text from a file. No templating.
func ReadSQLFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read SQL file %s: %w", path, err)
	}
	return string(data), nil
}
