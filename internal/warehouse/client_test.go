package warehouse

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iDrwish/trino-gsheets/internal/config"
)

func testTrinoConfig() config.Trino {
	return config.Trino{
		Host:     "warehouse.example.com",
		Port:     8443,
		User:     "analyst",
		Password: "secret",
		Catalog:  "hive",
		Schema:   "reporting",
	}
}

func TestBuildDSN_WithPassword(t *testing.T) {
	dsn, err := buildDSN(testTrinoConfig())

	require.NoError(t, err)
	assert.Contains(t, dsn, "https://")
	assert.Contains(t, dsn, "analyst:secret@warehouse.example.com:8443")
	assert.Contains(t, dsn, "catalog=hive")
	assert.Contains(t, dsn, "schema=reporting")
	assert.Contains(t, dsn, "source=trino-gsheets")
}

func TestBuildDSN_WithoutPassword(t *testing.T) {
	cfg := testTrinoConfig()
	cfg.Password = ""

	dsn, err := buildDSN(cfg)

	require.NoError(t, err)
	assert.Contains(t, dsn, "analyst@warehouse.example.com:8443")
	assert.NotContains(t, dsn, "secret")
}

func TestReadSQLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.sql")
	query := "SELECT id, name FROM users\nWHERE active = true\n"
	require.NoError(t, os.WriteFile(path, []byte(query), 0600))

	got, err := ReadSQLFile(path)

	require.NoError(t, err)
	assert.Equal(t, query, got)
}

func TestReadSQLFile_Missing(t *testing.T) {
	_, err := ReadSQLFile(filepath.Join(t.TempDir(), "absent.sql"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read SQL file")
}

// A minimal database/sql driver so scanRows can be exercised against a
// real *sql.Rows without a Trino server.

type stubDriver struct {
	rows *stubRows
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return &stubConn{rows: d.rows}, nil
}

type stubConn struct {
	rows *stubRows
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return &stubStmt{rows: c.rows}, nil
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type stubStmt struct {
	rows *stubRows
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return 0 }

func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("exec not supported")
}

func (s *stubStmt) Query([]driver.Value) (driver.Rows, error) {
	return s.rows, nil
}

type stubRows struct {
	cols []string
	data [][]driver.Value
	pos  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

func TestScanRows(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	rows := &stubRows{
		cols: []string{"id", "name", "created_at", "note"},
		data: [][]driver.Value{
			{int64(1), []byte("alice"), ts, nil},
			{int64(2), []byte("bob"), ts, []byte("hello")},
		},
	}
	sql.Register("stubtrino", &stubDriver{rows: rows})

	db, err := sql.Open("stubtrino", "ignored")
	require.NoError(t, err)
	defer db.Close()

	sqlRows, err := db.Query("SELECT 1")
	require.NoError(t, err)
	defer sqlRows.Close()

	table, err := scanRows(sqlRows)

	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "created_at", "note"}, table.Columns)
	require.Len(t, table.Rows, 2)

	// Byte slices are converted to strings, other values pass through.
	assert.Equal(t, []any{int64(1), "alice", ts, nil}, table.Rows[0])
	assert.Equal(t, []any{int64(2), "bob", ts, "hello"}, table.Rows[1])
}
