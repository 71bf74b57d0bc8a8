package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iDrwish/trino-gsheets/internal/logger"
	"github.com/iDrwish/trino-gsheets/internal/warehouse"
)

type fakeWarehouse struct {
	query string
	table *warehouse.Table
	err   error
}

func (f *fakeWarehouse) Query(_ context.Context, query string) (*warehouse.Table, error) {
	f.query = query
	return f.table, f.err
}

type fakeCreator struct {
	title string
	id    string
	err   error
}

func (f *fakeCreator) Create(_ context.Context, title string) (string, error) {
	f.title = title
	return f.id, f.err
}

type fakeWriter struct {
	id     string
	header []string
	rows   [][]any
	err    error
}

func (f *fakeWriter) Write(_ context.Context, id string, header []string, rows [][]any) error {
	f.id = id
	f.header = header
	f.rows = rows
	return f.err
}

type fakeMover struct {
	fileID   string
	folderID string
	err      error
}

func (f *fakeMover) Move(_ context.Context, fileID, folderID string) error {
	f.fileID = fileID
	f.folderID = folderID
	return f.err
}

func writeSQLFile(t *testing.T, query string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte(query), 0600))
	return path
}

func testRunner() (*Runner, *fakeWarehouse, *fakeCreator, *fakeWriter, *fakeMover) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	wh := &fakeWarehouse{table: &warehouse.Table{
		Columns: []string{"id", "created_at"},
		Rows:    [][]any{{int64(1), ts}, {int64(2), nil}},
	}}
	creator := &fakeCreator{id: "sheet-123"}
	writer := &fakeWriter{}
	mover := &fakeMover{}
	r := &Runner{
		Warehouse: wh,
		Creator:   creator,
		Writer:    writer,
		Mover:     mover,
		Log:       logger.NewWithWriter(&bytes.Buffer{}, false),
		FolderID:  "folder-9",
		Now:       func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) },
	}
	return r, wh, creator, writer, mover
}

func TestRun_HappyPath(t *testing.T) {
	r, wh, creator, writer, mover := testRunner()
	sqlPath := writeSQLFile(t, "SELECT id, created_at FROM events")

	id, err := r.Run(context.Background(), sqlPath)

	require.NoError(t, err)
	assert.Equal(t, "sheet-123", id)
	assert.Equal(t, "SELECT id, created_at FROM events", wh.query)
	assert.Equal(t, "2024-03-15 Trino Export", creator.title)
	assert.Equal(t, "sheet-123", writer.id)
	assert.Equal(t, []string{"id", "created_at"}, writer.header)
	assert.Equal(t, "sheet-123", mover.fileID)
	assert.Equal(t, "folder-9", mover.folderID)
}

func TestRun_NormalizesBeforeWriting(t *testing.T) {
	r, _, _, writer, _ := testRunner()
	sqlPath := writeSQLFile(t, "SELECT 1")

	_, err := r.Run(context.Background(), sqlPath)

	require.NoError(t, err)
	require.Len(t, writer.rows, 2)
	assert.Equal(t, "2024-03-15 10:30:00", writer.rows[0][1], "timestamp normalised to canonical string")
	assert.Nil(t, writer.rows[1][1], "null stays explicit")
}

func TestRun_TitleOverride(t *testing.T) {
	r, _, creator, _, _ := testRunner()
	r.Title = "Weekly Numbers"
	sqlPath := writeSQLFile(t, "SELECT 1")

	_, err := r.Run(context.Background(), sqlPath)

	require.NoError(t, err)
	assert.Equal(t, "Weekly Numbers", creator.title)
}

func TestRun_MissingSQLFile(t *testing.T) {
	r, wh, _, _, _ := testRunner()

	_, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "absent.sql"))

	require.Error(t, err)
	assert.Empty(t, wh.query, "query must not run without the SQL text")
}

func TestRun_QueryFailureAborts(t *testing.T) {
	r, wh, creator, _, _ := testRunner()
	wh.err = errors.New("connection refused")
	sqlPath := writeSQLFile(t, "SELECT 1")

	_, err := r.Run(context.Background(), sqlPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse query")
	assert.Empty(t, creator.title, "sheet must not be created after a query failure")
}

func TestRun_CreateFailureAborts(t *testing.T) {
	r, _, creator, writer, _ := testRunner()
	creator.err = errors.New("quota exceeded")
	sqlPath := writeSQLFile(t, "SELECT 1")

	_, err := r.Run(context.Background(), sqlPath)

	require.Error(t, err)
	assert.Empty(t, writer.id, "write must not run after a create failure")
}

func TestRun_WriteFailureAbortsMove(t *testing.T) {
	r, _, _, writer, mover := testRunner()
	writer.err = errors.New("batch 2 failed")
	sqlPath := writeSQLFile(t, "SELECT 1")

	_, err := r.Run(context.Background(), sqlPath)

	require.Error(t, err)
	assert.Empty(t, mover.fileID, "move must not run after a write failure")
}

func TestRun_MoveFailureSurfaces(t *testing.T) {
	r, _, _, _, mover := testRunner()
	mover.err = errors.New("folder not found")
	sqlPath := writeSQLFile(t, "SELECT 1")

	_, err := r.Run(context.Background(), sqlPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "folder not found")
}

func TestDefaultTitle(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31 Trino Export", DefaultTitle(now))
}
