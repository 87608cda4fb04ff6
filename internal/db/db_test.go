package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "bizdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizdash.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestTablePrefsRoundTrip(t *testing.T) {
	conn := openTestDB(t)

	prefs, err := GetTablePrefs(conn, "customers")
	require.NoError(t, err)
	assert.Equal(t, TablePrefs{}, prefs)

	want := TablePrefs{SortKey: "name", SortDesc: true, ActiveColumn: "email", HiddenColumns: []string{"phone"}}
	require.NoError(t, SaveTablePrefs(conn, "customers", want))
	got, err := GetTablePrefs(conn, "customers")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, SaveTablePrefs(conn, "customers", TablePrefs{SortKey: "email"}))
	got, err = GetTablePrefs(conn, "customers")
	require.NoError(t, err)
	assert.Equal(t, "email", got.SortKey)
	assert.False(t, got.SortDesc)
	assert.Empty(t, got.HiddenColumns)

	other, err := GetTablePrefs(conn, "materials")
	require.NoError(t, err)
	assert.Empty(t, other.SortKey)
}

func TestExportHistory(t *testing.T) {
	conn := openTestDB(t)

	_, ok, err := LastExport(conn)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = RecordExport(conn, ExportRecord{Screen: "time_entries", Format: "csv", Path: "/tmp/a.csv", RowCount: 3})
	require.NoError(t, err)
	id, err := RecordExport(conn, ExportRecord{Screen: "customers", Format: "json", Path: "/tmp/b.json", RowCount: 2})
	require.NoError(t, err)

	last, ok, err := LastExport(conn)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, last.ID)
	assert.Equal(t, "customers", last.Screen)
	assert.Equal(t, 2, last.RowCount)
	assert.False(t, last.CreatedAt.IsZero())

	recs, err := RecentExports(conn, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = RecordExport(conn, ExportRecord{Screen: "customers", Format: "xml", Path: "x"})
	assert.Error(t, err)
}
