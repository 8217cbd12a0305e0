package cli

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/tablescout"
)

// run invokes Main in-process with the sqlite3 default driver.
func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("SQLITE_URL", "")
	var out, errOut bytes.Buffer
	code = Main("tablescout-test", tablescout.DriverSQLite, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func newDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
CREATE TABLE stores (id INTEGER PRIMARY KEY, name TEXT, latitude REAL, longitude REAL);
INSERT INTO stores VALUES (1, 'East Village', 40.7306, -73.9352);
INSERT INTO stores VALUES (2, 'Hollywood', 34.0522, -118.2437);
INSERT INTO stores VALUES (3, 'City Hall', 40.7128, -74.0060);
CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);
`)
	require.NoError(t, err)
	return path
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "tablescout-test version: "+tablescout.Version)
}

func TestHelp(t *testing.T) {
	code, out, _ := run(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: tablescout-test")
	assert.Contains(t, out, "nearby")
	assert.Contains(t, out, "backup-all")
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := run(t, "foobar")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "foobar")
}

func TestMissingConnection(t *testing.T) {
	code, _, stderr := run(t, "--env-file", "", "tables")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "connection must be provided")
}

func TestDriverNotLinked(t *testing.T) {
	// Only the SQLite driver is registered in this test binary.
	code, _, stderr := run(t, "--driver", "pg", "--conn", "postgres://localhost/app", "tables")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid configuration")
	assert.Contains(t, stderr, "not registered in this binary")
}

func TestConfigFileError(t *testing.T) {
	code, _, stderr := run(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "tables")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "loading config file")
}

func TestTables(t *testing.T) {
	db := newDatabase(t)
	code, out, stderr := run(t, "--conn", db, "tables")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "stores\nusers\n", out)
}

func TestConnFromConfigFile(t *testing.T) {
	db := newDatabase(t)
	cfg := filepath.Join(t.TempDir(), "tablescout.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("conn: "+db+"\n"), 0o644))

	code, out, stderr := run(t, "--config", cfg, "tables")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "stores")
}

func TestNearby(t *testing.T) {
	db := newDatabase(t)
	code, out, stderr := run(t, "--conn", db, "nearby", "stores", "--lat", "40.7128", "--lng=-74.0060")
	require.Equal(t, 0, code, stderr)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "City Hall", got[0]["name"])
	assert.Equal(t, "East Village", got[1]["name"])
	assert.InDelta(t, 3.906, got[1]["distance_in_miles"], 0.2)
}

func TestNearbySchemaMismatch(t *testing.T) {
	db := newDatabase(t)
	code, _, stderr := run(t, "--conn", db, "nearby", "users", "--lat", "0", "--lng", "0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "required columns are not present")
}

func TestRecordsAndQuery(t *testing.T) {
	db := newDatabase(t)

	code, out, stderr := run(t, "--conn", db, "records", "stores", "--limit", "1", "--metadata")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, `"name": "East Village"`)
	assert.Contains(t, out, "Metadata:")

	code, out, stderr = run(t, "--conn", db, "query", "stores", "latitude < 35")
	require.Equal(t, 0, code, stderr)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Hollywood", got[0]["name"])
}

func TestColumnsUnknownTable(t *testing.T) {
	db := newDatabase(t)
	code, _, stderr := run(t, "--conn", db, "columns", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing")
	assert.Contains(t, stderr, "not found")
}

func TestBackupAll(t *testing.T) {
	db := newDatabase(t)
	dir := t.TempDir()
	code, out, stderr := run(t, "--conn", db, "backup-all", "--dir", dir, "--parallel", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, filepath.Join(dir, "stores.backup.sql"))
	assert.FileExists(t, filepath.Join(dir, "users.backup.sql"))
}

func TestGrep(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.sql"), []byte("INSERT INTO stores\nVALUES (1);\n"), 0o644))

	code, out, stderr := run(t, "grep", "stores", "--dir", dir)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "seed.sql:1\nINSERT INTO stores\nVALUES (1);")
}
