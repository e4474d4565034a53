package scorestore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateStore_NoneBackend(t *testing.T) {
	err := MigrateStore(&bytes.Buffer{}, schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateStore_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")
	var out bytes.Buffer

	// Run migration to latest version
	require.NoError(t, MigrateStore(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 2")

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// Run migration again (should be a no-op)
	out.Reset()
	require.NoError(t, MigrateStore(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "No migration needed")

	// Step down to version 1
	out.Reset()
	require.NoError(t, MigrateStore(&out, schema.SQLiteBackend, dbPath, 1))
	assert.Contains(t, out.String(), "from version 2 to version 1")

	// Rollback to version 0
	out.Reset()
	require.NoError(t, MigrateStore(&out, schema.SQLiteBackend, dbPath, 0))
	assert.Contains(t, out.String(), "to version 0")

	// Migrate back up to the latest version
	require.NoError(t, MigrateStore(&out, schema.SQLiteBackend, dbPath, -1))
}

func TestMigrateStore_TablesUsableByStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrated.db")
	require.NoError(t, MigrateStore(&bytes.Buffer{}, schema.SQLiteBackend, dbPath, -1))

	store, err := NewScoreStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	exp := sampleExperiment()
	_, err = store.RecordExperiment(exp, fixedTime)
	require.NoError(t, err)

	loaded, err := store.LoadExperiment(exp.Name)
	require.NoError(t, err)
	assert.Equal(t, exp, loaded)

	experiments, err := store.ListExperiments()
	require.NoError(t, err)
	require.Len(t, experiments, 1)
	assert.True(t, fixedTime.Equal(experiments[0].LastRun))
}

func TestMigrateStore_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateStore(&bytes.Buffer{}, schema.SQLiteBackend, ":memory:", -1))
}
