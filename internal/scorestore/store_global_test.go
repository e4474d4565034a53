package scorestore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/churnviz/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.June, 10, 8, 30, 0, 0, time.UTC)

func TestClearStore(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "scores.db")
		store, err := NewScoreStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "nope.db"), ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	})

	t.Run("none is a no-op", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearStore("redis", "", ""))
	})
}

func TestScoreStoreManagerConcurrency(t *testing.T) {
	mgr := &ScoreStoreManager{}
	store := &MockScoreStore{}
	mgr.scores = store

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, store, mgr.GetScoreStore())
		}()
	}
	wg.Wait()
}

func TestExecuteStoreExport(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.RecordExperiment(sampleExperiment(), fixedTime)
	require.NoError(t, err)

	mgr := &MockStoreManager{}
	mgr.On("GetScoreStore").Return(store)

	output := filepath.Join(t.TempDir(), "export")
	var out bytes.Buffer
	require.NoError(t, ExecuteStoreExport(&out, mgr, output))
	assert.Contains(t, out.String(), "💾 Wrote 2 runs")
	assert.Contains(t, out.String(), "💾 Wrote 10 scores")

	runs, err := parquet.ReadFile[struct {
		Model string `parquet:"model"`
	}](output + ".runs.parquet")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "LogReg", runs[0].Model)

	mgr.AssertExpectations(t)
}

func TestExecuteStoreExportErrors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExecuteStoreExport(&bytes.Buffer{}, &MockStoreManager{}, "")
		assert.Error(t, err)
	})

	t.Run("empty store", func(t *testing.T) {
		store := &MockScoreStore{}
		store.On("GetStatus").Return(schema.StoreStatus{Backend: "sqlite", Connected: true}, nil)
		mgr := &MockStoreManager{}
		mgr.On("GetScoreStore").Return(store)

		err := ExecuteStoreExport(&bytes.Buffer{}, mgr, filepath.Join(t.TempDir(), "export"))
		assert.ErrorContains(t, err, "no score data")
		store.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockScoreStore{}
		store.On("GetStatus").Return(schema.StoreStatus{}, errors.New("boom"))
		mgr := &MockStoreManager{}
		mgr.On("GetScoreStore").Return(store)

		err := ExecuteStoreExport(&bytes.Buffer{}, mgr, filepath.Join(t.TempDir(), "export"))
		assert.ErrorContains(t, err, "boom")
	})
}
