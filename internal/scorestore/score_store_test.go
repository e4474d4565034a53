package scorestore

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleExperiment() schema.Experiment {
	return schema.Experiment{
		Name: "churn-baseline",
		Models: []schema.ScoreCollection{
			{
				Model:   "LogReg",
				Scores:  map[string][]float64{"cv_accuracy": {0.81, 0.79, 0.8}, "cv_roc_auc": {0.76, 0.77, 0.75}},
				Holdout: map[string]float64{"cv_accuracy": 0.805},
			},
			{
				Model:  "Forest",
				Scores: map[string][]float64{"cv_accuracy": {0.86, 0.85, 0.87}},
			},
		},
	}
}

func newSQLiteStore(t *testing.T) *ScoreStoreImpl {
	t.Helper()
	store, err := NewScoreStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*ScoreStoreImpl)
	require.True(t, ok)
	return impl
}

func TestScoreStore_NoneBackend(t *testing.T) {
	store, err := NewScoreStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	ids, err := store.RecordExperiment(sampleExperiment(), time.Now())
	assert.NoError(t, err)
	assert.Nil(t, ids)

	_, err = store.LoadExperiment("churn-baseline")
	assert.ErrorIs(t, err, schema.ErrUnknownExperiment)

	experiments, err := store.ListExperiments()
	assert.NoError(t, err)
	assert.Empty(t, experiments)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	assert.NoError(t, store.Close())
}

func TestScoreStore_UnsupportedBackend(t *testing.T) {
	_, err := NewScoreStore("redis", "")
	assert.Error(t, err)
}

func TestScoreStore_RecordAndLoad(t *testing.T) {
	store := newSQLiteStore(t)
	exp := sampleExperiment()

	ids, err := store.RecordExperiment(exp, time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	loaded, err := store.LoadExperiment(exp.Name)
	require.NoError(t, err)
	assert.Equal(t, exp, loaded)
}

func TestScoreStore_LoadLatestBatch(t *testing.T) {
	store := newSQLiteStore(t)
	exp := sampleExperiment()

	_, err := store.RecordExperiment(exp, time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rerun := schema.Experiment{
		Name: exp.Name,
		Models: []schema.ScoreCollection{
			{Model: "SVM", Scores: map[string][]float64{"cv_accuracy": {0.83, 0.84}}},
		},
	}
	_, err = store.RecordExperiment(rerun, time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	loaded, err := store.LoadExperiment(exp.Name)
	require.NoError(t, err)
	require.Len(t, loaded.Models, 1)
	assert.Equal(t, "SVM", loaded.Models[0].Model)
	assert.Nil(t, loaded.Models[0].Holdout)
}

func TestScoreStore_LoadUnknownExperiment(t *testing.T) {
	store := newSQLiteStore(t)
	_, err := store.LoadExperiment("missing")
	assert.ErrorIs(t, err, schema.ErrUnknownExperiment)
}

func TestScoreStore_RecordValidation(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.RecordExperiment(schema.Experiment{Models: sampleExperiment().Models}, time.Now())
	assert.Error(t, err)

	_, err = store.RecordExperiment(schema.Experiment{Name: "empty"}, time.Now())
	assert.ErrorIs(t, err, schema.ErrEmptyTable)
}

func TestScoreStore_ListAndStatus(t *testing.T) {
	store := newSQLiteStore(t)
	first := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	_, err := store.RecordExperiment(sampleExperiment(), first)
	require.NoError(t, err)
	_, err = store.RecordExperiment(sampleExperiment(), second)
	require.NoError(t, err)
	_, err = store.RecordExperiment(schema.Experiment{
		Name:   "alt",
		Models: []schema.ScoreCollection{{Model: "Tree", Scores: map[string][]float64{"cv_f1": {0.5}}}},
	}, first)
	require.NoError(t, err)

	experiments, err := store.ListExperiments()
	require.NoError(t, err)
	require.Len(t, experiments, 2)
	assert.Equal(t, "alt", experiments[0].Experiment)
	assert.Equal(t, "churn-baseline", experiments[1].Experiment)
	assert.Equal(t, 2, experiments[1].Models)
	assert.Equal(t, 2, experiments[1].Runs)
	assert.True(t, second.Equal(experiments[1].LastRun), "last run should be %s, got %s", second, experiments[1].LastRun)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 5, status.TotalRuns)
	assert.Equal(t, 2, status.TotalExperiments)
	assert.True(t, second.Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, int64(5), status.TableSizes[runsTable])
	// 10 scores per baseline recording, 1 for alt
	assert.Equal(t, int64(21), status.TableSizes[scoresTable])

	var buf bytes.Buffer
	PrintStoreStatus(&buf, status)
	assert.Contains(t, buf.String(), "Total Runs: 5")
	assert.Contains(t, buf.String(), "churnviz_scores: 21 rows")

	buf.Reset()
	PrintExperiments(&buf, experiments)
	assert.Contains(t, buf.String(), "churn-baseline: 2 models, 2 recordings")
}

func TestScoreStore_GetAllRecords(t *testing.T) {
	store := newSQLiteStore(t)
	ids, err := store.RecordExperiment(sampleExperiment(), time.Now())
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "LogReg", runs[0].Model)
	assert.Equal(t, 0, runs[0].Position)
	assert.Equal(t, runs[0].BatchID, runs[1].BatchID)

	scores, err := store.GetAllScores()
	require.NoError(t, err)
	require.Len(t, scores, 10)

	holdouts := 0
	for _, s := range scores {
		if s.Holdout {
			holdouts++
			assert.Equal(t, ids[0], s.RunID)
			assert.Equal(t, -1, s.Fold)
		}
	}
	assert.Equal(t, 1, holdouts)
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`churnviz_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"churnviz_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"churnviz_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
}

func TestRebind(t *testing.T) {
	query := "SELECT a FROM t WHERE b = ? AND c = ?"
	assert.Equal(t, query, rebind(query, schema.SQLiteBackend))
	assert.Equal(t, query, rebind(query, schema.MySQLBackend))
	assert.Equal(t, "SELECT a FROM t WHERE b = $1 AND c = $2", rebind(query, schema.PostgreSQLBackend))
}

func TestGetCreateQueries(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains []string
	}{
		{schema.SQLiteBackend, []string{`"churnviz_runs"`, "recorded_at TEXT"}},
		{schema.MySQLBackend, []string{"`churnviz_runs`", "recorded_at DATETIME"}},
		{schema.PostgreSQLBackend, []string{`"churnviz_runs"`, "recorded_at TIMESTAMPTZ"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			query := getCreateRunsQuery(tt.backend)
			for _, s := range tt.contains {
				assert.Contains(t, query, s)
			}
			assert.Contains(t, getCreateScoresQuery(tt.backend), "PRIMARY KEY (run_id, metric, fold)")
		})
	}
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	for _, src := range []any{want, "2025-05-01T09:00:00Z", []byte("2025-05-01 09:00:00")} {
		var got time.Time
		require.NoError(t, dbTime{&got}.Scan(src))
		assert.True(t, want.Equal(got), "scan %v", src)
	}

	var got time.Time
	assert.Error(t, dbTime{&got}.Scan(42))
	assert.Error(t, dbTime{&got}.Scan("yesterday"))
}
