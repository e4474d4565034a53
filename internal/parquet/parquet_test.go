package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/churnviz/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRunRecords() []schema.RunRecord {
	recorded := time.Date(2025, time.March, 4, 12, 30, 0, 0, time.UTC)
	return []schema.RunRecord{
		{RunID: "run-1", BatchID: "batch-1", Experiment: "churn", Model: "LogReg", Position: 0, RecordedAt: recorded},
		{RunID: "run-2", BatchID: "batch-1", Experiment: "churn", Model: "Forest", Position: 1, RecordedAt: recorded},
	}
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	require.NotNil(t, s)

	for _, colName := range []string{"run_id", "batch_id", "experiment", "model", "position", "recorded_at"} {
		col, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := ConvertRunRecords(sampleRunRecords())

	require.NoError(t, WriteRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Run](file)
	defer func() { _ = reader.Close() }()

	readData := make([]Run, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].Model, readData[i].Model)
		assert.Equal(t, data[i].Position, readData[i].Position)
		assert.WithinDuration(t, data[i].RecordedAt, readData[i].RecordedAt, time.Nanosecond)
	}
}

func TestWriteScoresParquetHoldoutHasNoFold(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "scores.parquet")
	data := ConvertScoreRecords([]schema.ScoreRecord{
		{RunID: "run-1", Metric: "cv_accuracy", Fold: 0, Value: 0.81},
		{RunID: "run-1", Metric: "cv_accuracy", Fold: 1, Value: 0.83},
		{RunID: "run-1", Metric: "cv_accuracy", Fold: -1, Holdout: true, Value: 0.8},
	})
	require.NotNil(t, data[1].Fold)
	assert.Equal(t, int32(1), *data[1].Fold)
	assert.Nil(t, data[2].Fold)

	require.NoError(t, WriteScoresParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Score](file)
	defer func() { _ = reader.Close() }()

	readData := make([]Score, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)
	assert.Nil(t, readData[2].Fold)
	assert.True(t, readData[2].Holdout)
	assert.InDelta(t, 0.83, readData[1].Value, 1e-12)
}

func TestWriteRunsParquet_InvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}

func TestWriteAggregateRows(t *testing.T) {
	rows := []schema.AggregateRow{
		{Chart: "pie", Field: "Gender", Series: "Gender", Key: "Male", Value: 11},
		{Chart: "pie", Field: "Gender", Series: "Gender", Key: "Female", Value: 9},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteAggregateRows(&buf, rows))

	reader := parquet.NewGenericReader[schema.AggregateRow](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()

	readData := make([]schema.AggregateRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 2, n)
	assert.Equal(t, rows, readData)
}

type churnRow struct {
	Geography string   `parquet:"Geography"`
	Age       int64    `parquet:"Age"`
	Balance   *float64 `parquet:"Balance,optional"`
	Active    bool     `parquet:"IsActiveMember"`
	Exited    int32    `parquet:"Exited"`
}

func TestReadTable(t *testing.T) {
	balance := 125510.82
	rows := []churnRow{
		{Geography: "France", Age: 42, Balance: &balance, Active: true, Exited: 1},
		{Geography: "Spain", Age: 39, Balance: nil, Active: false, Exited: 0},
	}

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[churnRow](&buf)
	_, err := writer.Write(rows)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	table, err := ReadTable(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, []string{"Geography", "Age", "Balance", "IsActiveMember", "Exited"}, table.Names())

	geo, err := table.Column("Geography")
	require.NoError(t, err)
	assert.Equal(t, schema.CategoricalKind, geo.Kind)
	assert.Equal(t, []string{"France", "Spain"}, geo.Values)

	bal, err := table.Column("Balance")
	require.NoError(t, err)
	assert.Equal(t, schema.NumericKind, bal.Kind)
	assert.Equal(t, "", bal.Values[1])
	assert.Equal(t, []float64{balance}, bal.PresentFloats())

	active, err := table.Column("IsActiveMember")
	require.NoError(t, err)
	assert.Equal(t, schema.NumericKind, active.Kind)
	assert.Equal(t, []string{"true", "false"}, active.Values)

	exited, err := table.Column("Exited")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0"}, exited.Values)
}
