// Package parquet provides data structures and functions for moving churnviz data
// in and out of Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/churnviz/schema"
	"github.com/parquet-go/parquet-go"
)

// readBatch is the number of rows pulled per ReadRows call.
const readBatch = 1024

// Run represents one recorded model run.
// This struct maps to the churnviz_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// BatchID groups the runs written by one record call
	BatchID string `parquet:"batch_id,snappy"`

	// Experiment is the experiment the run belongs to
	Experiment string `parquet:"experiment,snappy"`

	// Model is the model name
	Model string `parquet:"model,snappy"`

	// Position is the order of the model inside the experiment
	Position int32 `parquet:"position,snappy"`

	// RecordedAt is when the run was recorded
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// Score represents one stored score.
// This struct maps to the churnviz_scores database table.
type Score struct {
	RunID   string  `parquet:"run_id,snappy"`
	Metric  string  `parquet:"metric,snappy"`
	Fold    *int32  `parquet:"fold,optional,snappy"` // nil for held-out scores
	Holdout bool    `parquet:"holdout,snappy"`
	Value   float64 `parquet:"value,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteScoresParquet writes a slice of Score structs to a Parquet file.
func WriteScoresParquet(data []Score, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteAggregateRows writes aggregate rows to w. The schema is derived from the
// parquet tags of schema.AggregateRow.
func WriteAggregateRows(w io.Writer, rows []schema.AggregateRow) error {
	writer := parquet.NewGenericWriter[schema.AggregateRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes data with a schema inferred from T.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ReadTable reads a flat Parquet file into a table. Every leaf column becomes a
// table column; null cells become missing values.
func ReadTable(r io.ReaderAt) (*schema.Table, error) {
	reader := parquet.NewReader(r)
	defer func() { _ = reader.Close() }()

	fields := reader.Schema().Fields()
	columns := make([]schema.Column, len(fields))
	for i, f := range fields {
		if !f.Leaf() {
			return nil, fmt.Errorf("nested column %q is not supported", f.Name())
		}
		columns[i] = schema.Column{Name: f.Name(), Values: make([]string, 0, reader.NumRows())}
	}

	rows := make([]parquet.Row, readBatch)
	for {
		n, err := reader.ReadRows(rows)
		for _, row := range rows[:n] {
			for _, v := range row {
				if c := v.Column(); c >= 0 && c < len(columns) {
					columns[c].Values = append(columns[c].Values, cellString(v))
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return schema.NewTable(columns...)
}

// cellString renders a Parquet value the way it would appear in a CSV cell.
func cellString(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	default:
		return string(v.ByteArray())
	}
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:      record.RunID,
			BatchID:    record.BatchID,
			Experiment: record.Experiment,
			Model:      record.Model,
			Position:   int32(record.Position),
			RecordedAt: record.RecordedAt,
		}
	}
	return result
}

// ConvertScoreRecords converts schema.ScoreRecord to Score for Parquet export.
func ConvertScoreRecords(records []schema.ScoreRecord) []Score {
	result := make([]Score, len(records))
	for i, record := range records {
		result[i] = Score{
			RunID:   record.RunID,
			Metric:  record.Metric,
			Holdout: record.Holdout,
			Value:   record.Value,
		}
		if !record.Holdout {
			fold := int32(record.Fold)
			result[i].Fold = &fold
		}
	}
	return result
}
