// Package dataset reads churn tables from CSV or Parquet files.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/parquet"
	"github.com/huangsam/churnviz/schema"
)

// FileLoader loads a table from a local file, picking the reader by extension.
type FileLoader struct{}

var _ contract.TableLoader = &FileLoader{} // Compile-time check

// NewFileLoader creates a new file loader.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load reads the file at path into a table.
// Files ending in .parquet are read as Parquet, everything else as CSV.
func (l *FileLoader) Load(ctx context.Context, path string) (*schema.Table, error) {
	if path == "" {
		return nil, errors.New("--data is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var table *schema.Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		table, err = parquet.ReadTable(file)
	default:
		table, err = ReadCSV(ctx, file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	if table.NumRows() == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", schema.ErrEmptyTable, filepath.Base(path))
	}
	return table, nil
}

// ReadCSV reads a header row followed by records. Rows may be shorter than the header
// (missing cells) but never longer.
func ReadCSV(ctx context.Context, r io.Reader) (*schema.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", schema.ErrEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		if len(record) > len(header) {
			return nil, fmt.Errorf("CSV line %d has %d fields, header has %d", line, len(record), len(header))
		}
		rows = append(rows, record)
	}
	return schema.NewTableFromRows(header, rows)
}
