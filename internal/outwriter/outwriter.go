// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/parquet"
	"github.com/huangsam/churnviz/schema"
	"golang.org/x/term"
)

// Aggregate is any chart aggregate that can be flattened into long-format rows.
// JSON output encodes the aggregate itself; every other format writes its rows.
type Aggregate interface {
	Rows() []schema.AggregateRow
}

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAggregate writes the aggregate behind a chart using the configured output format.
func (ow *OutWriter) WriteAggregate(kind schema.ChartKind, agg Aggregate, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.NoneOut:
		return nil
	case schema.JSONOut:
		return withOutput(cfg.OutputFile, "JSON", func(w io.Writer) error {
			return encodeJSON(w, agg)
		})
	case schema.CSVOut:
		return withOutput(cfg.OutputFile, "CSV", func(w io.Writer) error {
			return writeAggregateCSV(w, agg.Rows(), formatFor(kind, cfg.Precision))
		})
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("parquet output requires --output-file")
		}
		return withOutput(cfg.OutputFile, "Parquet", func(w io.Writer) error {
			return parquet.WriteAggregateRows(w, agg.Rows())
		})
	default:
		return withOutput(cfg.OutputFile, "table", func(w io.Writer) error {
			return writeAggregateTable(w, kind, agg.Rows(), cfg)
		})
	}
}

// getMaxTableKeyWidth calculates the maximum width for the key column in table output
// based on terminal width and the number of series columns.
func getMaxTableKeyWidth(cfg *contract.Config, numSeries int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Each series column holds a number plus padding and borders
	baseWidth := 14*numSeries + 10

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
