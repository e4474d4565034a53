package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
)

// withOutput runs write against the selected output file (stdout when path is empty)
// and reports what was written once a real file is closed.
func withOutput(path, what string, write func(io.Writer) error) (err error) {
	file, err := contract.SelectOutputFile(path)
	if err != nil {
		return err
	}
	if file == os.Stdout {
		return write(file)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
		if err == nil {
			_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", what, path)
		}
	}()
	return write(file)
}

// encodeJSON writes v as indented JSON.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSV writes a header line and the records, then surfaces any buffered write error.
func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}
	return nil
}

// numberFormat renders aggregate values. Count charts print whole numbers in tables.
type numberFormat struct {
	precision int
	counts    bool
}

// formatFor returns the number format of a chart kind.
func formatFor(kind schema.ChartKind, precision int) numberFormat {
	return numberFormat{precision: precision, counts: kind == schema.BarChart || kind == schema.PieChart}
}

// fixed renders v with the configured number of decimals.
func (f numberFormat) fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', f.precision, 64)
}

// cell renders v for the text table.
func (f numberFormat) cell(v float64) string {
	if f.counts {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
	return f.fixed(v)
}
