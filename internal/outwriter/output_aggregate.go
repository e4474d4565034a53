package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// emptyCell marks a key that a series never saw.
const emptyCell = "-"

// pivot is the wide view of long-format rows: one line per key, one column per series.
type pivot struct {
	field  string
	series []string
	keys   []string
	cells  map[string]map[string]float64 // key -> series -> value
}

// pivotRows groups rows by key and series, keeping first-seen order for both.
func pivotRows(rows []schema.AggregateRow) pivot {
	p := pivot{cells: make(map[string]map[string]float64)}
	seenSeries := make(map[string]struct{})
	for _, r := range rows {
		if p.field == "" {
			p.field = r.Field
		}
		if _, ok := seenSeries[r.Series]; !ok {
			seenSeries[r.Series] = struct{}{}
			p.series = append(p.series, r.Series)
		}
		byKey, ok := p.cells[r.Key]
		if !ok {
			byKey = make(map[string]float64)
			p.cells[r.Key] = byKey
			p.keys = append(p.keys, r.Key)
		}
		byKey[r.Series] = r.Value
	}
	return p
}

// writeAggregateTable generates and writes the human-readable table.
func writeAggregateTable(w io.Writer, kind schema.ChartKind, rows []schema.AggregateRow, cfg *contract.Config) error {
	p := pivotRows(rows)
	format := formatFor(kind, cfg.Precision)
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	keyHeader := p.field
	if keyHeader == "" || kind == schema.CorrChart {
		keyHeader = "Key"
	}
	headers := []string{keyHeader}
	for _, s := range p.series {
		if cfg.UseColors {
			headers = append(headers, contract.GetColorLabel(s))
		} else {
			headers = append(headers, s)
		}
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 2. Populate Rows
	maxKey := getMaxTableKeyWidth(cfg, len(p.series))
	data := make([][]string, 0, len(p.keys))
	for _, key := range p.keys {
		row := []string{contract.TruncateLabel(key, maxKey)}
		for _, s := range p.series {
			if v, ok := p.cells[key][s]; ok {
				row = append(row, format.cell(v))
			} else {
				row = append(row, emptyCell)
			}
		}
		data = append(data, row)
	}

	// 3. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d %s rows across %d series\n", len(p.keys), kind, len(p.series)); err != nil {
		return err
	}
	return nil
}

// writeAggregateCSV writes the long-format rows in CSV format.
func writeAggregateCSV(w io.Writer, rows []schema.AggregateRow, format numberFormat) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Chart, r.Field, r.Series, r.Key, format.fixed(r.Value)})
	}
	return writeCSV(w, []string{"chart", "field", "series", "key", "value"}, records)
}
