package schema

import (
	"encoding/json"
	"fmt"
	"math"
)

// AggregateRow is one long-format record of any aggregate.
// Every chart aggregate flattens into these rows for CSV and Parquet output.
type AggregateRow struct {
	Chart  string  `json:"chart" parquet:"chart"`
	Field  string  `json:"field" parquet:"field"`
	Series string  `json:"series" parquet:"series"`
	Key    string  `json:"key" parquet:"key"`
	Value  float64 `json:"value" parquet:"value"`
}

// Rows flattens the cohort counts, one row per cohort and category.
func (c CohortCounts) Rows() []AggregateRow {
	var rows []AggregateRow
	for _, cohort := range c.Cohorts {
		for _, vc := range cohort.Counts {
			rows = append(rows, AggregateRow{Chart: string(BarChart), Field: c.Field, Series: cohort.Cohort.Label, Key: vc.Value, Value: float64(vc.Count)})
		}
	}
	return rows
}

// Rows flattens the distribution, one row per category.
func (d Distribution) Rows() []AggregateRow {
	rows := make([]AggregateRow, 0, len(d.Counts))
	for _, vc := range d.Counts {
		rows = append(rows, AggregateRow{Chart: string(PieChart), Field: d.Field, Series: d.Field, Key: vc.Value, Value: float64(vc.Count)})
	}
	return rows
}

// Rows flattens the boxes, one row per statistic.
func (b CohortBoxes) Rows() []AggregateRow {
	return boxRows(string(BoxChart), b.Field, b.Boxes)
}

// Rows flattens the histograms, one row per bin keyed by its lower edge.
func (h CohortHistograms) Rows() []AggregateRow {
	var rows []AggregateRow
	for _, hist := range h.Histograms {
		for i, p := range hist.Probabilities {
			rows = append(rows, AggregateRow{Chart: string(HistChart), Field: h.Field, Series: hist.Label, Key: FormatEdge(hist.Edges[i]), Value: p})
		}
	}
	return rows
}

// Rows flattens the matrix, one row per defined cell.
func (m CorrelationMatrix) Rows() []AggregateRow {
	var rows []AggregateRow
	for i, a := range m.Fields {
		for j, b := range m.Fields {
			v := m.Values[i][j]
			if math.IsNaN(v) {
				continue
			}
			rows = append(rows, AggregateRow{Chart: string(CorrChart), Field: a, Series: a, Key: b, Value: v})
		}
	}
	return rows
}

// Rows flattens the metric comparison: box statistics followed by held-out points.
func (m MetricComparison) Rows() []AggregateRow {
	rows := boxRows(string(ModelsChart), m.Metric, m.Boxes)
	for _, h := range m.Holdout {
		rows = append(rows, AggregateRow{Chart: string(ModelsChart), Field: m.Metric, Series: h.Model, Key: "holdout", Value: h.Value})
	}
	return rows
}

func boxRows(chart, field string, boxes []BoxStats) []AggregateRow {
	var rows []AggregateRow
	for _, b := range boxes {
		for _, kv := range []struct {
			key   string
			value float64
		}{
			{"n", float64(b.N)},
			{"min", b.Min},
			{"q1", b.Q1},
			{"median", b.Median},
			{"q3", b.Q3},
			{"max", b.Max},
			{"lower_whisker", b.LowerWhisker},
			{"upper_whisker", b.UpperWhisker},
		} {
			rows = append(rows, AggregateRow{Chart: chart, Field: field, Series: b.Label, Key: kv.key, Value: kv.value})
		}
	}
	return rows
}

// FormatEdge renders a bin edge compactly for labels and keys.
func FormatEdge(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// MarshalJSON writes undefined coefficients as null, since JSON has no NaN.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				values[i][j] = &row[j]
			}
		}
	}
	return json.Marshal(struct {
		Fields []string     `json:"fields"`
		Values [][]*float64 `json:"values"`
	}{m.Fields, values})
}
