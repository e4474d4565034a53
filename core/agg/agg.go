// Package agg has aggregation logic that turns a churn table or score collections
// into the small summaries each chart draws.
package agg

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/huangsam/churnviz/schema"
)

// CohortSpec selects the outcome field and the value that marks the positive cohort.
type CohortSpec struct {
	OutcomeField  string
	PositiveValue string
}

// DefaultCohortSpec returns the churn dataset defaults ("Exited" == "1").
func DefaultCohortSpec() CohortSpec {
	return CohortSpec{OutcomeField: schema.DefaultOutcomeField, PositiveValue: schema.DefaultPositiveValue}
}

// Labels returns the positive and negative cohort labels. The default outcome keeps
// the "Exited" and "Not exited" names; any other outcome is labeled "<field> = <value>".
func (s CohortSpec) Labels(positive, negative string) (string, string) {
	if s.OutcomeField == schema.DefaultOutcomeField {
		return schema.PositiveCohortLabel, schema.NegativeCohortLabel
	}
	return s.OutcomeField + " = " + positive, s.OutcomeField + " = " + negative
}

// cohortSplit holds row indexes of the positive and negative cohorts.
type cohortSplit struct {
	cohorts [2]schema.Cohort
	rows    [2][]int
}

// splitCohorts partitions the table rows by the outcome field.
// The outcome must have no missing values and exactly two distinct values, one of
// which is the positive value. The positive cohort always comes first.
func splitCohorts(table *schema.Table, spec CohortSpec) (*cohortSplit, error) {
	outcome, err := table.Column(spec.OutcomeField)
	if err != nil {
		return nil, fmt.Errorf("outcome field: %w", err)
	}
	if table.NumRows() == 0 {
		return nil, fmt.Errorf("%w: no rows to split", schema.ErrEmptyTable)
	}

	distinct := map[string]struct{}{}
	for i, v := range outcome.Values {
		if schema.IsMissing(v) {
			return nil, fmt.Errorf("%w: outcome %q is missing at row %d", schema.ErrUnsupportedCohortShape, spec.OutcomeField, i+1)
		}
		distinct[normalizeOutcome(v, outcome.Kind)] = struct{}{}
	}
	positive := normalizeOutcome(spec.PositiveValue, outcome.Kind)
	if len(distinct) != 2 {
		return nil, fmt.Errorf("%w: outcome %q has %d distinct values, expected 2", schema.ErrUnsupportedCohortShape, spec.OutcomeField, len(distinct))
	}
	if _, ok := distinct[positive]; !ok {
		return nil, fmt.Errorf("%w: outcome %q never equals positive value %q", schema.ErrUnsupportedCohortShape, spec.OutcomeField, spec.PositiveValue)
	}

	var negative string
	for v := range distinct {
		if v != positive {
			negative = v
		}
	}

	posLabel, negLabel := spec.Labels(positive, negative)
	split := &cohortSplit{cohorts: [2]schema.Cohort{
		{Label: posLabel, Value: positive},
		{Label: negLabel, Value: negative},
	}}
	for i, v := range outcome.Values {
		if normalizeOutcome(v, outcome.Kind) == positive {
			split.rows[0] = append(split.rows[0], i)
		} else {
			split.rows[1] = append(split.rows[1], i)
		}
	}
	return split, nil
}

// normalizeOutcome makes "1", "1.0" and "true" the same cohort for numeric outcomes.
func normalizeOutcome(v string, kind schema.ColumnKind) string {
	if kind == schema.NumericKind {
		if f, ok := schema.ParseNumber(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return v
}

// ValueCounts counts every value of a field over the whole table.
// Missing cells are counted under schema.MissingLabel so counts sum to the row count.
func ValueCounts(table *schema.Table, field string) (schema.Distribution, error) {
	col, err := table.Column(field)
	if err != nil {
		return schema.Distribution{}, err
	}
	if table.NumRows() == 0 {
		return schema.Distribution{}, fmt.Errorf("%w: cannot count %q", schema.ErrEmptyTable, field)
	}
	counts := countValues(col.Values, nil)
	return schema.Distribution{Field: field, Total: len(col.Values), Counts: counts}, nil
}

// CohortValueCounts counts the values of a field separately for each cohort.
// Categories is the union of all values ordered by overall count.
func CohortValueCounts(table *schema.Table, field string, spec CohortSpec) (schema.CohortCounts, error) {
	col, err := table.Column(field)
	if err != nil {
		return schema.CohortCounts{}, err
	}
	split, err := splitCohorts(table, spec)
	if err != nil {
		return schema.CohortCounts{}, err
	}

	result := schema.CohortCounts{Field: field}
	for _, vc := range countValues(col.Values, nil) {
		result.Categories = append(result.Categories, vc.Value)
	}
	for i, cohort := range split.cohorts {
		result.Cohorts = append(result.Cohorts, schema.CohortValueCounts{
			Cohort: cohort,
			Counts: countValues(col.Values, split.rows[i]),
		})
	}
	return result, nil
}

// countValues counts values at the given rows (all rows when rows is nil), sorted by
// count descending and value ascending, with percentages of the counted rows.
func countValues(values []string, rows []int) []schema.ValueCount {
	counts := map[string]int{}
	total := 0
	add := func(v string) {
		if schema.IsMissing(v) {
			v = schema.MissingLabel
		}
		counts[v]++
		total++
	}
	if rows == nil {
		for _, v := range values {
			add(v)
		}
	} else {
		for _, r := range rows {
			add(values[r])
		}
	}

	out := make([]schema.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, schema.ValueCount{Value: v, Count: c, Percent: 100 * float64(c) / float64(total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// cohortFloats returns the non-missing numbers of a numeric field for each cohort.
func cohortFloats(table *schema.Table, field string, spec CohortSpec) (*cohortSplit, [2][]float64, error) {
	var out [2][]float64
	col, err := table.Column(field)
	if err != nil {
		return nil, out, err
	}
	if col.Kind != schema.NumericKind {
		return nil, out, fmt.Errorf("%w: %q", schema.ErrNotNumeric, field)
	}
	split, err := splitCohorts(table, spec)
	if err != nil {
		return nil, out, err
	}
	values, ok := col.Floats()
	for i := range split.rows {
		for _, r := range split.rows[i] {
			if ok[r] {
				out[i] = append(out[i], values[r])
			}
		}
	}
	return split, out, nil
}
