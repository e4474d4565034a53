package agg

import (
	"fmt"
	"slices"

	"github.com/huangsam/churnviz/schema"
	"gonum.org/v1/gonum/stat"
)

// whiskerRange is the Tukey fence multiplier applied to the interquartile range.
const whiskerRange = 1.5

// BoxSummary computes the five-number summary, Tukey whiskers and outliers of values.
// An empty input yields a zero summary with N == 0.
func BoxSummary(label string, values []float64) schema.BoxStats {
	box := schema.BoxStats{Label: label, N: len(values)}
	if len(values) == 0 {
		return box
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	box.Min = sorted[0]
	box.Max = sorted[len(sorted)-1]
	box.Q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	box.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	box.Q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)

	iqr := box.Q3 - box.Q1
	lowFence := box.Q1 - whiskerRange*iqr
	highFence := box.Q3 + whiskerRange*iqr
	box.LowerWhisker = box.Max
	box.UpperWhisker = box.Min
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		box.LowerWhisker = min(box.LowerWhisker, v)
		box.UpperWhisker = max(box.UpperWhisker, v)
	}
	return box
}

// CohortBoxSummaries computes one box summary per cohort for a numeric field.
func CohortBoxSummaries(table *schema.Table, field string, spec CohortSpec) (schema.CohortBoxes, error) {
	split, values, err := cohortFloats(table, field, spec)
	if err != nil {
		return schema.CohortBoxes{}, err
	}
	result := schema.CohortBoxes{Field: field}
	for i, cohort := range split.cohorts {
		if len(values[i]) == 0 {
			return schema.CohortBoxes{}, fmt.Errorf("%w: %q has no values for cohort %q", schema.ErrEmptyTable, field, cohort.Label)
		}
		result.Boxes = append(result.Boxes, BoxSummary(cohort.Label, values[i]))
	}
	return result, nil
}
