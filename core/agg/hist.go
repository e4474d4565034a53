package agg

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/churnviz/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaxBins caps the number of histogram bins.
const MaxBins = 200

// SturgesBins returns the Sturges bin count for n observations.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// BinEdges returns bins+1 evenly spaced edges covering every value.
// The last edge sits just above the maximum so the maximum falls inside the last bin.
// Values must be finite; spans wider than the float range are stepped from the ends.
func BinEdges(values []float64, bins int) []float64 {
	lo, hi := floats.Min(values), floats.Max(values)
	if bins < 1 {
		bins = 1
	}
	if lo == hi {
		hi = lo + 1
		if hi == lo {
			lo = math.Nextafter(hi, math.Inf(-1))
		}
	}

	edges := make([]float64, bins+1)
	if math.IsInf(hi-lo, 0) {
		edges[0], edges[bins] = lo, hi
		for i := 1; i < bins; i++ {
			t := float64(i) / float64(bins)
			edges[i] = lo*(1-t) + hi*t
		}
	} else {
		floats.Span(edges, lo, hi)
	}
	if top := math.Nextafter(edges[bins], math.Inf(1)); !math.IsInf(top, 1) {
		edges[bins] = top
	}
	return edges
}

// ProbabilityHistogram counts values into the given edges and normalizes the counts
// by the number of values, so the probabilities sum to 1 when every value lies inside
// the edges. Values equal to the last edge count into the last bin.
func ProbabilityHistogram(label string, values, edges []float64) schema.Histogram {
	hist := schema.Histogram{Label: label, N: len(values), Edges: edges, Probabilities: make([]float64, len(edges)-1)}
	if len(values) == 0 {
		return hist
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	from, _ := slices.BinarySearch(sorted, edges[0])
	to, _ := slices.BinarySearch(sorted, edges[len(edges)-1])
	if from < to {
		stat.Histogram(hist.Probabilities, edges, sorted[from:to], nil)
	}
	for _, v := range sorted[to:] {
		if v == edges[len(edges)-1] {
			hist.Probabilities[len(hist.Probabilities)-1]++
		}
	}
	floats.Scale(1/float64(len(values)), hist.Probabilities)
	return hist
}

// CohortHistograms builds one probability histogram per cohort over shared edges.
// bins <= 0 selects the Sturges rule over both cohorts.
func CohortHistograms(table *schema.Table, field string, spec CohortSpec, bins int) (schema.CohortHistograms, error) {
	split, values, err := cohortFloats(table, field, spec)
	if err != nil {
		return schema.CohortHistograms{}, err
	}
	all := append(slices.Clone(values[0]), values[1]...)
	if len(all) == 0 {
		return schema.CohortHistograms{}, fmt.Errorf("%w: %q has no numeric values", schema.ErrEmptyTable, field)
	}
	if bins <= 0 {
		bins = SturgesBins(len(all))
	}
	bins = min(bins, MaxBins)

	edges := BinEdges(all, bins)
	result := schema.CohortHistograms{Field: field}
	for i, cohort := range split.cohorts {
		result.Histograms = append(result.Histograms, ProbabilityHistogram(cohort.Label, values[i], edges))
	}
	return result, nil
}
