package agg

import (
	"fmt"
	"math"

	"github.com/huangsam/churnviz/schema"
	"gonum.org/v1/gonum/stat"
)

// Correlation computes the Pearson correlation matrix of every numeric column.
// Each pair uses the rows where both values are present. The diagonal is 1 and the
// matrix is symmetric by construction; pairs without variance are NaN.
func Correlation(table *schema.Table) (schema.CorrelationMatrix, error) {
	columns := table.NumericColumns()
	if len(columns) == 0 || table.NumRows() == 0 {
		return schema.CorrelationMatrix{}, fmt.Errorf("%w: no numeric columns to correlate", schema.ErrEmptyTable)
	}

	n := len(columns)
	values := make([][]float64, n)
	present := make([][]bool, n)
	fields := make([]string, n)
	for i, c := range columns {
		fields[i] = c.Name
		values[i], present[i] = c.Floats()
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			r := pairwiseCorrelation(values[i], values[j], present[i], present[j])
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return schema.CorrelationMatrix{Fields: fields, Values: matrix}, nil
}

// pairwiseCorrelation correlates x and y over rows where both are present.
func pairwiseCorrelation(x, y []float64, okX, okY []bool) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for k := range x {
		if okX[k] && okY[k] {
			xs = append(xs, x[k])
			ys = append(ys, y[k])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
