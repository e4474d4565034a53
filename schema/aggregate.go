package schema

// ValueCount is one category of a value-count aggregate.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Cohort identifies one of the two row subsets selected by the outcome field.
type Cohort struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CohortValueCounts holds the value counts of a field inside one cohort.
type CohortValueCounts struct {
	Cohort Cohort       `json:"cohort"`
	Counts []ValueCount `json:"counts"`
}

// CountOf returns the count for a category, or zero when the cohort never saw it.
func (c CohortValueCounts) CountOf(value string) int {
	for _, vc := range c.Counts {
		if vc.Value == value {
			return vc.Count
		}
	}
	return 0
}

// Total returns the number of rows in the cohort.
func (c CohortValueCounts) Total() int {
	total := 0
	for _, vc := range c.Counts {
		total += vc.Count
	}
	return total
}

// CohortCounts is the aggregate behind a cohort bar chart.
// Categories is the shared x axis, ordered by overall count.
type CohortCounts struct {
	Field      string              `json:"field"`
	Categories []string            `json:"categories"`
	Cohorts    []CohortValueCounts `json:"cohorts"`
}

// BoxStats is the five-number summary of one distribution plus Tukey whiskers.
type BoxStats struct {
	Label        string    `json:"label"`
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// CohortBoxes is the aggregate behind a cohort box plot.
type CohortBoxes struct {
	Field string     `json:"field"`
	Boxes []BoxStats `json:"boxes"`
}

// Histogram holds probability-normalized bin heights for one distribution.
// Edges has one more element than Probabilities.
type Histogram struct {
	Label         string    `json:"label"`
	N             int       `json:"n"`
	Edges         []float64 `json:"edges"`
	Probabilities []float64 `json:"probabilities"`
}

// CohortHistograms is the aggregate behind an overlaid cohort histogram.
// Every histogram shares the same edges.
type CohortHistograms struct {
	Field      string      `json:"field"`
	Histograms []Histogram `json:"histograms"`
}

// Distribution is the aggregate behind a pie chart.
type Distribution struct {
	Field  string       `json:"field"`
	Total  int          `json:"total"`
	Counts []ValueCount `json:"counts"`
}

// CorrelationMatrix is a square, symmetric matrix of Pearson coefficients.
// Undefined coefficients are NaN.
type CorrelationMatrix struct {
	Fields []string    `json:"fields"`
	Values [][]float64 `json:"values"`
}

// At returns the coefficient for a pair of field positions.
func (m CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}
