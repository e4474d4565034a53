package schema

import "errors"

// Sentinel errors shared by aggregation and rendering. Callers wrap them with context
// and match with errors.Is.
var (
	// ErrUnknownField is returned when a requested field is absent from the table.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnsupportedCohortShape is returned when the outcome field does not split
	// the table into exactly two cohorts.
	ErrUnsupportedCohortShape = errors.New("unsupported cohort shape")

	// ErrPaletteExhausted is returned when more series are requested than the palette
	// holds and the overflow policy is "error".
	ErrPaletteExhausted = errors.New("palette exhausted")

	// ErrUnknownMetric is returned when a score collection has no scores for a metric.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrEmptyTable is returned when a table has no rows or no usable columns.
	ErrEmptyTable = errors.New("empty table")

	// ErrNotNumeric is returned when a numeric chart is requested for a categorical field.
	ErrNotNumeric = errors.New("field is not numeric")

	// ErrUnknownExperiment is returned when the score store has no runs for an experiment.
	ErrUnknownExperiment = errors.New("unknown experiment")

	// ErrUnknownModel is returned when a model name is absent from an experiment.
	ErrUnknownModel = errors.New("unknown model")
)
