package agg

import (
	"fmt"

	"github.com/huangsam/churnviz/schema"
)

// CompareMetric summarizes one metric for a baseline and a rebalanced score collection.
// The boxes are labeled with the given labels in that order.
func CompareMetric(metric, titlePrefix string, baseline, balanced schema.ScoreCollection, labels [2]string) (schema.MetricComparison, error) {
	result := schema.MetricComparison{Metric: metric, Title: schema.MetricTitle(titlePrefix, metric)}
	for i, sc := range []schema.ScoreCollection{baseline, balanced} {
		folds, err := foldScores(sc, metric)
		if err != nil {
			return schema.MetricComparison{}, err
		}
		result.Boxes = append(result.Boxes, BoxSummary(labels[i], folds))
		result.Folds = append(result.Folds, folds)
	}
	return result, nil
}

// ModelsMetric summarizes one metric for every model in order. Models with a held-out
// score for the metric also contribute a holdout point.
func ModelsMetric(metric, titlePrefix string, models []schema.ScoreCollection) (schema.MetricComparison, error) {
	if len(models) == 0 {
		return schema.MetricComparison{}, fmt.Errorf("%w: no models to compare", schema.ErrEmptyTable)
	}
	result := schema.MetricComparison{Metric: metric, Title: schema.MetricTitle(titlePrefix, metric)}
	for _, sc := range models {
		folds, err := foldScores(sc, metric)
		if err != nil {
			return schema.MetricComparison{}, err
		}
		result.Boxes = append(result.Boxes, BoxSummary(sc.Model, folds))
		result.Folds = append(result.Folds, folds)
		if v, ok := sc.Holdout[metric]; ok {
			result.Holdout = append(result.Holdout, schema.HoldoutPoint{Model: sc.Model, Value: v})
		}
	}
	return result, nil
}

func foldScores(sc schema.ScoreCollection, metric string) ([]float64, error) {
	folds, ok := sc.Scores[metric]
	if !ok || len(folds) == 0 {
		return nil, fmt.Errorf("%w: %q has no %q scores", schema.ErrUnknownMetric, sc.Model, metric)
	}
	return folds, nil
}
