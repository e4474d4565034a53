package schema

import (
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

// ScoreCollection holds the evaluation results of one model.
// Scores maps a metric key to its cross-validation fold results, Holdout maps a metric
// key to the single score measured on the held-out set.
type ScoreCollection struct {
	Model   string               `json:"model" yaml:"model"`
	Scores  map[string][]float64 `json:"scores" yaml:"scores"`
	Holdout map[string]float64   `json:"holdout,omitempty" yaml:"holdout,omitempty"`
}

// Metrics returns the metric keys of the fold scores.
func (s ScoreCollection) Metrics() []string {
	keys := make([]string, 0, len(s.Scores))
	for k := range s.Scores {
		keys = append(keys, k)
	}
	return keys
}

// HoldoutPoint is a held-out scalar drawn as a marker next to a model's box.
type HoldoutPoint struct {
	Model string  `json:"model"`
	Value float64 `json:"value"`
}

// MetricComparison is the aggregate behind both metric box charts.
type MetricComparison struct {
	Metric  string         `json:"metric"`
	Title   string         `json:"title"`
	Boxes   []BoxStats     `json:"boxes"`
	Holdout []HoldoutPoint `json:"holdout,omitempty"`
	// Folds keeps the raw fold scores per box, in box order.
	Folds [][]float64 `json:"folds"`
}

// Experiment is a named, ordered set of model score collections.
type Experiment struct {
	Name   string            `json:"name" yaml:"name"`
	Models []ScoreCollection `json:"models" yaml:"models"`
}

// Model returns the collection for a model name.
func (e Experiment) Model(name string) (ScoreCollection, bool) {
	for _, m := range e.Models {
		if m.Model == name {
			return m, true
		}
	}
	return ScoreCollection{}, false
}

// Metrics returns the sorted union of fold-score metric keys across all models.
func (e Experiment) Metrics() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, m := range e.Models {
		for k := range m.Scores {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}

// MetricLabel turns a machine metric key into a display label.
// Camel-case or dashed keys are first normalized to snake case. The leading token
// ("cv", "test", ...) is dropped when more than one token remains and the rest is
// uppercased: "cv_accuracy" -> "ACCURACY", "test_roc_auc" -> "ROC AUC".
func MetricLabel(key string) string {
	snake := strings.TrimSpace(key)
	// strcase splits digits into their own token, so plain snake keys like "cv_f1" skip it.
	if strings.ContainsAny(snake, "- ") || strings.ToLower(snake) != snake {
		snake = strcase.ToSnake(snake)
	}
	var tokens []string
	for t := range strings.SplitSeq(snake, "_") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) > 1 {
		tokens = tokens[1:]
	}
	for i, t := range tokens {
		tokens[i] = strings.ToUpper(t)
	}
	return strings.Join(tokens, " ")
}

// MetricTitle builds a chart title such as "LogReg ACCURACY Score".
func MetricTitle(prefix, key string) string {
	label := MetricLabel(key)
	if prefix == "" {
		return label + " Score"
	}
	return prefix + " " + label + " Score"
}
