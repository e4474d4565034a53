package agg

import (
	"errors"
	"testing"

	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreCollection(model string, folds []float64, holdout float64) schema.ScoreCollection {
	return schema.ScoreCollection{
		Model:   model,
		Scores:  map[string][]float64{"cv_accuracy": folds},
		Holdout: map[string]float64{"cv_accuracy": holdout},
	}
}

func TestCompareMetricScenario(t *testing.T) {
	baseline := scoreCollection("base", []float64{0.80, 0.81, 0.79, 0.82, 0.80}, 0.8)
	balanced := scoreCollection("bal", []float64{0.74, 0.75, 0.76, 0.73, 0.75}, 0.75)

	cmp, err := CompareMetric("cv_accuracy", schema.DefaultCompareTitlePrefix, baseline, balanced,
		[2]string{schema.DefaultBaselineLabel, schema.DefaultBalancedLabel})
	require.NoError(t, err)
	require.Len(t, cmp.Boxes, 2)
	assert.Contains(t, cmp.Title, "ACCURACY")
	assert.Equal(t, "LogReg ACCURACY Score", cmp.Title)
	assert.Equal(t, "Not Balanced", cmp.Boxes[0].Label)
	assert.Equal(t, "Balanced", cmp.Boxes[1].Label)
	assert.Equal(t, 5, cmp.Boxes[0].N)
	assert.Empty(t, cmp.Holdout, "two-model comparison draws no holdout markers")
}

func TestModelsMetric(t *testing.T) {
	models := []schema.ScoreCollection{
		scoreCollection("LogReg", []float64{0.8, 0.82, 0.81}, 0.805),
		scoreCollection("Forest", []float64{0.86, 0.85, 0.87}, 0.862),
		{Model: "Tree", Scores: map[string][]float64{"cv_accuracy": {0.78, 0.79}}},
	}
	cmp, err := ModelsMetric("cv_accuracy", schema.DefaultModelsTitlePrefix, models)
	require.NoError(t, err)
	assert.Equal(t, "Models ACCURACY Score", cmp.Title)
	require.Len(t, cmp.Boxes, 3)
	assert.Equal(t, []string{"LogReg", "Forest", "Tree"}, []string{cmp.Boxes[0].Label, cmp.Boxes[1].Label, cmp.Boxes[2].Label})
	assert.Equal(t, []schema.HoldoutPoint{{Model: "LogReg", Value: 0.805}, {Model: "Forest", Value: 0.862}}, cmp.Holdout)
	assert.Equal(t, []float64{0.78, 0.79}, cmp.Folds[2])
}

func TestMetricErrors(t *testing.T) {
	models := []schema.ScoreCollection{scoreCollection("LogReg", []float64{0.8}, 0.8)}
	_, err := ModelsMetric("cv_recall", "Models", models)
	assert.True(t, errors.Is(err, schema.ErrUnknownMetric))
	assert.Contains(t, err.Error(), "LogReg")

	_, err = ModelsMetric("cv_accuracy", "Models", nil)
	assert.True(t, errors.Is(err, schema.ErrEmptyTable))

	_, err = CompareMetric("cv_recall", "LogReg", models[0], models[0], [2]string{"a", "b"})
	assert.True(t, errors.Is(err, schema.ErrUnknownMetric))
}
