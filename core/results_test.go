package core

import (
	"context"
	"testing"

	"github.com/huangsam/churnviz/internal/dataset"
	"github.com/huangsam/churnviz/internal/scorefile"
	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetValueCountsResults(t *testing.T) {
	cfg := testConfig(t).WithField("Gender")
	dist, err := GetValueCountsResults(context.Background(), cfg, dataset.NewFileLoader())
	require.NoError(t, err)

	total := 0
	for _, vc := range dist.Counts {
		total += vc.Count
	}
	assert.Equal(t, 20, total)
}

func TestGetCohortCountsResults(t *testing.T) {
	cfg := testConfig(t).WithField("Geography")
	counts, err := GetCohortCountsResults(context.Background(), cfg, dataset.NewFileLoader())
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Spain", "Germany"}, counts.Categories)
	require.Len(t, counts.Cohorts, 2)
	assert.Equal(t, schema.PositiveCohortLabel, counts.Cohorts[0].Cohort.Label)
}

func TestGetCorrelationResults(t *testing.T) {
	m, err := GetCorrelationResults(context.Background(), testConfig(t), dataset.NewFileLoader())
	require.NoError(t, err)
	require.NotEmpty(t, m.Fields)
	for i := range m.Fields {
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-9)
	}
}

func TestGetResultsRequireArguments(t *testing.T) {
	ctx := context.Background()
	loader := &dataset.MockTableLoader{}

	_, err := GetValueCountsResults(ctx, testConfig(t), loader)
	assert.ErrorContains(t, err, "field argument is required")

	_, err = GetCohortCountsResults(ctx, testConfig(t), loader)
	assert.ErrorContains(t, err, "field argument is required")

	_, err = GetMetricResults(ctx, testConfig(t), &scorefile.MockScoreLoader{}, nil)
	assert.ErrorContains(t, err, "metric argument is required")

	loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestGetMetricResults(t *testing.T) {
	scores := &scorefile.MockScoreLoader{}
	scores.On("LoadScores", mock.Anything, []string{"scores.yaml"}).Return(sampleExperiment(), nil)

	cfg := testConfig(t).WithMetric("cv_accuracy")
	cfg.ScoresPaths = []string{"scores.yaml"}
	cfg.Models = []string{"Forest", "LogReg"}

	cmp, err := GetMetricResults(context.Background(), cfg, scores, nil)
	require.NoError(t, err)
	require.Len(t, cmp.Boxes, 2)
	assert.Equal(t, "Forest", cmp.Boxes[0].Label)
	assert.InDelta(t, 0.86, cmp.Boxes[0].Median, 1e-9)
	scores.AssertExpectations(t)
}
