package internal

import (
	"bytes"
	"testing"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/assert"
)

func captureHeader(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := headerOut
	headerOut = &buf
	t.Cleanup(func() { headerOut = prev })
	return &buf
}

func TestLogChartHeader(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *contract.Config
		kind     schema.ChartKind
		contains []string
		excludes []string
	}{
		{
			name:     "with emojis",
			cfg:      &contract.Config{DataPath: "/data/churn.csv", Field: "Geography", OutcomeField: "Exited", PositiveValue: "1", UseEmojis: true},
			kind:     schema.BarChart,
			contains: []string{"📊 Chart: bar (Field: Geography)", "📁 Data: churn.csv (10 rows, outcome Exited == 1)"},
		},
		{
			name:     "without emojis",
			cfg:      &contract.Config{DataPath: "/data/churn.csv", OutcomeField: "Exited", PositiveValue: "1"},
			kind:     schema.CorrChart,
			contains: []string{"Chart: corr (Field: all fields)"},
			excludes: []string{"📊"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureHeader(t)
			LogChartHeader(tt.cfg, tt.kind, 10)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestLogScoresHeader(t *testing.T) {
	buf := captureHeader(t)
	LogScoresHeader(&contract.Config{Metric: "cv_accuracy", UseEmojis: true}, schema.ModelsChart, "churn-baseline", 3)
	assert.Contains(t, buf.String(), "📊 Chart: models (Metric: cv_accuracy)")
	assert.Contains(t, buf.String(), "🧪 Experiment: churn-baseline (3 models)")
}
