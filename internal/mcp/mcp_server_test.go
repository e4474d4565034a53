package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/dataset"
	mcp_internal "github.com/huangsam/churnviz/internal/mcp"
	"github.com/huangsam/churnviz/internal/scorefile"
	"github.com/huangsam/churnviz/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const samplePath = "../../core/agg/testdata/churn_sample.csv"

func newServer(scores contract.ScoreLoader) *server.MCPServer {
	baseCfg := &contract.Config{
		DataPath:      samplePath,
		OutcomeField:  schema.DefaultOutcomeField,
		PositiveValue: schema.DefaultPositiveValue,
	}
	return mcp_internal.NewMCPServer(baseCfg, dataset.NewFileLoader(), scores, nil)
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newServer(&scorefile.MockScoreLoader{})

	tests := []struct {
		tool    string
		args    map[string]any
		message string
	}{
		{"value_counts", map[string]any{}, "field argument is required"},
		{"cohort_counts", map[string]any{"field": ""}, "field argument is required"},
		{"value_counts", map[string]any{"field": "Planet"}, "unknown field"},
		{"cohort_counts", map[string]any{"field": "Geography", "outcome": "Geography"}, "unsupported cohort shape"},
		{"correlation", map[string]any{"data_path": "missing.csv"}, "failed to open data file"},
		{"metric_summary", map[string]any{}, "metric argument is required"},
		{"metric_summary", map[string]any{"metric": "cv_accuracy"}, "either --scores or --experiment is required"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.message, func(t *testing.T) {
			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.message)
		})
	}
}

func TestMCPServerHandlers_ValueCounts(t *testing.T) {
	res := callTool(t, newServer(nil), "value_counts", map[string]any{"field": "Gender"})
	require.False(t, res.IsError, resultText(res))

	var dist schema.Distribution
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &dist))
	assert.Equal(t, "Gender", dist.Field)
	assert.Equal(t, 20, dist.Total)
}

func TestMCPServerHandlers_CohortCounts(t *testing.T) {
	res := callTool(t, newServer(nil), "cohort_counts", map[string]any{"field": "Geography"})
	require.False(t, res.IsError, resultText(res))

	var counts schema.CohortCounts
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &counts))
	require.Len(t, counts.Cohorts, 2)
	assert.Equal(t, schema.PositiveCohortLabel, counts.Cohorts[0].Cohort.Label)
	assert.Equal(t, 20, counts.Cohorts[0].Total()+counts.Cohorts[1].Total())
}

func TestMCPServerHandlers_Correlation(t *testing.T) {
	res := callTool(t, newServer(nil), "correlation", map[string]any{})
	require.False(t, res.IsError, resultText(res))

	var body struct {
		Fields []string     `json:"fields"`
		Values [][]*float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &body))
	require.Contains(t, body.Fields, "Age")
	require.Len(t, body.Values, len(body.Fields))
	require.NotNil(t, body.Values[0][0])
	assert.InDelta(t, 1.0, *body.Values[0][0], 1e-9)
}

func TestMCPServerHandlers_MetricSummary(t *testing.T) {
	scores := &scorefile.MockScoreLoader{}
	scores.On("LoadScores", mock.Anything, []string{"a.yaml", "b.yaml"}).Return(schema.Experiment{
		Name: "churn",
		Models: []schema.ScoreCollection{
			{Model: "LogReg", Scores: map[string][]float64{"cv_accuracy": {0.81, 0.79, 0.80}}},
			{Model: "Forest", Scores: map[string][]float64{"cv_accuracy": {0.86, 0.85, 0.87}}, Holdout: map[string]float64{"cv_accuracy": 0.855}},
		},
	}, nil)

	res := callTool(t, newServer(scores), "metric_summary", map[string]any{
		"metric": "cv_accuracy",
		"scores": "a.yaml, b.yaml",
		"models": "Forest",
	})
	require.False(t, res.IsError, resultText(res))

	var cmp schema.MetricComparison
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &cmp))
	require.Len(t, cmp.Boxes, 1)
	assert.Equal(t, "Forest", cmp.Boxes[0].Label)
	assert.InDelta(t, 0.86, cmp.Boxes[0].Median, 1e-9)
	require.Len(t, cmp.Holdout, 1)
	assert.InDelta(t, 0.855, cmp.Holdout[0].Value, 1e-9)
	scores.AssertExpectations(t)
}
