// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the churnviz MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, loader contract.TableLoader, scores contract.ScoreLoader, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"churnviz Aggregate Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  loader,
		scores:  scores,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("value_counts",
		mcp.WithDescription("Count the values of one field over the whole dataset, with percentages."),
		mcp.WithString("field", mcp.Description("Column to count."), mcp.Required()),
		mcp.WithString("data_path", mcp.Description("CSV or Parquet dataset (defaults to the configured --data).")),
	), h.handleValueCounts)

	s.AddTool(mcp.NewTool("cohort_counts",
		mcp.WithDescription("Count the values of one field separately for churned and retained customers."),
		mcp.WithString("field", mcp.Description("Column to count."), mcp.Required()),
		mcp.WithString("data_path", mcp.Description("CSV or Parquet dataset.")),
		mcp.WithString("outcome", mcp.Description("Outcome column that splits the cohorts (defaults to 'Exited').")),
		mcp.WithString("positive", mcp.Description("Outcome value of the churned cohort (defaults to '1').")),
	), h.handleCohortCounts)

	s.AddTool(mcp.NewTool("correlation",
		mcp.WithDescription("Pearson correlation matrix of every numeric column. Undefined coefficients are null."),
		mcp.WithString("data_path", mcp.Description("CSV or Parquet dataset.")),
	), h.handleCorrelation)

	s.AddTool(mcp.NewTool("metric_summary",
		mcp.WithDescription("Five-number summary of the cross-validation scores of one metric per model."),
		mcp.WithString("metric", mcp.Description("Metric key, e.g. 'cv_accuracy'."), mcp.Required()),
		mcp.WithString("scores", mcp.Description("Comma-separated score files (YAML or JSON).")),
		mcp.WithString("experiment", mcp.Description("Recorded experiment to load from the score store.")),
		mcp.WithString("models", mcp.Description("Comma-separated models to include, in order (defaults to all).")),
	), h.handleMetricSummary)

	return s
}

// StartMCPServer starts the churnviz MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, loader contract.TableLoader, scores contract.ScoreLoader, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, loader, scores, mgr)
	return server.ServeStdio(s)
}
