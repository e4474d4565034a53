package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/churnviz/core"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	loader  contract.TableLoader
	scores  contract.ScoreLoader
	mgr     contract.StoreManager
}

// tableConfig applies the arguments shared by the dataset tools.
func (h *toolHandler) tableConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("data_path", ""); p != "" {
		cfg.DataPath = p
	}
	cfg.Field = request.GetString("field", "")
	return cfg
}

func (h *toolHandler) handleValueCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dist, err := core.GetValueCountsResults(ctx, h.tableConfig(request), h.loader)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("value counts failed: %v", err)), nil
	}
	return jsonResult(dist)
}

func (h *toolHandler) handleCohortCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.tableConfig(request)
	if o := request.GetString("outcome", ""); o != "" {
		cfg.OutcomeField = o
	}
	if p := request.GetString("positive", ""); p != "" {
		cfg.PositiveValue = p
	}

	counts, err := core.GetCohortCountsResults(ctx, cfg, h.loader)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cohort counts failed: %v", err)), nil
	}
	return jsonResult(counts)
}

func (h *toolHandler) handleCorrelation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := core.GetCorrelationResults(ctx, h.tableConfig(request), h.loader)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("correlation failed: %v", err)), nil
	}
	return jsonResult(m)
}

func (h *toolHandler) handleMetricSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.WithMetric(request.GetString("metric", ""))
	if s := request.GetString("scores", ""); s != "" {
		cfg.ScoresPaths = contract.SplitList(s)
	}
	if e := request.GetString("experiment", ""); e != "" {
		cfg.Experiment = e
	}
	if m := request.GetString("models", ""); m != "" {
		cfg.Models = contract.SplitList(m)
	}

	cmp, err := core.GetMetricResults(ctx, cfg, h.scores, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("metric summary failed: %v", err)), nil
	}
	return jsonResult(cmp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
