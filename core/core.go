// Package core has core logic for loading churn data, aggregating it and rendering charts.
package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/churnviz/core/chart"
	"github.com/huangsam/churnviz/internal"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/outwriter"
	"github.com/huangsam/churnviz/schema"
)

// ExecutorFunc defines the function signature for executing table chart commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) error

// ExecuteBar renders the cohort bar chart of a categorical field.
func ExecuteBar(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) error {
	return executeTableChart(ctx, cfg, loader, schema.BarChart, BuildBar)
}

// ExecutePie renders the pie chart of a field over the whole table.
func ExecutePie(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) error {
	return executeTableChart(ctx, cfg, loader, schema.PieChart, BuildPie)
}

// ExecuteBox renders the cohort box plot of a numeric field.
func ExecuteBox(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) error {
	return executeTableChart(ctx, cfg, loader, schema.BoxChart, BuildBox)
}

// ExecuteHist renders the overlaid cohort histograms of a numeric field.
func ExecuteHist(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) error {
	return executeTableChart(ctx, cfg, loader, schema.HistChart, BuildHist)
}

// ExecuteCorr renders the correlation heatmap of every numeric column.
func ExecuteCorr(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) error {
	return executeTableChart(ctx, cfg, loader, schema.CorrChart, BuildCorr)
}

// ExecuteCompareMetric renders the two-model metric comparison.
func ExecuteCompareMetric(ctx context.Context, cfg *contract.Config, scores contract.ScoreLoader, mgr contract.StoreManager) error {
	return executeScoreChart(ctx, cfg, scores, mgr, schema.CompareChart, BuildCompare)
}

// ExecuteModelsMetric renders the multi-model metric comparison.
func ExecuteModelsMetric(ctx context.Context, cfg *contract.Config, scores contract.ScoreLoader, mgr contract.StoreManager) error {
	return executeScoreChart(ctx, cfg, scores, mgr, schema.ModelsChart, BuildModels)
}

// executeTableChart loads the table, builds one chart and writes both chart and aggregate.
func executeTableChart(ctx context.Context, cfg *contract.Config, loader contract.TableLoader, kind schema.ChartKind, build TableBuilder) error {
	if kind != schema.CorrChart {
		if err := requireField(cfg); err != nil {
			return err
		}
	}
	table, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		return err
	}
	if !isQuiet(ctx) {
		internal.LogChartHeader(cfg, kind, table.NumRows())
	}
	r, err := build(table, cfg)
	if err != nil {
		return fmt.Errorf("cannot build %s chart: %w", kind, err)
	}
	return emit(cfg, r)
}

// executeScoreChart loads the experiment, builds one chart and writes both chart and aggregate.
func executeScoreChart(ctx context.Context, cfg *contract.Config, scores contract.ScoreLoader, mgr contract.StoreManager, kind schema.ChartKind, build ScoreBuilder) error {
	if cfg.Metric == "" {
		return errMetricRequired
	}
	exp, err := LoadExperiment(ctx, cfg, scores, mgr)
	if err != nil {
		return err
	}
	if !isQuiet(ctx) {
		internal.LogScoresHeader(cfg, kind, exp.Name, len(exp.Models))
	}
	r, err := build(exp, cfg)
	if err != nil {
		return fmt.Errorf("cannot build %s chart: %w", kind, err)
	}
	return emit(cfg, r)
}

// LoadExperiment reads score files when any are configured, otherwise the latest
// recording of the configured experiment from the score store.
func LoadExperiment(ctx context.Context, cfg *contract.Config, scores contract.ScoreLoader, mgr contract.StoreManager) (schema.Experiment, error) {
	switch {
	case len(cfg.ScoresPaths) > 0:
		exp, err := scores.LoadScores(ctx, cfg.ScoresPaths...)
		if err != nil {
			return schema.Experiment{}, err
		}
		if cfg.Experiment != "" {
			exp.Name = cfg.Experiment
		}
		return exp, nil
	case cfg.Experiment != "":
		store := storeOf(mgr)
		if store == nil {
			return schema.Experiment{}, errors.New("score store is not initialized")
		}
		return store.LoadExperiment(cfg.Experiment)
	default:
		return schema.Experiment{}, errors.New("either --scores or --experiment is required")
	}
}

func storeOf(mgr contract.StoreManager) contract.ScoreStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetScoreStore()
}

// emit renders the chart file and then writes the aggregate output.
func emit(cfg *contract.Config, r *Rendering) error {
	chartFile := cfg.ChartFile
	if chartFile == "" {
		chartFile = contract.ChartFileName(r.Kind, r.Target)
	}
	if err := renderToFile(chartFile, r.Chart); err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAggregate(r.Kind, r.Data, cfg)
}

// renderToFile renders a chart or page and writes it to path. The file is only
// created once rendering succeeds, so a failed render leaves no partial HTML behind.
func renderToFile(path string, renderer chart.Renderer) error {
	var buf bytes.Buffer
	if err := chart.Render(&buf, renderer); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote chart to %s\n", path)
	return nil
}
