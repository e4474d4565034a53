package core

import (
	"context"

	"github.com/huangsam/churnviz/core/agg"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
)

// GetValueCountsResults loads the table and counts the values of cfg.Field without rendering.
func GetValueCountsResults(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) (schema.Distribution, error) {
	if err := requireField(cfg); err != nil {
		return schema.Distribution{}, err
	}
	table, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		return schema.Distribution{}, err
	}
	return agg.ValueCounts(table, cfg.Field)
}

// GetCohortCountsResults loads the table and counts the values of cfg.Field per cohort.
func GetCohortCountsResults(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) (schema.CohortCounts, error) {
	if err := requireField(cfg); err != nil {
		return schema.CohortCounts{}, err
	}
	table, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		return schema.CohortCounts{}, err
	}
	return agg.CohortValueCounts(table, cfg.Field, cohortSpecFor(cfg))
}

// GetCorrelationResults loads the table and correlates every numeric column.
func GetCorrelationResults(ctx context.Context, cfg *contract.Config, loader contract.TableLoader) (schema.CorrelationMatrix, error) {
	table, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		return schema.CorrelationMatrix{}, err
	}
	return agg.Correlation(table)
}

// GetMetricResults summarizes the fold scores of cfg.Metric for the selected models.
func GetMetricResults(ctx context.Context, cfg *contract.Config, scores contract.ScoreLoader, mgr contract.StoreManager) (schema.MetricComparison, error) {
	if cfg.Metric == "" {
		return schema.MetricComparison{}, errMetricRequired
	}
	exp, err := LoadExperiment(ctx, cfg, scores, mgr)
	if err != nil {
		return schema.MetricComparison{}, err
	}
	models, err := resolveModels(exp, cfg.Models)
	if err != nil {
		return schema.MetricComparison{}, err
	}
	prefix := cfg.TitlePrefix
	if prefix == "" {
		prefix = schema.DefaultModelsTitlePrefix
	}
	return agg.ModelsMetric(cfg.Metric, prefix, models)
}
