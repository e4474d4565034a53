package core

import (
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/huangsam/churnviz/core/agg"
	"github.com/huangsam/churnviz/core/chart"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/outwriter"
	"github.com/huangsam/churnviz/schema"
)

// Chart is a go-echarts chart that can be rendered alone or placed on a page.
type Chart interface {
	components.Charter
	chart.Renderer
}

// Rendering is a built chart together with the aggregate it draws.
type Rendering struct {
	Kind   schema.ChartKind
	Target string // field or metric, empty for the heatmap
	Chart  Chart
	Data   outwriter.Aggregate
}

// TableBuilder builds one chart from a churn table.
type TableBuilder func(table *schema.Table, cfg *contract.Config) (*Rendering, error)

// ScoreBuilder builds one chart from an experiment's score collections.
type ScoreBuilder func(exp schema.Experiment, cfg *contract.Config) (*Rendering, error)

// themeFor returns the chart theme described by the config.
func themeFor(cfg *contract.Config) chart.Theme {
	return chart.NewTheme(cfg.Background, cfg.PaletteOverflow)
}

// cohortSpecFor returns the cohort split described by the config.
func cohortSpecFor(cfg *contract.Config) agg.CohortSpec {
	spec := agg.DefaultCohortSpec()
	if cfg.OutcomeField != "" {
		spec.OutcomeField = cfg.OutcomeField
	}
	if cfg.PositiveValue != "" {
		spec.PositiveValue = cfg.PositiveValue
	}
	return spec
}

var errMetricRequired = errors.New("metric argument is required")

func requireField(cfg *contract.Config) error {
	if cfg.Field == "" {
		return errors.New("field argument is required")
	}
	return nil
}

// BuildBar compares the value counts of a categorical field across cohorts.
func BuildBar(table *schema.Table, cfg *contract.Config) (*Rendering, error) {
	if err := requireField(cfg); err != nil {
		return nil, err
	}
	counts, err := agg.CohortValueCounts(table, cfg.Field, cohortSpecFor(cfg))
	if err != nil {
		return nil, err
	}
	c, err := chart.Bar(themeFor(cfg), counts)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.BarChart, Target: cfg.Field, Chart: c, Data: counts}, nil
}

// BuildPie shows the distribution of a field over the whole table.
func BuildPie(table *schema.Table, cfg *contract.Config) (*Rendering, error) {
	if err := requireField(cfg); err != nil {
		return nil, err
	}
	dist, err := agg.ValueCounts(table, cfg.Field)
	if err != nil {
		return nil, err
	}
	c, err := chart.Pie(themeFor(cfg), dist)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.PieChart, Target: cfg.Field, Chart: c, Data: dist}, nil
}

// BuildBox compares the spread of a numeric field across cohorts.
func BuildBox(table *schema.Table, cfg *contract.Config) (*Rendering, error) {
	if err := requireField(cfg); err != nil {
		return nil, err
	}
	boxes, err := agg.CohortBoxSummaries(table, cfg.Field, cohortSpecFor(cfg))
	if err != nil {
		return nil, err
	}
	c, err := chart.Box(themeFor(cfg), boxes)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.BoxChart, Target: cfg.Field, Chart: c, Data: boxes}, nil
}

// BuildHist overlays the normalized histograms of a numeric field per cohort.
func BuildHist(table *schema.Table, cfg *contract.Config) (*Rendering, error) {
	if err := requireField(cfg); err != nil {
		return nil, err
	}
	hists, err := agg.CohortHistograms(table, cfg.Field, cohortSpecFor(cfg), cfg.Bins)
	if err != nil {
		return nil, err
	}
	c, err := chart.Histogram(themeFor(cfg), hists)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.HistChart, Target: cfg.Field, Chart: c, Data: hists}, nil
}

// BuildCorr draws the correlation heatmap of every numeric column.
func BuildCorr(table *schema.Table, cfg *contract.Config) (*Rendering, error) {
	m, err := agg.Correlation(table)
	if err != nil {
		return nil, err
	}
	c, err := chart.Heatmap(themeFor(cfg), m)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.CorrChart, Chart: c, Data: m}, nil
}

// BuildCompare draws the fold scores of a baseline and a rebalanced model side by side.
func BuildCompare(exp schema.Experiment, cfg *contract.Config) (*Rendering, error) {
	if cfg.Metric == "" {
		return nil, errMetricRequired
	}
	baseline, balanced, err := resolveCompareModels(exp, cfg)
	if err != nil {
		return nil, err
	}
	prefix := cfg.TitlePrefix
	if prefix == "" {
		prefix = schema.DefaultCompareTitlePrefix
	}
	labels := [2]string{cfg.BaselineLabel, cfg.BalancedLabel}
	if labels[0] == "" {
		labels[0] = schema.DefaultBaselineLabel
	}
	if labels[1] == "" {
		labels[1] = schema.DefaultBalancedLabel
	}
	cmp, err := agg.CompareMetric(cfg.Metric, prefix, baseline, balanced, labels)
	if err != nil {
		return nil, err
	}
	c, err := chart.MetricBox(themeFor(cfg), cmp)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.CompareChart, Target: cfg.Metric, Chart: c, Data: cmp}, nil
}

// BuildModels draws one box of fold scores per model, plus held-out markers.
func BuildModels(exp schema.Experiment, cfg *contract.Config) (*Rendering, error) {
	if cfg.Metric == "" {
		return nil, errMetricRequired
	}
	models, err := resolveModels(exp, cfg.Models)
	if err != nil {
		return nil, err
	}
	prefix := cfg.TitlePrefix
	if prefix == "" {
		prefix = schema.DefaultModelsTitlePrefix
	}
	cmp, err := agg.ModelsMetric(cfg.Metric, prefix, models)
	if err != nil {
		return nil, err
	}
	c, err := chart.MetricBox(themeFor(cfg), cmp)
	if err != nil {
		return nil, err
	}
	return &Rendering{Kind: schema.ModelsChart, Target: cfg.Metric, Chart: c, Data: cmp}, nil
}

// resolveCompareModels picks the baseline and balanced collections. Unset names
// default to the first two models of the experiment.
func resolveCompareModels(exp schema.Experiment, cfg *contract.Config) (schema.ScoreCollection, schema.ScoreCollection, error) {
	var none schema.ScoreCollection
	baselineName, balancedName := cfg.BaselineModel, cfg.BalancedModel
	for _, m := range exp.Models {
		if baselineName == "" && m.Model != balancedName {
			baselineName = m.Model
			continue
		}
		if balancedName == "" && m.Model != baselineName {
			balancedName = m.Model
		}
	}
	if baselineName == "" || balancedName == "" {
		return none, none, fmt.Errorf("experiment %q needs two models to compare, has %d", exp.Name, len(exp.Models))
	}

	baseline, ok := exp.Model(baselineName)
	if !ok {
		return none, none, fmt.Errorf("%w: %q in experiment %q", schema.ErrUnknownModel, baselineName, exp.Name)
	}
	balanced, ok := exp.Model(balancedName)
	if !ok {
		return none, none, fmt.Errorf("%w: %q in experiment %q", schema.ErrUnknownModel, balancedName, exp.Name)
	}
	return baseline, balanced, nil
}

// resolveModels returns the named models in the given order, or every model when no
// names are given.
func resolveModels(exp schema.Experiment, names []string) ([]schema.ScoreCollection, error) {
	if len(names) == 0 {
		if len(exp.Models) == 0 {
			return nil, fmt.Errorf("experiment %q has no models", exp.Name)
		}
		return exp.Models, nil
	}
	models := make([]schema.ScoreCollection, 0, len(names))
	for _, name := range names {
		m, ok := exp.Model(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in experiment %q", schema.ErrUnknownModel, name, exp.Name)
		}
		models = append(models, m)
	}
	return models, nil
}
