package core

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/huangsam/churnviz/core/chart"
	"github.com/huangsam/churnviz/internal"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/outwriter"
	"github.com/huangsam/churnviz/schema"
)

// pageTitle is the HTML title of the combined page.
const pageTitle = "churnviz"

// rowSet joins the rows of several aggregates into one output.
type rowSet []schema.AggregateRow

// Rows implements outwriter.Aggregate.
func (r rowSet) Rows() []schema.AggregateRow {
	return r
}

// ExecutePage renders every default chart of the table, plus one models chart per
// metric when scores are configured, into a single HTML page.
func ExecutePage(ctx context.Context, cfg *contract.Config, loader contract.TableLoader, scores contract.ScoreLoader, mgr contract.StoreManager) error {
	table, err := loader.Load(ctx, cfg.DataPath)
	if err != nil {
		return err
	}
	if !isQuiet(ctx) {
		internal.LogChartHeader(cfg, schema.PageChart, table.NumRows())
	}

	var exp *schema.Experiment
	if len(cfg.ScoresPaths) > 0 || cfg.Experiment != "" {
		loaded, err := LoadExperiment(ctx, cfg, scores, mgr)
		if err != nil {
			return err
		}
		exp = &loaded
	}

	renderings, err := BuildPage(table, exp, cfg)
	if err != nil {
		return err
	}

	charters := make([]components.Charter, 0, len(renderings))
	var rows rowSet
	for _, r := range renderings {
		charters = append(charters, r.Chart)
		rows = append(rows, r.Data.Rows()...)
	}

	chartFile := cfg.ChartFile
	if chartFile == "" {
		chartFile = contract.ChartFileName(schema.PageChart, "")
	}
	if err := renderToFile(chartFile, chart.Page(pageTitle, charters...)); err != nil {
		return err
	}

	// A mixed table of every chart is unreadable, so text output is skipped.
	if cfg.Output == schema.TextOut {
		return nil
	}
	return outwriter.NewOutWriter().WriteAggregate(schema.PageChart, rows, cfg)
}

// BuildPage builds the default chart set. Fields absent from the table are skipped
// with a warning; any other failure aborts the page.
func BuildPage(table *schema.Table, exp *schema.Experiment, cfg *contract.Config) ([]*Rendering, error) {
	type job struct {
		build  TableBuilder
		fields []string
	}
	var numeric, categorical []string
	for _, f := range schema.DefaultNumericFields {
		if hasField(table, f) {
			numeric = append(numeric, f)
		}
	}
	for _, f := range schema.DefaultCategoricalFields {
		if hasField(table, f) {
			categorical = append(categorical, f)
		}
	}
	var pie []string
	for _, f := range schema.DefaultPieFields {
		if hasField(table, f) {
			pie = append(pie, f)
		}
	}

	jobs := []job{
		{BuildPie, pie},
		{BuildBar, categorical},
		{BuildBox, numeric},
		{BuildHist, numeric},
	}

	var out []*Rendering
	for _, j := range jobs {
		for _, field := range j.fields {
			r, err := j.build(table, cfg.WithField(field))
			if err != nil {
				return nil, fmt.Errorf("cannot build chart for %s: %w", field, err)
			}
			out = append(out, r)
		}
	}

	if len(table.NumericColumns()) > 1 {
		r, err := BuildCorr(table, cfg)
		if err != nil {
			return nil, fmt.Errorf("cannot build correlation chart: %w", err)
		}
		out = append(out, r)
	}

	if exp != nil {
		models, err := resolveModels(*exp, cfg.Models)
		if err != nil {
			return nil, err
		}
		for _, metric := range exp.Metrics() {
			// Only models that report the metric get a box.
			sub := schema.Experiment{Name: exp.Name}
			for _, m := range models {
				if _, ok := m.Scores[metric]; ok {
					sub.Models = append(sub.Models, m)
				}
			}
			if len(sub.Models) == 0 {
				continue
			}
			metricCfg := cfg.WithMetric(metric)
			metricCfg.Models = nil
			r, err := BuildModels(sub, metricCfg)
			if err != nil {
				return nil, fmt.Errorf("cannot build models chart for %s: %w", metric, err)
			}
			out = append(out, r)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: none of the default fields are present", schema.ErrEmptyTable)
	}
	return out, nil
}

// hasField reports whether the table has a column, warning when it does not.
func hasField(table *schema.Table, field string) bool {
	if slices.Contains(table.Names(), field) {
		return true
	}
	contract.LogWarn("Skipping chart", fmt.Errorf("%w: %q", schema.ErrUnknownField, field))
	return false
}
