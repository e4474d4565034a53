package chart

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/churnviz/schema"
)

// starSymbol draws the held-out marker.
const starSymbol = "path://M50,3L62,39H100L69,61L81,97L50,75L19,97L31,61L0,39H38Z"

// Marker sizes in pixels.
const (
	outlierSize = 6
	holdoutSize = 16
)

// Box renders one box series per cohort. Outliers beyond the whiskers are drawn as a
// scatter overlay in the cohort color.
func Box(theme Theme, boxes schema.CohortBoxes) (*charts.BoxPlot, error) {
	colors, err := theme.Cohorts.Assign(len(boxes.Boxes))
	if err != nil {
		return nil, err
	}
	box := newBoxPlot(theme, boxes.Field, "", boxes.Field, boxes.Boxes, colors)

	outliers := charts.NewScatter()
	for i, b := range boxes.Boxes {
		if len(b.Outliers) == 0 {
			continue
		}
		data := make([]opts.ScatterData, len(b.Outliers))
		for j, v := range b.Outliers {
			data[j] = opts.ScatterData{Value: []any{b.Label, v}, SymbolSize: outlierSize}
		}
		outliers.AddSeries(b.Label+" outliers", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[i]}))
	}
	if len(outliers.MultiSeries) > 0 {
		box.Overlap(outliers)
	}
	return box, nil
}

// MetricBox renders fold scores as one box series per model. Held-out scores are drawn as
// star markers in the model color.
func MetricBox(theme Theme, cmp schema.MetricComparison) (*charts.BoxPlot, error) {
	if len(cmp.Boxes) == 0 {
		return nil, fmt.Errorf("%w: no scores for %q", schema.ErrUnknownMetric, cmp.Metric)
	}
	colors, err := theme.Models.Assign(len(cmp.Boxes))
	if err != nil {
		return nil, err
	}
	label := schema.MetricLabel(cmp.Metric)
	box := newBoxPlot(theme, cmp.Title, "Model", label, cmp.Boxes, colors)

	colorOf := make(map[string]string, len(cmp.Boxes))
	for i, b := range cmp.Boxes {
		colorOf[b.Label] = colors[i]
	}
	holdout := charts.NewScatter()
	for _, point := range cmp.Holdout {
		data := []opts.ScatterData{{
			Name:       point.Model,
			Value:      []any{point.Model, point.Value},
			Symbol:     starSymbol,
			SymbolSize: holdoutSize,
		}}
		holdout.AddSeries(point.Model+" holdout", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOf[point.Model]}))
	}
	if len(holdout.MultiSeries) > 0 {
		box.Overlap(holdout)
	}
	return box, nil
}

// newBoxPlot places box i at category i so every series keeps its own color and legend entry.
func newBoxPlot(theme Theme, title, xName, yName string, boxes []schema.BoxStats, colors []string) *charts.BoxPlot {
	labels := make([]string, len(boxes))
	for i, b := range boxes {
		labels[i] = b.Label
	}

	box := charts.NewBoxPlot()
	global := globalOptions(theme, title, theme.Width, theme.Height)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value", Scale: opts.Bool(true)}),
		charts.WithColorsOpts(colors),
	)
	box.SetGlobalOptions(global...)
	box.SetXAxis(labels)

	for i, b := range boxes {
		data := make([]opts.BoxPlotData, len(boxes))
		for j := range data {
			data[j] = opts.BoxPlotData{Value: "-"}
		}
		data[i] = opts.BoxPlotData{
			Name:  b.Label,
			Value: []float64{b.LowerWhisker, b.Q1, b.Median, b.Q3, b.UpperWhisker},
		}
		box.AddSeries(b.Label, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[i], BorderColor: colors[i]}))
	}
	return box
}
