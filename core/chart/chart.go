package chart

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
	"github.com/huangsam/churnviz/schema"
)

// histogramAlpha keeps both overlaid histogram series visible.
const histogramAlpha = 0.75

// Renderer is anything that can write itself as HTML.
type Renderer interface {
	Render(w io.Writer) error
}

// Render writes a chart or page to w. Nothing is written when rendering fails.
func Render(w io.Writer, r Renderer) error {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// Page collects charts into one HTML document.
func Page(title string, items ...components.Charter) *components.Page {
	page := components.NewPage()
	page.SetPageTitle(title)
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(items...)
	return page
}

// chartID returns a unique element id that is also a valid JS identifier suffix.
func chartID() string {
	return "churnviz_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// globalOptions returns the options shared by every chart.
func globalOptions(theme Theme, title, width, height string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			BackgroundColor: theme.Background,
			Width:           width,
			Height:          height,
			ChartID:         chartID(),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	}
}

// Bar renders cohort value counts as one bar series per cohort.
// Categories a cohort never saw are left empty.
func Bar(theme Theme, counts schema.CohortCounts) (*charts.Bar, error) {
	colors, err := theme.Cohorts.Assign(len(counts.Cohorts))
	if err != nil {
		return nil, err
	}
	bar := charts.NewBar()
	global := globalOptions(theme, counts.Field, theme.Width, theme.Height)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: counts.Field, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: schema.CountAxisTitle, Type: "value"}),
		charts.WithColorsOpts(colors),
	)
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(counts.Categories)

	for i, cohort := range counts.Cohorts {
		data := make([]opts.BarData, len(counts.Categories))
		for j, category := range counts.Categories {
			data[j] = opts.BarData{Name: category, Value: "-"}
			if n := cohort.CountOf(category); n > 0 {
				data[j].Value = n
			}
		}
		bar.AddSeries(cohort.Cohort.Label, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[i]}))
	}
	return bar, nil
}

// Pie renders a single distribution with label, count and percentage on every slice.
func Pie(theme Theme, dist schema.Distribution) (*charts.Pie, error) {
	colors, err := theme.Categories.Assign(len(dist.Counts))
	if err != nil {
		return nil, err
	}
	pie := charts.NewPie()
	global := globalOptions(theme, dist.Field, theme.Width, theme.Height)
	global = append(global, charts.WithColorsOpts(colors))
	pie.SetGlobalOptions(global...)

	data := make([]opts.PieData, len(dist.Counts))
	for i, vc := range dist.Counts {
		data[i] = opts.PieData{
			Name:      vc.Value,
			Value:     vc.Count,
			ItemStyle: &opts.ItemStyle{Color: colors[i]},
		}
	}
	pie.AddSeries(dist.Field, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}),
	)
	return pie, nil
}

// Histogram renders overlaid probability histograms that share bin edges.
func Histogram(theme Theme, hists schema.CohortHistograms) (*charts.Bar, error) {
	if len(hists.Histograms) == 0 {
		return nil, fmt.Errorf("%w: no histograms for %q", schema.ErrEmptyTable, hists.Field)
	}
	colors, err := theme.Cohorts.Assign(len(hists.Histograms))
	if err != nil {
		return nil, err
	}
	for i := range colors {
		colors[i] = withAlpha(colors[i], histogramAlpha)
	}

	bar := charts.NewBar()
	global := globalOptions(theme, hists.Field, theme.Width, theme.Height)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Name: hists.Field, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Probability", Type: "value"}),
		charts.WithColorsOpts(colors),
	)
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(binLabels(hists.Histograms[0].Edges))

	for i, h := range hists.Histograms {
		data := make([]opts.BarData, len(h.Probabilities))
		for j, p := range h.Probabilities {
			data[j] = opts.BarData{Value: p}
		}
		bar.AddSeries(h.Label, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colors[i]}),
			charts.WithBarChartOpts(opts.BarChart{BarGap: "-100%", BarCategoryGap: "0%"}),
		)
	}
	return bar, nil
}

// binLabels names each bin by its range.
func binLabels(edges []float64) []string {
	if len(edges) < 2 {
		return nil
	}
	labels := make([]string, len(edges)-1)
	for i := range labels {
		labels[i] = "[" + schema.FormatEdge(edges[i]) + ", " + schema.FormatEdge(edges[i+1]) + ")"
	}
	return labels
}

// withAlpha turns "#RRGGBB" into an rgba() color. Other formats pass through unchanged.
func withAlpha(hex string, alpha float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", v>>16&0xFF, v>>8&0xFF, v&0xFF, alpha)
}
