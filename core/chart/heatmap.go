package chart

import (
	"math"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/churnviz/schema"
)

// HeatmapTitle is the title of the correlation heatmap.
const HeatmapTitle = "Correlation"

// Heatmap renders a correlation matrix on a square canvas. The y axis lists fields in
// reverse so the diagonal runs from the top left to the bottom right. Undefined cells
// stay empty.
func Heatmap(theme Theme, m schema.CorrelationMatrix) (*charts.HeatMap, error) {
	n := len(m.Fields)
	if n == 0 {
		return nil, schema.ErrEmptyTable
	}
	yFields := slices.Clone(m.Fields)
	slices.Reverse(yFields)

	hm := charts.NewHeatMap()
	global := globalOptions(theme, HeatmapTitle, HeatmapSize, HeatmapSize)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Fields, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yFields, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			Orient:     "vertical",
			Right:      "0",
			Top:        "center",
			InRange:    &opts.VisualMapInRange{Color: theme.Heatmap[:]},
		}),
	)
	hm.SetGlobalOptions(global...)

	hm.AddSeries(HeatmapTitle, heatmapCells(m),
		charts.WithItemStyleOpts(opts.ItemStyle{BorderWidth: 1, BorderColor: theme.Grid}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm, nil
}

// heatmapCells returns one [x, y, value] cell per matrix entry, with y flipped to match
// the reversed axis. Values are rounded to two decimals; NaN becomes "-".
func heatmapCells(m schema.CorrelationMatrix) []opts.HeatMapData {
	n := len(m.Fields)
	cells := make([]opts.HeatMapData, 0, n*n)
	for i := range n {
		for j := range n {
			var value any = "-"
			if v := m.At(i, j); !math.IsNaN(v) {
				value = math.Round(v*100) / 100
			}
			cells = append(cells, opts.HeatMapData{Value: [3]any{i, n - 1 - j, value}})
		}
	}
	return cells
}
