// Package chart maps aggregates onto go-echarts primitives. Every builder takes the same
// Theme so backgrounds and palettes stay consistent across charts.
package chart

import (
	"fmt"
	"slices"

	"github.com/huangsam/churnviz/schema"
)

// Canvas sizes.
const (
	DefaultWidth  = "900px"
	DefaultHeight = "500px"
	HeatmapSize   = "600px"
)

// Palette is an ordered list of colors plus the policy applied when a chart needs more
// colors than the list holds.
type Palette struct {
	colors   []string
	overflow schema.OverflowPolicy
}

// NewPalette returns a palette over a copy of colors.
func NewPalette(colors []string, overflow schema.OverflowPolicy) Palette {
	return Palette{colors: slices.Clone(colors), overflow: overflow}
}

// Colors returns a copy of the palette colors.
func (p Palette) Colors() []string {
	return slices.Clone(p.colors)
}

// Len returns the number of colors in the palette.
func (p Palette) Len() int {
	return len(p.colors)
}

// Assign returns n colors. Series i gets color i mod len under the cycle policy; the
// error policy returns ErrPaletteExhausted when n exceeds the palette length.
func (p Palette) Assign(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(p.colors) == 0 {
		return nil, fmt.Errorf("%w: palette has no colors", schema.ErrPaletteExhausted)
	}
	if n > len(p.colors) && p.overflow == schema.ErrorOverflow {
		return nil, fmt.Errorf("%w: need %d colors, palette has %d", schema.ErrPaletteExhausted, n, len(p.colors))
	}
	out := make([]string, n)
	for i := range out {
		out[i] = p.colors[i%len(p.colors)]
	}
	return out, nil
}

// Theme is the visual configuration shared by every chart.
type Theme struct {
	Background string
	Width      string
	Height     string
	Cohorts    Palette
	Categories Palette
	Models     Palette
	Heatmap    [3]string
	Grid       string // opaque color of the gaps between heatmap cells
}

// DefaultTheme returns the transparent theme with the stock palettes.
func DefaultTheme() Theme {
	return NewTheme(schema.TransparentBackground, schema.CycleOverflow)
}

// NewTheme returns the stock palettes with a custom background and overflow policy.
func NewTheme(background string, overflow schema.OverflowPolicy) Theme {
	if background == "" {
		background = schema.TransparentBackground
	}
	if overflow == "" {
		overflow = schema.CycleOverflow
	}
	return Theme{
		Background: background,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Cohorts:    NewPalette(schema.DefaultCohortColors, overflow),
		Categories: NewPalette(schema.DefaultCategoryColors, overflow),
		Models:     NewPalette(schema.DefaultModelColors, overflow),
		Heatmap:    [3]string{schema.HeatmapLowColor, schema.HeatmapMidColor, schema.HeatmapHighColor},
		Grid:       schema.HeatmapGridColor,
	}
}
