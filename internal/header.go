// Package internal has console helpers shared by the chart commands.
package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
)

// headerOut receives chart headers. Headers stay off stdout so piped output is clean.
var headerOut io.Writer = os.Stderr

// LogChartHeader prints a concise, 2-line header for a table chart.
func LogChartHeader(cfg *contract.Config, kind schema.ChartKind, rows int) {
	dataName := filepath.Base(cfg.DataPath)
	if cfg.DataPath == "" {
		dataName = "none"
	}

	// Line 1: The chart summary (Kind and Target)
	target := cfg.Field
	if target == "" {
		target = "all fields"
	}
	_, _ = fmt.Fprintf(headerOut, "%sChart: %s (Field: %s)\n", prefix(cfg, "📊 "), kind, target)

	// Line 2: The data being charted
	_, _ = fmt.Fprintf(headerOut, "%sData: %s (%d rows, outcome %s == %s)\n", prefix(cfg, "📁 "), dataName, rows, cfg.OutcomeField, cfg.PositiveValue)
}

// LogScoresHeader prints a header for metric charts.
func LogScoresHeader(cfg *contract.Config, kind schema.ChartKind, experiment string, models int) {
	_, _ = fmt.Fprintf(headerOut, "%sChart: %s (Metric: %s)\n", prefix(cfg, "📊 "), kind, cfg.Metric)
	_, _ = fmt.Fprintf(headerOut, "%sExperiment: %s (%d models)\n", prefix(cfg, "🧪 "), experiment, models)
}

func prefix(cfg *contract.Config, emoji string) string {
	if cfg.UseEmojis {
		return emoji
	}
	return ""
}
