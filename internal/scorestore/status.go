package scorestore

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/churnviz/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintStoreStatus prints score store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total Experiments: %d\n", status.TotalExperiments)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}

// PrintExperiments prints one line per recorded experiment.
func PrintExperiments(w io.Writer, experiments []schema.ExperimentSummary) {
	if len(experiments) == 0 {
		_, _ = fmt.Fprintln(w, "No experiments recorded.")
		return
	}
	for _, e := range experiments {
		_, _ = fmt.Fprintf(w, "%s: %d models, %d recordings, last %s\n", e.Experiment, e.Models, e.Runs, e.LastRun.Format(statusTimeLayout))
	}
}
