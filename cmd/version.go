package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd prints build details for bug reports.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the churnviz version and build details.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "churnviz CLI")
		for _, kv := range [][2]string{
			{"Version", version},
			{"Commit", commit},
			{"Built", date},
			{"Runtime", runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH},
		} {
			_, _ = fmt.Fprintf(out, "  %-8s %s\n", kv[0]+":", kv[1])
		}
	},
}
