package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/churnviz/core"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/preview"
	"github.com/huangsam/churnviz/schema"
	"github.com/spf13/cobra"
)

// pageCmd renders the default chart set into one HTML page.
var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Render every default chart of a dataset into one page.",
	Long: `Render the standard churn report into a single HTML page:

- Pie charts of Exited, Geography, Gender, HasCrCard and IsActiveMember
- Cohort bar charts of the categorical fields
- Cohort box plots and histograms of the numeric fields
- The correlation heatmap
- One models chart per metric when --scores or --experiment is given

Fields missing from the dataset are skipped with a warning.

Examples:
  churnviz page --data churn.csv
  churnviz page --data churn.csv --scores scores.yaml --chart-file report.html`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePage(rootCtx, cfg, tableLoader, scoreLoader, storeManager); err != nil {
			contract.LogFatal("Cannot render page", err)
		}
	},
}

// serveCmd starts the HTTP preview server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview charts in a browser.",
	Long: `Load the dataset once and render charts on request.

Routes:
  /                   every default chart
  /bar/{field}        cohort bar chart
  /pie/{field}        pie chart
  /box/{field}        cohort box plot
  /hist/{field}       cohort histograms
  /corr               correlation heatmap
  /models/{metric}    models chart (?model=A&model=B)
  /compare/{metric}   two-model chart (?baseline=A&balanced=B)
  /fields, /health    JSON metadata

Examples:
  churnviz serve --data churn.csv
  churnviz serve --data churn.csv --scores scores.yaml --addr :9090`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := tableLoader.Load(rootCtx, cfg.DataPath)
		if err != nil {
			return err
		}

		var exp *schema.Experiment
		if len(cfg.ScoresPaths) > 0 || cfg.Experiment != "" {
			loaded, err := core.LoadExperiment(rootCtx, cfg, scoreLoader, storeManager)
			if err != nil {
				return err
			}
			exp = &loaded
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := preview.New(cfg, table, exp)
		cmd.PrintErrf("🌐 Serving %s on http://%s\n", cfg.DataPath, srv.Addr())
		return srv.Run(ctx)
	},
}
