package cmd

import (
	"github.com/huangsam/churnviz/core"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/spf13/cobra"
)

// tableRun adapts a table executor into a cobra Run function.
func tableRun(execute core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := execute(rootCtx, cfg, tableLoader); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// barCmd compares the categories of a field between churned and retained customers.
var barCmd = &cobra.Command{
	Use:   "bar <field>",
	Short: "Bar chart of a categorical field per cohort.",
	Long: `Count every category of a field separately for churned and retained customers
and draw the counts side by side.

Categories are ordered by their overall count. Missing cells are counted as "(missing)".

Examples:
  # Churn by country
  churnviz bar Geography --data churn.csv

  # Use another outcome column and positive value
  churnviz bar Gender --data churn.csv --outcome Churned --positive yes

  # Export the counts as CSV next to the chart
  churnviz bar Geography --data churn.csv --output csv --output-file geography.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: fieldSetupWrapper,
	Run:     tableRun(core.ExecuteBar, "Cannot render bar chart"),
}

// pieCmd shows the share of every value of a field over the whole table.
var pieCmd = &cobra.Command{
	Use:   "pie <field>",
	Short: "Pie chart of a field over the whole dataset.",
	Long: `Draw the share of every value of a field, with percentages in the labels.

Examples:
  # Overall churn rate
  churnviz pie Exited --data churn.csv

  # Gender split
  churnviz pie Gender --data churn.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: fieldSetupWrapper,
	Run:     tableRun(core.ExecutePie, "Cannot render pie chart"),
}

// boxCmd compares a numeric distribution between the two cohorts.
var boxCmd = &cobra.Command{
	Use:   "box <field>",
	Short: "Box plot of a numeric field per cohort.",
	Long: `Summarize a numeric field per cohort with quartiles, Tukey whiskers and outliers.

Examples:
  # Are churned customers older?
  churnviz box Age --data churn.csv

  # Balance distribution as JSON
  churnviz box Balance --data churn.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: fieldSetupWrapper,
	Run:     tableRun(core.ExecuteBox, "Cannot render box plot"),
}

// histCmd overlays the probability histograms of the two cohorts.
var histCmd = &cobra.Command{
	Use:   "hist <field>",
	Short: "Overlaid probability histograms of a numeric field per cohort.",
	Long: `Bin a numeric field on shared edges and draw each cohort as a probability histogram,
so cohorts of different sizes can be compared.

The bin count defaults to the Sturges rule over all rows.

Examples:
  # Age histogram with the default bins
  churnviz hist Age --data churn.csv

  # Credit scores with 30 bins
  churnviz hist CreditScore --data churn.csv --bins 30`,
	Args:    cobra.ExactArgs(1),
	PreRunE: fieldSetupWrapper,
	Run:     tableRun(core.ExecuteHist, "Cannot render histogram"),
}

// corrCmd draws the correlation heatmap of the numeric columns.
var corrCmd = &cobra.Command{
	Use:   "corr",
	Short: "Correlation heatmap of every numeric column.",
	Long: `Compute pairwise Pearson correlations over every numeric column and draw them
as a heatmap on a fixed -1..1 scale.

Examples:
  churnviz corr --data churn.csv
  churnviz corr --data churn.parquet --chart-file corr.html`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     tableRun(core.ExecuteCorr, "Cannot render correlation heatmap"),
}
