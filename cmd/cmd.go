// Package cmd defines the command-line interface for churnviz.
package cmd

import (
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(barCmd)
	rootCmd.AddCommand(pieCmd)
	rootCmd.AddCommand(boxCmd)
	rootCmd.AddCommand(histCmd)
	rootCmd.AddCommand(corrCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the scores subcommands to the parent scores command
	scoresCmd.AddCommand(scoresRecordCmd)
	scoresCmd.AddCommand(scoresListCmd)
	scoresCmd.AddCommand(scoresStatusCmd)
	scoresCmd.AddCommand(scoresClearCmd)
	scoresCmd.AddCommand(scoresMigrateCmd)
	scoresCmd.AddCommand(scoresExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("data", "d", "", "Path to the churn dataset (CSV or Parquet)")
	rootCmd.PersistentFlags().String("outcome", schema.DefaultOutcomeField, "Outcome column that splits the two cohorts")
	rootCmd.PersistentFlags().String("positive", schema.DefaultPositiveValue, "Outcome value of the churned cohort")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Aggregate output: text or csv or json or parquet or none")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write the aggregate output to")
	rootCmd.PersistentFlags().String("chart-file", "", "Path of the rendered HTML chart (defaults to churnviz_<kind>_<target>.html)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("background", "", "Chart background color (defaults to transparent)")
	rootCmd.PersistentFlags().String("palette-overflow", string(schema.CycleOverflow), "When series outnumber colors: cycle or error")
	rootCmd.PersistentFlags().String("scores", "", "Comma-separated score files (YAML or JSON)")
	rootCmd.PersistentFlags().String("experiment", "", "Experiment name to load from (or record into) the score store")
	rootCmd.PersistentFlags().String("models", "", "Comma-separated models to chart, in order (defaults to all)")
	rootCmd.PersistentFlags().String("title-prefix", "", "Prefix of metric chart titles")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Score store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Skip the chart headers on stderr")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of histCmd to Viper
	histCmd.Flags().Int("bins", 0, "Number of histogram bins (0 = Sturges rule)")
	if err := viper.BindPFlags(histCmd.Flags()); err != nil {
		contract.LogFatal("Error binding hist flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("baseline", "", "Baseline model (defaults to the first model)")
	compareCmd.Flags().String("balanced", "", "Rebalanced model (defaults to the second model)")
	compareCmd.Flags().String("baseline-label", schema.DefaultBaselineLabel, "Legend label of the baseline box")
	compareCmd.Flags().String("balanced-label", schema.DefaultBalancedLabel, "Legend label of the rebalanced box")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address of the preview server")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of scoresMigrateCmd to Viper
	scoresMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(scoresMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scores migrate flags", err)
	}
}
