package cmd

import (
	"github.com/huangsam/churnviz/core"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd compares a baseline model with its rebalanced variant.
var compareCmd = &cobra.Command{
	Use:   "compare <metric>",
	Short: "Box plot of one metric for a baseline and a rebalanced model.",
	Long: `Draw the cross-validation scores of a metric for two models side by side.

Scores come from --scores files or from an experiment recorded in the score store.
Without --baseline and --balanced the first two models are compared.

Examples:
  # Accuracy before and after class rebalancing
  churnviz compare cv_accuracy --scores logreg.yaml

  # Pick the models explicitly
  churnviz compare cv_roc_auc --scores scores.yaml --baseline LogReg --balanced LogRegSMOTE

  # Use a recorded experiment
  churnviz compare cv_f1 --experiment churn-2025-06`,
	Args:    cobra.ExactArgs(1),
	PreRunE: metricSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompareMetric(rootCtx, cfg, scoreLoader, storeManager); err != nil {
			contract.LogFatal("Cannot render metric comparison", err)
		}
	},
}

// modelsCmd compares one metric across every model.
var modelsCmd = &cobra.Command{
	Use:   "models <metric>",
	Short: "Box plot of one metric across many models.",
	Long: `Draw one box of cross-validation scores per model, with held-out scores as markers.

Examples:
  # Every model of the score files
  churnviz models cv_roc_auc --scores logreg.yaml,forest.yaml,boosting.yaml

  # A subset, in a chosen order
  churnviz models cv_accuracy --experiment churn-2025-06 --models Forest,LogReg`,
	Args:    cobra.ExactArgs(1),
	PreRunE: metricSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModelsMetric(rootCtx, cfg, scoreLoader, storeManager); err != nil {
			contract.LogFatal("Cannot render models comparison", err)
		}
	},
}
