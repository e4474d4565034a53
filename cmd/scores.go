package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/churnviz/core"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/scorestore"
	"github.com/huangsam/churnviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfig reads and validates the store settings without the full shared setup.
func storeConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("store-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// storeSetup loads minimal configuration needed for score store operations.
// This is used by commands that need store access without a dataset.
func storeSetup() error {
	backend, connStr, err := storeConfig()
	if err != nil {
		return err
	}

	if err := scorestore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize score store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.ScoresPaths = contract.SplitList(viper.GetString("scores"))
	cfg.Experiment = strings.TrimSpace(viper.GetString("experiment"))

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for scores commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT open the store or create tables, so migrations can run on a fresh database.
func storeMigrateSetup() error {
	backend, connStr, err := storeConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for the migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// requireStore returns the initialized score store or an error.
func requireStore() (contract.ScoreStore, error) {
	if storeManager == nil || storeManager.GetScoreStore() == nil {
		return nil, errors.New("score store is not initialized")
	}
	return storeManager.GetScoreStore(), nil
}

// scoresCmd focused on score store management.
//
// Note: Scores subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by chart commands. This avoids dataset validation
// for simple store operations.
var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Record and manage model scores in the score store",
	Long: `Keep cross-validation scores of churn models in a database, grouped by experiment,
so metric charts can be redrawn later with --experiment.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  record  - Store score files under an experiment name
  list    - Show every recorded experiment
  status  - Show store statistics and connection info
  export  - Export runs and scores to Parquet
  clear   - Remove all recorded scores
  migrate - Run database schema migrations

Examples:
  # Record two score files as one experiment
  churnviz scores record --scores logreg.yaml,forest.yaml --experiment churn-2025-06

  # Chart the recorded experiment
  churnviz models cv_roc_auc --experiment churn-2025-06`,
}

// scoresRecordCmd records score files into the store.
var scoresRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Store score files under an experiment name",
	Long: `Validate the given score files and store every model as one run of the experiment.

Recording an experiment again adds a new batch; charts use the most recent batch.
The experiment name defaults to the name in the first score file.

Examples:
  churnviz scores record --scores scores.yaml
  churnviz scores record --scores logreg.json,forest.json --experiment churn-2025-06`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScoresRecord(rootCtx, os.Stdout, cfg, scoreLoader, storeManager); err != nil {
			contract.LogFatal("Failed to record scores", err)
		}
	},
}

// scoresListCmd lists recorded experiments.
var scoresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recorded experiment",
	Long: `Show each experiment with its number of models, recordings and the last recording time.

Examples:
  churnviz scores list`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := requireStore()
		if err != nil {
			contract.LogFatal("Failed to list experiments", err)
		}
		experiments, err := store.ListExperiments()
		if err != nil {
			contract.LogFatal("Failed to list experiments", err)
		}
		scorestore.PrintExperiments(os.Stdout, experiments)
	},
}

// scoresStatusCmd shows store status.
var scoresStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display score store statistics and connection details",
	Long: `Show detailed information about the score store.

Displays:
- Backend type and connection status
- Total number of recorded runs and experiments
- Last and oldest recording timestamps
- Database table sizes

Examples:
  churnviz scores status`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := requireStore()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		scorestore.PrintStoreStatus(os.Stdout, status)
	},
}

// scoresClearCmd clears the score store.
var scoresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded scores",
	Long: `Delete every recorded run and score from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the score tables

Examples:
  churnviz scores export --output-file backup
  churnviz scores clear`,
	Args:    cobra.NoArgs,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		var dbPath string
		if cfg.StoreBackend == schema.SQLiteBackend {
			dbPath = cfg.StoreDBConnect
		}
		if err := scorestore.ClearStore(cfg.StoreBackend, dbPath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear score store", err)
		}
		fmt.Println("Score store cleared successfully.")
	},
}

// scoresExportCmd exports the score store to Parquet files.
var scoresExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and scores to Parquet",
	Long: `Export every recorded run and score to two Parquet files:

- <output-file>.runs.parquet   one row per model run
- <output-file>.scores.parquet one row per metric and fold

Requires: --output-file parameter

Examples:
  churnviz scores export --output-file scores
  duckdb -c "SELECT * FROM read_parquet('scores.scores.parquet') LIMIT 10"`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := scorestore.ExecuteStoreExport(os.Stdout, storeManager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export scores", err)
		}
	},
}

// scoresMigrateCmd runs database migrations for the score store.
var scoresMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the score store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  churnviz scores migrate

  # Rollback to the initial state
  churnviz scores migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := scorestore.MigrateStore(os.Stdout, cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
