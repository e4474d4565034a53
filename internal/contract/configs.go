package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/churnviz/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 3
	MaxPrecision     = 6
	MaxBins          = 200
	DefaultAddr      = "localhost:8080"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for rendering.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath      string
	Field         string
	Metric        string
	OutcomeField  string
	PositiveValue string
	Bins          int // 0 = Sturges rule

	ScoresPaths   []string
	Experiment    string
	Models        []string
	BaselineModel string
	BalancedModel string
	BaselineLabel string
	BalancedLabel string
	TitlePrefix   string

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	ChartFile  string
	Width      int // Terminal width override (0 = auto-detect)

	Background      string
	PaletteOverflow schema.OverflowPolicy

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Addr string

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	FieldStr  string
	MetricStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Data            string `mapstructure:"data"`
	Outcome         string `mapstructure:"outcome"`
	Positive        string `mapstructure:"positive"`
	OutputFile      string `mapstructure:"output-file"`
	ChartFile       string `mapstructure:"chart-file"`
	Precision       int    `mapstructure:"precision"`
	Output          string `mapstructure:"output"`
	Width           int    `mapstructure:"width"`
	Background      string `mapstructure:"background"`
	PaletteOverflow string `mapstructure:"palette-overflow"`
	StoreBackend    string `mapstructure:"store-backend"`
	StoreDBConnect  string `mapstructure:"store-db-connect"`
	Emoji           string `mapstructure:"emoji"`
	Color           string `mapstructure:"color"`

	// --- Fields from histCmd.Flags() ---
	Bins int `mapstructure:"bins"`

	// --- Fields shared by compareCmd and modelsCmd ---
	Scores      string `mapstructure:"scores"`
	Experiment  string `mapstructure:"experiment"`
	TitlePrefix string `mapstructure:"title-prefix"`

	// --- Fields from compareCmd.Flags() ---
	Baseline      string `mapstructure:"baseline"`
	Balanced      string `mapstructure:"balanced"`
	BaselineLabel string `mapstructure:"baseline-label"`
	BalancedLabel string `mapstructure:"balanced-label"`

	// --- Fields from modelsCmd.Flags() ---
	Models string `mapstructure:"models"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ScoresPaths = slices.Clone(c.ScoresPaths)
	clone.Models = slices.Clone(c.Models)
	return &clone
}

// WithField returns a copy of the Config that targets another field.
func (c *Config) WithField(field string) *Config {
	clone := c.Clone()
	clone.Field = field
	return clone
}

// WithMetric returns a copy of the Config that targets another metric.
func (c *Config) WithMetric(metric string) *Config {
	clone := c.Clone()
	clone.Metric = metric
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processScoreInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveDataPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the score store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Field = strings.TrimSpace(input.FieldStr)
	cfg.Metric = strings.TrimSpace(input.MetricStr)
	cfg.OutputFile = input.OutputFile
	cfg.ChartFile = input.ChartFile
	cfg.Width = input.Width
	cfg.Background = input.Background
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Cohort Validation ---
	cfg.OutcomeField = strings.TrimSpace(input.Outcome)
	if cfg.OutcomeField == "" {
		cfg.OutcomeField = schema.DefaultOutcomeField
	}
	cfg.PositiveValue = strings.TrimSpace(input.Positive)
	if cfg.PositiveValue == "" {
		cfg.PositiveValue = schema.DefaultPositiveValue
	}

	// --- 2. Bins Validation ---
	if input.Bins < 0 || input.Bins > MaxBins {
		return fmt.Errorf("bins must be between 0 and %d (received %d)", MaxBins, input.Bins)
	}
	cfg.Bins = input.Bins

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, none", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Palette Validation ---
	cfg.PaletteOverflow = schema.OverflowPolicy(strings.ToLower(input.PaletteOverflow))
	if cfg.PaletteOverflow == "" {
		cfg.PaletteOverflow = schema.CycleOverflow
	}
	if _, ok := schema.ValidOverflowPolicies[cfg.PaletteOverflow]; !ok {
		return fmt.Errorf("invalid palette overflow '%s'. must be cycle, error", input.PaletteOverflow)
	}

	return nil
}

// processScoreInputs splits the comma-separated score inputs.
func processScoreInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.ScoresPaths = SplitList(input.Scores)
	cfg.Models = SplitList(input.Models)
	cfg.Experiment = strings.TrimSpace(input.Experiment)
	cfg.TitlePrefix = input.TitlePrefix
	cfg.BaselineModel = strings.TrimSpace(input.Baseline)
	cfg.BalancedModel = strings.TrimSpace(input.Balanced)
	if cfg.BaselineModel != "" && cfg.BaselineModel == cfg.BalancedModel {
		return fmt.Errorf("baseline and balanced must name different models (both are %q)", cfg.BaselineModel)
	}

	cfg.BaselineLabel = input.BaselineLabel
	if cfg.BaselineLabel == "" {
		cfg.BaselineLabel = schema.DefaultBaselineLabel
	}
	cfg.BalancedLabel = input.BalancedLabel
	if cfg.BalancedLabel == "" {
		cfg.BalancedLabel = schema.DefaultBalancedLabel
	}

	for i, p := range cfg.ScoresPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("could not resolve scores path %q: %w", p, err)
		}
		cfg.ScoresPaths[i] = abs
	}
	return nil
}

// resolveDataPath makes the dataset path absolute and checks that it is a regular file.
// An empty path is allowed here; commands that need a table report it.
func resolveDataPath(cfg *Config, input *ConfigRawInput) error {
	if input.Data == "" {
		cfg.DataPath = ""
		return nil
	}
	abs, err := filepath.Abs(input.Data)
	if err != nil {
		return fmt.Errorf("could not resolve data path %q: %w", input.Data, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("could not read data file %q: %w", input.Data, err)
	}
	if info.IsDir() {
		return fmt.Errorf("data path %q is a directory", input.Data)
	}
	cfg.DataPath = abs
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
