package schema

// Custom string types for type safety.
type (
	// ChartKind represents one of the supported chart renderings.
	ChartKind string

	// OutputMode represents the format of the aggregate output.
	OutputMode string

	// ColumnKind represents the inferred type of a table column.
	ColumnKind string

	// DatabaseBackend represents the database backend for the score store.
	DatabaseBackend string

	// OverflowPolicy decides what happens when a palette runs out of colors.
	OverflowPolicy string
)

// All chart kinds supported.
const (
	BarChart     ChartKind = "bar"
	PieChart     ChartKind = "pie"
	BoxChart     ChartKind = "box"
	HistChart    ChartKind = "hist"
	CorrChart    ChartKind = "corr"
	CompareChart ChartKind = "compare"
	ModelsChart  ChartKind = "models"
	PageChart    ChartKind = "page" // every default chart on one page
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	NoneOut    OutputMode = "none"
)

// All column kinds supported.
const (
	NumericKind     ColumnKind = "numeric"
	CategoricalKind ColumnKind = "categorical"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All palette overflow policies supported.
const (
	CycleOverflow OverflowPolicy = "cycle" // default
	ErrorOverflow OverflowPolicy = "error"
)

// Dataset defaults taken from the bank churn dataset layout.
const (
	DefaultOutcomeField  = "Exited"
	DefaultPositiveValue = "1"
	PositiveCohortLabel  = "Exited"
	NegativeCohortLabel  = "Not exited"
	MissingLabel         = "(missing)"
	CountAxisTitle       = "Number of customers"
)

// Metric chart defaults.
const (
	DefaultCompareTitlePrefix = "LogReg"
	DefaultModelsTitlePrefix  = "Models"
	DefaultBaselineLabel      = "Not Balanced"
	DefaultBalancedLabel      = "Balanced"
)

// Default theme colors.
const (
	TransparentBackground = "rgba(0,0,0,0)"
	HeatmapLowColor       = "#7AC5CD"
	HeatmapMidColor       = "#E0E0EB"
	HeatmapHighColor      = "#E61C41"
	HeatmapGridColor      = "#FFFFFF" // separator drawn between heatmap cells
)

// DefaultCohortColors is the two-color pair for positive and negative cohorts.
var DefaultCohortColors = []string{"#7AC5CD", "#E61C41"}

// DefaultCategoryColors is the palette for pie slices.
var DefaultCategoryColors = []string{"#7AC5CD", "#E61C41", "#D08770", "#A3BE8C", "#7ABDFF"}

// DefaultModelColors is the palette for multi-model metric charts.
var DefaultModelColors = []string{"#7AC5CD", "#E61C41", "#D08770", "#A3BE8C"}

// DefaultCategoricalFields lists the categorical churn fields worth a bar chart.
var DefaultCategoricalFields = []string{"Geography", "Gender", "HasCrCard", "IsActiveMember"}

// DefaultNumericFields lists the numeric churn fields worth a box plot or histogram.
var DefaultNumericFields = []string{"Age", "Balance", "EstimatedSalary", "CreditScore", "Tenure", "NumOfProducts"}

// DefaultPieFields lists the fields worth a pie chart.
var DefaultPieFields = []string{"Exited", "Geography", "Gender", "HasCrCard", "IsActiveMember"}

// AllChartKinds returns a list of all supported chart kinds.
var AllChartKinds = []ChartKind{BarChart, PieChart, BoxChart, HistChart, CorrChart, CompareChart, ModelsChart}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	NoneOut:    {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidOverflowPolicies lists all valid palette overflow policies.
var ValidOverflowPolicies = map[OverflowPolicy]struct{}{
	CycleOverflow: {},
	ErrorOverflow: {},
}
