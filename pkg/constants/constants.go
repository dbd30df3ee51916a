// Package constants provides shared constants for the performance engine.
package constants

// DateLayout is the day-resolution format expected on ledger records
// (expense dates, change order dates) and used in output.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// DaysPerWeek scales the daily burn rate to a weekly figure
	DaysPerWeek = 7

	// DaysPerMonth scales the daily burn rate to a monthly figure
	DaysPerMonth = 30

	// TrendWindowDays is the size of each burn-trend comparison window
	TrendWindowDays = 30

	// TrendIncreaseRatio marks spending as increasing above this ratio
	TrendIncreaseRatio = 1.10

	// TrendDecreaseRatio marks spending as decreasing below this ratio
	TrendDecreaseRatio = 0.90

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Engine policy defaults; all of these are overridable via configuration.
const (
	// DefaultCostRatio is the assumed cost share of change order revenue
	// when no cost breakdown is supplied
	DefaultCostRatio = 0.70

	// DefaultNegativeImpactThreshold is the absolute-dollar margin loss
	// below which a change order is classified as a negative impact
	DefaultNegativeImpactThreshold = -1000.0

	// DefaultMarginVarianceWarn is the margin variance (percentage points)
	// below which a project is classified yellow
	DefaultMarginVarianceWarn = -2.0

	// DefaultMarginVarianceCritical is the margin variance (percentage
	// points) below which a project is classified red
	DefaultMarginVarianceCritical = -5.0

	// DefaultHighDriverImpact is the absolute-dollar impact above which a
	// risk driver is tagged high severity
	DefaultHighDriverImpact = 10000.0

	// DefaultMaxDrivers caps the driver list prepared for display
	DefaultMaxDrivers = 5

	// DefaultTopVarianceLines caps the overrun/savings rankings
	DefaultTopVarianceLines = 5
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default engine configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for
	// snapshot files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
