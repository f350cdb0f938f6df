// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers a YAML file and environment variables on top of New.
// - Validation failures wrap ErrInvalidConfig.
package config

// Default values used by New.
const (
	DefaultAddr          = ":3000"
	DefaultDataPath      = "new.csv"
	DefaultTopN          = 10
	DefaultMaxTagsLimit  = 100
	DefaultAnchorYear    = 2023
	DefaultYearSpan      = 3
	DefaultBatchSize     = 1000
	DefaultProgressEvery = 10_000
	DefaultGrowth        = 0.15
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr"`
	// DataPath points at the CSV file read on every request.
	DataPath string `koanf:"data_path"`
	// StaticDir optionally serves the web client from disk instead of the
	// embedded copy. The directory is created when missing.
	StaticDir string `koanf:"static_dir"`
	// TopN is how many tags get a synthetic trend.
	TopN int `koanf:"top_n"`
	// MaxTagsLimit caps GET /api/tags?limit.
	MaxTagsLimit int `koanf:"max_tags_limit"`
	// AnchorYear is the first year of the trend window.
	AnchorYear int `koanf:"anchor_year"`
	// YearSpan is the number of contiguous years in the window.
	YearSpan int `koanf:"year_span"`
	// BatchSize is the number of CSV rows read per batch.
	BatchSize int `koanf:"batch_size"`
	// ProgressEvery logs progress whenever the processed row count is a multiple of it.
	ProgressEvery int `koanf:"progress_every"`
	// Seed makes trend synthesis deterministic when non-zero.
	Seed int64 `koanf:"seed"`
	// GrowthRates overrides the growth lookup table.
	GrowthRates map[string]float64 `koanf:"growth_rates"`
	// DefaultGrowth is used when the lookup table has no match.
	DefaultGrowth float64 `koanf:"default_growth"`
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          DefaultAddr,
		DataPath:      DefaultDataPath,
		TopN:          DefaultTopN,
		MaxTagsLimit:  DefaultMaxTagsLimit,
		AnchorYear:    DefaultAnchorYear,
		YearSpan:      DefaultYearSpan,
		BatchSize:     DefaultBatchSize,
		ProgressEvery: DefaultProgressEvery,
		DefaultGrowth: DefaultGrowth,
		CORSOrigins:   []string{"*"},
	}
}

// Years returns the contiguous trend window described by AnchorYear and YearSpan.
func (c *Config) Years() []int {
	if c.YearSpan <= 0 {
		return nil
	}
	years := make([]int, c.YearSpan)
	for i := range years {
		years[i] = c.AnchorYear + i
	}
	return years
}
