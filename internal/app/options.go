package service

import "github.com/okian/tagtrend/pkg/logger"

// Default service configuration constants.
const (
	defaultDataPath      = "new.csv"
	defaultTopN          = 10
	defaultAnchorYear    = 2023
	defaultYearSpan      = 3
	defaultBatchSize     = 1000
	defaultProgressEvery = 10_000
	defaultGrowth        = 0.15
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataPath sets the CSV file read on every request.
func WithDataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dataPath = path
		}
	}
}

// WithTopN sets how many tags get a trend.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithYears sets the trend window.
func WithYears(years []int) Option {
	return func(s *Service) {
		if len(years) > 0 {
			s.years = append([]int(nil), years...)
		}
	}
}

// WithBatchSize sets the CSV read batch size.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithProgressEvery sets the progress log cadence in rows.
func WithProgressEvery(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.progressEvery = n
		}
	}
}

// WithSeed makes trend synthesis deterministic. Zero keeps it random.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithGrowthRates overrides the growth lookup table.
func WithGrowthRates(rates map[string]float64) Option {
	return func(s *Service) {
		s.growthRates = rates
	}
}

// WithDefaultGrowth sets the fallback growth rate.
func WithDefaultGrowth(rate float64) Option {
	return func(s *Service) {
		s.defaultGrowth = rate
	}
}
