package csvsource

import "github.com/okian/tagtrend/pkg/logger"

// Default reader configuration constants.
const (
	defaultBatchSize     = 1000
	defaultProgressEvery = 10_000
)

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithBatchSize sets how many raw rows are read before a batch is handed on.
func WithBatchSize(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithProgressEvery sets the progress log cadence in processed rows; 0 disables it.
func WithProgressEvery(n int) Option {
	return func(s *Source) {
		if n >= 0 {
			s.progressEvery = n
		}
	}
}

// WithLogger sets a custom logger for the source.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}
