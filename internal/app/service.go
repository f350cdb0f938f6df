// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/tagtrend/internal/adapters/csvsource"
	"github.com/okian/tagtrend/internal/domain/aggregate"
	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/internal/domain/report"
	"github.com/okian/tagtrend/internal/domain/trend"
	"github.com/okian/tagtrend/internal/domain/types"
	"github.com/okian/tagtrend/pkg/logger"
	"github.com/okian/tagtrend/pkg/metrics"
)

// Service answers trend and tag queries by re-reading the CSV file on
// every call. Nothing computed is kept between calls; the only shared
// state is the atomic counters behind GetStats.
type Service struct {
	// Configuration
	dataPath      string
	topN          int
	years         []int
	batchSize     int
	progressEvery int
	seed          int64
	growthRates   map[string]float64
	defaultGrowth float64

	// Counters
	requests         atomic.Int64
	failures         atomic.Int64
	lastRows         atomic.Int64
	lastSkipped      atomic.Int64
	lastDistinctTags atomic.Int64
	lastDurationMs   atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataPath:      defaultDataPath,
		topN:          defaultTopN,
		batchSize:     defaultBatchSize,
		progressEvery: defaultProgressEvery,
		defaultGrowth: defaultGrowth,
	}
	for i := 0; i < defaultYearSpan; i++ {
		s.years = append(s.years, defaultAnchorYear+i)
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Years returns a copy of the trend window.
func (s *Service) Years() []int {
	return append([]int(nil), s.years...)
}

// Trends aggregates the file, synthesizes a series for each of the top
// tags and returns their yearly shares.
func (s *Service) Trends(ctx context.Context) (model.Report, error) {
	tally, err := s.aggregate(ctx)
	if err != nil {
		return model.Report{}, err
	}

	synth := trend.New(
		trend.WithSource(s.newSource()),
		trend.WithGrowthTable(s.growthRates),
		trend.WithDefaultGrowth(s.defaultGrowth),
	)

	top := tally.Top(s.topN)
	series := make([]report.Series, len(top))
	for i, tc := range top {
		series[i] = report.Series{Name: tc.Tag, Values: synth.Synthesize(tc.Count, s.years)}
	}
	metrics.RecordTrendsSynthesized(len(series))

	rep := report.Build(s.years, series, tally.Rows())
	s.logger.Debug(ctx, "trend report built",
		logger.Int("tags", len(rep.Tags)),
		logger.Int("rows", rep.TotalRowsProcessed),
	)
	return rep, nil
}

// TopN returns the n most frequent tags with their raw counts.
func (s *Service) TopN(ctx context.Context, n int) ([]types.TagCount, error) {
	tally, err := s.aggregate(ctx)
	if err != nil {
		return nil, err
	}
	return tally.Top(n), nil
}

// Rank returns the position and count of a single tag.
func (s *Service) Rank(ctx context.Context, tag string) (types.TagCount, error) {
	tally, err := s.aggregate(ctx)
	if err != nil {
		return types.TagCount{}, err
	}
	tc, ok := tally.Rank(tag)
	if !ok {
		return types.TagCount{}, fmt.Errorf("%w: %q", ErrTagNotFound, tag)
	}
	return tc, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"dataPath":          s.dataPath,
		"topN":              s.topN,
		"years":             s.Years(),
		"requests":          s.requests.Load(),
		"failures":          s.failures.Load(),
		"lastRowsProcessed": s.lastRows.Load(),
		"lastRowsSkipped":   s.lastSkipped.Load(),
		"lastDistinctTags":  s.lastDistinctTags.Load(),
		"lastDurationMs":    s.lastDurationMs.Load(),
	}
}

// aggregate reads the whole file into a fresh tally.
func (s *Service) aggregate(ctx context.Context) (*aggregate.Tally, error) {
	start := time.Now()
	s.requests.Add(1)

	tally := aggregate.NewTally()
	src := csvsource.New(s.dataPath,
		csvsource.WithBatchSize(s.batchSize),
		csvsource.WithProgressEvery(s.progressEvery),
		csvsource.WithLogger(s.logger.Named("csvsource")),
	)
	stats, err := src.Each(ctx, func(batch []model.Record) error {
		tally.AddRecords(batch)
		return nil
	})
	elapsed := time.Since(start)
	latencyMs := float64(elapsed.Nanoseconds()) / 1e6

	metrics.RecordRowsSkipped(stats.Skipped)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordAggregation(metrics.OutcomeFailure, latencyMs)
		if errors.Is(err, csvsource.ErrDataSource) {
			metrics.RecordSourceError()
		}
		s.logger.Error(ctx, "aggregation failed",
			logger.String("path", s.dataPath),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return nil, err
	}

	s.lastRows.Store(int64(tally.Rows()))
	s.lastSkipped.Store(int64(stats.Skipped))
	s.lastDistinctTags.Store(int64(tally.Distinct()))
	s.lastDurationMs.Store(elapsed.Milliseconds())

	metrics.RecordRowsProcessed(tally.Rows())
	metrics.RecordAggregation(metrics.OutcomeSuccess, latencyMs)
	metrics.UpdateDistinctTags(tally.Distinct())
	metrics.UpdateLastAggregation(tally.Rows(), time.Now().Unix())

	if stats.Skipped > 0 {
		s.logger.Warn(ctx, "skipped malformed rows",
			logger.Int("skipped", stats.Skipped),
			logger.String("path", s.dataPath),
		)
	}
	s.logger.Info(ctx, "aggregation complete",
		logger.Int("rows", tally.Rows()),
		logger.Int("skipped", stats.Skipped),
		logger.Int("distinctTags", tally.Distinct()),
		logger.Duration("elapsed", elapsed),
	)
	return tally, nil
}

// newSource returns the random source for one request. A seeded source is
// created per call so concurrent requests never share it.
func (s *Service) newSource() trend.Source {
	if s.seed != 0 {
		return trend.NewSeededSource(s.seed)
	}
	return trend.GlobalSource()
}
