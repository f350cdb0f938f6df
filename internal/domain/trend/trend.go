// Package trend fabricates multi-year series from an observed tag count.
//
// The series are a randomized heuristic, not measured history. Randomness
// comes from an injectable Source so callers can make output reproducible.
package trend

import (
	"math"
	"math/rand"
	"strconv"
)

// Model constants.
const (
	DefaultGrowth     = 0.15
	seasonalAmplitude = 0.05
	fluctuationSpread = 0.10
	noiseSpread       = 0.02
)

// DefaultGrowthTable holds the built-in growth rates. It is looked up with
// the base count modulo 10, so none of these keys ever match and the
// fallback rate applies unless a table keyed by digits is configured.
var DefaultGrowthTable = map[string]float64{ //nolint:gochecknoglobals // read-only lookup table
	"python":     0.25,
	"javascript": 0.2,
	"java":       -0.05,
	"c#":         0.15,
	"typescript": 0.3,
	"flutter":    0.35,
	"reactjs":    0.2,
	"android":    0.1,
	"c++":        0.05,
	"r":          0.15,
}

// Source yields uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// globalSource draws from math/rand's shared, goroutine-safe generator.
type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64() //nolint:gosec // synthetic data, not security sensitive
}

// GlobalSource returns a Source backed by the process-wide generator.
func GlobalSource() Source { return globalSource{} }

// NewSeededSource returns a deterministic Source. It must not be shared
// between goroutines.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible synthetic data
}

// Option applies a configuration option to the Synthesizer.
type Option func(*Synthesizer)

// WithSource sets the random source.
func WithSource(src Source) Option {
	return func(s *Synthesizer) {
		if src != nil {
			s.src = src
		}
	}
}

// WithGrowthTable replaces the growth lookup table.
func WithGrowthTable(table map[string]float64) Option {
	return func(s *Synthesizer) {
		if len(table) == 0 {
			return
		}
		s.table = make(map[string]float64, len(table))
		for k, v := range table {
			s.table[k] = v
		}
	}
}

// WithDefaultGrowth sets the rate used when the table has no entry.
func WithDefaultGrowth(rate float64) Option {
	return func(s *Synthesizer) {
		s.defaultGrowth = rate
	}
}

// Synthesizer expands base counts into synthetic series.
type Synthesizer struct {
	table         map[string]float64
	defaultGrowth float64
	src           Source
}

// New creates a Synthesizer using the default table and the global source.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		table:         DefaultGrowthTable,
		defaultGrowth: DefaultGrowth,
		src:           GlobalSource(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GrowthRate returns the base growth rate for a count.
func (s *Synthesizer) GrowthRate(base int) float64 {
	if rate, ok := s.table[strconv.Itoa(base%10)]; ok {
		return rate
	}
	return s.defaultGrowth
}

// Synthesize returns one non-negative value per year. The first value is
// the base count with noise applied; each later value grows from the one
// before it.
func (s *Synthesizer) Synthesize(base int, years []int) []int {
	out := make([]int, len(years))
	growth := s.GrowthRate(base)

	var prev float64
	for i := range years {
		seasonal := math.Sin(float64(i)*math.Pi/2) * seasonalAmplitude
		fluctuation := s.uniform(-fluctuationSpread, fluctuationSpread)

		v := float64(base)
		if i > 0 {
			v = prev * (1 + growth + seasonal + fluctuation)
		}
		v *= 1 + s.uniform(-noiseSpread, noiseSpread)
		v = math.Max(0, v)

		prev = v
		out[i] = int(math.Trunc(v))
	}
	return out
}

func (s *Synthesizer) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.src.Float64()
}
