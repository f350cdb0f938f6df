// Package loadcheck generates CSV fixtures and verifies a running
// service's trend reports against their invariants.
package loadcheck

import "time"

// Default configuration constants.
const (
	DefaultRows          = 10_000
	DefaultBaseURL       = "http://localhost:3000"
	DefaultRequests      = 20
	DefaultWorkers       = 4
	DefaultTimeout       = 30 * time.Second
	DefaultMaxTags       = 10
	DefaultTagsPerRecord = 3
	percentTolerance     = 0.1
	percentTotal         = 100.0
)

// DefaultTags is the vocabulary used by Generate when none is given.
var DefaultTags = []string{ //nolint:gochecknoglobals // read-only fixture vocabulary
	"python", "javascript", "java", "c#", "typescript", "go", "rust",
	"kotlin", "swift", "php", "ruby", "c++", "sql", "r", "dart", "flutter",
	"reactjs", "android", "docker", "kubernetes",
}

// GenerateConfig holds configuration for a generated CSV fixture.
type GenerateConfig struct {
	Path           string    // output file
	Rows           int       // data rows, malformed ones included
	Tags           []string  // tag vocabulary; earlier tags are drawn more often
	TagsPerRecord  int       // upper bound of tags per row
	MalformedEvery int       // every Nth row is too short; 0 disables
	Seed           int64     // 0 picks a time based seed
	StartDate      time.Time // date of the first row
}

// GenerateStats summarizes a generated fixture.
type GenerateStats struct {
	Rows      int // rows written, malformed ones included
	Valid     int // rows with every column
	Malformed int
}

// VerifyConfig holds configuration for a verification run.
type VerifyConfig struct {
	BaseURL  string        // base URL of the service
	Requests int           // number of /api/data requests
	Workers  int           // concurrent requesters
	Timeout  time.Duration // per request timeout
	MaxTags  int           // upper bound on tags per report
	Verbose  bool          // print every report summary
}

// VerifyStats holds verification statistics.
type VerifyStats struct {
	Requests   int
	Succeeded  int
	Failed     int
	Violations int
	RowsSeen   int // total_rows_processed of the first good report
	StartTime  time.Time
	Duration   time.Duration
}
