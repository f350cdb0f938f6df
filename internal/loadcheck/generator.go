package loadcheck

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tagtrend/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o644
)

// GenerateFile writes a fixture to cfg.Path, creating parent directories.
func GenerateFile(ctx context.Context, cfg GenerateConfig) (GenerateStats, error) {
	if cfg.Path == "" {
		return GenerateStats{}, fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return GenerateStats{}, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return GenerateStats{}, fmt.Errorf("failed to create file: %w", err)
	}

	stats, err := Generate(ctx, cfg, file)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close file: %w", cerr)
	}
	if err != nil {
		return stats, err
	}

	logger.Get().Info(ctx, "fixture written",
		logger.String("path", cfg.Path),
		logger.Int("rows", stats.Rows),
		logger.Int("malformed", stats.Malformed),
	)
	return stats, nil
}

// Generate writes a header and cfg.Rows data rows of date, tags, title.
// Tags follow a skewed distribution so the ranking has a clear head.
func Generate(ctx context.Context, cfg GenerateConfig, w io.Writer) (GenerateStats, error) {
	var stats GenerateStats

	tags := cfg.Tags
	if len(tags) == 0 {
		tags = DefaultTags
	}
	perRecord := cfg.TagsPerRecord
	if perRecord <= 0 {
		perRecord = DefaultTagsPerRecord
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	start := cfg.StartDate
	if start.IsZero() {
		start = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // fixture data, not security sensitive

	out := csv.NewWriter(w)
	if err := out.Write([]string{"date", "tags", "title"}); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < cfg.Rows; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("context cancelled during generation: %w", err)
			}
		}

		date := start.AddDate(0, 0, i%365).Format(time.DateOnly)
		var row []string
		if cfg.MalformedEvery > 0 && (i+1)%cfg.MalformedEvery == 0 {
			row = []string{date, pickTags(rng, tags, perRecord)}
			stats.Malformed++
		} else {
			row = []string{date, pickTags(rng, tags, perRecord), "Question " + uuid.NewString()}
			stats.Valid++
		}
		if err := out.Write(row); err != nil {
			return stats, fmt.Errorf("failed to write row %d: %w", i, err)
		}
		stats.Rows++
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return stats, fmt.Errorf("failed to flush rows: %w", err)
	}
	return stats, nil
}

// pickTags draws 1..limit distinct tags, favouring the front of the list.
func pickTags(rng *rand.Rand, tags []string, limit int) string {
	n := 1 + rng.Intn(limit)
	seen := make(map[int]bool, n)
	picked := make([]string, 0, n)
	for len(picked) < n && len(seen) < len(tags) {
		// squaring a uniform draw skews it toward zero
		u := rng.Float64()
		idx := int(u * u * float64(len(tags)))
		if seen[idx] {
			continue
		}
		seen[idx] = true
		picked = append(picked, tags[idx])
	}
	return strings.Join(picked, ", ")
}
