package loadcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/pkg/logger"
)

// result is the outcome of one /api/data request.
type result struct {
	index  int
	report model.Report
	err    error
}

// Verify fetches /api/data cfg.Requests times with cfg.Workers concurrent
// requesters, checks every report and prints a summary to out.
func Verify(ctx context.Context, cfg VerifyConfig, out io.Writer) (VerifyStats, error) {
	cfg = withVerifyDefaults(cfg)
	stats := VerifyStats{Requests: cfg.Requests, StartTime: time.Now()}

	logger.Get().Info(ctx, "starting trend verification",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.checkHealth(ctx); err != nil {
		return stats, err
	}

	results := fetchAll(ctx, client, cfg)

	var (
		good       []model.Report
		violations []error
		failures   []error
	)
	for _, res := range results {
		if res.err != nil {
			stats.Failed++
			failures = append(failures, fmt.Errorf("request %d: %w", res.index, res.err))
			continue
		}
		stats.Succeeded++
		good = append(good, res.report)
		if err := VerifyReport(res.report, cfg.MaxTags); err != nil {
			violations = append(violations, fmt.Errorf("request %d: %w", res.index, err))
		}
		if cfg.Verbose {
			printReport(out, res.index, res.report)
		}
	}
	if err := verifyConsistency(good); err != nil {
		violations = append(violations, err)
	}
	if len(good) > 0 {
		stats.RowsSeen = good[0].TotalRowsProcessed
	}
	stats.Violations = len(violations)
	stats.Duration = time.Since(stats.StartTime)

	printSummary(out, stats, failures, violations)

	if len(violations) > 0 || len(failures) > 0 {
		return stats, errors.Join(append(failures, violations...)...)
	}
	logger.Get().Info(ctx, "verification passed", logger.Int("requests", stats.Requests))
	return stats, nil
}

// fetchAll runs the requests through a fixed pool of workers.
func fetchAll(ctx context.Context, client *HTTPClient, cfg VerifyConfig) []result {
	jobs := make(chan int)
	results := make([]result, cfg.Requests)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rep, err := client.fetchReport(ctx)
				results[i] = result{index: i, report: rep, err: err}
			}
		}()
	}

	for i := 0; i < cfg.Requests; i++ {
		select {
		case <-ctx.Done():
			for j := i; j < cfg.Requests; j++ {
				results[j] = result{index: j, err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func withVerifyDefaults(cfg VerifyConfig) VerifyConfig {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Requests <= 0 {
		cfg.Requests = DefaultRequests
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers > cfg.Requests {
		cfg.Workers = cfg.Requests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTags <= 0 {
		cfg.MaxTags = DefaultMaxTags
	}
	return cfg
}

func printReport(out io.Writer, index int, rep model.Report) {
	faint := color.New(color.Faint)
	fmt.Fprintf(out, "request %d: %d rows, %d tags\n", index, rep.TotalRowsProcessed, len(rep.Tags))
	for _, tag := range rep.Tags {
		faint.Fprintf(out, "  %-14s avg %6.2f  %v\n", tag.Name, tag.Average, tag.Data)
	}
}

func printSummary(out io.Writer, stats VerifyStats, failures, violations []error) {
	bold := color.New(color.Bold)
	bold.Fprintln(out, "Verification summary")
	fmt.Fprintf(out, "  requests:   %d\n", stats.Requests)
	fmt.Fprintf(out, "  succeeded:  %s\n", color.GreenString("%d", stats.Succeeded))
	if stats.Failed > 0 {
		fmt.Fprintf(out, "  failed:     %s\n", color.RedString("%d", stats.Failed))
	} else {
		fmt.Fprintf(out, "  failed:     %d\n", stats.Failed)
	}
	fmt.Fprintf(out, "  rows:       %d\n", stats.RowsSeen)
	fmt.Fprintf(out, "  duration:   %s\n", stats.Duration.Round(time.Millisecond))

	for _, err := range failures {
		color.New(color.FgRed).Fprintf(out, "  ✗ %v\n", err)
	}
	for _, err := range violations {
		color.New(color.FgYellow).Fprintf(out, "  ! %v\n", err)
	}
	if len(failures) == 0 && len(violations) == 0 {
		color.New(color.FgGreen).Fprintln(out, "✓ all reports hold their invariants")
	}
}
