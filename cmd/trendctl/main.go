// Command trendctl generates CSV fixtures and checks a running tagtrend
// service against them.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/tagtrend/internal/loadcheck"
	"github.com/okian/tagtrend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:           "trendctl",
		Short:         "Fixture and verification tool for the tag trends service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := logger.Init(logger.WithFormat(logFormat), logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(newGenerateCmd(), newVerifyCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		cfg   loadcheck.GenerateConfig
		tags  string
		start string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a CSV fixture of dated, tagged questions",
		Example: `  trendctl generate --out data/questions.csv --rows 100000
  trendctl generate --out bad.csv --malformed-every 5 --tags go,rust,zig`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tags != "" {
				for _, t := range strings.Split(tags, ",") {
					if t = strings.TrimSpace(t); t != "" {
						cfg.Tags = append(cfg.Tags, t)
					}
				}
			}
			if start != "" {
				d, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return err
				}
				cfg.StartDate = d
			}

			stats, err := loadcheck.GenerateFile(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %d rows to %s (%d valid, %d malformed)\n",
				stats.Rows, cfg.Path, stats.Valid, stats.Malformed)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.Path, "out", "o", "data/questions.csv", "output CSV file")
	f.IntVarP(&cfg.Rows, "rows", "n", loadcheck.DefaultRows, "number of data rows")
	f.IntVar(&cfg.MalformedEvery, "malformed-every", 0, "write every Nth row with a missing column (0 disables)")
	f.IntVar(&cfg.TagsPerRecord, "tags-per-record", loadcheck.DefaultTagsPerRecord, "maximum tags per row")
	f.Int64Var(&cfg.Seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.StringVar(&tags, "tags", "", "comma separated tag vocabulary, most popular first")
	f.StringVar(&start, "start", "", "date of the first row (YYYY-MM-DD)")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var cfg loadcheck.VerifyConfig

	cmd := &cobra.Command{
		Use:     "verify",
		Short:   "Fetch /api/data concurrently and check every report",
		Example: `  trendctl verify --url http://localhost:3000 --requests 50 --workers 8`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := loadcheck.Verify(cmd.Context(), cfg, cmd.OutOrStdout())
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.BaseURL, "url", "u", loadcheck.DefaultBaseURL, "base URL of the service")
	f.IntVarP(&cfg.Requests, "requests", "r", loadcheck.DefaultRequests, "number of requests")
	f.IntVarP(&cfg.Workers, "workers", "w", loadcheck.DefaultWorkers, "concurrent requesters")
	f.DurationVar(&cfg.Timeout, "timeout", loadcheck.DefaultTimeout, "per request timeout")
	f.IntVar(&cfg.MaxTags, "max-tags", loadcheck.DefaultMaxTags, "maximum tags a report may carry")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "print every report")
	return cmd
}
