// Package csvsource streams question records out of the tag CSV file.
//
// The file is opened and read from the start on every call. Rows are
// handed on in batches so memory stays bounded by the batch size, not the
// file size.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/pkg/logger"
)

// Source reads records from a CSV file on disk.
type Source struct {
	path          string
	batchSize     int
	progressEvery int
	logger        logger.Logger
}

// Stats summarizes one pass over the file.
type Stats struct {
	Processed int // valid rows handed to the callback
	Skipped   int // malformed rows dropped
	Batches   int
}

// BatchFunc receives the valid records of one batch. The slice is not
// reused after the call returns.
type BatchFunc func(batch []model.Record) error

// New creates a Source for the CSV file at path.
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:          path,
		batchSize:     defaultBatchSize,
		progressEvery: defaultProgressEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("csvsource")
	}
	return s
}

// Path returns the file the source reads.
func (s *Source) Path() string { return s.path }

// ParseRecord maps the leading columns of a row onto a Record.
// Extra columns are ignored.
func ParseRecord(fields []string) (model.Record, error) {
	if len(fields) < model.MinFields {
		return model.Record{}, fmt.Errorf("%w: %d fields, want at least %d", ErrRowSkipped, len(fields), model.MinFields)
	}
	return model.Record{Date: fields[0], Tags: fields[1], Title: fields[2]}, nil
}

// Each reads the whole file and calls fn once per non-empty batch.
// The header row is discarded. Malformed rows are counted and skipped;
// anything that stops the file from being read yields ErrDataSource.
// The context is checked between batches.
func (s *Source) Each(ctx context.Context, fn BatchFunc) (Stats, error) {
	var stats Stats

	f, err := os.Open(s.path)
	if err != nil {
		return stats, fmt.Errorf("%w: open %s: %w", ErrDataSource, s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn(ctx, "failed to close data file", logger.String("path", s.path), logger.Error(cerr))
		}
	}()

	// Reject bytes that are not UTF-8, then drop a leading UTF-8 BOM. Other
	// BOMs are not valid UTF-8 and fail validation.
	dec := transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder())
	r := csv.NewReader(transform.NewReader(f, dec))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	if _, err := r.Read(); err != nil {
		var perr *csv.ParseError
		switch {
		case errors.Is(err, io.EOF):
			return stats, fmt.Errorf("%w: %s has no header row", ErrDataSource, s.path)
		case errors.As(err, &perr):
			// unreadable header, still discarded
		default:
			return stats, fmt.Errorf("%w: read header of %s: %w", ErrDataSource, s.path, err)
		}
	}

	nextProgress := s.progressEvery
	for done := false; !done; {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		batch := make([]model.Record, 0, s.batchSize)
		for read := 0; read < s.batchSize; read++ {
			fields, err := r.Read()
			if errors.Is(err, io.EOF) {
				done = true
				break
			}
			if err != nil {
				var perr *csv.ParseError
				if !errors.As(err, &perr) {
					return stats, fmt.Errorf("%w: read %s: %w", ErrDataSource, s.path, err)
				}
				stats.Skipped++
				s.logger.Debug(ctx, "skipping unparsable row", logger.Int("line", perr.Line), logger.Error(perr.Err))
				continue
			}
			rec, err := ParseRecord(fields)
			if err != nil {
				stats.Skipped++
				s.logger.Debug(ctx, "skipping short row", logger.Error(err))
				continue
			}
			batch = append(batch, rec)
		}

		if len(batch) == 0 {
			continue
		}
		if err := fn(batch); err != nil {
			return stats, err
		}
		stats.Batches++
		stats.Processed += len(batch)

		if s.progressEvery > 0 && stats.Processed >= nextProgress {
			s.logger.Info(ctx, "rows processed", logger.Int("rows", stats.Processed), logger.String("path", s.path))
			for nextProgress <= stats.Processed {
				nextProgress += s.progressEvery
			}
		}
	}

	return stats, nil
}
