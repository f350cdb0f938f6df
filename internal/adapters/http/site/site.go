// Package site serves the single-page web client.
package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/okian/tagtrend/pkg/logger"
)

// Error constants
var (
	ErrServe = errors.New("web client serve failed")
)

const indexFile = "index.html"

// Option applies a configuration option to Register.
type Option func(*settings)

type settings struct {
	dir    string
	logger logger.Logger
}

// WithDir serves the client from dir on disk instead of the embedded copy.
// The directory is created when missing and seeded with the bundled
// index.html when it has none.
func WithDir(dir string) Option {
	return func(s *settings) {
		s.dir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Register attaches the web client at / on mux.
func Register(ctx context.Context, mux *http.ServeMux, opts ...Option) error {
	if mux == nil {
		panic("mux is nil")
	}
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	files := FS()
	if cfg.dir != "" {
		if err := bootstrap(cfg.dir); err != nil {
			return err
		}
		files = http.Dir(cfg.dir)
		if cfg.logger != nil {
			cfg.logger.Info(ctx, "serving web client from disk", logger.String("dir", cfg.dir))
		}
	}

	mux.Handle("/", http.FileServer(files))
	return nil
}

// bootstrap makes sure dir exists and holds an index page.
func bootstrap(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrServe, dir, err)
	}
	index := filepath.Join(dir, indexFile)
	if _, err := os.Stat(index); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", ErrServe, index, err)
	}
	page, err := IndexHTML()
	if err != nil {
		return fmt.Errorf("%w: read embedded index: %w", ErrServe, err)
	}
	if err := os.WriteFile(index, page, 0o644); err != nil { //nolint:gosec // public web asset
		return fmt.Errorf("%w: write %s: %w", ErrServe, index, err)
	}
	return nil
}
