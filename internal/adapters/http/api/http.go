// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/tagtrend/internal/adapters/csvsource"
	service "github.com/okian/tagtrend/internal/app"
	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/internal/domain/types"
	"github.com/okian/tagtrend/pkg/logger"
)

// Default handler configuration constants.
const defaultMaxTagsLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Trends builds the synthetic trend report from the data file.
	Trends(ctx context.Context) (model.Report, error)

	// Read operations expose raw tag counts.
	TopN(ctx context.Context, n int) ([]TagCount, error)
	Rank(ctx context.Context, tag string) (TagCount, error)
}

// TagCount mirrors the read shape returned by tag queries.
type TagCount = types.TagCount

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxTagsLimit caps the limit accepted by GET /api/tags.
func WithMaxTagsLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTagsLimit = n
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxTagsLimit int
	logger       logger.Logger

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	dataHandler    *DataHandler
	tagsHandler    *TagsHandler
	tagRankHandler *TagRankHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxTagsLimit: defaultMaxTagsLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.dataHandler = NewDataHandler(deps, s.logger)
	s.tagsHandler = NewTagsHandler(deps, s.maxTagsLimit)
	s.tagRankHandler = NewTagRankHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/data", MetricsMiddleware(s.dataHandler.HandleGetData, "data"))
	mux.HandleFunc("/api/tags", MetricsMiddleware(s.tagsHandler.HandleGetTags, "tags"))
	mux.HandleFunc("/api/tags/", MetricsMiddleware(s.tagRankHandler.HandleGetTagRank, "tag_rank"))

	s.logger.Debug(ctx, "api routes registered", logger.Int("maxTagsLimit", s.maxTagsLimit))
}

// Error codes carried in errorResponse.Code.
const (
	codeBadRequest      = "bad_request"
	codeLimitExceeded   = "limit_exceeded"
	codeNotFound        = "not_found"
	codeDataSourceError = "data_source_error"
	codeInternalError   = "internal_error"
)

// dataSourceMessage replaces data source errors on the wire so file paths
// stay in the logs.
const dataSourceMessage = "Failed to process CSV file"

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps a service error onto a status code and body.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTagNotFound), errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, Wrap(op, err))
	case errors.Is(err, csvsource.ErrDataSource):
		writeError(w, http.StatusInternalServerError, codeDataSourceError, errors.New(dataSourceMessage))
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, Wrap(op, err))
	}
}
