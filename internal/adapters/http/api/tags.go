package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// TagsDependencies defines the interface for tag listing operations.
type TagsDependencies interface {
	TopN(ctx context.Context, n int) ([]TagCount, error)
}

// TagsHandler handles ranked tag count requests.
type TagsHandler struct {
	deps     TagsDependencies
	maxLimit int
}

// NewTagsHandler creates a new tags handler.
func NewTagsHandler(deps TagsDependencies, maxLimit int) *TagsHandler {
	return &TagsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTags handles GET /api/tags?limit=N requests.
func (h *TagsHandler) HandleGetTags(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tags"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, codeBadRequest, Wrap(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, codeLimitExceeded, Wrap(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// TagRankDependencies defines the interface for single tag lookups.
type TagRankDependencies interface {
	Rank(ctx context.Context, tag string) (TagCount, error)
}

// TagRankHandler handles single tag rank requests.
type TagRankHandler struct {
	deps TagRankDependencies
}

// NewTagRankHandler creates a new tag rank handler.
func NewTagRankHandler(deps TagRankDependencies) *TagRankHandler {
	return &TagRankHandler{deps: deps}
}

// HandleGetTagRank handles GET /api/tags/{tag} requests.
func (h *TagRankHandler) HandleGetTagRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tag_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Work on the escaped path so tags like "ci/cd" can be sent as ci%2Fcd.
	raw := strings.TrimPrefix(r.URL.EscapedPath(), "/api/tags/")
	tag, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(tag) == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, codeBadRequest, Wrap(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), tag)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
