package api

import (
	"context"
	"net/http"

	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/pkg/logger"
)

// DataDependencies defines the interface for trend report operations.
type DataDependencies interface {
	Trends(ctx context.Context) (model.Report, error)
}

// DataHandler serves the trend report consumed by the web client.
type DataHandler struct {
	deps   DataDependencies
	logger logger.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps DataDependencies, l logger.Logger) *DataHandler {
	return &DataHandler{deps: deps, logger: l}
}

// HandleGetData handles GET /api/data requests.
func (h *DataHandler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rep, err := h.deps.Trends(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "trend report failed",
			logger.String("op", op),
			logger.String("requestID", RequestIDFromContext(r.Context())),
			logger.Error(err),
		)
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
