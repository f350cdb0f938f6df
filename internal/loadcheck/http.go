package loadcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/tagtrend/internal/domain/model"
	"github.com/okian/tagtrend/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET request and returns the status and body.
func (c *HTTPClient) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

// checkHealth verifies the service answers /healthz.
func (c *HTTPClient) checkHealth(ctx context.Context) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// fetchReport retrieves and decodes GET /api/data.
func (c *HTTPClient) fetchReport(ctx context.Context) (model.Report, error) {
	status, body, err := c.get(ctx, "/api/data")
	if err != nil {
		return model.Report{}, err
	}
	if status != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return model.Report{}, fmt.Errorf("GET /api/data returned %d: %s (%s)", status, apiErr.Error, apiErr.Code)
	}
	var rep model.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		return model.Report{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return rep, nil
}
