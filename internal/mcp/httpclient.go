package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/planfit/internal/models"
	"github.com/meltforce/planfit/internal/storage"
)

// HTTPClient implements DataSource by calling the PlanFit REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// plan data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// QueryPlans lists plans via GET /api/v1/plans. The user ID is implied
// by the server side.
func (c *HTTPClient) QueryPlans(ctx context.Context, start, end time.Time, _ int) ([]models.PlanRow, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	body, err := c.get(ctx, "/api/v1/plans", params)
	if err != nil {
		return nil, err
	}

	var plans []models.PlanRow
	if err := json.Unmarshal(body, &plans); err != nil {
		return nil, fmt.Errorf("httpclient: decode plans: %w", err)
	}
	return plans, nil
}

// GetPlan retrieves one plan with intervals and findings via
// GET /api/v1/plans/{id}.
func (c *HTTPClient) GetPlan(ctx context.Context, planID uuid.UUID, _ int) (*storage.PlanDetail, error) {
	body, err := c.get(ctx, "/api/v1/plans/"+planID.String(), nil)
	if err != nil {
		return nil, err
	}

	var detail storage.PlanDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("httpclient: decode plan: %w", err)
	}
	return &detail, nil
}
