package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PlanPayload mirrors the server's plan ingest request body without
// importing the server package (which would pull in chi, pgx and other
// server-side dependencies).
type PlanPayload struct {
	Code           string         `json:"code"`
	Discipline     string         `json:"discipline"`
	Text           string         `json:"text"`
	ExpectedTotal  int            `json:"expected_total,omitempty"`
	ExpectedPhases map[string]int `json:"expected_phases,omitempty"`
}

// IngestResult is the subset of the server's ingest response the
// uploader reports on.
type IngestResult struct {
	IntervalsParsed int64 `json:"intervals_parsed"`
	Findings        int   `json:"findings"`
	Replaced        bool  `json:"replaced"`
}

// Client sends plan text to the PlanFit server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the PlanFit server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendPlan POSTs a plan payload to the server's ingest endpoint.
// Retries up to 3 times with exponential backoff on failure.
func (c *Client) SendPlan(payload PlanPayload) (*IngestResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling plan: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/plans", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var result IngestResult
			if err := json.Unmarshal(body, &result); err != nil {
				return nil, fmt.Errorf("decoding ingest response: %w", err)
			}
			return &result, nil
		}
		lastErr = fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, body)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
