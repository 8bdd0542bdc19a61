// Package probe is the client side of the growth dashboard API: a typed HTTP
// client, terminal rendering, and an end-to-end verification run.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/types"
)

// ErrUnhealthy is returned when /healthz does not answer 200.
var ErrUnhealthy = errors.New("service unhealthy")

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	Status  int             `json:"-"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Issues  []feature.Issue `json:"issues,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d %s: %s", e.Status, e.Code, e.Message)
}

// Client wraps http.Client with the API base URL and a per-request timeout.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Industries calls GET /industries.
func (c *Client) Industries(ctx context.Context) ([]string, error) {
	var out types.IndustriesResponse
	if err := c.do(ctx, http.MethodGet, "/industries", nil, &out); err != nil {
		return nil, err
	}
	return out.Industries, nil
}

// Predict calls POST /predict.
func (c *Client) Predict(ctx context.Context, in types.PredictRequest) (types.PredictResponse, error) {
	var out types.PredictResponse
	err := c.do(ctx, http.MethodPost, "/predict", in, &out)
	return out, err
}

// Skills calls GET /skills.
func (c *Client) Skills(ctx context.Context, industry, field string) (types.SkillsResponse, error) {
	q := url.Values{}
	q.Set("industry", industry)
	if field != "" {
		q.Set("field", field)
	}
	var out types.SkillsResponse
	err := c.do(ctx, http.MethodGet, "/skills?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
