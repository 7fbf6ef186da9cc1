package fieldapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/internal/mapdata"
)

const sourceName = "field-data-api"

// maxBodySize caps how much of a response body is read
const maxBodySize = 10 << 20

// Client reads and writes field-data records through the hosted REST API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new field-data API client
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetAll fetches every field-data record. Every failure, including an
// undecodable body, is reported as *domain.FetchError.
func (c *Client) GetAll(ctx context.Context) ([]domain.RawRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/field-data", nil)
	if err != nil {
		return nil, &domain.FetchError{Source: sourceName, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Source: sourceName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domain.FetchError{Source: sourceName, Err: fmt.Errorf("read body: %w", err)}
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, &domain.FetchError{Source: sourceName, Err: err}
	}

	records, err := mapdata.ParseRecords(body)
	if err != nil {
		return nil, &domain.FetchError{Source: sourceName, Err: err}
	}

	return records, nil
}

// Create submits a new field-data record
func (c *Client) Create(ctx context.Context, rec domain.RawRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("fieldapi: failed to marshal record: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/field-data", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("fieldapi: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fieldapi: create request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("fieldapi: failed to read create response: %w", err)
	}
	if err := checkStatus(resp.StatusCode, body); err != nil {
		return fmt.Errorf("fieldapi: %w", err)
	}

	return nil
}

// Health checks API connectivity
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return fmt.Errorf("fieldapi: failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fieldapi: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fieldapi: health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// checkStatus maps non-2xx responses to descriptive errors
func checkStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	var apiErr struct {
		Message string `json:"message"`
	}
	detail := ""
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		detail = ": " + apiErr.Message
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("authorization error (HTTP %d)%s", code, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded (HTTP 429)%s", detail)
	default:
		return fmt.Errorf("unexpected HTTP status %d%s", code, detail)
	}
}
