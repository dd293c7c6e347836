// Package remote holds the HTTP/JSON clients for the forecasting, regression
// and insight services. Calls are never retried; failures surface as
// *NetworkError.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client posts JSON to one service.
type Client struct {
	service    string
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient returns a client for baseURL. A non-positive timeout uses 60s.
func NewClient(service, baseURL string, httpTimeout time.Duration) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	return &Client{
		service:    service,
		httpClient: &http.Client{Timeout: httpTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithAPIKey sets a bearer token sent with every request.
func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = key
	return c
}

// WithLogger sets the request logger.
func (c *Client) WithLogger(l *slog.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// postJSON validates in, posts it to baseURL+path and decodes the 2xx body
// into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%s url is not configured", c.service)
	}
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid %s request: %w", c.service, err)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Service: c.service, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("remote call", "service", c.service, "url", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		nerr := &NetworkError{Service: c.service, StatusCode: resp.StatusCode}
		var raw map[string]any
		if json.Unmarshal(body, &raw) == nil {
			nerr.parseErrorBody(raw)
		}
		if nerr.Message == "" {
			nerr.Message = strings.TrimSpace(string(body))
		}
		return nerr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Service: c.service, StatusCode: resp.StatusCode, Message: "invalid response body", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
