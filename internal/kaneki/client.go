// Package kaneki is the HTTP client for the local Kaneki companion service.
package kaneki

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
)

// DefaultBaseURL is where Kaneki listens on the local machine.
const DefaultBaseURL = "http://localhost:3595"

// Endpoint paths.
const (
	UpdatePath = "/update"
	OpenPath   = "/open"
)

// UpdateRequest is the body of POST /update.
type UpdateRequest struct {
	FilePath string `json:"filePath"`
}

// OpenRequest is the body of POST /open.
type OpenRequest struct {
	Slug string `json:"slug"`
}

// StatusError is returned when Kaneki answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("Request failed, status %d", e.Code)
	}
	return fmt.Sprintf("Request failed, status %d: %s", e.Code, e.Body)
}

// Client issues fire-and-forget POST calls to Kaneki.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each call. Zero means no timeout. It applies to a
// copy of the HTTP client, whatever the option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Update asks Kaneki to pick up the file at filePath.
func (c *Client) Update(ctx context.Context, filePath string) error {
	return c.post(ctx, UpdatePath, UpdateRequest{FilePath: filePath})
}

// Open asks Kaneki to open the published page for slug.
func (c *Client) Open(ctx context.Context, slug string) error {
	return c.post(ctx, OpenPath, OpenRequest{Slug: slug})
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("kaneki: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("kaneki: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kaneki: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("kaneki: call",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
