// Package client is a typed HTTP client for the registration REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIPrefix is prepended to every endpoint path
const APIPrefix = "/api/v1"

// Client is an HTTP client for the API
type Client struct {
	baseURL      string
	token        string
	forwardedFor string
	httpClient   *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithForwardedFor sends addr as the originating client address, for
// callers that make requests on behalf of a browser
func WithForwardedFor(addr string) Option {
	return func(c *Client) { c.forwardedFor = addr }
}

// New creates a new API client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken updates the client's token
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the bearer token in use
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Issue is one field-level error descriptor from a 422 response
type Issue struct {
	Msg  string `json:"msg"`
	Loc  []any  `json:"loc"`
	Type string `json:"type"`
}

// ErrorBody is the body of an error response. Detail is kept raw since the
// server sends either a string or a list of Issue.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Issues returns the detail list, or nil when detail is not a list
func (b ErrorBody) Issues() []Issue {
	var issues []Issue
	if err := json.Unmarshal(b.Detail, &issues); err != nil {
		return nil
	}
	return issues
}

// Text returns the detail when it is a plain string
func (b ErrorBody) Text() (string, bool) {
	var s string
	if err := json.Unmarshal(b.Detail, &s); err != nil {
		return "", false
	}
	return s, true
}

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Body       ErrorBody
}

func (e *APIError) Error() string {
	if issues := e.Body.Issues(); len(issues) > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, issues[0].Msg)
	}
	if s, ok := e.Body.Text(); ok {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, s)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Do performs a JSON request against path, decoding a successful response into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, contentType, bodyReader)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return decode(resp, result)
}

// PostForm performs a form-encoded POST, as the token endpoint expects
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result any) error {
	resp, err := c.send(ctx, http.MethodPost, path, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return decode(resp, result)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+APIPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", c.forwardedFor)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func decode(resp *http.Response, result any) error {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, respBody)
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	_ = json.Unmarshal(body, &apiErr.Body)
	return apiErr
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Patch performs a PATCH request
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPatch, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, result)
}
