// Package api is the LeoConnect backend HTTP client.
//
// It speaks the JSON contract the backend exposes, attaches the bearer
// session token to authenticated requests, and routes every 401 response
// through a global hook so the rest of the app can force-clear local
// session state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leoconnect/leoconnect/internal/log"
)

// DefaultTimeout bounds every backend call, connect and read included.
const DefaultTimeout = 10 * time.Second

// ErrUnauthorized is returned when the backend rejects the bearer token.
var ErrUnauthorized = errors.New("api: unauthorized")

// Client is the LeoConnect backend API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token          string
	onUnauthorized func()
	log            *log.Logger
}

// NewClient creates a backend API client.
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: logger,
	}
}

// SetToken sets the session token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ClearToken removes the session token.
func (c *Client) ClearToken() {
	c.token = ""
}

// OnUnauthorized registers the hook invoked whenever the backend answers
// 401. The hook fires before the error is returned to the caller.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: perform request: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Session is dead server-side. Drop the token and let the hook
		// force-clear persisted state; the caller sees ErrUnauthorized.
		resp.Body.Close()
		c.ClearToken()
		c.log.Warn("backend rejected session token", "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, fmt.Errorf("api: %s %s: %w", method, path, ErrUnauthorized)
	}

	return resp, nil
}

// errorEnvelope is the backend's non-2xx response body.
type errorEnvelope struct {
	Message string `json:"message"`
}

// parseResponse parses the response body into the target struct
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
			return errors.New(envelope.Message)
		}

		return fmt.Errorf("api: request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}

	return nil
}
