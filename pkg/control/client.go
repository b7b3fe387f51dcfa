// Package control implements the client side of the global control session:
// the typed event model, the envelope decoder, and the HTTP/SSE client used
// to observe and drive the session.
package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/missionctl/missionctl/pkg/api"
)

// Client is an HTTP client for the control-session API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

// ClientOption is a function for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the HTTP client timeout for non-streaming requests.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new client for the control-session API.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := &Client{
		baseURL: parsedURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an HTTP request and handles common response patterns.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	u := *c.baseURL
	u.Path = path.Join(u.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}

	return nil
}

// SendMessage enqueues a user message for the control session.
func (c *Client) SendMessage(ctx context.Context, content string) (*api.ControlMessageResponse, error) {
	req := api.ControlMessageRequest{Content: content}
	var resp api.ControlMessageResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/control/message", req, &resp)
	return &resp, err
}

// SendToolResult submits the outcome of a pending interactive tool call.
// A nil result is sent as JSON null, which the server treats as cancelled.
func (c *Client) SendToolResult(ctx context.Context, toolCallID, name string, result json.RawMessage) error {
	if result == nil {
		result = json.RawMessage("null")
	}
	req := api.ControlToolResultRequest{
		ToolCallID: toolCallID,
		Name:       name,
		Result:     result,
	}
	return c.doRequest(ctx, http.MethodPost, "/api/control/tool_result", req, nil)
}

// CancelRun requests cancellation of the in-flight agent turn.
func (c *Client) CancelRun(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/api/control/cancel", nil, nil)
}

// Status fetches a point-in-time snapshot of the session state. The event
// stream also pushes a snapshot on subscribe; this is for one-shot CLI use.
func (c *Client) Status(ctx context.Context) (*api.ControlStatus, error) {
	var status api.ControlStatus
	err := c.doRequest(ctx, http.MethodGet, "/api/control/status", nil, &status)
	return &status, err
}
