package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// JSON is a decoded JSON object as exchanged with the service.
type JSON = map[string]any

// Client issues calls against {BaseURL}/api/{endpoint}. Calls are synchronous
// and are never retried.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
	logger       hclog.Logger
}

// DeleteResult is the outcome of a successful DELETE.
type DeleteResult struct {
	// NoContent is set for a 204 or an empty body.
	NoContent bool

	// Body is the decoded response when the service returned one.
	Body JSON
}

// OK reports whether the service acknowledged the deletion: either with no
// content or with a non-empty JSON body.
func (r *DeleteResult) OK() bool {
	if r == nil {
		return false
	}
	return r.NoContent || len(r.Body) > 0
}

// NewClient creates a new API client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API client config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	httpClient := cfg.NewHTTPClient()

	// Streams are bounded by the caller's context rather than a fixed
	// timeout, since a chat reply may take longer than a regular call.
	streamClient := *httpClient
	streamClient.Timeout = 0

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   httpClient,
		streamClient: &streamClient,
		logger:       logger.Named("api-client"),
	}, nil
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the final request URL for endpoint. The /api segment is added
// unless the endpoint already starts with it, so "v1/workspaces" and
// "/api/v1/workspaces" resolve to the same URL.
func (c *Client) URL(endpoint string) string {
	path := strings.TrimLeft(endpoint, "/")
	if path != "api" && !strings.HasPrefix(path, "api/") {
		path = "api/" + path
	}
	return c.baseURL + "/" + path
}

// Get issues a GET and decodes the JSON response. A 2xx response with an
// empty body yields an empty object.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (JSON, error) {
	u := c.URL(endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	status, body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return decodeObject(http.MethodGet, u, status, body)
}

// Post submits body as JSON and decodes the JSON response. A nil body sends
// no request body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (JSON, error) {
	u := c.URL(endpoint)

	status, respBody, err := c.do(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, err
	}
	return decodeObject(http.MethodPost, u, status, respBody)
}

// Delete issues a DELETE. A 204 or an empty body is reported as NoContent;
// anything else must decode as a JSON object.
func (c *Client) Delete(ctx context.Context, endpoint string) (*DeleteResult, error) {
	u := c.URL(endpoint)

	status, body, err := c.do(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNoContent || len(body) == 0 {
		return &DeleteResult{NoContent: true}, nil
	}

	obj, err := decodeObject(http.MethodDelete, u, status, body)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Body: obj}, nil
}

// StreamPost submits body and returns the streamed response as a Stream of
// JSON chunks. The status is checked before returning; the caller must
// consume or Close the stream.
func (c *Client) StreamPost(ctx context.Context, endpoint string, body any) (*Stream, error) {
	u := c.URL(endpoint)

	req, err := c.newRequest(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	c.logger.Debug("making streaming request", "method", http.MethodPost, "url", u)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, &Error{Op: http.MethodPost, URL: u, Err: err}
	}

	c.logger.Debug("received streaming response", "url", u, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &Error{
			Op:         http.MethodPost,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return newStream(resp.Body, http.MethodPost, u, c.logger), nil
}

func (c *Client) newRequest(ctx context.Context, method, u string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: method, URL: u, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, &Error{Op: method, URL: u, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// do executes a single request and returns the status and body of a 2xx
// response.
func (c *Client) do(ctx context.Context, method, u string, body any) (int, []byte, error) {
	req, err := c.newRequest(ctx, method, u, body)
	if err != nil {
		return 0, nil, err
	}

	c.logger.Debug("making request", "method", method, "url", u)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &Error{Op: method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &Error{
			Op:         method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response: %w", err),
		}
	}

	c.logger.Debug("received response",
		"method", method,
		"url", u,
		"status", resp.StatusCode,
		"body", truncate(string(respBody), 500),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, respBody, &Error{
			Op:         method,
			URL:        u,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return resp.StatusCode, respBody, nil
}

func decodeObject(method, u string, status int, body []byte) (JSON, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return JSON{}, nil
	}

	var obj JSON
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, &Error{
			Op:         method,
			URL:        u,
			StatusCode: status,
			Body:       string(body),
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	if obj == nil {
		// A literal null body.
		obj = JSON{}
	}
	return obj, nil
}
