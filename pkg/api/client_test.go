package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL, apiKey string) *Client {
	t.Helper()

	client, err := NewClient(&Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
		Logger:  hclog.NewNullLogger(),
	})
	require.NoError(t, err)
	return client
}

func TestClient_URL(t *testing.T) {
	client := newTestClient(t, "http://localhost:3001/", "")

	tests := []struct {
		name     string
		endpoint string
		expected string
	}{
		{
			name:     "bare endpoint",
			endpoint: "v1/workspaces",
			expected: "http://localhost:3001/api/v1/workspaces",
		},
		{
			name:     "endpoint with api prefix",
			endpoint: "/api/v1/workspaces",
			expected: "http://localhost:3001/api/v1/workspaces",
		},
		{
			name:     "endpoint with leading slash",
			endpoint: "/v1/workspaces",
			expected: "http://localhost:3001/api/v1/workspaces",
		},
		{
			name:     "endpoint with api prefix and no slash",
			endpoint: "api/v1/workspaces",
			expected: "http://localhost:3001/api/v1/workspaces",
		},
		{
			name:     "endpoint starting with api-like word",
			endpoint: "apikeys",
			expected: "http://localhost:3001/api/apikeys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.URL(tt.endpoint))
		})
	}
}

func TestClient_Get_NormalizesEndpoint(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"workspaces":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	ctx := context.Background()

	_, err := client.Get(ctx, "v1/workspaces", nil)
	require.NoError(t, err)
	_, err = client.Get(ctx, "/api/v1/workspaces", nil)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, "/api/v1/workspaces", paths[0])
	assert.Equal(t, paths[0], paths[1])
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/workspace/docs", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"workspace":{"slug":"docs","id":3}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	resp, err := client.Get(context.Background(), "v1/workspace/docs", url.Values{"page": {"1"}})
	require.NoError(t, err)

	ws, ok := resp["workspace"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "docs", ws["slug"])
	assert.Equal(t, float64(3), ws["id"])
}

func TestClient_Get_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	resp, err := client.Get(context.Background(), "v1/workspaces", nil)
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Empty(t, resp)
}

func TestClient_Get_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"name is required"}`},
		{name: "unauthorized", status: http.StatusForbidden, body: `{"error":"No valid api key found."}`},
		{name: "server error", status: http.StatusInternalServerError, body: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, "")

			resp, err := client.Get(context.Background(), "v1/workspaces", nil)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, errors.Is(err, ErrTransport))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Equal(t, http.MethodGet, apiErr.Op)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestClient_Get_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	_, err := client.Get(context.Background(), "v1/workspaces", nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Equal(t, "<html>not json</html>", apiErr.Body)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL, "")

	_, err := client.Post(context.Background(), "v1/workspace/new", map[string]any{"name": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, 0, StatusCode(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.NotNil(t, apiErr.Err)
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/workspace/new", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Docs", body["name"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"workspace":{"id":1,"slug":"docs"},"message":null}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	resp, err := client.Post(context.Background(), "v1/workspace/new", map[string]any{"name": "Docs"})
	require.NoError(t, err)
	assert.Contains(t, resp, "workspace")
	assert.Nil(t, resp["message"])
}

func TestClient_Post_NilBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Empty(t, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	resp, err := client.Post(context.Background(), "v1/system/update-env", nil)
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestClient_BearerToken(t *testing.T) {
	var authHeaders []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx := context.Background()

	withKey := newTestClient(t, server.URL, "secret-key")
	_, err := withKey.Get(ctx, "v1/auth", nil)
	require.NoError(t, err)

	withoutKey := newTestClient(t, server.URL, "")
	_, err = withoutKey.Get(ctx, "v1/auth", nil)
	require.NoError(t, err)

	require.Len(t, authHeaders, 2)
	assert.Equal(t, "Bearer secret-key", authHeaders[0])
	assert.Empty(t, authHeaders[1])
}

func TestClient_Delete(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		noContent bool
		ok        bool
	}{
		{name: "no content", status: http.StatusNoContent, noContent: true, ok: true},
		{name: "empty body", status: http.StatusOK, noContent: true, ok: true},
		{name: "json body", status: http.StatusOK, body: `{"success":true}`, ok: true},
		{name: "empty object", status: http.StatusOK, body: `{}`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/api/v1/workspace/docs", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, "")

			result, err := client.Delete(context.Background(), "v1/workspace/docs")
			require.NoError(t, err)
			assert.Equal(t, tt.noContent, result.NoContent)
			assert.Equal(t, tt.ok, result.OK())
		})
	}
}

func TestClient_Delete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not Found"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")

	result, err := client.Delete(context.Background(), "v1/workspace/missing")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "unsupported scheme", baseURL: "ftp://localhost:3001"},
		{name: "missing host", baseURL: "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(&Config{BaseURL: tt.baseURL})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid API client config")
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
}
