// Package workspacetest provides an in-memory stand-in for the workspace
// endpoints of the document-chat service.
package workspacetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wsmanager/pkg/api"
)

// CreatedAt is the creation timestamp of every workspace the Server creates.
const CreatedAt = "2024-05-01T10:00:00.000Z"

// Request is a request received by a Server.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server emulates the workspace endpoints of the service in memory.
type Server struct {
	mu         sync.Mutex
	t          *testing.T
	server     *httptest.Server
	nextID     int
	workspaces map[string]map[string]any
	requests   []Request

	// FailCreate makes workspace creation return this status.
	FailCreate int
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		t:          t,
		workspaces: make(map[string]map[string]any),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// Client returns an API client for the server.
func (s *Server) Client() *api.Client {
	s.t.Helper()

	client, err := api.NewClient(&api.Config{
		BaseURL: s.server.URL,
		Timeout: 5 * time.Second,
		Logger:  hclog.NewNullLogger(),
	})
	require.NoError(s.t, err)
	return client
}

// Seed registers a workspace record as if created out of band.
func (s *Server) Seed(record map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[record["slug"].(string)] = record
}

// Last returns the most recent request.
func (s *Server) Last() Request {
	s.t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(s.t, s.requests)
	return s.requests[len(s.requests)-1]
}

// Count returns the number of requests received.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	return s.server.URL
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := Request{Method: r.Method, Path: r.URL.Path}
	if r.Body != nil && r.Method == http.MethodPost {
		json.NewDecoder(r.Body).Decode(&req.Body)
	}
	s.requests = append(s.requests, req)

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")

	switch {
	case r.Method == http.MethodGet && path == "workspaces":
		list := make([]any, 0, len(s.workspaces))
		for _, ws := range s.workspaces {
			list = append(list, ws)
		}
		writeJSON(w, http.StatusOK, map[string]any{"workspaces": list})

	case r.Method == http.MethodPost && path == "workspace/new":
		if s.FailCreate != 0 {
			writeJSON(w, s.FailCreate, map[string]any{"workspace": nil, "message": "failed"})
			return
		}
		s.nextID++
		name, _ := req.Body["name"].(string)
		record := map[string]any{}
		for k, v := range req.Body {
			record[k] = v
		}
		record["id"] = s.nextID
		record["createdAt"] = CreatedAt
		record["slug"] = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		s.workspaces[record["slug"].(string)] = record
		writeJSON(w, http.StatusOK, map[string]any{"workspace": record, "message": "Workspace created"})

	case strings.HasPrefix(path, "workspace/"):
		parts := strings.SplitN(strings.TrimPrefix(path, "workspace/"), "/", 2)
		slug := parts[0]
		action := ""
		if len(parts) == 2 {
			action = parts[1]
		}

		record, ok := s.workspaces[slug]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Not Found"))
			return
		}

		switch {
		case r.Method == http.MethodDelete && action == "":
			delete(s.workspaces, slug)
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && action == "":
			writeJSON(w, http.StatusOK, map[string]any{"workspace": []any{record}})

		case r.Method == http.MethodPost && action == "update":
			for k, v := range req.Body {
				record[k] = v
			}
			writeJSON(w, http.StatusOK, map[string]any{"workspace": record, "message": nil})

		case r.Method == http.MethodPost && action == "chat":
			writeJSON(w, http.StatusOK, map[string]any{
				"type":         "textResponse",
				"textResponse": fmt.Sprintf("echo: %v", req.Body["message"]),
				"sources":      []any{},
			})

		case r.Method == http.MethodPost && action == "stream-chat":
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprintf(w, "data: {\"textResponse\":\"echo\",\"close\":false}\n\n")
			fmt.Fprintf(w, "data: {\"textResponse\":\": %v\",\"close\":true}\n\n", req.Body["message"])

		case r.Method == http.MethodPost && action == "vector-search":
			writeJSON(w, http.StatusOK, map[string]any{
				"results": []any{map[string]any{
					"text":     "match",
					"score":    0.9,
					"metadata": map[string]any{"title": "guide.md"},
				}},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
