package workspace

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/wsmanager/pkg/api"
	"github.com/hashicorp-forge/wsmanager/pkg/workspace/workspacetest"
)

func testConfig(t *testing.T, name string) Config {
	t.Helper()
	cfg, err := NewConfig(name, "You answer questions about "+name+".")
	require.NoError(t, err)
	return cfg
}

func TestWorkspace_RequiresIdentity(t *testing.T) {
	svc := workspacetest.NewServer(t)
	ctx := context.Background()

	ops := map[string]func(w *Workspace) error{
		"update": func(w *Workspace) error {
			_, err := w.Update(ctx)
			return err
		},
		"delete": func(w *Workspace) error {
			_, err := w.Delete(ctx)
			return err
		},
		"details": func(w *Workspace) error {
			_, err := w.Details(ctx)
			return err
		},
		"chat": func(w *Workspace) error {
			_, err := w.Chat(ctx, "hello")
			return err
		},
		"stream chat": func(w *Workspace) error {
			_, err := w.StreamChat(ctx, "hello")
			return err
		},
		"vector search": func(w *Workspace) error {
			_, err := w.VectorSearch(ctx, "hello")
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			w := New(svc.Client(), testConfig(t, "Support"), hclog.NewNullLogger())

			err := op(w)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoIdentity)

			var wsErr *Error
			require.True(t, errors.As(err, &wsErr))
			assert.Contains(t, wsErr.Msg, "Support")
		})
	}

	assert.Zero(t, svc.Count(), "no request may be sent without an identity")
}

func TestWorkspace_Create(t *testing.T) {
	svc := workspacetest.NewServer(t)

	w := New(svc.Client(), testConfig(t, "Support Desk"), nil)
	assert.False(t, w.HasIdentity())

	resp, err := w.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Workspace created", resp["message"])

	id, ok := w.Identity()
	require.True(t, ok)
	assert.Equal(t, "support-desk", id.Slug)
	assert.Equal(t, "1", id.ID)
	assert.Equal(t, "support-desk", w.Slug())

	req := svc.Last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/workspace/new", req.Path)
	assert.Equal(t, "Support Desk", req.Body["name"])
	assert.Equal(t, "You answer questions about Support Desk.", req.Body["openAiPrompt"])
	assert.Equal(t, 0.7, req.Body["openAiTemp"])
	assert.Equal(t, float64(20), req.Body["openAiHistory"])
	assert.Equal(t, "chat", req.Body["chatMode"])
	assert.Equal(t, float64(4), req.Body["topN"])
}

func TestWorkspace_Create_TransportError(t *testing.T) {
	svc := workspacetest.NewServer(t)
	svc.FailCreate = http.StatusBadRequest

	w := New(svc.Client(), testConfig(t, "Support"), nil)

	_, err := w.Create(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrTransport)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
	assert.False(t, w.HasIdentity())
	assert.Equal(t, 1, svc.Count(), "create must not be retried")
}

func TestWorkspace_Lifecycle(t *testing.T) {
	svc := workspacetest.NewServer(t)
	ctx := context.Background()

	w := New(svc.Client(), testConfig(t, "Docs"), nil)
	_, err := w.Create(ctx)
	require.NoError(t, err)

	// Update keeps the identity and sends the new settings.
	cfg := w.Config()
	cfg.Temperature = 0.2
	cfg.ChatMode = ChatModeQuery
	w.SetConfig(cfg)

	_, err = w.Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, "docs", w.Slug())

	req := svc.Last()
	assert.Equal(t, "/api/v1/workspace/docs/update", req.Path)
	assert.Equal(t, 0.2, req.Body["openAiTemp"])
	assert.Equal(t, "query", req.Body["chatMode"])

	details, err := w.Details(ctx)
	require.NoError(t, err)
	assert.Contains(t, details, "workspace")
	assert.Equal(t, http.MethodGet, svc.Last().Method)

	deleted, err := w.Delete(ctx)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, w.HasIdentity())
	assert.Equal(t, http.MethodDelete, svc.Last().Method)
	assert.Equal(t, "/api/v1/workspace/docs", svc.Last().Path)

	// The workspace is inert after deletion.
	_, err = w.Update(ctx)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestWorkspace_Delete_TransportErrorKeepsIdentity(t *testing.T) {
	svc := workspacetest.NewServer(t)

	w := newLoaded(svc.Client(), testConfig(t, "Ghost"), Identity{ID: "9", Slug: "ghost"}, nil)

	deleted, err := w.Delete(context.Background())
	require.Error(t, err)
	assert.False(t, deleted)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.True(t, w.HasIdentity())
}

func TestWorkspace_Chat(t *testing.T) {
	svc := workspacetest.NewServer(t)
	ctx := context.Background()

	w := New(svc.Client(), testConfig(t, "Docs"), nil)
	_, err := w.Create(ctx)
	require.NoError(t, err)

	tests := []struct {
		name     string
		opts     []ChatOption
		expected map[string]any
	}{
		{
			name:     "message only",
			expected: map[string]any{"message": "hi", "mode": "chat"},
		},
		{
			name: "with session",
			opts: []ChatOption{WithSessionID("session-1")},
			expected: map[string]any{
				"message":   "hi",
				"mode":      "chat",
				"sessionId": "session-1",
			},
		},
		{
			name:     "empty session is omitted",
			opts:     []ChatOption{WithSessionID("")},
			expected: map[string]any{"message": "hi", "mode": "chat"},
		},
		{
			name: "with attachments",
			opts: []ChatOption{WithAttachments(Attachment{
				Name:          "notes.txt",
				Mime:          "text/plain",
				ContentString: "data:text/plain;base64,aGk=",
			})},
			expected: map[string]any{
				"message": "hi",
				"mode":    "chat",
				"attachments": []any{map[string]any{
					"name":          "notes.txt",
					"mime":          "text/plain",
					"contentString": "data:text/plain;base64,aGk=",
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := w.Chat(ctx, "hi", tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, "echo: hi", resp["textResponse"])

			req := svc.Last()
			assert.Equal(t, "/api/v1/workspace/docs/chat", req.Path)
			assert.Equal(t, tt.expected, req.Body)
		})
	}
}

func TestWorkspace_StreamChat(t *testing.T) {
	svc := workspacetest.NewServer(t)
	ctx := context.Background()

	w := New(svc.Client(), testConfig(t, "Docs"), nil)
	_, err := w.Create(ctx)
	require.NoError(t, err)

	stream, err := w.StreamChat(ctx, "ping", WithSessionID("s"))
	require.NoError(t, err)

	chunks, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "echo", chunks[0]["textResponse"])
	assert.Equal(t, ": ping", chunks[1]["textResponse"])
	assert.Equal(t, true, chunks[1]["close"])

	req := svc.Last()
	assert.Equal(t, "/api/v1/workspace/docs/stream-chat", req.Path)
	assert.Equal(t, "s", req.Body["sessionId"])
}

func TestWorkspace_VectorSearch(t *testing.T) {
	svc := workspacetest.NewServer(t)
	ctx := context.Background()

	w := New(svc.Client(), testConfig(t, "Docs"), nil)
	_, err := w.Create(ctx)
	require.NoError(t, err)

	tests := []struct {
		name     string
		opts     []SearchOption
		expected map[string]any
	}{
		{
			name:     "workspace defaults",
			expected: map[string]any{"query": "q"},
		},
		{
			name:     "top n only",
			opts:     []SearchOption{WithTopN(2)},
			expected: map[string]any{"query": "q", "topN": float64(2)},
		},
		{
			name:     "explicit zero threshold is sent",
			opts:     []SearchOption{WithScoreThreshold(0)},
			expected: map[string]any{"query": "q", "scoreThreshold": float64(0)},
		},
		{
			name:     "both",
			opts:     []SearchOption{WithTopN(3), WithScoreThreshold(0.5)},
			expected: map[string]any{"query": "q", "topN": float64(3), "scoreThreshold": 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := w.VectorSearch(ctx, "q", tt.opts...)
			require.NoError(t, err)
			assert.Contains(t, resp, "results")

			req := svc.Last()
			assert.Equal(t, "/api/v1/workspace/docs/vector-search", req.Path)
			assert.Equal(t, tt.expected, req.Body)
		})
	}
}

func TestWorkspace_String(t *testing.T) {
	w := newLoaded(nil, Config{Name: "Docs"}, Identity{ID: "3", Slug: "docs"}, nil)
	assert.Equal(t, "Workspace(name=Docs, slug=docs, id=3)", w.String())
}
