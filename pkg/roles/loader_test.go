package roles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hashicorp-forge/wsmanager/pkg/api"
	"github.com/hashicorp-forge/wsmanager/pkg/workspace"
)

// newCreateServer accepts workspace creation and fails for the name "Broken".
func newCreateServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var (
		mu    sync.Mutex
		names []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workspace/new", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		name, _ := body["name"].(string)

		mu.Lock()
		names = append(names, name)
		mu.Unlock()

		if name == "Broken" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"workspace":null,"message":"boom"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"workspace": map[string]any{"id": 1, "slug": strings.ToLower(name)},
		})
	}))
	t.Cleanup(server.Close)
	return server, &names
}

func newTestLoader(t *testing.T, files map[string]string) (*Loader, *[]string) {
	t.Helper()

	server, names := newCreateServer(t)
	client, err := api.NewClient(&api.Config{BaseURL: server.URL})
	require.NoError(t, err)

	memFs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(memFs, name, []byte(content), 0o644))
	}

	return &Loader{
		Dir:     "roles",
		Manager: workspace.NewManager(client, workspace.WithFs(memFs)),
		Logger:  hclog.NewNullLogger(),
	}, names
}

func TestLoader_Files(t *testing.T) {
	l, _ := newTestLoader(t, map[string]string{
		"roles/b.json":        `{}`,
		"roles/a.json":        `{}`,
		"roles/notes.txt":     `ignored`,
		"roles/nested/c.json": `{}`,
		"other/d.json":        `{}`,
	})

	files, err := l.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"roles/a.json", "roles/b.json"}, files)
}

func TestLoader_Files_MissingDir(t *testing.T) {
	l, _ := newTestLoader(t, nil)
	l.Dir = "missing"

	_, err := l.Files()
	require.Error(t, err)
	assert.ErrorIs(t, err, workspace.ErrFile)
}

func TestLoader_CreateAll(t *testing.T) {
	l, names := newTestLoader(t, map[string]string{
		"roles/01-support.json": `{"workspace_name":"Support","custom_prompt":"Help customers."}`,
		"roles/02-sales.json":   `{"workspace_name":"Sales","custom_prompt":"Sell.","chat_mode":"query"}`,
	})

	var results []Result
	l.OnResult = func(r Result) { results = append(results, r) }

	created, err := l.CreateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "support", created[0].Slug())
	assert.Equal(t, "sales", created[1].Slug())
	assert.Equal(t, []string{"Support", "Sales"}, *names)
	assert.Equal(t, 2, l.Manager.Len())

	require.Len(t, results, 2)
	assert.Equal(t, "roles/01-support.json", results[0].File)
	assert.NoError(t, results[0].Err)
}

func TestLoader_CreateAll_ContinuesOnFailure(t *testing.T) {
	l, names := newTestLoader(t, map[string]string{
		"roles/a.json": `{"workspace_name":"Alpha","custom_prompt":"a"}`,
		"roles/b.json": `{"workspace_name":"Broken","custom_prompt":"b"}`,
		"roles/c.json": `{"workspace_name":"NoPrompt"}`,
		"roles/d.json": `not json`,
		"roles/e.json": `{"workspace_name":"Echo","custom_prompt":"e"}`,
	})

	created, err := l.CreateAll(context.Background())
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.ErrorIs(t, merr.Errors[0], api.ErrTransport)
	assert.ErrorIs(t, merr.Errors[1], workspace.ErrValidation)
	assert.ErrorIs(t, merr.Errors[2], workspace.ErrValidation)
	assert.Contains(t, merr.Errors[0].Error(), "b.json")

	require.Len(t, created, 2)
	assert.Equal(t, "alpha", created[0].Slug())
	assert.Equal(t, "echo", created[1].Slug())

	// Invalid definitions never reach the service.
	assert.Equal(t, []string{"Alpha", "Broken", "Echo"}, *names)
}

func TestLoader_CreateAll_EmptyDir(t *testing.T) {
	l, names := newTestLoader(t, map[string]string{"roles/readme.md": "# roles"})

	created, err := l.CreateAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Empty(t, *names)
}

func TestLoader_CreateAll_LimiterHonorsContext(t *testing.T) {
	l, names := newTestLoader(t, map[string]string{
		"roles/a.json": `{"workspace_name":"Alpha","custom_prompt":"a"}`,
	})
	l.Limiter = rate.NewLimiter(rate.Every(1), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := l.CreateAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, created)
	assert.Empty(t, *names)
}

func TestLoader_NoManager(t *testing.T) {
	_, err := (&Loader{}).CreateAll(context.Background())
	assert.Error(t, err)
}
