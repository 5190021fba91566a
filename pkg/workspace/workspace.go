package workspace

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/wsmanager/pkg/api"
)

// Transport is the subset of the API client that workspaces use.
type Transport interface {
	Get(ctx context.Context, endpoint string, params url.Values) (api.JSON, error)
	Post(ctx context.Context, endpoint string, body any) (api.JSON, error)
	Delete(ctx context.Context, endpoint string) (*api.DeleteResult, error)
	StreamPost(ctx context.Context, endpoint string, body any) (*api.Stream, error)
}

// Compile-time check
var _ Transport = (*api.Client)(nil)

// Identity is assigned by the service when a workspace is created.
type Identity struct {
	// ID is the opaque server-side identifier.
	ID string `json:"id"`

	// Slug is the URL-safe unique name used in every workspace endpoint.
	Slug string `json:"slug"`
}

// Workspace is a workspace configuration plus, once created or loaded, its
// server-assigned identity. A Workspace is not safe for concurrent use.
type Workspace struct {
	config   Config
	identity *Identity
	client   Transport
	logger   hclog.Logger
}

// New returns a workspace that exists only locally until Create is called.
func New(client Transport, cfg Config, logger hclog.Logger) *Workspace {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Workspace{
		config: cfg,
		client: client,
		logger: logger.Named("workspace"),
	}
}

// newLoaded returns a workspace that already exists on the service.
func newLoaded(client Transport, cfg Config, id Identity, logger hclog.Logger) *Workspace {
	w := New(client, cfg, logger)
	w.identity = &id
	return w
}

// Config returns the local configuration.
func (w *Workspace) Config() Config {
	return w.config
}

// SetConfig replaces the local configuration. The service copy changes only
// on the next Update.
func (w *Workspace) SetConfig(cfg Config) {
	w.config = cfg
}

// Identity returns the server-assigned identity and whether one is set.
func (w *Workspace) Identity() (Identity, bool) {
	if w.identity == nil {
		return Identity{}, false
	}
	return *w.identity, true
}

// HasIdentity reports whether the workspace exists on the service.
func (w *Workspace) HasIdentity() bool {
	return w.identity != nil
}

// Slug returns the server-assigned slug, or "" if none.
func (w *Workspace) Slug() string {
	if w.identity == nil {
		return ""
	}
	return w.identity.Slug
}

func (w *Workspace) String() string {
	id, _ := w.Identity()
	return fmt.Sprintf("Workspace(name=%s, slug=%s, id=%s)", w.config.Name, id.Slug, id.ID)
}

// Create creates the workspace on the service and stores the identity found
// in the "workspace" field of the response. It returns the full response.
func (w *Workspace) Create(ctx context.Context) (api.JSON, error) {
	resp, err := w.client.Post(ctx, "v1/workspace/new", ToWire(w.config))
	if err != nil {
		return nil, fmt.Errorf("error creating workspace %q: %w", w.config.Name, err)
	}

	if raw, ok := resp["workspace"]; ok {
		id, err := decodeIdentity(raw)
		if err != nil {
			return resp, &Error{Op: "create", Msg: w.config.Name, Err: err}
		}
		if id.Slug != "" {
			w.identity = &id
		}
	}

	w.logger.Debug("created workspace",
		"name", w.config.Name,
		"slug", w.Slug(),
	)

	return resp, nil
}

// Update sends the local configuration to the service. The identity is not
// changed.
func (w *Workspace) Update(ctx context.Context) (api.JSON, error) {
	if err := w.requireIdentity("update"); err != nil {
		return nil, err
	}

	resp, err := w.client.Post(ctx, w.endpoint("update"), ToWire(w.config))
	if err != nil {
		return nil, fmt.Errorf("error updating workspace %q: %w", w.identity.Slug, err)
	}
	return resp, nil
}

// Delete deletes the workspace on the service. When the service
// acknowledges the deletion the identity is cleared and true is returned;
// the workspace is inert afterwards.
func (w *Workspace) Delete(ctx context.Context) (bool, error) {
	if err := w.requireIdentity("delete"); err != nil {
		return false, err
	}

	slug := w.identity.Slug
	result, err := w.client.Delete(ctx, w.endpoint(""))
	if err != nil {
		return false, fmt.Errorf("error deleting workspace %q: %w", slug, err)
	}

	if !result.OK() {
		w.logger.Warn("delete was not acknowledged", "slug", slug)
		return false, nil
	}

	w.identity = nil
	w.logger.Debug("deleted workspace", "slug", slug)
	return true, nil
}

// Details fetches the service copy of the workspace.
func (w *Workspace) Details(ctx context.Context) (api.JSON, error) {
	if err := w.requireIdentity("get details"); err != nil {
		return nil, err
	}

	resp, err := w.client.Get(ctx, w.endpoint(""), nil)
	if err != nil {
		return nil, fmt.Errorf("error getting workspace %q: %w", w.identity.Slug, err)
	}
	return resp, nil
}

// Chat sends a message and returns the complete reply.
func (w *Workspace) Chat(ctx context.Context, message string, opts ...ChatOption) (api.JSON, error) {
	if err := w.requireIdentity("chat"); err != nil {
		return nil, err
	}

	resp, err := w.client.Post(ctx, w.endpoint("chat"), w.chatRequest(message, opts))
	if err != nil {
		return nil, fmt.Errorf("error chatting with workspace %q: %w", w.identity.Slug, err)
	}
	return resp, nil
}

// StreamChat sends a message and returns the reply as a stream of chunks.
// The caller must consume or Close the stream.
func (w *Workspace) StreamChat(ctx context.Context, message string, opts ...ChatOption) (*api.Stream, error) {
	if err := w.requireIdentity("stream chat"); err != nil {
		return nil, err
	}

	stream, err := w.client.StreamPost(ctx, w.endpoint("stream-chat"), w.chatRequest(message, opts))
	if err != nil {
		return nil, fmt.Errorf("error streaming chat with workspace %q: %w", w.identity.Slug, err)
	}
	return stream, nil
}

// VectorSearch searches the workspace's embedded documents. TopN and the
// score threshold are sent only when given as options, so the service uses
// the workspace settings otherwise.
func (w *Workspace) VectorSearch(ctx context.Context, query string, opts ...SearchOption) (api.JSON, error) {
	if err := w.requireIdentity("vector search"); err != nil {
		return nil, err
	}

	req := &searchRequest{Query: query}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := w.client.Post(ctx, w.endpoint("vector-search"), req)
	if err != nil {
		return nil, fmt.Errorf("error searching workspace %q: %w", w.identity.Slug, err)
	}
	return resp, nil
}

func (w *Workspace) chatRequest(message string, opts []ChatOption) *chatRequest {
	req := &chatRequest{
		Message: message,
		Mode:    w.config.ChatMode,
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

func (w *Workspace) requireIdentity(op string) error {
	if w.identity == nil || w.identity.Slug == "" {
		return &Error{Op: op, Msg: fmt.Sprintf("workspace %q", w.config.Name), Err: ErrNoIdentity}
	}
	return nil
}

// endpoint returns v1/workspace/{slug}[/action].
func (w *Workspace) endpoint(action string) string {
	e := "v1/workspace/" + url.PathEscape(w.identity.Slug)
	if action != "" {
		e += "/" + action
	}
	return e
}
