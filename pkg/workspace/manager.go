package workspace

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/wsmanager/pkg/api"
)

// Manager keeps the workspaces known to one service, keyed by slug.
//
// Workspaces are added when created or loaded and removed when deleted.
// Every call is sequential; a Manager is not safe for concurrent use.
type Manager struct {
	client     Transport
	fs         afero.Fs
	logger     hclog.Logger
	workspaces map[string]*Workspace
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithFs sets the filesystem used for definition files. Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) ManagerOption {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates an empty registry backed by client.
func NewManager(client Transport, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:     client,
		fs:         afero.NewOsFs(),
		logger:     hclog.NewNullLogger(),
		workspaces: make(map[string]*Workspace),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("workspace-manager")
	return m
}

// Fs returns the filesystem used for definition files.
func (m *Manager) Fs() afero.Fs {
	return m.fs
}

// CreateWorkspace creates a workspace on the service and registers it under
// the returned slug. A slug that is already registered is replaced.
func (m *Manager) CreateWorkspace(ctx context.Context, cfg Config) (*Workspace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, validationError("create workspace", err)
	}

	w := New(m.client, cfg, m.logger)
	if _, err := w.Create(ctx); err != nil {
		return nil, err
	}

	slug := w.Slug()
	if slug == "" {
		return nil, &Error{
			Op:  "create workspace",
			Msg: fmt.Sprintf("response for %q did not include a workspace slug", cfg.Name),
			Err: ErrNoIdentity,
		}
	}

	if _, exists := m.workspaces[slug]; exists {
		m.logger.Warn("replacing registered workspace", "slug", slug)
	}
	m.workspaces[slug] = w

	m.logger.Info("created workspace", "name", cfg.Name, "slug", slug)
	return w, nil
}

// CreateWorkspaceFromJSON maps an external-shape JSON object and creates the
// workspace.
func (m *Manager) CreateWorkspaceFromJSON(ctx context.Context, data []byte) (*Workspace, error) {
	cfg, err := FromExternal(data)
	if err != nil {
		return nil, err
	}
	return m.CreateWorkspace(ctx, cfg)
}

// Get returns the registered workspace for slug.
func (m *Manager) Get(slug string) (*Workspace, bool) {
	w, ok := m.workspaces[slug]
	return w, ok
}

// Len returns the number of registered workspaces.
func (m *Manager) Len() int {
	return len(m.workspaces)
}

// Workspaces returns the registered workspaces ordered by slug.
func (m *Manager) Workspaces() []*Workspace {
	slugs := make([]string, 0, len(m.workspaces))
	for slug := range m.workspaces {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	result := make([]*Workspace, 0, len(slugs))
	for _, slug := range slugs {
		result = append(result, m.workspaces[slug])
	}
	return result
}

// ListWorkspaces returns the workspace records the service reports, or an
// empty slice when the response has none.
func (m *Manager) ListWorkspaces(ctx context.Context) ([]api.JSON, error) {
	resp, err := m.client.Get(ctx, "v1/workspaces", nil)
	if err != nil {
		return nil, fmt.Errorf("error listing workspaces: %w", err)
	}

	raw, _ := resp["workspaces"].([]any)
	records := make([]api.JSON, 0, len(raw))
	for i, item := range raw {
		record, ok := item.(map[string]any)
		if !ok {
			m.logger.Warn("skipping malformed workspace record", "index", i)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// LoadWorkspaces registers every service workspace whose slug is not yet
// known, with its identity already set. Registered slugs are left as they
// are, even if the service copy changed. It returns all registered
// workspaces ordered by slug.
func (m *Manager) LoadWorkspaces(ctx context.Context) ([]*Workspace, error) {
	records, err := m.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}

	var loaded int
	for _, record := range records {
		id, err := decodeIdentity(record)
		if err != nil {
			return nil, &Error{Op: "load workspaces", Err: err}
		}
		if id.Slug == "" {
			continue
		}
		if _, exists := m.workspaces[id.Slug]; exists {
			continue
		}

		cfg, err := FromWire(record)
		if err != nil {
			return nil, &Error{Op: "load workspaces", Msg: id.Slug, Err: err}
		}

		m.workspaces[id.Slug] = newLoaded(m.client, cfg, id, m.logger)
		loaded++
	}

	m.logger.Debug("loaded workspaces", "new", loaded, "total", len(m.workspaces))
	return m.Workspaces(), nil
}

// DeleteWorkspace deletes the registered workspace for slug and removes it
// from the registry. It returns false if the slug is not registered or the
// service did not acknowledge the deletion.
func (m *Manager) DeleteWorkspace(ctx context.Context, slug string) (bool, error) {
	w, ok := m.workspaces[slug]
	if !ok {
		return false, nil
	}

	deleted, err := w.Delete(ctx)
	if err != nil {
		return false, err
	}
	if deleted {
		delete(m.workspaces, slug)
		m.logger.Info("deleted workspace", "slug", slug)
	}
	return deleted, nil
}
