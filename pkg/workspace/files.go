package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// ReadDefinitions reads a definition file whose top-level value is either a
// single external-shape object or an array of them. The raw objects are
// returned in document order.
func ReadDefinitions(fs afero.Fs, path string) ([]json.RawMessage, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fileError("read definitions", path, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fileError("read definitions", path, fmt.Errorf("invalid JSON: %w", err))
		}
		return list, nil
	}

	var single json.RawMessage
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fileError("read definitions", path, fmt.Errorf("invalid JSON: %w", err))
	}
	return []json.RawMessage{single}, nil
}

// CreateFromFile creates one workspace per definition in the file, in
// document order. It stops at the first failure and returns the workspaces
// created so far along with the error.
func (m *Manager) CreateFromFile(ctx context.Context, path string) ([]*Workspace, error) {
	defs, err := ReadDefinitions(m.fs, path)
	if err != nil {
		return nil, err
	}

	created := make([]*Workspace, 0, len(defs))
	for i, def := range defs {
		w, err := m.CreateWorkspaceFromJSON(ctx, def)
		if err != nil {
			return created, fmt.Errorf("error creating workspace %d of %d from %s: %w", i+1, len(defs), path, err)
		}
		created = append(created, w)
	}
	return created, nil
}

// SaveToFile writes every registered workspace as an external-shape JSON
// array, ordered by slug.
func (m *Manager) SaveToFile(path string) error {
	workspaces := m.Workspaces()
	defs := make([]External, 0, len(workspaces))
	for _, w := range workspaces {
		defs = append(defs, ToExternal(w.Config()))
	}

	data, err := json.MarshalIndent(defs, "", "  ")
	if err != nil {
		return &Error{Op: "save workspaces", Msg: path, Err: err}
	}

	if err := afero.WriteFile(m.fs, path, append(data, '\n'), 0o644); err != nil {
		return fileError("save workspaces", path, err)
	}

	m.logger.Debug("saved workspaces", "path", path, "count", len(defs))
	return nil
}
