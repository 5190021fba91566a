// Package roles creates workspaces from a directory of role definition
// files, one workspace per file.
package roles

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"github.com/hashicorp-forge/wsmanager/pkg/workspace"
)

// DefaultDir is the role directory used when none is configured.
const DefaultDir = "roles"

// Result is the outcome of creating the workspace for one role file.
type Result struct {
	File      string
	Workspace *workspace.Workspace
	Err       error
}

// Loader creates one workspace per *.json file in Dir.
type Loader struct {
	// Dir is the role directory. Defaults to DefaultDir.
	Dir string

	// Fs is the filesystem Dir is read from. Defaults to the manager's.
	Fs afero.Fs

	Manager *workspace.Manager
	Logger  hclog.Logger

	// Limiter, if set, paces creations. Files are still processed one at a
	// time.
	Limiter *rate.Limiter

	// OnResult, if set, is called after each file is processed.
	OnResult func(Result)
}

func (l *Loader) dir() string {
	if l.Dir == "" {
		return DefaultDir
	}
	return l.Dir
}

func (l *Loader) fs() afero.Fs {
	if l.Fs != nil {
		return l.Fs
	}
	if l.Manager != nil {
		return l.Manager.Fs()
	}
	return afero.NewOsFs()
}

func (l *Loader) logger() hclog.Logger {
	if l.Logger == nil {
		return hclog.NewNullLogger()
	}
	return l.Logger.Named("roles")
}

// Files returns the role files in Dir in lexical order.
func (l *Loader) Files() ([]string, error) {
	dir := l.dir()
	entries, err := afero.ReadDir(l.fs(), dir)
	if err != nil {
		return nil, fmt.Errorf("%w: roles directory %s: %w", workspace.ErrFile, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(path.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// CreateAll creates a workspace for every role file. A failing file is
// logged and skipped. The returned error aggregates every per-file failure
// and is nil if all files succeeded.
func (l *Loader) CreateAll(ctx context.Context) ([]*workspace.Workspace, error) {
	if l.Manager == nil {
		return nil, fmt.Errorf("roles loader has no workspace manager")
	}
	logger := l.logger()

	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("no role files found", "dir", l.dir())
		return []*workspace.Workspace{}, nil
	}

	created := make([]*workspace.Workspace, 0, len(files))
	var result *multierror.Error
	for _, file := range files {
		if l.Limiter != nil {
			if err := l.Limiter.Wait(ctx); err != nil {
				result = multierror.Append(result, fmt.Errorf("error waiting to create %s: %w", file, err))
				break
			}
		}

		w, err := l.createOne(ctx, file)
		if l.OnResult != nil {
			l.OnResult(Result{File: file, Workspace: w, Err: err})
		}
		if err != nil {
			logger.Error("error creating workspace from role file",
				"file", file,
				"error", err,
			)
			result = multierror.Append(result, fmt.Errorf("%s: %w", filepath.Base(file), err))
			continue
		}

		logger.Info("created workspace from role file",
			"file", file,
			"slug", w.Slug(),
		)
		created = append(created, w)
	}

	return created, result.ErrorOrNil()
}

func (l *Loader) createOne(ctx context.Context, file string) (*workspace.Workspace, error) {
	data, err := afero.ReadFile(l.fs(), file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", workspace.ErrFile, err)
	}
	return l.Manager.CreateWorkspaceFromJSON(ctx, data)
}
