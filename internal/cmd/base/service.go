package base

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/wsmanager/internal/config"
	"github.com/hashicorp-forge/wsmanager/pkg/api"
	"github.com/hashicorp-forge/wsmanager/pkg/workspace"
)

// ServiceFlags are the connection flags accepted by every command that talks
// to the service. Set flags override the configuration file and environment.
type ServiceFlags struct {
	Config   string
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	LogLevel string
}

// AddServiceFlags registers sf on f.
func AddServiceFlags(f *FlagSet, sf *ServiceFlags) {
	f.StringVar(
		&sf.Config, "config", "",
		"["+config.EnvConfig+"] Path to an HCL configuration file.",
	)
	f.StringVar(
		&sf.Endpoint, "endpoint", "",
		"["+config.EnvEndpoint+"] Base URL of the service. Defaults to "+api.DefaultBaseURL+".",
	)
	f.StringVar(
		&sf.APIKey, "api-key", "",
		"["+config.EnvAPIKey+"] API key sent as a bearer token.",
	)
	f.DurationVar(
		&sf.Timeout, "timeout", 0,
		"Timeout for a single request.",
	)
	f.StringVar(
		&sf.LogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error).",
	)
}

// Service is a configured connection to the service.
type Service struct {
	Config  *config.Config
	Client  *api.Client
	Manager *workspace.Manager
}

// NewService resolves the configuration, applies sf on top of it and builds
// the API client and workspace manager.
func (c *Command) NewService(sf *ServiceFlags) (*Service, error) {
	cfg, err := config.Load(sf.Config)
	if err != nil {
		return nil, err
	}

	if sf.Endpoint != "" {
		cfg.Endpoint = sf.Endpoint
	}
	if sf.APIKey != "" {
		cfg.APIKey = sf.APIKey
	}
	if sf.Timeout != 0 {
		cfg.Timeout = sf.Timeout
	}
	if sf.LogLevel != "" {
		cfg.LogLevel = sf.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		c.Log.SetLevel(level)
	}

	client, err := api.NewClient(cfg.ClientConfig(c.Log))
	if err != nil {
		return nil, err
	}

	return &Service{
		Config:  cfg,
		Client:  client,
		Manager: workspace.NewManager(client, workspace.WithLogger(c.Log)),
	}, nil
}

// Workspace loads the service's workspaces and returns the one for slug.
func (s *Service) Workspace(ctx context.Context, slug string) (*workspace.Workspace, error) {
	if _, err := s.Manager.LoadWorkspaces(ctx); err != nil {
		return nil, err
	}
	w, ok := s.Manager.Get(slug)
	if !ok {
		return nil, fmt.Errorf("workspace %q not found", slug)
	}
	return w, nil
}
