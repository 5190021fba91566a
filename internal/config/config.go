// Package config loads the command line configuration from an optional HCL
// file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/joho/godotenv"

	"github.com/hashicorp-forge/wsmanager/pkg/api"
	"github.com/hashicorp-forge/wsmanager/pkg/roles"
)

// Environment variables read by Load.
const (
	EnvConfig   = "WSMANAGER_CONFIG"
	EnvEndpoint = "WSMANAGER_ENDPOINT"
	EnvAPIKey   = "WSMANAGER_API_KEY"
)

// Config is the resolved command line configuration.
type Config struct {
	// Endpoint is the base URL of the service.
	Endpoint string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds a single request.
	Timeout time.Duration

	// TLSVerify disables certificate verification when false.
	TLSVerify bool

	// WebURL is the base URL of the web UI. Defaults to Endpoint.
	WebURL string

	// LogLevel is an hclog level name.
	LogLevel string

	// RolesDir is the directory scanned by create-from-roles.
	RolesDir string

	// RolesRate is the maximum number of role workspaces created per
	// second. Zero means unlimited.
	RolesRate float64
}

// file is the HCL representation of Config.
type file struct {
	LogLevel string        `hcl:"log_level,optional"`
	Service  *serviceBlock `hcl:"service,block"`
	Roles    *rolesBlock   `hcl:"roles,block"`
}

type serviceBlock struct {
	BaseURL   string `hcl:"base_url,optional"`
	WebURL    string `hcl:"web_url,optional"`
	APIKey    string `hcl:"api_key,optional"`
	Timeout   string `hcl:"timeout,optional"`
	TLSVerify *bool  `hcl:"tls_verify,optional"`
}

type rolesBlock struct {
	Dir  string  `hcl:"dir,optional"`
	Rate float64 `hcl:"rate,optional"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Endpoint:  api.DefaultBaseURL,
		Timeout:   api.DefaultTimeout,
		TLSVerify: true,
		LogLevel:  "info",
		RolesDir:  roles.DefaultDir,
	}
}

// Load builds the configuration from defaults, the HCL file at path and the
// environment, in increasing order of precedence. When path is empty the
// file named by WSMANAGER_CONFIG is used, if any. A .env file in the working
// directory is loaded first and never overrides variables already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("configuration file not found: %s", path)
	}

	var f file
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return fmt.Errorf("failed to parse configuration file: %w", err)
	}

	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}

	if s := f.Service; s != nil {
		if s.BaseURL != "" {
			c.Endpoint = s.BaseURL
		}
		if s.WebURL != "" {
			c.WebURL = s.WebURL
		}
		if s.APIKey != "" {
			c.APIKey = s.APIKey
		}
		if s.Timeout != "" {
			d, err := time.ParseDuration(s.Timeout)
			if err != nil {
				return fmt.Errorf("service.timeout: %w", err)
			}
			c.Timeout = d
		}
		if s.TLSVerify != nil {
			c.TLSVerify = *s.TLSVerify
		}
	}

	if r := f.Roles; r != nil {
		if r.Dir != "" {
			c.RolesDir = r.Dir
		}
		c.RolesRate = r.Rate
	}

	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.LogLevel, validation.By(logLevel)),
		validation.Field(&c.RolesRate, validation.Min(0.0)),
	)
}

func logLevel(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if hclog.LevelFromString(s) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", s)
	}
	return nil
}

// ClientConfig returns the API client configuration.
func (c *Config) ClientConfig(logger hclog.Logger) *api.Config {
	tlsVerify := c.TLSVerify
	return &api.Config{
		BaseURL:   c.Endpoint,
		APIKey:    c.APIKey,
		TLSVerify: &tlsVerify,
		Timeout:   c.Timeout,
		Logger:    logger,
	}
}

// WebBaseURL returns the base URL of the web UI.
func (c *Config) WebBaseURL() string {
	if c.WebURL != "" {
		return c.WebURL
	}
	return c.Endpoint
}
