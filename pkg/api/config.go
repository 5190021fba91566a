package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the address a locally running service listens on.
const DefaultBaseURL = "http://localhost:3001"

// DefaultTimeout bounds a single non-streaming request.
const DefaultTimeout = 30 * time.Second

// Config contains configuration for the service API client.
//
// Example configuration (HCL):
//
//	service {
//	  base_url   = "http://localhost:3001"
//	  api_key    = "XXXX-XXXX"
//	  timeout    = "30s"
//	  tls_verify = true
//	}
type Config struct {
	// BaseURL is the base URL of the service, without the /api segment.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development/testing with self-signed certs.
	TLSVerify *bool

	// Timeout for API requests. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives request diagnostics. Optional.
	Logger hclog.Logger
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		BaseURL:   DefaultBaseURL,
		TLSVerify: &tlsVerify,
		Timeout:   DefaultTimeout,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

// NewHTTPClient creates a configured HTTP client. When an API key is set the
// transport attaches it as a bearer token to every request.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	if c.APIKey != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		bearer := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.APIKey,
			TokenType:   "Bearer",
		}))
		bearer.Timeout = timeout
		return bearer
	}

	return client
}
