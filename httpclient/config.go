package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/offclient/version"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP transport.
type Config struct {
	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent is sent with every request. Defaults to offclient/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// ForceHTTP2 enables HTTP/2 on the net/http transport.
	ForceHTTP2 bool `yaml:"force_http2" mapstructure:"force_http2"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}
