package config

import (
	"fmt"
	"time"

	"github.com/kbukum/offclient/folksonomy"
	"github.com/kbukum/offclient/httpclient"
	"github.com/kbukum/offclient/logger"
	"github.com/kbukum/offclient/nutripatrol"
	"github.com/kbukum/offclient/observability"
	"github.com/kbukum/offclient/validation"
	"github.com/kbukum/offclient/version"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Transport implementations.
const (
	TransportNetHTTP = "nethttp"
	TransportResty   = "resty"
)

// Config is the full offclient configuration.
type Config struct {
	Name        string                     `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string                     `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	HTTP        HTTPConfig                 `yaml:"http" mapstructure:"http"`
	Folksonomy  folksonomy.Config          `yaml:"folksonomy" mapstructure:"folksonomy"`
	NutriPatrol nutripatrol.Config         `yaml:"nutripatrol" mapstructure:"nutripatrol"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// HTTPConfig selects and tunes the transport shared by both clients.
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	Transport  string        `yaml:"transport" mapstructure:"transport" validate:"oneof=nethttp resty"`
	ForceHTTP2 bool          `yaml:"force_http2" mapstructure:"force_http2"`
}

// Client returns the transport configuration.
func (h HTTPConfig) Client() httpclient.Config {
	return httpclient.Config{
		Timeout:    h.Timeout,
		ForceHTTP2: h.ForceHTTP2,
	}
}

// ApplyDefaults fills zero values. Base URLs follow the environment:
// staging targets the .net deployments, everything else production.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = EnvProduction
	}
	c.Logging.ApplyDefaults()

	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.Transport == "" {
		c.HTTP.Transport = TransportNetHTTP
	}

	if c.Folksonomy.BaseURL == "" {
		c.Folksonomy.BaseURL = folksonomy.DefaultBaseURL
		if c.Environment == EnvStaging {
			c.Folksonomy.BaseURL = folksonomy.StagingBaseURL
		}
	}
	if c.NutriPatrol.BaseURL == "" {
		c.NutriPatrol.BaseURL = nutripatrol.DefaultBaseURL
		if c.Environment == EnvStaging {
			c.NutriPatrol.BaseURL = nutripatrol.StagingBaseURL
		}
	}

	c.Tracing.ServiceName = c.Name
	c.Tracing.ServiceVersion = version.Version
	c.Tracing.Environment = c.Environment
	c.Metrics.ServiceName = c.Name
	c.Metrics.ServiceVersion = version.Version
	c.Metrics.Environment = c.Environment
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads the configuration of serviceName, applies defaults and
// validates it.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	cfg := &Config{Name: serviceName}
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
