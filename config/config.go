package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/uabridge/errors"
	"github.com/c360/uabridge/gateway"
)

// Defaults applied by Default() and Validate()
const (
	DefaultEndpoint        = "opc.tcp://localhost:4840"
	DefaultRootNode        = "i=85" // ObjectsFolder
	DefaultHTTPAddr        = ":3000"
	DefaultStaticDir       = "static"
	DefaultConnectAttempts = 5
)

// Config represents the complete bridge configuration
type Config struct {
	// Endpoint is the OPC UA server endpoint URL (opc.tcp scheme)
	Endpoint string `yaml:"endpoint"`

	// RootNode is the node id discovery starts from
	RootNode string `yaml:"root_node,omitempty"`

	// ConnectAttempts bounds the initial connection retry; this is the only
	// retry knob in the bridge
	ConnectAttempts int `yaml:"connect_attempts,omitempty"`

	// HTTP holds the listener settings
	HTTP HTTPConfig `yaml:"http"`

	// Gateway holds the request-handling settings
	Gateway gateway.Config `yaml:"gateway,omitempty"`
}

// HTTPConfig defines the HTTP listener settings
type HTTPConfig struct {
	// Addr is the listen address (host:port)
	Addr string `yaml:"addr,omitempty"`

	// StaticDir is the local directory served verbatim under /ui/
	StaticDir string `yaml:"static_dir,omitempty"`
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	return &Config{
		Endpoint:        DefaultEndpoint,
		RootNode:        DefaultRootNode,
		ConnectAttempts: DefaultConnectAttempts,
		HTTP: HTTPConfig{
			Addr:      DefaultHTTPAddr,
			StaticDir: DefaultStaticDir,
		},
	}
}

// Load reads a YAML configuration file and applies defaults for absent
// fields. The file is optional at the call site; callers pass "" to run on
// defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, "Config", "Load", "read "+path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapInvalid(err, "Config", "Load", "parse "+path)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.RootNode == "" {
		c.RootNode = DefaultRootNode
	}
	if c.ConnectAttempts == 0 {
		c.ConnectAttempts = DefaultConnectAttempts
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = DefaultStaticDir
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"endpoint is required")
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return errors.WrapInvalid(err, "Config", "Validate", "parse endpoint "+c.Endpoint)
	}
	if u.Scheme != "opc.tcp" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("endpoint scheme must be opc.tcp, got %q", u.Scheme))
	}
	if u.Host == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"endpoint host is required")
	}

	if c.RootNode == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "Config", "Validate",
			"root_node is required")
	}

	if c.ConnectAttempts < 1 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("connect_attempts must be at least 1, got %d", c.ConnectAttempts))
	}

	if !strings.Contains(c.HTTP.Addr, ":") {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("http addr must be host:port, got %q", c.HTTP.Addr))
	}

	if err := c.Gateway.Validate(); err != nil {
		return err
	}

	return nil
}
