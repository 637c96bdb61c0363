package gateway

import (
	"fmt"

	"github.com/c360/uabridge/errors"
)

// DefaultMaxRequestSize caps PUT bodies; variable values are small scalars
const DefaultMaxRequestSize = 1 << 20 // 1 MiB

// Config holds the HTTP-surface settings for a gateway instance
type Config struct {
	// MaxRequestSize limits the accepted request body in bytes
	MaxRequestSize int64 `yaml:"max_request_size,omitempty"`

	// EnableCORS enables cross-origin headers for browser-based tools
	EnableCORS bool `yaml:"enable_cors,omitempty"`

	// CORSOrigins lists allowed origins; "*" allows any
	CORSOrigins []string `yaml:"cors_origins,omitempty"`

	// RateLimit is the sustained request rate per second; 0 disables limiting
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	// RateBurst is the token-bucket burst size when RateLimit is set
	RateBurst int `yaml:"rate_burst,omitempty"`
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.MaxRequestSize < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("max_request_size cannot be negative: %d", c.MaxRequestSize))
	}
	if c.MaxRequestSize == 0 {
		c.MaxRequestSize = DefaultMaxRequestSize
	}

	if c.RateLimit < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("rate_limit cannot be negative: %f", c.RateLimit))
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 10
	}

	if c.EnableCORS && len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}
