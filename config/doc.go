// Package config defines the bridge configuration and its YAML loading.
//
// Configuration is resolved in three layers: compiled defaults, an optional
// YAML file, and command-line flags (applied by cmd/uabridge, flags win).
// Validate must pass before the configuration is used; startup aborts on the
// first validation error rather than serving with a partially sane config.
package config
