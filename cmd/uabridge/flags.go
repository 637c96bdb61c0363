package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Endpoint        string
	ConfigPath      string
	HTTPAddr        string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.Endpoint, "endpoint",
		getEnv("UABRIDGE_ENDPOINT", ""),
		"OPC UA server endpoint URL (env: UABRIDGE_ENDPOINT)")

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("UABRIDGE_CONFIG", ""),
		"Path to YAML configuration file, optional (env: UABRIDGE_CONFIG)")

	flag.StringVar(&cfg.HTTPAddr, "http-addr",
		getEnv("UABRIDGE_HTTP_ADDR", ""),
		"HTTP listen address (env: UABRIDGE_HTTP_ADDR)")

	flag.StringVar(&cfg.StaticDir, "static-dir",
		getEnv("UABRIDGE_STATIC_DIR", ""),
		"Directory served under /ui/ (env: UABRIDGE_STATIC_DIR)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("UABRIDGE_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: UABRIDGE_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("UABRIDGE_LOG_FORMAT", "json"),
		"Log format: json, text (env: UABRIDGE_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("UABRIDGE_SHUTDOWN_TIMEOUT", 10*time.Second),
		"Graceful shutdown timeout (env: UABRIDGE_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// A bare positional argument is accepted as the endpoint URL
	if cfg.Endpoint == "" && flag.NArg() > 0 {
		cfg.Endpoint = flag.Arg(0)
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	// Validate config file exists when one was given
	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", cfg.ShutdownTimeout)
	}

	return nil
}

func printHelp() {
	printDetailedHelp()
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - OPC UA to HTTP variable bridge

Usage: %s [options] [endpoint-url]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Bridge a local OPC UA server
  %s opc.tcp://localhost:4840

  # Run with a config file and debug logging
  %s --config=/etc/uabridge/config.yaml --log-level=debug --log-format=text

  # Run with environment variables
  export UABRIDGE_ENDPOINT=opc.tcp://plc.local:4840
  %s

  # Validate configuration only
  %s --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
