package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, DefaultRootNode, cfg.RootNode)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uabridge.yaml")
	data := `
endpoint: opc.tcp://plc.local:4840
root_node: ns=2;s=PLC
connect_attempts: 3
http:
  addr: ":8080"
gateway:
  enable_cors: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "opc.tcp://plc.local:4840", cfg.Endpoint)
	assert.Equal(t, "ns=2;s=PLC", cfg.RootNode)
	assert.Equal(t, 3, cfg.ConnectAttempts)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, DefaultStaticDir, cfg.HTTP.StaticDir, "absent fields keep defaults")
	assert.True(t, cfg.Gateway.EnableCORS)
	assert.Equal(t, []string{"*"}, cfg.Gateway.CORSOrigins, "validate fills CORS default")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "wrong scheme",
			mutate:  func(c *Config) { c.Endpoint = "http://localhost:4840" },
			wantErr: "scheme",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Endpoint = "opc.tcp://" },
			wantErr: "host",
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.Endpoint = "" },
			wantErr: "endpoint",
		},
		{
			name:    "zero connect attempts",
			mutate:  func(c *Config) { c.ConnectAttempts = 0 },
			wantErr: "connect_attempts",
		},
		{
			name:    "bad http addr",
			mutate:  func(c *Config) { c.HTTP.Addr = "8080" },
			wantErr: "host:port",
		},
		{
			name:    "negative request size",
			mutate:  func(c *Config) { c.Gateway.MaxRequestSize = -1 },
			wantErr: "max_request_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
