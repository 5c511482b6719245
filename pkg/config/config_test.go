package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mcp-apps", cfg.Server.Name)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, ":7040", cfg.Preview.Address)
	assert.Equal(t, 5*time.Second, cfg.Preview.RequestTimeout)
	assert.Equal(t, []string{"table", "cards", "profile"}, cfg.Apps.Enabled)
	assert.Equal(t, 1000, cfg.Apps.Table.MaxRows)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  name: demo
  transport: http
  address: ":9090"
preview:
  address: ":7100"
  watch:
    - "pkg/apps/**/assets/*"
apps:
  enabled: [table]
  table:
    max_rows: 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Server.Name)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, ":7100", cfg.Preview.Address)
	assert.Equal(t, []string{"pkg/apps/**/assets/*"}, cfg.Preview.Watch)
	assert.Equal(t, []string{"table"}, cfg.Apps.Enabled)
	assert.Equal(t, 25, cfg.Apps.Table.MaxRows)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SERVER_NAME", "from-env")
	path := writeConfig(t, `
server:
  name: ${TEST_SERVER_NAME}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Server.Name)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MCP_APPS_TRANSPORT", "http")
	t.Setenv("MCP_APPS_TABLE_MAX_ROWS", "7")
	path := writeConfig(t, `
server:
  transport: stdio
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 7, cfg.Apps.Table.MaxRows)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "bad transport",
			mutate:  func(c *Config) { c.Server.Transport = "grpc" },
			wantErr: "server.transport",
		},
		{
			name:    "negative max rows",
			mutate:  func(c *Config) { c.Apps.Table.MaxRows = -1 },
			wantErr: "max_rows",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Preview.RequestTimeout = -time.Second },
			wantErr: "request_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			applyDefaults(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
