// Package config loads and validates server configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the complete configuration for the demo and preview servers.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Preview PreviewConfig `yaml:"preview"`
	Apps    AppsConfig    `yaml:"apps"`
	Record  RecordConfig  `yaml:"record"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name      string `yaml:"name" env:"MCP_APPS_SERVER_NAME"`
	Version   string `yaml:"version" env:"MCP_APPS_SERVER_VERSION"`
	Transport string `yaml:"transport" env:"MCP_APPS_TRANSPORT"` // "stdio", "http"
	Address   string `yaml:"address" env:"MCP_APPS_ADDRESS"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Address        string        `yaml:"address" env:"MCP_APPS_PREVIEW_ADDRESS"`
	FixturesDir    string        `yaml:"fixtures_dir" env:"MCP_APPS_PREVIEW_FIXTURES_DIR"`
	Watch          []string      `yaml:"watch"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"MCP_APPS_PREVIEW_REQUEST_TIMEOUT"`
}

// AppsConfig selects and configures the built-in apps.
type AppsConfig struct {
	Enabled []string       `yaml:"enabled"`
	Table   TableAppConfig `yaml:"table"`
}

// TableAppConfig configures the table app.
type TableAppConfig struct {
	MaxRows     int  `yaml:"max_rows" env:"MCP_APPS_TABLE_MAX_ROWS"`
	StripedRows bool `yaml:"striped_rows"`
}

// RecordConfig configures session traffic recording.
type RecordConfig struct {
	Enabled bool   `yaml:"enabled" env:"MCP_APPS_RECORD_ENABLED"`
	Path    string `yaml:"path" env:"MCP_APPS_RECORD_PATH"`
}

// Load reads configuration from a YAML file, expands ${VAR} references,
// applies defaults, and overlays environment variable overrides. An empty
// path yields the default configuration with environment overrides applied.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// #nosec G304 -- path is from CLI args, controlled by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		data = []byte(expandEnvVars(string(data)))
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "mcp-apps"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Preview.Address == "" {
		cfg.Preview.Address = ":7040"
	}
	if cfg.Preview.RequestTimeout == 0 {
		cfg.Preview.RequestTimeout = 5 * time.Second
	}
	if len(cfg.Apps.Enabled) == 0 {
		cfg.Apps.Enabled = []string{"table", "cards", "profile"}
	}
	if cfg.Apps.Table.MaxRows == 0 {
		cfg.Apps.Table.MaxRows = 1000
	}
	if cfg.Record.Path == "" {
		cfg.Record.Path = "mcp-apps-sessions.db"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	switch c.Server.Transport {
	case "stdio", "http":
	default:
		errs = append(errs, fmt.Sprintf("server.transport %q is not one of stdio, http", c.Server.Transport))
	}
	if c.Server.Transport == "http" && c.Server.Address == "" {
		errs = append(errs, "server.address is required for http transport")
	}
	if c.Apps.Table.MaxRows < 0 {
		errs = append(errs, "apps.table.max_rows must not be negative")
	}
	if c.Preview.RequestTimeout < 0 {
		errs = append(errs, "preview.request_timeout must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
