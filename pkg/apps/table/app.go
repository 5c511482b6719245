// Package table provides the MCP App that renders tabular tool results.
package table

import (
	"embed"

	"github.com/apigene/mcp-apps/pkg/apps"
)

//go:embed assets/*
var assets embed.FS

// Config holds runtime configuration injected into the table app.
type Config struct {
	// MaxRows caps how many rows the table renders, as a browser
	// performance limit.
	MaxRows int `yaml:"max_rows" json:"maxRows"`

	// StripedRows toggles alternating row backgrounds.
	StripedRows bool `yaml:"striped_rows" json:"stripedRows"`
}

// DefaultConfig returns the defaults for the table app.
func DefaultConfig() Config {
	return Config{MaxRows: 1000, StripedRows: true}
}

// App creates the table app definition.
func App(cfg Config) *apps.App {
	if cfg.MaxRows == 0 {
		cfg.MaxRows = DefaultConfig().MaxRows
	}

	return &apps.App{
		Name:        "table",
		Description: "Interactive table for columnar tool results",
		ResourceURI: "ui://table",
		ToolNames:   []string{"show_table"},
		Assets:      assets,
		AssetsRoot:  "assets",
		EntryPoint:  "index.html",
		Config:      cfg,
		DemoPayload: map[string]any{
			"columns": []any{"region", "orders", "revenue"},
			"rows": []any{
				[]any{"emea", 421, 90312.50},
				[]any{"amer", 387, 84250.00},
				[]any{"apac", 295, 61820.75},
			},
		},
	}
}
