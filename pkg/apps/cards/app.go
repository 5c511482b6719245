// Package cards provides the MCP App that renders list results as cards.
package cards

import (
	"embed"

	"github.com/apigene/mcp-apps/pkg/apps"
)

//go:embed assets/*
var assets embed.FS

// Config holds runtime configuration injected into the cards app.
type Config struct {
	// Columns is the number of card columns in the grid.
	Columns int `yaml:"columns" json:"columns"`
}

// App creates the cards app definition.
func App(cfg Config) *apps.App {
	if cfg.Columns == 0 {
		cfg.Columns = 3
	}

	return &apps.App{
		Name:        "cards",
		Description: "Card grid for list-shaped tool results",
		ResourceURI: "ui://cards",
		ToolNames:   []string{"show_cards"},
		Assets:      assets,
		AssetsRoot:  "assets",
		EntryPoint:  "index.html",
		Config:      cfg,
		DemoPayload: map[string]any{
			"items": []any{
				map[string]any{"title": "Build dashboard", "status": "in progress", "owner": "dana"},
				map[string]any{"title": "Ship release", "status": "blocked", "owner": "lee"},
				map[string]any{"title": "Write changelog", "status": "done", "owner": "ari"},
			},
		},
	}
}
