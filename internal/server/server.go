// Package server provides a factory for creating the demo MCP server.
package server

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/apigene/mcp-apps/pkg/apps"
	"github.com/apigene/mcp-apps/pkg/apps/cards"
	"github.com/apigene/mcp-apps/pkg/apps/profile"
	"github.com/apigene/mcp-apps/pkg/apps/table"
	"github.com/apigene/mcp-apps/pkg/config"
)

// Version is set at build time.
var Version = "dev"

// New creates the MCP server and the app catalog it serves. Every enabled
// app contributes its UI bundle as a resource, a demo tool, and tools/list
// metadata pointing hosts at the bundle.
func New(cfg *config.Config) (*mcp.Server, *apps.Catalog, error) {
	catalog, err := BuildCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	version := cfg.Server.Version
	if version == "" {
		version = Version
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: version,
	}, nil)

	catalog.RegisterResources(server)
	catalog.RegisterDemoTools(server)
	server.AddReceivingMiddleware(apps.ToolUIMiddleware(catalog))

	return server, catalog, nil
}

// BuildCatalog assembles the catalog of enabled built-in apps.
func BuildCatalog(cfg *config.Config) (*apps.Catalog, error) {
	catalog := apps.NewCatalog()
	for _, name := range cfg.Apps.Enabled {
		var app *apps.App
		switch name {
		case "table":
			app = table.App(table.Config{
				MaxRows:     cfg.Apps.Table.MaxRows,
				StripedRows: cfg.Apps.Table.StripedRows,
			})
		case "cards":
			app = cards.App(cards.Config{})
		case "profile":
			app = profile.App()
		default:
			return nil, fmt.Errorf("unknown app %q in apps.enabled", name)
		}
		if err := catalog.Register(app); err != nil {
			return nil, fmt.Errorf("registering app %q: %w", name, err)
		}
	}
	return catalog, nil
}
