// Package profile provides the MCP App that renders a single-record
// profile view.
package profile

import (
	"embed"

	"github.com/apigene/mcp-apps/pkg/apps"
)

//go:embed assets/*
var assets embed.FS

// App creates the profile app definition. The demo payload arrives doubly
// wrapped the way several upstream APIs deliver it, exercising the
// normalizer's nested-wrapper rules.
func App() *apps.App {
	return &apps.App{
		Name:        "profile",
		Description: "Profile view for single-record tool results",
		ResourceURI: "ui://profile",
		ToolNames:   []string{"show_profile"},
		Assets:      assets,
		AssetsRoot:  "assets",
		EntryPoint:  "index.html",
		DemoPayload: map[string]any{
			"message": map[string]any{
				"template_data": map[string]any{
					"name":  "Sam Whitfield",
					"email": "sam@example.com",
					"role":  "Data Engineer",
					"team":  "Platform",
				},
			},
		},
	}
}
