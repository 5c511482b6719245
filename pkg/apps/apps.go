// Package apps manages the catalog of MCP Apps: browser-embeddable UI
// templates that render structured tool results. Each app bundles embedded
// HTML/JS/CSS assets, the tool names it enhances, and a canned demo
// payload; the catalog serves bundles as MCP resources and advertises them
// through tools/list metadata.
package apps

import "io/fs"

// App describes one embeddable UI template.
type App struct {
	// Name uniquely identifies the app (e.g. "table").
	Name string

	// Description is shown in resource listings.
	Description string

	// ResourceURI is the MCP resource URI serving the app's UI
	// (e.g. "ui://table").
	ResourceURI string

	// ToolNames lists the tools this app renders results for. Responses
	// from these tools carry _meta.ui metadata pointing at ResourceURI.
	ToolNames []string

	// Assets holds the app's HTML/JS/CSS files.
	Assets fs.FS

	// AssetsRoot is the directory within Assets to serve from.
	AssetsRoot string

	// EntryPoint is the main HTML file within AssetsRoot.
	EntryPoint string

	// Config is injected into the entry point HTML as JSON inside a
	// <script id="app-config"> tag.
	Config any

	// DemoPayload is the canned structuredContent the demo server's tool
	// for this app returns.
	DemoPayload any
}

// Validate checks that the app has all required fields.
func (a *App) Validate() error {
	if a.Name == "" {
		return ErrMissingName
	}
	if a.ResourceURI == "" {
		return ErrMissingResourceURI
	}
	if len(a.ToolNames) == 0 {
		return ErrMissingToolNames
	}
	if a.Assets == nil {
		return ErrMissingAssets
	}
	if a.EntryPoint == "" {
		return ErrMissingEntryPoint
	}
	return nil
}
