package apps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// demoInput is empty: demo tools take no parameters.
type demoInput struct{}

// RegisterDemoTools registers one tool per app that returns the app's
// canned demo payload as structuredContent. Hosts invoke these tools to
// exercise each template end to end without a real backend.
func (c *Catalog) RegisterDemoTools(server *mcp.Server) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, app := range c.apps {
		registerDemoTool(server, app)
	}
}

func registerDemoTool(server *mcp.Server, app *App) {
	payload := app.DemoPayload
	mcp.AddTool(server, &mcp.Tool{
		Name:        app.ToolNames[0],
		Description: fmt.Sprintf("Return a sample payload rendered by the %s app", app.Name),
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ demoInput) (*mcp.CallToolResult, any, error) {
		text, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding demo payload for %s: %w", app.Name, err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		}, payload, nil
	})
}
