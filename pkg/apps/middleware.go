package apps

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolUIMiddleware creates MCP protocol middleware that stamps `_meta.ui`
// onto tools/list entries whose tools have a registered app, so MCP Apps
// compatible hosts know which resource renders each tool's results.
func ToolUIMiddleware(catalog *Catalog) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			result, err := next(ctx, method, req)
			if err != nil {
				return result, err
			}
			if method != "tools/list" {
				return result, nil
			}
			listResult, ok := result.(*mcp.ListToolsResult)
			if !ok || listResult == nil {
				return result, nil
			}
			stampToolUI(catalog, listResult)
			return listResult, nil
		}
	}
}

func stampToolUI(catalog *Catalog, listResult *mcp.ListToolsResult) {
	for _, tool := range listResult.Tools {
		app := catalog.ForTool(tool.Name)
		if app == nil {
			continue
		}
		if tool.Meta == nil {
			tool.Meta = make(mcp.Meta)
		}
		tool.Meta["ui"] = map[string]string{"resourceUri": app.ResourceURI}
	}
}
