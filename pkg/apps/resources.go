package apps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

// RegisterResources registers every app's UI bundle as an MCP resource.
// The entry point is served at the app's ResourceURI; additional bundle
// files are addressed by sub-path (e.g. ui://table/style.css).
func (c *Catalog) RegisterResources(server *mcp.Server) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, app := range c.apps {
		server.AddResource(&mcp.Resource{
			URI:         app.ResourceURI,
			Name:        app.Name,
			Description: app.Description,
			MIMEType:    MCPAppMIMEType,
		}, resourceHandler(app))
	}
}

func resourceHandler(app *App) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		contents, err := ReadBundleFile(app, req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{contents},
		}, nil
	}
}

// ReadBundleFile resolves uri against the app's bundle and returns the
// resource contents, with app config injected into the entry point HTML.
func ReadBundleFile(app *App, uri string) (*mcp.ResourceContents, error) {
	filename, err := bundlePath(app, uri)
	if err != nil {
		return nil, err
	}

	content, err := readAsset(app, filename)
	if err != nil {
		return nil, err
	}

	mimeType := MIMEType(filename)
	if filename == app.EntryPoint {
		content = injectConfig(content, app.Config)
		mimeType = MCPAppMIMEType
	}

	contents := &mcp.ResourceContents{URI: uri, MIMEType: mimeType}
	if isBinaryMIME(mimeType) {
		contents.Blob = content
	} else {
		contents.Text = string(content)
	}
	return contents, nil
}

// bundlePath maps a resource URI onto a file within the app bundle: the
// bare ResourceURI means the entry point, and sub-path segments are
// matched with a URI template.
func bundlePath(app *App, uri string) (string, error) {
	if uri == app.ResourceURI {
		return app.EntryPoint, nil
	}

	tmpl, err := uritemplate.New(app.ResourceURI + "{/file*}")
	if err != nil {
		return "", fmt.Errorf("invalid resource URI %q: %w", app.ResourceURI, err)
	}
	match := tmpl.Match(uri)
	if match == nil {
		return "", ErrAssetNotFound
	}

	segments := match.Get("file").List()
	if len(segments) == 0 {
		if s := match.Get("file").String(); s != "" {
			segments = []string{s}
		}
	}
	if len(segments) == 0 {
		return app.EntryPoint, nil
	}
	return path.Join(segments...), nil
}

// readAsset reads one file from the bundle, rejecting traversal out of the
// assets root.
func readAsset(app *App, filename string) ([]byte, error) {
	filename = path.Clean(filename)
	if filename == "." || strings.HasPrefix(filename, "..") || path.IsAbs(filename) {
		return nil, ErrAssetNotFound
	}

	full := filename
	if app.AssetsRoot != "" {
		full = path.Join(app.AssetsRoot, filename)
	}
	content, err := fs.ReadFile(app.Assets, full)
	if err != nil {
		return nil, ErrAssetNotFound
	}
	return content, nil
}

// injectConfig embeds config as JSON inside a <script id="app-config"> tag:
// an existing tag is replaced, otherwise one is inserted before </head>.
func injectConfig(content []byte, config any) []byte {
	if config == nil {
		return content
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return content
	}
	script := fmt.Sprintf(`<script id="app-config" type="application/json">%s</script>`, configJSON)

	openTag := []byte(`<script id="app-config"`)
	if idx := bytes.Index(content, openTag); idx != -1 {
		closeTag := []byte(`</script>`)
		if end := bytes.Index(content[idx:], closeTag); end != -1 {
			end += idx + len(closeTag)
			var buf bytes.Buffer
			buf.Write(content[:idx])
			buf.WriteString(script)
			buf.Write(content[end:])
			return buf.Bytes()
		}
	}

	headClose := []byte(`</head>`)
	if idx := bytes.Index(content, headClose); idx != -1 {
		var buf bytes.Buffer
		buf.Write(content[:idx])
		buf.WriteString(script + "\n")
		buf.Write(content[idx:])
		return buf.Bytes()
	}
	return content
}
