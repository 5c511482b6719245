package apps

import (
	"path"
	"strings"
)

// MCPAppMIMEType is the MIME type MCP Apps hosts expect for entry-point
// HTML resources.
const MCPAppMIMEType = "text/html;profile=mcp-app"

var mimeTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript; charset=utf-8",
	".mjs":   "application/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".map":   "application/json; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".ico":   "image/x-icon",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".txt":   "text/plain; charset=utf-8",
}

// MIMEType returns the MIME type for an asset filename.
func MIMEType(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// isBinaryMIME reports whether resource contents should be delivered as a
// blob rather than text.
func isBinaryMIME(mimeType string) bool {
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	mimeType = strings.TrimSpace(mimeType)

	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return false
	case strings.HasPrefix(mimeType, "application/json"),
		strings.HasPrefix(mimeType, "application/javascript"):
		return false
	case mimeType == "image/svg+xml":
		return false
	default:
		return true
	}
}
