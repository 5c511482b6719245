package apps

import "testing"

func TestMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"index.html", "text/html; charset=utf-8"},
		{"js/app.JS", "application/javascript; charset=utf-8"},
		{"style.css", "text/css; charset=utf-8"},
		{"logo.svg", "image/svg+xml"},
		{"font.woff2", "font/woff2"},
		{"unknown.bin", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MIMEType(tt.filename); got != tt.want {
			t.Errorf("MIMEType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestIsBinaryMIME(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{"text/html; charset=utf-8", false},
		{MCPAppMIMEType, false},
		{"application/json; charset=utf-8", false},
		{"application/javascript; charset=utf-8", false},
		{"image/svg+xml", false},
		{"image/png", true},
		{"font/woff2", true},
		{"application/octet-stream", true},
	}

	for _, tt := range tests {
		if got := isBinaryMIME(tt.mimeType); got != tt.want {
			t.Errorf("isBinaryMIME(%q) = %v, want %v", tt.mimeType, got, tt.want)
		}
	}
}
