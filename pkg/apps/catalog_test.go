package apps

import (
	"errors"
	"testing"
	"testing/fstest"
)

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"assets/index.html": {Data: []byte("<html><head></head><body></body></html>")},
		"assets/style.css":  {Data: []byte("body{}")},
	}
}

func testApp(name string) *App {
	return &App{
		Name:        name,
		ResourceURI: "ui://" + name,
		ToolNames:   []string{name + "_tool"},
		Assets:      testAssets(),
		AssetsRoot:  "assets",
		EntryPoint:  "index.html",
	}
}

func TestCatalogRegister(t *testing.T) {
	tests := []struct {
		name    string
		app     *App
		wantErr error
	}{
		{name: "valid", app: testApp("table")},
		{
			name: "missing name",
			app: &App{
				ResourceURI: "ui://x", ToolNames: []string{"t"},
				Assets: testAssets(), EntryPoint: "index.html",
			},
			wantErr: ErrMissingName,
		},
		{
			name: "missing resource URI",
			app: &App{
				Name: "x", ToolNames: []string{"t"},
				Assets: testAssets(), EntryPoint: "index.html",
			},
			wantErr: ErrMissingResourceURI,
		},
		{
			name: "missing tool names",
			app: &App{
				Name: "x", ResourceURI: "ui://x",
				Assets: testAssets(), EntryPoint: "index.html",
			},
			wantErr: ErrMissingToolNames,
		},
		{
			name: "missing assets",
			app: &App{
				Name: "x", ResourceURI: "ui://x", ToolNames: []string{"t"},
				EntryPoint: "index.html",
			},
			wantErr: ErrMissingAssets,
		},
		{
			name: "missing entry point",
			app: &App{
				Name: "x", ResourceURI: "ui://x", ToolNames: []string{"t"},
				Assets: testAssets(),
			},
			wantErr: ErrMissingEntryPoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCatalog().Register(tt.app)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogDuplicateRegistration(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(testApp("table")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := c.Register(testApp("table")); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("Register() error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestCatalogForTool(t *testing.T) {
	c := NewCatalog()
	app := testApp("table")
	app.ToolNames = []string{"tool_a", "tool_b"}
	if err := c.Register(app); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	for _, tool := range []string{"tool_a", "tool_b"} {
		if got := c.ForTool(tool); got != app {
			t.Errorf("ForTool(%q) = %v, want the registered app", tool, got)
		}
	}
	if got := c.ForTool("unknown"); got != nil {
		t.Errorf("ForTool(unknown) = %v, want nil", got)
	}
}

func TestCatalogAppsSorted(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"profile", "cards", "table"} {
		if err := c.Register(testApp(name)); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	apps := c.Apps()
	if len(apps) != 3 {
		t.Fatalf("Apps() returned %d apps, want 3", len(apps))
	}
	want := []string{"cards", "profile", "table"}
	for i, app := range apps {
		if app.Name != want[i] {
			t.Errorf("Apps()[%d] = %q, want %q", i, app.Name, want[i])
		}
	}
}
