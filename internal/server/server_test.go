package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apigene/mcp-apps/pkg/config"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNew(t *testing.T) {
	srv, catalog, err := New(defaultConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, srv)
	require.NotNil(t, catalog)
	assert.Equal(t, 3, catalog.Len())
}

func TestBuildCatalogAppSelection(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Apps.Enabled = []string{"table"}

	catalog, err := BuildCatalog(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())
	assert.NotNil(t, catalog.Get("table"))
	assert.Nil(t, catalog.Get("cards"))
}

func TestBuildCatalogToolBinding(t *testing.T) {
	catalog, err := BuildCatalog(defaultConfig(t))
	require.NoError(t, err)

	app := catalog.ForTool("show_table")
	require.NotNil(t, app)
	assert.Equal(t, "ui://table", app.ResourceURI)

	app = catalog.ForTool("show_cards")
	require.NotNil(t, app)
	assert.Equal(t, "ui://cards", app.ResourceURI)
}

func TestBuildCatalogUnknownApp(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Apps.Enabled = []string{"table", "bogus"}

	_, err := BuildCatalog(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestVersion(t *testing.T) {
	if Version != "dev" {
		t.Errorf("expected Version 'dev', got %q", Version)
	}
}
