package apps

import (
	"sort"
	"sync"
)

// Catalog holds the registered apps and the tool-to-app mapping. It is
// safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	apps      map[string]*App
	toolToApp map[string]*App
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		apps:      make(map[string]*App),
		toolToApp: make(map[string]*App),
	}
}

// Register validates and adds an app.
func (c *Catalog) Register(app *App) error {
	if err := app.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.apps[app.Name]; exists {
		return ErrAlreadyRegistered
	}
	c.apps[app.Name] = app
	for _, tool := range app.ToolNames {
		c.toolToApp[tool] = app
	}
	return nil
}

// Get returns the app with the given name, or nil.
func (c *Catalog) Get(name string) *App {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apps[name]
}

// ForTool returns the app that renders results for the given tool, or nil.
func (c *Catalog) ForTool(toolName string) *App {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.toolToApp[toolName]
}

// Apps returns all registered apps sorted by name.
func (c *Catalog) Apps() []*App {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*App, 0, len(c.apps))
	for _, app := range c.apps {
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered apps.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.apps)
}
