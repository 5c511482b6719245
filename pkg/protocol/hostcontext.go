package protocol

// Theme is the host's color scheme.
type Theme string

// Known themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DisplayMode is how the host presents the embedded app.
type DisplayMode string

// Known display modes.
const (
	DisplayInline     DisplayMode = "inline"
	DisplayFullscreen DisplayMode = "fullscreen"
)

// HostContext is a transient snapshot of the host's presentation state. It
// is applied immediately on arrival and not retained beyond its side
// effects.
type HostContext struct {
	Theme       Theme       `json:"theme,omitempty"`
	DisplayMode DisplayMode `json:"displayMode,omitempty"`
	Styles      *Styles     `json:"styles,omitempty"`
	Container   *Dimensions `json:"container,omitempty"`
}

// Styles carries host-provided style variables and font assets.
type Styles struct {
	CSS       *CSSAssets        `json:"css,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// CSSAssets lists stylesheet resources the host wants loaded.
type CSSAssets struct {
	Fonts []string `json:"fonts,omitempty"`
}

// Dimensions is a width/height pair in CSS pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Merge folds a newer snapshot into c, keeping existing values for fields
// the update leaves unset. Hosts send partial context updates.
func (c *HostContext) Merge(update HostContext) {
	if update.Theme != "" {
		c.Theme = update.Theme
	}
	if update.DisplayMode != "" {
		c.DisplayMode = update.DisplayMode
	}
	if update.Styles != nil {
		c.Styles = update.Styles
	}
	if update.Container != nil {
		c.Container = update.Container
	}
}
