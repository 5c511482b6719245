package apps

import "errors"

// Validation and catalog errors.
var (
	// ErrMissingName is returned when App.Name is empty.
	ErrMissingName = errors.New("app name is required")

	// ErrMissingResourceURI is returned when App.ResourceURI is empty.
	ErrMissingResourceURI = errors.New("resource URI is required")

	// ErrMissingToolNames is returned when App.ToolNames is empty.
	ErrMissingToolNames = errors.New("at least one tool name is required")

	// ErrMissingAssets is returned when App.Assets is nil.
	ErrMissingAssets = errors.New("assets filesystem is required")

	// ErrMissingEntryPoint is returned when App.EntryPoint is empty.
	ErrMissingEntryPoint = errors.New("entry point is required")

	// ErrAlreadyRegistered is returned when an app name is registered twice.
	ErrAlreadyRegistered = errors.New("app already registered")

	// ErrAppNotFound is returned when looking up an unknown app.
	ErrAppNotFound = errors.New("app not found")

	// ErrAssetNotFound is returned when a requested asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")
)
