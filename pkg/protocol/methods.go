package protocol

import "encoding/json"

// Host-to-app methods.
const (
	// MethodToolResult delivers a tool call result for rendering.
	MethodToolResult = "ui/notifications/tool-result"

	// MethodHostContextChanged announces a change in theme, display mode,
	// styles, or container dimensions.
	MethodHostContextChanged = "ui/notifications/host-context-changed"

	// MethodToolCancelled announces that the pending tool call was cancelled.
	MethodToolCancelled = "ui/notifications/tool-cancelled"

	// MethodToolInput optionally primes a loading state with the tool's
	// arguments before the result arrives.
	MethodToolInput = "ui/notifications/tool-input"

	// MethodResourceTeardown is the only host-to-app request: the app must
	// release resources and acknowledge with an empty result.
	MethodResourceTeardown = "ui/resource-teardown"
)

// App-to-host methods.
const (
	// MethodRequestDisplayMode asks the host to switch display modes.
	MethodRequestDisplayMode = "ui/request-display-mode"

	// MethodInitialize is the standalone-mode handshake.
	MethodInitialize = "ui/initialize"

	// MethodSizeChanged reports the app's stabilized content dimensions.
	MethodSizeChanged = "ui/notifications/size-changed"
)

// ProtocolVersion identifies the revision of this contract carried in the
// initialize handshake.
const ProtocolVersion = "2025-06-18"

// ToolResultParams carries a tool call result. StructuredContent holds the
// machine-readable payload; Content is the human-readable fallback.
type ToolResultParams struct {
	StructuredContent json.RawMessage `json:"structuredContent,omitempty"`
	Content           json.RawMessage `json:"content,omitempty"`
}

// ToolCancelledParams carries the cancellation reason, if any.
type ToolCancelledParams struct {
	Reason string `json:"reason,omitempty"`
}

// ToolInputParams carries the arguments of the in-flight tool call.
type ToolInputParams struct {
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// TeardownParams carries the reason for a resource teardown request.
type TeardownParams struct {
	Reason string `json:"reason,omitempty"`
}

// DisplayModeParams asks the host for a display mode switch.
type DisplayModeParams struct {
	Mode DisplayMode `json:"mode"`
}

// DisplayModeResult is the host's answer: the mode actually granted.
type DisplayModeResult struct {
	Mode DisplayMode `json:"mode"`
}

// SizeChangedParams reports content dimensions in CSS pixels.
type SizeChangedParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AppInfo identifies the app during the initialize handshake.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// AppCapabilities declares what the app can do for the host.
type AppCapabilities struct {
	SizeReporting bool `json:"sizeReporting,omitempty"`
	DisplayModes  bool `json:"displayModes,omitempty"`
}

// InitializeParams is the standalone-mode handshake request body.
type InitializeParams struct {
	AppInfo         AppInfo         `json:"appInfo"`
	AppCapabilities AppCapabilities `json:"appCapabilities"`
	ProtocolVersion string          `json:"protocolVersion"`
}

// InitializeResult is the host's handshake answer.
type InitializeResult struct {
	HostContext HostContext `json:"hostContext"`
}
