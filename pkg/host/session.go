// Package host implements the host/proxy side of the app messaging
// contract: driving an embedded app with tool results and context changes,
// answering the requests apps are allowed to make, and tearing the app
// down with a correlated acknowledgment.
//
// It mirrors pkg/channel and shares its correlator, so the invariants
// (one reply per id, idempotent timeout) hold in both directions.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/apigene/mcp-apps/pkg/channel"
	"github.com/apigene/mcp-apps/pkg/protocol"
)

// Session is one host's view of one embedded app instance.
type Session struct {
	transport channel.Transport
	corr      *channel.Correlator
	logger    *slog.Logger

	onSizeChanged func(protocol.SizeChangedParams)
	grantMode     func(requested protocol.DisplayMode) protocol.DisplayMode

	mu      sync.Mutex
	hostCtx protocol.HostContext
	torn    bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithTimeout overrides the teardown acknowledgment deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.corr = channel.NewCorrelator(d, s.logger) }
}

// WithHostContext sets the initial context handed to apps that perform the
// initialize handshake.
func WithHostContext(ctx protocol.HostContext) Option {
	return func(s *Session) { s.hostCtx = ctx }
}

// WithSizeHandler sets the callback for size-changed notifications.
func WithSizeHandler(fn func(protocol.SizeChangedParams)) Option {
	return func(s *Session) { s.onSizeChanged = fn }
}

// WithDisplayModePolicy sets the policy deciding which display mode a
// request is granted. The default grants whatever the app asks for.
func WithDisplayModePolicy(fn func(requested protocol.DisplayMode) protocol.DisplayMode) Option {
	return func(s *Session) { s.grantMode = fn }
}

// NewSession creates the host side of one app channel.
func NewSession(transport channel.Transport, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		logger:    slog.Default(),
		hostCtx: protocol.HostContext{
			Theme:       protocol.ThemeLight,
			DisplayMode: protocol.DisplayInline,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.corr == nil {
		s.corr = channel.NewCorrelator(channel.DefaultRequestTimeout, s.logger)
	}
	if s.grantMode == nil {
		s.grantMode = func(requested protocol.DisplayMode) protocol.DisplayMode { return requested }
	}
	return s
}

// HostContext returns the context snapshot apps receive on initialize.
func (s *Session) HostContext() protocol.HostContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hostCtx
}

// TornDown reports whether a teardown acknowledgment has been received.
func (s *Session) TornDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.torn
}

// Receive handles one inbound frame from the app. Malformed frames are
// dropped; requests are answered; notifications trigger callbacks.
func (s *Session) Receive(raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		s.logger.Debug("dropping malformed app message")
		return
	}

	if msg.IsResponse() {
		s.corr.Resolve(msg)
		return
	}

	switch msg.Method {
	case protocol.MethodRequestDisplayMode:
		s.handleDisplayModeRequest(msg)
	case protocol.MethodInitialize:
		s.handleInitialize(msg)
	case protocol.MethodSizeChanged:
		s.handleSizeChanged(msg)
	default:
		s.logger.Debug("ignoring unrecognized app method", "method", msg.Method)
	}
}

func (s *Session) handleDisplayModeRequest(msg protocol.Message) {
	if msg.ID == nil {
		return
	}
	var params protocol.DisplayModeParams
	_ = json.Unmarshal(msg.Params, &params)

	granted := s.grantMode(params.Mode)
	s.mu.Lock()
	s.hostCtx.DisplayMode = granted
	s.mu.Unlock()

	s.respond(*msg.ID, protocol.DisplayModeResult{Mode: granted})
}

func (s *Session) handleInitialize(msg protocol.Message) {
	if msg.ID == nil {
		return
	}
	var params protocol.InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("bad initialize params", "error", err)
	} else {
		s.logger.Debug("app initialized",
			"app", params.AppInfo.Name,
			"version", params.AppInfo.Version,
			"protocol", params.ProtocolVersion)
	}
	s.respond(*msg.ID, protocol.InitializeResult{HostContext: s.HostContext()})
}

func (s *Session) handleSizeChanged(msg protocol.Message) {
	if s.onSizeChanged == nil {
		return
	}
	var params protocol.SizeChangedParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return
	}
	s.onSizeChanged(params)
}

// SendToolResult delivers a structured payload for the app to render.
func (s *Session) SendToolResult(structured any) error {
	return s.notify(protocol.MethodToolResult, map[string]any{
		"structuredContent": structured,
	})
}

// SendToolInput primes the app's loading state with tool arguments.
func (s *Session) SendToolInput(arguments any) error {
	return s.notify(protocol.MethodToolInput, map[string]any{
		"arguments": arguments,
	})
}

// SendToolCancelled tells the app the pending tool call was cancelled.
func (s *Session) SendToolCancelled(reason string) error {
	return s.notify(protocol.MethodToolCancelled, protocol.ToolCancelledParams{Reason: reason})
}

// SendHostContext merges update into the session context and announces the
// change to the app.
func (s *Session) SendHostContext(update protocol.HostContext) error {
	s.mu.Lock()
	s.hostCtx.Merge(update)
	s.mu.Unlock()
	return s.notify(protocol.MethodHostContextChanged, update)
}

// Teardown asks the app to release its resources and waits for the
// acknowledgment or the deadline.
func (s *Session) Teardown(ctx context.Context, reason string) error {
	id := s.corr.Register()
	msg, err := protocol.NewRequest(id, protocol.MethodResourceTeardown, protocol.TeardownParams{Reason: reason})
	if err != nil {
		return fmt.Errorf("encoding teardown request: %w", err)
	}
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encoding teardown request: %w", err)
	}
	if err := s.transport.Send(raw); err != nil {
		return fmt.Errorf("sending teardown request: %w", err)
	}
	if _, err := s.corr.Await(ctx, id); err != nil {
		return fmt.Errorf("awaiting teardown ack: %w", err)
	}

	s.mu.Lock()
	s.torn = true
	s.mu.Unlock()
	return nil
}

func (s *Session) notify(method string, params any) error {
	msg, err := protocol.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", method, err)
	}
	raw, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", method, err)
	}
	if err := s.transport.Send(raw); err != nil {
		return fmt.Errorf("sending %s: %w", method, err)
	}
	return nil
}

func (s *Session) respond(id int64, result any) {
	msg, err := protocol.NewResponse(id, result)
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		return
	}
	raw, err := msg.Encode()
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		return
	}
	if err := s.transport.Send(raw); err != nil {
		s.logger.Warn("sending response", "error", err)
	}
}
