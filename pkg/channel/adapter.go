// Package channel implements the embedded-app side of the host messaging
// contract: a JSON-RPC 2.0 dispatcher over an untyped bidirectional
// transport, a request/response correlator, and a fire-and-forget
// notification sink sharing that transport.
//
// One Adapter instance is constructed per embedded app session; all state
// that was historically module-global (id counters, pending maps, cleanup
// handles) lives on the instance so teardown and testing are well defined.
package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/apigene/mcp-apps/pkg/normalize"
	"github.com/apigene/mcp-apps/pkg/protocol"
)

// State tracks the adapter lifecycle. TornDown is advisory: inbound
// messages are still processed after teardown, but cleanup has already run.
type State int32

// Adapter lifecycle states.
const (
	StateUninitialized State = iota
	StateListening
	StateTornDown
)

// RenderFunc consumes a normalized payload and produces presentation side
// effects. A returned error or panic is contained at the adapter boundary
// and surfaced through the error handler, never propagated to the
// transport loop.
type RenderFunc func(payload any) error

// defaultEmptyMessage is shown when a tool result carries no content.
const defaultEmptyMessage = "No data to display"

// defaultCancelReason is shown when a cancellation carries no reason.
const defaultCancelReason = "Unknown reason"

// Adapter bridges an embedded app to its host, enforcing the JSON-RPC 2.0
// envelope convention. Methods are safe for concurrent use.
type Adapter struct {
	transport Transport
	render    RenderFunc
	corr      *Correlator
	logger    *slog.Logger

	appInfo      protocol.AppInfo
	debounce     time.Duration
	onError      func(message string)
	onEmpty      func(message string)
	onLoading    func(arguments json.RawMessage)
	applyContext func(ctx protocol.HostContext)

	mu       sync.Mutex
	state    State
	hostCtx  protocol.HostContext
	cleanups []func()
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// WithRequestTimeout overrides the response deadline for SendRequest.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.corr = NewCorrelator(d, a.logger) }
}

// WithAppInfo sets the identity sent during the initialize handshake.
func WithAppInfo(info protocol.AppInfo) Option {
	return func(a *Adapter) { a.appInfo = info }
}

// WithDebounce overrides the size monitor's stabilization interval.
func WithDebounce(d time.Duration) Option {
	return func(a *Adapter) { a.debounce = d }
}

// WithErrorHandler sets the callback for user-visible error states
// (render failures, tool cancellations).
func WithErrorHandler(fn func(message string)) Option {
	return func(a *Adapter) { a.onError = fn }
}

// WithEmptyHandler sets the callback for the explicit empty state.
func WithEmptyHandler(fn func(message string)) Option {
	return func(a *Adapter) { a.onEmpty = fn }
}

// WithLoadingHandler sets the callback primed by tool-input notifications.
func WithLoadingHandler(fn func(arguments json.RawMessage)) Option {
	return func(a *Adapter) { a.onLoading = fn }
}

// WithHostContextApplier sets the callback that applies host context
// changes to the presentation layer (class toggles, variable injection).
func WithHostContextApplier(fn func(ctx protocol.HostContext)) Option {
	return func(a *Adapter) { a.applyContext = fn }
}

// New creates an adapter for one embedded app session. render may be nil
// for apps that only observe the channel.
func New(transport Transport, render RenderFunc, opts ...Option) *Adapter {
	a := &Adapter{
		transport: transport,
		render:    render,
		logger:    slog.Default(),
		debounce:  defaultDebounce,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.corr == nil {
		a.corr = NewCorrelator(DefaultRequestTimeout, a.logger)
	}
	return a
}

// State returns the adapter's lifecycle state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// HostContext returns the current host context snapshot.
func (a *Adapter) HostContext() protocol.HostContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hostCtx
}

// RegisterCleanup registers fn to run when the host requests teardown.
func (a *Adapter) RegisterCleanup(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cleanups = append(a.cleanups, fn)
}

// Run pumps frames from incoming into Receive until ctx is cancelled or
// the channel closes. Inbound messages are processed strictly in delivery
// order.
func (a *Adapter) Run(ctx context.Context, incoming <-chan []byte) {
	a.markListening()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-incoming:
			if !ok {
				return
			}
			a.Receive(raw)
		}
	}
}

// Receive handles one inbound transport frame. Malformed or unrecognized
// input is dropped silently; nothing Receive does may panic.
func (a *Adapter) Receive(raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		a.logger.Debug("dropping malformed transport message")
		return
	}
	a.markListening()

	// id without method: a reply to a request this side issued.
	if msg.IsResponse() {
		a.corr.Resolve(msg)
		return
	}
	if msg.Method == "" {
		return
	}
	a.dispatch(msg)
}

func (a *Adapter) dispatch(msg protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("dispatch panic contained", "method", msg.Method, "panic", r)
			a.fail(fmt.Sprintf("%v", r))
		}
	}()

	switch msg.Method {
	case protocol.MethodToolResult:
		a.handleToolResult(msg)
	case protocol.MethodHostContextChanged:
		a.handleHostContext(msg)
	case protocol.MethodToolCancelled:
		a.handleToolCancelled(msg)
	case protocol.MethodResourceTeardown:
		a.handleTeardown(msg)
	case protocol.MethodToolInput:
		a.handleToolInput(msg)
	default:
		// Different host implementations do not agree on a fixed method
		// vocabulary; try to treat the payload as renderable rather than
		// failing hard on unknown methods.
		a.handleUnknownMethod(msg)
	}
}

func (a *Adapter) handleToolResult(msg protocol.Message) {
	content := extractContent(msg.Params)
	if content == nil {
		a.showEmpty(defaultEmptyMessage)
		return
	}

	var payload any
	if err := json.Unmarshal(content, &payload); err != nil {
		a.logger.Warn("tool result payload is not valid JSON, dropping", "error", err)
		return
	}

	normalized := normalize.Normalize(payload)
	if normalized == nil {
		a.showEmpty(defaultEmptyMessage)
		return
	}
	a.renderPayload(normalized)
}

func (a *Adapter) handleHostContext(msg protocol.Message) {
	var update protocol.HostContext
	if err := json.Unmarshal(msg.Params, &update); err != nil {
		a.logger.Warn("bad host context params, dropping", "error", err)
		return
	}

	a.mu.Lock()
	a.hostCtx.Merge(update)
	snapshot := a.hostCtx
	a.mu.Unlock()

	if a.applyContext != nil {
		a.applyContext(snapshot)
	}
}

func (a *Adapter) handleToolCancelled(msg protocol.Message) {
	var params protocol.ToolCancelledParams
	_ = json.Unmarshal(msg.Params, &params)
	if params.Reason == "" {
		params.Reason = defaultCancelReason
	}
	a.fail(params.Reason)
}

func (a *Adapter) handleToolInput(msg protocol.Message) {
	if a.onLoading == nil {
		return
	}
	var params protocol.ToolInputParams
	_ = json.Unmarshal(msg.Params, &params)
	a.onLoading(params.Arguments)
}

// handleTeardown runs registered cleanups and acknowledges the request.
// The acknowledgment is unconditional: a panicking cleanup must not cause
// the response to be dropped.
func (a *Adapter) handleTeardown(msg protocol.Message) {
	a.mu.Lock()
	cleanups := a.cleanups
	a.cleanups = nil
	a.state = StateTornDown
	a.mu.Unlock()

	for _, fn := range cleanups {
		a.runCleanup(fn)
	}

	if msg.ID == nil {
		return
	}
	resp, err := protocol.NewResponse(*msg.ID, struct{}{})
	if err != nil {
		a.logger.Error("encoding teardown ack", "error", err)
		return
	}
	a.post(resp)
}

func (a *Adapter) runCleanup(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("teardown cleanup panicked", "panic", r)
		}
	}()
	fn()
}

func (a *Adapter) handleUnknownMethod(msg protocol.Message) {
	content := extractContent(msg.Params)
	if content == nil {
		return
	}
	var payload any
	if err := json.Unmarshal(content, &payload); err != nil {
		return
	}
	if normalized := normalize.Normalize(payload); normalized != nil {
		a.logger.Debug("rendering payload from unrecognized method", "method", msg.Method)
		a.renderPayload(normalized)
	}
}

// SendRequest posts a request with the next monotonic id and blocks until
// the correlated response, the timeout, or ctx cancellation; exactly one of
// the three wins and the losers are no-ops.
func (a *Adapter) SendRequest(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if a.State() == StateTornDown {
		return nil, ErrTornDown
	}

	id := a.corr.Register()
	msg, err := protocol.NewRequest(id, method, params)
	if err != nil {
		a.corr.drop(id)
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}
	raw, err := msg.Encode()
	if err != nil {
		a.corr.drop(id)
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}
	if err := a.transport.Send(raw); err != nil {
		a.corr.drop(id)
		return nil, fmt.Errorf("sending %s request: %w", method, err)
	}
	return a.corr.Await(ctx, id)
}

// SendNotification posts a fire-and-forget notification. No acknowledgment
// is expected and no failure is signaled to the caller; the transport is
// best-effort by contract.
func (a *Adapter) SendNotification(method string, params any) {
	msg, err := protocol.NewNotification(method, params)
	if err != nil {
		a.logger.Warn("encoding notification", "method", method, "error", err)
		return
	}
	a.post(msg)
}

// RequestDisplayMode asks the host to switch display modes and returns the
// mode actually granted.
func (a *Adapter) RequestDisplayMode(ctx context.Context, mode protocol.DisplayMode) (protocol.DisplayMode, error) {
	raw, err := a.SendRequest(ctx, protocol.MethodRequestDisplayMode, protocol.DisplayModeParams{Mode: mode})
	if err != nil {
		return "", err
	}
	var result protocol.DisplayModeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decoding display mode result: %w", err)
	}
	return result.Mode, nil
}

// Initialize performs the standalone-mode handshake and applies the host
// context the host returns. Proxy-mode hosts never see this request: the
// adapter accepts every inbound method without it.
func (a *Adapter) Initialize(ctx context.Context) (protocol.HostContext, error) {
	params := protocol.InitializeParams{
		AppInfo: a.appInfo,
		AppCapabilities: protocol.AppCapabilities{
			SizeReporting: true,
			DisplayModes:  true,
		},
		ProtocolVersion: protocol.ProtocolVersion,
	}
	raw, err := a.SendRequest(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return protocol.HostContext{}, err
	}
	var result protocol.InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return protocol.HostContext{}, fmt.Errorf("decoding initialize result: %w", err)
	}

	a.mu.Lock()
	a.hostCtx.Merge(result.HostContext)
	snapshot := a.hostCtx
	a.mu.Unlock()

	if a.applyContext != nil {
		a.applyContext(snapshot)
	}
	return snapshot, nil
}

func (a *Adapter) renderPayload(payload any) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("render panicked", "panic", r)
			a.fail(fmt.Sprintf("%v", r))
		}
	}()
	if a.render == nil {
		return
	}
	if err := a.render(payload); err != nil {
		a.logger.Error("render failed", "error", err)
		a.fail(err.Error())
	}
}

func (a *Adapter) fail(message string) {
	if a.onError != nil {
		a.onError(message)
	}
}

func (a *Adapter) showEmpty(message string) {
	if a.onEmpty != nil {
		a.onEmpty(message)
	}
}

func (a *Adapter) post(msg protocol.Message) {
	raw, err := msg.Encode()
	if err != nil {
		a.logger.Error("encoding outbound message", "error", err)
		return
	}
	if err := a.transport.Send(raw); err != nil {
		a.logger.Warn("transport send failed", "error", err)
	}
}

func (a *Adapter) markListening() {
	a.mu.Lock()
	if a.state == StateUninitialized {
		a.state = StateListening
	}
	a.mu.Unlock()
}

// extractContent implements the structuredContent ?? params precedence:
// a present, non-null structuredContent field wins; otherwise the params
// object itself is the content. Nil means there is nothing to render.
func extractContent(params json.RawMessage) json.RawMessage {
	if isNullish(params) {
		return nil
	}
	var probe struct {
		StructuredContent json.RawMessage `json:"structuredContent"`
	}
	if err := json.Unmarshal(params, &probe); err != nil {
		// params is not an object; use it as-is.
		return params
	}
	if !isNullish(probe.StructuredContent) {
		return probe.StructuredContent
	}
	return params
}

func isNullish(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
