package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/apigene/mcp-apps/pkg/apps"
	"github.com/apigene/mcp-apps/pkg/protocol"
	"github.com/apigene/mcp-apps/pkg/recorder"
)

func testCatalog(t *testing.T) *apps.Catalog {
	t.Helper()
	c := apps.NewCatalog()
	err := c.Register(&apps.App{
		Name:        "test",
		Description: "test app",
		ResourceURI: "ui://test",
		ToolNames:   []string{"show_test"},
		Assets: fstest.MapFS{
			"assets/index.html": {Data: []byte("<html><head></head><body></body></html>")},
			"assets/app.js":     {Data: []byte("// app")},
		},
		AssetsRoot:  "assets",
		EntryPoint:  "index.html",
		Config:      map[string]int{"maxRows": 5},
		DemoPayload: map[string]any{"columns": []any{"a"}, "rows": []any{[]any{1}}},
	})
	require.NoError(t, err)
	return c
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{RequestTimeout: time.Second}, testCatalog(t), opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestIndexListsApps(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `<a href="/apps/test">test</a>`)
}

func TestBundleEntryPoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/apps/test")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	body := readBody(t, resp)
	assert.Contains(t, body, `<script id="app-config" type="application/json">{"maxRows":5}</script>`)
	assert.Contains(t, body, `new EventSource("/events")`)
}

func TestBundleSubFile(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/apps/test/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "// app", readBody(t, resp))
}

func TestBundleUnknownApp(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/apps/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/apps/test/missing.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func dialChannel(t *testing.T, ts *httptest.Server, app string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/channel/"+app, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.CloseNow() })
	return c
}

func readMessage(t *testing.T, c *websocket.Conn) protocol.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, raw, err := c.Read(ctx)
	require.NoError(t, err)
	msg, err := protocol.Decode(raw)
	require.NoError(t, err)
	return msg
}

func TestChannelPushesDemoPayload(t *testing.T) {
	_, ts := newTestServer(t)
	c := dialChannel(t, ts, "test")

	first := readMessage(t, c)
	assert.Equal(t, protocol.MethodToolInput, first.Method)

	second := readMessage(t, c)
	require.Equal(t, protocol.MethodToolResult, second.Method)
	assert.JSONEq(t,
		`{"structuredContent":{"columns":["a"],"rows":[[1]]}}`,
		string(second.Params))
}

func TestChannelAnswersDisplayModeRequest(t *testing.T) {
	_, ts := newTestServer(t)
	c := dialChannel(t, ts, "test")

	readMessage(t, c) // tool input
	readMessage(t, c) // tool result

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req := `{"jsonrpc":"2.0","id":1,"method":"ui/request-display-mode","params":{"mode":"fullscreen"}}`
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(req)))

	resp := readMessage(t, c)
	require.NotNil(t, resp.ID)
	assert.Equal(t, int64(1), *resp.ID)
	assert.JSONEq(t, `{"mode":"fullscreen"}`, string(resp.Result))
}

func TestChannelUnknownApp(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/channel/nope", nil)
	assert.Error(t, err)
}

func TestFixtureOverridesDemoPayload(t *testing.T) {
	fixtures := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(fixtures, "test.json"),
		[]byte(`{"items":[{"id":1}]}`), 0o600))

	s := New(Config{FixturesDir: fixtures, RequestTimeout: time.Second}, testCatalog(t))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	c := dialChannel(t, ts, "test")
	readMessage(t, c) // tool input
	msg := readMessage(t, c)
	require.Equal(t, protocol.MethodToolResult, msg.Method)
	assert.JSONEq(t, `{"structuredContent":{"items":[{"id":1}]}}`, string(msg.Params))
}

func TestChannelRecordsTraffic(t *testing.T) {
	store, err := recorder.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(context.Background()))

	_, ts := newTestServer(t, WithRecorder(store))
	c := dialChannel(t, ts, "test")
	readMessage(t, c)
	readMessage(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	notif := `{"jsonrpc":"2.0","method":"ui/notifications/size-changed","params":{"width":640,"height":480}}`
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(notif)))

	require.Eventually(t, func() bool {
		events, err := store.Events(context.Background(), "test")
		return err == nil && len(events) >= 3
	}, 2*time.Second, 20*time.Millisecond)

	events, err := store.Events(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, protocol.MethodToolInput, events[0].Method)
	assert.Equal(t, recorder.DirectionToApp, events[0].Direction)
	assert.Equal(t, protocol.MethodToolResult, events[1].Method)
	assert.Equal(t, protocol.MethodSizeChanged, events[2].Method)
	assert.Equal(t, recorder.DirectionToHost, events[2].Direction)

	resp, err := http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var listing struct {
		Sessions []string `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Equal(t, []string{"test"}, listing.Sessions)
}

func TestSessionsWithoutRecorder(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	s, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// readiness flips only once Run marks the server as serving
	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	s.checker.SetServing()
	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
