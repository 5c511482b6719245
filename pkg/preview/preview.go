// Package preview runs a local development server for MCP Apps: it serves
// app bundles in a plain browser, bridges each open app to a host session
// over a WebSocket, feeds canned or fixture payloads through the channel,
// and live-reloads apps when bundle assets change on disk.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmaxmax/go-sse"

	"github.com/apigene/mcp-apps/pkg/apps"
	"github.com/apigene/mcp-apps/pkg/health"
	"github.com/apigene/mcp-apps/pkg/recorder"
)

// Config holds preview server settings.
type Config struct {
	Address        string
	FixturesDir    string
	Watch          []string
	RequestTimeout time.Duration
}

// Server is the preview HTTP server.
type Server struct {
	cfg     Config
	catalog *apps.Catalog
	logger  *slog.Logger
	checker *health.Checker
	events  *sse.Server
	store   *recorder.Store
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRecorder persists channel traffic for later inspection.
func WithRecorder(store *recorder.Store) Option {
	return func(s *Server) { s.store = store }
}

// New creates a preview server for the catalog's apps.
func New(cfg Config, catalog *apps.Catalog, opts ...Option) *Server {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		logger:  slog.Default(),
		checker: health.NewChecker(),
		events:  &sse.Server{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the preview server's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /apps/{name}", s.handleBundle)
	mux.HandleFunc("GET /apps/{name}/{file...}", s.handleBundle)
	mux.HandleFunc("GET /channel/{name}", s.handleChannel)
	mux.Handle("GET /events", s.events)
	mux.HandleFunc("GET /sessions", s.handleSessions)
	mux.HandleFunc("GET /sessions/{name}", s.handleSessionEvents)
	mux.HandleFunc("GET /healthz", s.checker.LivenessHandler())
	mux.HandleFunc("GET /readyz", s.checker.ReadinessHandler())
	return mux
}

// Run serves until ctx is cancelled, watching bundle assets for changes
// when watch directories are configured.
func (s *Server) Run(ctx context.Context) error {
	if len(s.cfg.Watch) > 0 {
		watcher, err := WatchAssets(s.cfg.Watch, nil)
		if err != nil {
			return fmt.Errorf("starting asset watcher: %w", err)
		}
		defer watcher.Shutdown()
		go s.publishReloads(ctx, watcher)
	}

	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.checker.SetAppCount(s.catalog.Len())
	s.checker.SetServing()
	s.logger.Info("preview server listening", "address", s.cfg.Address, "apps", s.catalog.Len())

	select {
	case <-ctx.Done():
		s.checker.SetDraining()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) publishReloads(ctx context.Context, watcher *Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-watcher.Alert():
			s.logger.Debug("bundle assets changed, publishing reload")
			msg := &sse.Message{Type: sse.Type("reload")}
			msg.AppendData("changed")
			if err := s.events.Publish(msg); err != nil {
				s.logger.Warn("publishing reload event", "error", err)
			}
		}
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>MCP Apps Preview</title></head>
<body>
<h1>MCP Apps Preview</h1>
<ul>
{{range .}}<li><a href="/apps/{{.Name}}">{{.Name}}</a>: {{.Description}}</li>
{{end}}</ul>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s.catalog.Apps()); err != nil {
		s.logger.Error("rendering index", "error", err)
	}
}

// reloadScript makes open apps reload when the server publishes a change
// event for their bundle assets.
const reloadScript = `<script>new EventSource("/events").addEventListener("reload",()=>location.reload())</script>`

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	app := s.catalog.Get(r.PathValue("name"))
	if app == nil {
		http.NotFound(w, r)
		return
	}

	uri := app.ResourceURI
	if file := r.PathValue("file"); file != "" {
		uri += "/" + file
	}
	contents, err := apps.ReadBundleFile(app, uri)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	mimeType := contents.MIMEType
	if mimeType == apps.MCPAppMIMEType {
		mimeType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", mimeType)

	if contents.Text != "" {
		body := contents.Text
		if strings.HasPrefix(mimeType, "text/html") {
			body = strings.Replace(body, "</body>", reloadScript+"</body>", 1)
		}
		_, _ = w.Write([]byte(body))
		return
	}
	_, _ = w.Write(contents.Blob)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.NotFound(w, r)
		return
	}
	sessions, err := s.store.Sessions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"sessions": sessions})
}

func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.NotFound(w, r)
		return
	}
	events, err := s.store.Events(r.Context(), r.PathValue("name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type eventJSON struct {
		ID        string          `json:"id"`
		Direction string          `json:"direction"`
		Method    string          `json:"method"`
		Payload   json.RawMessage `json:"payload"`
		CreatedAt int64           `json:"createdAt"`
	}
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, eventJSON{
			ID:        ev.ID,
			Direction: ev.Direction,
			Method:    ev.Method,
			Payload:   ev.Payload,
			CreatedAt: ev.CreatedAt,
		})
	}
	writeJSON(w, map[string]any{"events": out})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// fixturePayload returns the structured payload pushed through a new
// channel: a <app>.json file from the fixtures directory when present,
// otherwise the app's canned demo payload.
func (s *Server) fixturePayload(app *apps.App) any {
	if s.cfg.FixturesDir != "" {
		path := filepath.Join(s.cfg.FixturesDir, app.Name+".json")
		if data, err := os.ReadFile(path); err == nil {
			var payload any
			if err := json.Unmarshal(data, &payload); err == nil {
				return payload
			}
			s.logger.Warn("ignoring malformed fixture", "path", path)
		}
	}
	return app.DemoPayload
}
