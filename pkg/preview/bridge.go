package preview

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/apigene/mcp-apps/pkg/channel"
	"github.com/apigene/mcp-apps/pkg/host"
	"github.com/apigene/mcp-apps/pkg/protocol"
	"github.com/apigene/mcp-apps/pkg/recorder"
)

// handleChannel upgrades the connection to a WebSocket and bridges the app
// on the other end to a host session. The fixture payload is pushed as a
// tool result as soon as the channel is up; everything the app sends back
// flows through the session's handlers.
func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	app := s.catalog.Get(r.PathValue("name"))
	if app == nil {
		http.NotFound(w, r)
		return
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "app", app.Name, "error", err)
		return
	}
	defer func() { _ = c.CloseNow() }()

	ctx := r.Context()
	logger := s.logger.With("app", app.Name, "conn", uuid.NewString())
	logger.Info("app channel opened")
	defer logger.Info("app channel closed")

	var transport channel.Transport = channel.TransportFunc(func(msg []byte) error {
		return c.Write(ctx, websocket.MessageText, msg)
	})
	transport = s.tap(ctx, app.Name, recorder.DirectionToApp, transport)

	session := host.NewSession(transport,
		host.WithLogger(logger),
		host.WithTimeout(s.cfg.RequestTimeout),
		host.WithSizeHandler(func(size protocol.SizeChangedParams) {
			logger.Debug("app resized", "width", size.Width, "height", size.Height)
		}),
	)

	if err := session.SendToolInput(map[string]any{"app": app.Name}); err != nil {
		logger.Warn("sending tool input", "error", err)
		return
	}
	if err := session.SendToolResult(s.fixturePayload(app)); err != nil {
		logger.Warn("sending tool result", "error", err)
		return
	}

	for {
		mt, msg, err := c.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) < 0 && ctx.Err() == nil {
				logger.Debug("channel read failed", "error", err)
			}
			return
		}
		if mt != websocket.MessageText {
			continue
		}
		s.record(ctx, app.Name, recorder.DirectionToHost, msg)
		session.Receive(msg)
	}
}

// tap wraps a transport so every outbound frame is also recorded.
func (s *Server) tap(ctx context.Context, session, direction string, next channel.Transport) channel.Transport {
	if s.store == nil {
		return next
	}
	return channel.TransportFunc(func(msg []byte) error {
		s.record(ctx, session, direction, msg)
		return next.Send(msg)
	})
}

func (s *Server) record(ctx context.Context, session, direction string, raw []byte) {
	if s.store == nil {
		return
	}
	method := "response"
	if msg, err := protocol.Decode(raw); err == nil && msg.Method != "" {
		method = msg.Method
	}
	if _, err := s.store.Record(ctx, session, direction, method, raw); err != nil {
		s.logger.Warn("recording channel message", "error", err)
	}
}
