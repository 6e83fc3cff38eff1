// Package web serves the browser front-end: an HTML page and a WebSocket
// endpoint that streams msgpack-encoded snapshots and receives pointer input.
package web

import (
	"embed"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/pterodash/internal/diag"
	"github.com/tomz197/pterodash/internal/game"
	"github.com/tomz197/pterodash/internal/loop/config"
	"github.com/tomz197/pterodash/internal/loop/server"
	"github.com/tomz197/pterodash/internal/object"
)

//go:embed static/index.html
var static embed.FS

const (
	readLimit    = 1 << 16
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	pingInterval = 25 * time.Second
)

// Options configures a Handler. Zero fields get defaults.
type Options struct {
	Logger           *log.Logger
	SnapshotInterval time.Duration // Frame push period
	Game             game.Config   // Used for depth shading and the score interval
	CheckOrigin      func(r *http.Request) bool
}

// Handler upgrades requests to WebSockets and plays one session per
// connection.
type Handler struct {
	server   server.GameServer
	opts     Options
	log      *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler backed by gs.
func NewHandler(gs server.GameServer, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = diag.Nop()
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = config.WebSnapshotTime
	}
	if opts.Game == (game.Config{}) {
		opts.Game = game.DefaultConfig()
	}
	return &Handler{
		server: gs,
		opts:   opts,
		log:    opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
}

// PageHandler serves the embedded game page.
func PageHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := static.ReadFile("static/index.html")
		if err != nil {
			http.Error(w, "page missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	handle := h.server.RegisterClient(r.URL.Query().Get("name"))
	defer h.server.UnregisterClient(handle.ID)

	c := &connection{
		handler: h,
		conn:    conn,
		handle:  handle,
		log:     h.log.With("client", handle.ID, "remote", r.RemoteAddr),
		proj:    object.NewProjector(h.opts.Game.Camera, object.Screen{Width: 1, Height: 1}, object.DefaultFOV),
	}
	c.log.Info("browser connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.readLoop()
	}()
	c.writeLoop(done)
	c.log.Info("browser disconnected")
}

// connection is one browser. The read loop owns decoding; the write loop is
// the only writer on conn.
type connection struct {
	handler *Handler
	conn    *websocket.Conn
	handle  *server.ClientHandle
	log     *log.Logger

	mu   sync.Mutex // guards proj
	proj *object.Projector
}

func (c *connection) readLoop() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("read ended", "err", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if msgType != websocket.BinaryMessage {
			continue
		}
		msg, err := DecodeClientMessage(data)
		if err != nil {
			c.log.Debug("dropping message", "err", err)
			continue
		}
		c.apply(msg)
	}
}

// apply routes one decoded message to the server.
func (c *connection) apply(msg ClientMessage) {
	gs := c.handler.server
	switch msg.Type {
	case MsgPointer:
		ev, ok := msg.PointerEvent()
		if !ok {
			c.log.Debug("dropping pointer", "kind", msg.Kind)
			return
		}
		gs.SendPointer(c.handle.ID, ev)
	case MsgResize:
		v := msg.Viewport()
		gs.SetViewport(c.handle.ID, v)
		c.mu.Lock()
		c.proj.Resize(object.Screen{Width: int(v.Width), Height: int(v.Height)})
		c.mu.Unlock()
	case MsgRestart:
		gs.Restart(c.handle.ID)
	default:
		c.log.Debug("dropping message", "type", msg.Type)
	}
}

func (c *connection) writeLoop(done <-chan struct{}) {
	frames := time.NewTicker(c.handler.opts.SnapshotInterval)
	defer frames.Stop()
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	var lastFrame uint64
	sent := false
	for {
		select {
		case <-done:
			return
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				c.close("server closed the session")
				return
			}
			if err := c.send(EventMessage{Type: MsgEvent, Event: ev.Type.String(), Score: ev.Score}); err != nil {
				return
			}
			if ev.Type == server.EventServerShutdown {
				c.close("server shutting down")
				return
			}
		case <-frames.C:
			snap := c.handle.Snapshot()
			if snap == nil || (sent && snap.Frame == lastFrame) {
				continue
			}
			c.mu.Lock()
			msg := EncodeFrame(snap, c.proj, c.handler.opts.Game.Field.SpawnDistance, c.handler.opts.Game.ScoreInterval.Seconds())
			c.mu.Unlock()
			if err := c.send(msg); err != nil {
				return
			}
			lastFrame, sent = snap.Frame, true
		case <-pings.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) send(v any) error {
	data, err := Encode(v)
	if err != nil {
		c.log.Error("encode failed", "err", err)
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			c.log.Debug("write failed", "err", err)
		}
		return err
	}
	return nil
}

func (c *connection) close(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, reason)
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
