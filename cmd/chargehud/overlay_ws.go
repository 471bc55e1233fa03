package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chargehud/internal/control"
	"chargehud/internal/overlay"
)

// ============================================================================
// Overlay WebSocket: hub + per-client pumps
// ============================================================================
//
// Overlays connect to /ws and receive every hold, frame and HUD toggle event
// as a JSON text frame {type, ts, data}. The first message on a connection is
// "state_init" carrying the current engine status.
//
// Progress frames are never coalesced: a client that cannot keep its send
// buffer drained is disconnected.
//
// ============================================================================

// overlayMessage converts an engine event into its wire type and payload.
func overlayMessage(ev OverlayEvent) (typ string, data any, at time.Time, ok bool) {
	switch ev := ev.(type) {
	case FrameProgress:
		return overlay.TypeProgress, overlay.FrameData{Frame: uint32(ev.Frame)}, ev.At, true
	case FrameUpdate:
		return overlay.TypeUpdate, overlay.FrameData{Frame: uint32(ev.Frame)}, ev.At, true
	case HoldStarted:
		return overlay.TypeHoldStart, overlay.HoldData{Trigger: ev.Trigger.String(), HoldID: ev.HoldID.String()}, ev.At, true
	case HoldEnded:
		return overlay.TypeHoldEnd, overlay.HoldData{Trigger: ev.Trigger.String(), HoldID: ev.HoldID.String()}, ev.At, true
	case MuteChanged:
		return overlay.TypeMuteChanged, overlay.MuteData{Muted: ev.Muted}, ev.At, true
	case VisibilityChanged:
		return overlay.TypeVisibilityChanged, overlay.VisibilityData{Visible: ev.Visible}, ev.At, true
	default:
		return "", nil, time.Time{}, false
	}
}

// ============================================================================
// Hub
// ============================================================================

type Hub struct {
	logger *slog.Logger

	// Already-serialized JSON frames.
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	clients map[*Client]struct{}

	sendBuf int
	ka      keepalive
}

type HubConfig struct {
	// SendBuf is the per-client outbound queue size.
	SendBuf int

	// BroadcastBuf is the hub inbound broadcast queue size.
	BroadcastBuf int

	// PongWait is how long a silent client is kept. Defaults to 30s.
	PongWait time.Duration
}

// NewHub constructs a hub. Call Run(ctx) to start it.
func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	sendBuf := cfg.SendBuf
	if sendBuf <= 0 {
		sendBuf = 64
	}
	bcastBuf := cfg.BroadcastBuf
	if bcastBuf <= 0 {
		bcastBuf = 256
	}

	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, bcastBuf),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		clients:    make(map[*Client]struct{}),
		sendBuf:    sendBuf,
		ka:         newKeepalive(cfg.PongWait),
	}
}

// Run processes hub events until ctx is canceled, then disconnects all clients.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("ws hub starting")

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("ws hub stopping (context canceled)")
			h.closeAllClients()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws client registered", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.removeClient(c, "unregister")

		case msg := <-h.broadcast:
			// Collect slow clients first, remove them after unlocking.
			var slow []*Client

			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()

			for _, c := range slow {
				h.removeClient(c, "slow_client")
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		safeCloseChan(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) removeClient(c *Client, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		// Closing send makes writePump exit.
		safeCloseChan(c.send)

		h.logger.Info("ws client disconnected", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
	}
}

func safeCloseChan(ch chan []byte) {
	defer func() {
		_ = recover() // close of closed channel
	}()
	close(ch)
}

// BroadcastBytes enqueues a pre-serialized frame. It never blocks; if the hub
// queue is full the frame is dropped.
func (h *Hub) BroadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("ws hub broadcast queue full, dropping message", "bytes", len(msg))
	}
}

// Publish serializes an engine event and broadcasts it. It implements OverlaySink.
func (h *Hub) Publish(ev OverlayEvent) {
	typ, data, at, ok := overlayMessage(ev)
	if !ok {
		h.logger.Debug("ws hub ignoring event", "event", ev)
		return
	}
	msg, err := overlay.Encode(typ, at, data)
	if err != nil {
		h.logger.Warn("ws hub marshal failed", "type", typ, "error", err)
		return
	}
	h.BroadcastBytes(msg)
}

// ============================================================================
// Client
// ============================================================================

type Client struct {
	hub *Hub

	conn *websocket.Conn
	send chan []byte

	remoteAddr string
	logger     *slog.Logger
	ka         keepalive
}

// NewClient creates a client with a buffered send channel.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, logger *slog.Logger) *Client {
	sendBuf := 64
	ka := newKeepalive(0)
	if hub != nil {
		if hub.sendBuf > 0 {
			sendBuf = hub.sendBuf
		}
		ka = hub.ka
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuf),
		remoteAddr: remoteAddr,
		logger:     logger,
		ka:         ka,
	}
}

const defaultPongWait = 30 * time.Second

// keepalive holds the per-connection deadlines. Pings go out at two thirds
// of the pong deadline and each write gets a sixth of it.
type keepalive struct {
	write time.Duration
	pong  time.Duration
	ping  time.Duration
}

func newKeepalive(pongWait time.Duration) keepalive {
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}
	return keepalive{write: pongWait / 6, pong: pongWait, ping: pongWait * 2 / 3}
}

// exitAttrs describes why a pump stopped as slog attributes. It returns nil
// when the close was initiated locally.
func exitAttrs(err error) []any {
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return []any{"code", ce.Code, "reason", ce.Text}
	}
	return []any{"error", err}
}

func (c *Client) dropped(msg string, err error) {
	if attrs := exitAttrs(err); attrs != nil {
		c.logger.Info(msg, append([]any{"remote_addr", c.remoteAddr}, attrs...)...)
	}
}

// writePump writes queued frames and keepalive pings until send is closed
// or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.ka.ping)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.ka.write))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.dropped("overlay write failed", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.ka.write))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.dropped("overlay ping failed", err)
				return
			}
		}
	}
}

// readPump discards inbound messages so control frames are processed and
// disconnects are noticed, then unregisters the client.
func (c *Client) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(c.ka.pong))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.ka.pong))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.dropped("overlay client gone", err)
			if c.hub != nil {
				c.hub.unregister <- c
			}
			return
		}
	}
}

// ============================================================================
// HTTP handler
// ============================================================================

// StatusFunc returns the current engine status for state_init.
type StatusFunc func() control.Status

type OverlayServer struct {
	logger *slog.Logger
	hub    *Hub
	status StatusFunc
}

// NewOverlayServer constructs the overlay endpoint. Start Hub().Run(ctx) separately.
func NewOverlayServer(logger *slog.Logger, hub *Hub, status StatusFunc) *OverlayServer {
	return &OverlayServer{logger: logger, hub: hub, status: status}
}

func (s *OverlayServer) Hub() *Hub { return s.hub }

var upgrader = websocket.Upgrader{
	// Overlays are served from arbitrary local origins (OBS browser sources, file://).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the connection, queues state_init and registers the client.
func (s *OverlayServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := NewClient(s.hub, conn, r.RemoteAddr, s.logger)

	// state_init goes into the fresh send buffer before registration so it is
	// always the first frame the client sees.
	if s.status != nil {
		msg, err := overlay.Encode(overlay.TypeStateInit, time.Time{}, overlay.StateData(s.status()))
		if err != nil {
			s.logger.Warn("ws state_init marshal failed", "error", err)
		} else {
			client.send <- msg
		}
	}
	s.hub.register <- client

	// Pumps outlive the request; the hub and connection errors end them.
	go client.writePump()
	go client.readPump()
}
