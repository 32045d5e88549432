// internal/hub/conn.go
//
// Per-connection read/write pumps for the websocket transport. One goroutine
// reads frames and hands them to the request handler; one drains the send
// channel onto the socket. All writes to the socket happen on the write
// pump, which is what makes trySend safe from any goroutine.

package hub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/codenames-live/go-server/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	sendBuffer = 32
)

// client is one live websocket connection.
type client struct {
	id     string
	userID string
	roomID string

	ws *websocket.Conn

	sendMu sync.Mutex
	closed bool
	send   chan []byte
}

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade")
		return
	}
	c := &client{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, sendBuffer),
	}
	h.register(c)
	h.logger.Debug().Str("connId", c.id).Msg("connection opened")

	go c.writePump()
	h.readPump(c)
}

// readPump decodes inbound frames and forwards them to the handler.
// It owns connection teardown: when the read loop exits, the connection is
// unregistered and the write pump is stopped.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		h.logger.Debug().Str("connId", c.id).Msg("connection closed")
	}()

	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Str("connId", c.id).Msg("read")
			}
			return
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			h.logger.Warn().Str("connId", c.id).Msg("malformed frame")
			continue
		}
		if h.handler != nil {
			h.handler(c.id, env)
		}
	}
}

// writePump drains the send channel onto the socket and keeps it alive with
// pings. Exits when the send channel closes or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues a frame without blocking; full channels drop the frame and
// closed connections discard it. Broadcasts run against a snapshot of the
// room, so a client may disconnect between the snapshot and the send; the
// closed flag shares a mutex with close to keep that race off the channel.
func (c *client) trySend(data []byte, logger zerolog.Logger) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		logger.Warn().Str("connId", c.id).Msg("send buffer full, frame dropped")
	}
}

// close shuts the send channel exactly once, stopping the write pump.
// Safe to call concurrently with trySend.
func (c *client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
