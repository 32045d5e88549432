// internal/hub/hub.go
//
// Connection registry and room-scoped broadcaster for the synchronization
// protocol. The hub owns the connection↔user↔game links: every mutation of
// the maps happens under one mutex, and messages are sent outside the lock
// against a snapshot so a slow client can never stall a broadcast.
//
// Delivery is fire-and-forget: each connection has a buffered send channel
// and frames to a full channel are dropped.

package hub

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/codenames-live/go-server/internal/protocol"
)

// RequestHandler consumes one decoded inbound frame from a connection.
type RequestHandler func(connID string, env protocol.Envelope)

// Hub tracks live connections and their room membership. Room id equals
// game id.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]*client
	users   map[string]string // userID -> connID
	handler RequestHandler

	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// New constructs an empty hub.
func New(logger zerolog.Logger) *Hub {
	return &Hub{
		conns: make(map[string]*client),
		users: make(map[string]string),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST layer enforces CORS; the socket accepts any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// SetHandler installs the inbound frame handler. Must be called before
// ServeWS.
func (h *Hub) SetHandler(fn RequestHandler) {
	h.handler = fn
}

// Emit sends one message to a single connection.
func (h *Hub) Emit(connID string, msg protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("encode frame")
		return
	}
	h.mu.RLock()
	c := h.conns[connID]
	h.mu.RUnlock()
	if c != nil {
		c.trySend(data, h.logger)
	}
}

// BroadcastToRoom sends one message to every connection in the room.
func (h *Hub) BroadcastToRoom(roomID string, msg protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("encode frame")
		return
	}
	for _, c := range h.roomMembers(roomID) {
		c.trySend(data, h.logger)
	}
}

// ConnectionsInRoom returns the connection ids currently in the room.
func (h *Hub) ConnectionsInRoom(roomID string) []string {
	members := h.roomMembers(roomID)
	out := make([]string, 0, len(members))
	for _, c := range members {
		out = append(out, c.id)
	}
	return out
}

// BindUser links a connection to a user id. When the user was already bound
// to another connection (a reconnect), the new connection takes over the old
// one's room so the player keeps receiving game traffic; the old link is
// dropped. Binding the same pair twice is a no-op.
func (h *Hub) BindUser(connID, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.conns[connID]
	if c == nil {
		return
	}
	if prevID, ok := h.users[userID]; ok && prevID != connID {
		if prev := h.conns[prevID]; prev != nil {
			c.roomID = prev.roomID
			prev.userID = ""
			prev.roomID = ""
		}
	}
	c.userID = userID
	h.users[userID] = connID
}

// JoinRoom moves a connection into a room, leaving any previous one.
func (h *Hub) JoinRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c := h.conns[connID]; c != nil {
		c.roomID = roomID
	}
}

// UserConn returns the connection id currently bound to a user.
func (h *Hub) UserConn(userID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	id, ok := h.users[userID]
	return id, ok
}

// roomMembers snapshots the room's connections under the read lock.
func (h *Hub) roomMembers(roomID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []*client
	for _, c := range h.conns {
		if c.roomID == roomID {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if h.conns[c.id] == c {
		delete(h.conns, c.id)
	}
	if c.userID != "" && h.users[c.userID] == c.id {
		delete(h.users, c.userID)
	}
	h.mu.Unlock()
	c.close()
}
