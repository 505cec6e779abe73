// Package gateway exposes the tracking session to the presentation layer:
// every published snapshot is fanned out to connected WebSocket clients,
// and clients issue the session commands (remove, reset, refresh, auto-poll
// toggles) back over the same connection.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kdahlin/draftwatch/internal/models"
	"github.com/kdahlin/draftwatch/internal/session"
)

// Commands is what the gateway needs from the poller.
type Commands interface {
	EnableAutoPoll(ctx context.Context, interval time.Duration) error
	DisableAutoPoll()
	ManualRefresh(ctx context.Context)
	Reset()
}

// Config holds connection tuning for WebSocket clients.
type Config struct {
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
}

func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
}

// Hub tracks the active connections for one session and broadcasts
// snapshots to all of them. Slow clients get dropped rather than letting a
// full send buffer stall the broadcast.
type Hub struct {
	sess     *session.Session
	cmds     Commands
	config   Config
	upgrader websocket.Upgrader

	// baseCtx bounds work that must outlive a single request, notably the
	// auto-poll loop started by a client command.
	baseCtx context.Context

	mu    sync.RWMutex
	conns map[*connection]struct{}
}

type connection struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(ctx context.Context, sess *session.Session, cmds Commands, config Config) *Hub {
	return &Hub{
		sess:    sess,
		cmds:    cmds,
		config:  config,
		baseCtx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(_ *http.Request) bool {
				// Single-viewer local tool; no origin restrictions.
				return true
			},
		},
		conns: make(map[*connection]struct{}),
	}
}

// Broadcast sends a snapshot to every connected client. Called once per
// successful poll pass; safe from any goroutine.
func (h *Hub) Broadcast(snap models.Snapshot) {
	payload, err := json.Marshal(envelope{Type: "snapshot", Data: snap})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		select {
		case c.send <- payload:
		default:
			// Buffer full: the write pump closes the connection on its own
			// once the send channel is closed by unregister.
			log.Warn().Str("connection_id", c.id).Msg("dropping slow client")
			go h.unregister(c)
		}
	}
}

// ConnectionCount reports the number of attached clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type errorEnvelope struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	// New clients immediately get the last published snapshot, if any.
	if snap := h.sess.Snapshot(); snap != nil {
		if payload, err := json.Marshal(envelope{Type: "snapshot", Data: *snap}); err == nil {
			select {
			case c.send <- payload:
			default:
			}
		}
	}

	log.Info().
		Str("connection_id", c.id).
		Str("session_id", h.sess.ID.String()).
		Msg("client connected")
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	if _, ok := h.conns[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c)
	h.mu.Unlock()

	close(c.send)
	_ = c.conn.Close()
	log.Info().Str("connection_id", c.id).Msg("client disconnected")
}

func newConnection(ws *websocket.Conn) *connection {
	return &connection{
		id:   uuid.New().String()[:8],
		conn: ws,
		send: make(chan []byte, 16),
	}
}
