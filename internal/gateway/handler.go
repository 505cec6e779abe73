package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// command is one client-issued action. Interval applies to
// enable_auto_poll only and is given in seconds, matching the UI control.
type command struct {
	Action      string `json:"action"`
	Name        string `json:"name,omitempty"`
	IntervalSec int    `json:"interval_sec,omitempty"`
}

const (
	actionRemove      = "remove"
	actionReset       = "reset"
	actionRefresh     = "refresh"
	actionEnablePoll  = "enable_auto_poll"
	actionDisablePoll = "disable_auto_poll"
)

// RegisterRoutes attaches the gateway endpoints to an HTTP mux.
func (h *Hub) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.handleConnection)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

func (h *Hub) handleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	c := newConnection(ws)
	h.register(c)
	go h.writePump(c)
	go h.readPump(c)
}

// writePump drains the connection's send channel and keeps the client
// alive with periodic pings.
func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer func() {
		ticker.Stop()
		h.unregister(c)
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump receives client commands and dispatches them to the session and
// poller. It owns the connection's read side and unregisters on any error.
func (h *Hub) readPump(c *connection) {
	defer h.unregister(c)

	c.conn.SetReadLimit(h.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("connection_id", c.id).Msg("unexpected close")
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			h.sendError(c, "malformed command")
			continue
		}
		h.dispatch(c, cmd)
	}
}

func (h *Hub) dispatch(c *connection, cmd command) {
	log.Debug().
		Str("connection_id", c.id).
		Str("action", cmd.Action).
		Msg("command received")

	switch cmd.Action {
	case actionRemove:
		if cmd.Name == "" {
			h.sendError(c, "remove requires a player name")
			return
		}
		h.sess.Pool.Remove(cmd.Name)
	case actionReset:
		h.cmds.Reset()
	case actionRefresh:
		h.cmds.ManualRefresh(h.baseCtx)
	case actionEnablePoll:
		interval := time.Duration(cmd.IntervalSec) * time.Second
		// The loop must outlive this request, so it runs off the hub's
		// base context rather than the connection's.
		if err := h.cmds.EnableAutoPoll(h.baseCtx, interval); err != nil {
			h.sendError(c, err.Error())
		}
	case actionDisablePoll:
		h.cmds.DisableAutoPoll()
	default:
		h.sendError(c, "unknown action: "+cmd.Action)
	}
}

func (h *Hub) sendError(c *connection, msg string) {
	payload, err := json.Marshal(errorEnvelope{Type: "error", Error: msg})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
