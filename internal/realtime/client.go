package realtime

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a slow peer.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead; pings go out at pingPeriod to keep it alive.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize is the per-client outbound queue. A client that falls
	// this far behind misses frames (at-most-once delivery, no replay).
	sendBufferSize = 64
)

// client is one authenticated websocket connection. The hub delivers frames
// into send; writePump drains them to the peer.
type client struct {
	id     uuid.UUID
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

func newClient(userID uuid.UUID, conn *websocket.Conn) *client {
	return &client{
		id:     uuid.New(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// writePump drains the send channel to the websocket connection and keeps
// the connection alive with pings. It exits when the hub closes the send
// channel or a write fails.
func (c *client) writePump(log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug("write to client failed",
					"client_id", c.id,
					"user_id", c.userID,
					"error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames (the protocol is server-push only) and
// returns when the connection drops. It enforces the pong deadline.
func (c *client) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
