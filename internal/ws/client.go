package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one websocket connection. A single connection may sit in any
// number of quest rooms at once.
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	userID string
	send   chan []byte

	closeOnce sync.Once
}

func newClient(h *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{conn: conn, hub: h, userID: userID, send: make(chan []byte, 256)}
}

func (c *Client) readPump() {
	defer c.Close()
	c.conn.SetReadLimit(8 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.hub.HandleEvent(c, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() { ticker.Stop(); c.conn.Close() }()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the connection if its buffer is full rather than blocking
// the broadcaster.
func (c *Client) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		go c.Close()
	}
}

func (c *Client) sendJSON(payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: marshal event for user %s: %v", c.userID, err)
		return
	}
	c.enqueue(b)
}

// Close removes the client from all rooms before tearing the socket down, so
// no broadcast can target it after this returns.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.RemoveClient(c)
		// the send channel stays open: a broadcast that snapshotted the room
		// just before removal may still enqueue, and writePump exits on the
		// closed socket instead
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}
