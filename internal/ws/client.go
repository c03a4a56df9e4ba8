package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 8 * 1024
	sendBufferSize = 64
)

// Client is one websocket connection owned by one authenticated user. A
// user may hold several clients (several tabs); rooms track clients, not
// users.
type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	hub    *Hub

	closeOnce sync.Once
}

func newClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		hub:    hub,
	}
}

// close signals shutdown through done instead of closing send: the read
// pump may still be queuing an error reply while the write pump tears
// down, and a send on a closed channel would panic the process. Frames
// queued after close are dropped with the connection.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.remove(c)
		close(c.done)
		c.conn.Close()
	})
}

// sendEvent queues a frame for this client only. Used for error events,
// which never fan out beyond the connection that caused them.
func (c *Client) sendEvent(event string, payload any) {
	frame, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- frame:
	default:
	}
}

// inboundFrame is what clients send: an event name plus an opaque data
// blob the gateway decodes per event.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *Client) readPump(g *Gateway) {
	defer c.close()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendEvent("error", map[string]string{"message": "malformed frame"})
			continue
		}
		g.dispatch(c, frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
