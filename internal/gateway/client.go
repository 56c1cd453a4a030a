package gateway

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Individual client session handler. A session carries no state beyond the
// socket handle itself; the relay is stateless across sessions.

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send pings before the pong wait expires
	MaxMessageSize = 4096                // maximum control message size allowed from peer
)

// ForwardFunc consumes one raw control payload. It must contain every
// failure internally: a bad payload never terminates the session.
type ForwardFunc func(payload []byte)

type Client struct {
	ID          string          // unique session ID, used for log correlation only
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound messages
	hub         *Hub            // reference to the central Hub
	forward     ForwardFunc     // control message pipeline
}

// constructor new client
func NewClient(id string, conn *websocket.Conn, hub *Hub, forward ForwardFunc) *Client {
	return &Client{
		ID:          id,
		Conn:        conn,
		SendChannel: make(chan []byte, 32),
		hub:         hub,
		forward:     forward,
	}
}

// ReadPump reads control payloads from the peer and hands them to the
// forward pipeline. Translation and the UDP send happen inline here, so
// messages from one session reach the UDP socket in arrival order.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Drop(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Session %s closed unexpectedly: %v", c.ID, err)
			}
			return
		}
		c.forward(payload)
	}
}

// WritePump writes queued frames and keepalive pings to the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Enqueue queues a frame for delivery, dropping it if the session's buffer
// is full. There is no backpressure toward the transport.
func (c *Client) Enqueue(data []byte) {
	select {
	case c.SendChannel <- data:
	default:
		log.Printf("Session %s send buffer full, dropping frame", c.ID)
	}
}
