package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handler to WebSocket connections

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the panel may be served from any dev origin and the relay carries
	// no credentials, so all origins are accepted
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler: handle upgrade request from HTTP connection to WebSocket
func WSHandler(hub *Hub, forward ForwardFunc, status *StatusMessage) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade to WebSocket"})
			return
		}

		client := NewClient(uuid.NewString(), conn, hub, forward)
		hub.Add(client)

		// one-time status greeting; side effect only, never blocks
		if data, err := status.ToJSON(); err == nil {
			client.Enqueue(data)
		}

		go client.ReadPump()
		go client.WritePump()
	}
}
