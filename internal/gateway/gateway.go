package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Gateway owns the WebSocket listen socket, the HTTP surface around it and
// the session hub. Control payloads flow out through the forward pipeline;
// the gateway itself never interprets them.
type Gateway struct {
	hub    *Hub
	engine *gin.Engine
	srv    *http.Server
	ln     net.Listener
	port   int
}

// New wires the gin engine with the /ws upgrade endpoint and a health check.
func New(port int, destHost string, destPort int, forward ForwardFunc) *Gateway {
	hub := NewHub()
	status := NewStatusMessage(destHost, destPort)

	r := gin.Default()
	r.GET("/ws", WSHandler(hub, forward, status))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"destination": fmt.Sprintf("%s:%d", destHost, destPort),
			"sessions":    hub.Count(),
		})
	})

	return &Gateway{
		hub:    hub,
		engine: r,
		port:   port,
	}
}

// Listen binds the WebSocket listen port. A bind failure is fatal to the
// relay and is not retried.
func (g *Gateway) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", g.port))
	if err != nil {
		return fmt.Errorf("failed to bind WebSocket port %d: %w", g.port, err)
	}
	g.ln = ln
	g.srv = &http.Server{Handler: g.engine}
	return nil
}

// Serve starts the hub and serves HTTP on the bound listener. It blocks
// until Shutdown is called.
func (g *Gateway) Serve() error {
	go g.hub.Run()
	log.Printf("WebSocket gateway listening on %s", g.ln.Addr())
	if err := g.srv.Serve(g.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound listen address. Only valid after Listen.
func (g *Gateway) Addr() *net.TCPAddr {
	return g.ln.Addr().(*net.TCPAddr)
}

// Broadcast queues a frame for every connected session.
func (g *Gateway) Broadcast(data []byte) {
	g.hub.Broadcast(data)
}

// Sessions returns the number of active sessions.
func (g *Gateway) Sessions() int {
	return g.hub.Count()
}

// Shutdown drops all sessions and stops accepting new ones.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.hub.Stop()
	if g.srv == nil {
		return nil
	}
	return g.srv.Shutdown(ctx)
}
