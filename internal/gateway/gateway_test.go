package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestGateway(t *testing.T, forward ForwardFunc) *Gateway {
	t.Helper()

	g := New(0, "127.0.0.1", 7000, forward)
	require.NoError(t, g.Listen())
	go g.Serve()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		g.Shutdown(ctx)
	})
	return g
}

func dialGateway(t *testing.T, g *Gateway) *websocket.Conn {
	t.Helper()

	u := fmt.Sprintf("ws://127.0.0.1:%d/ws", g.Addr().Port)
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGateway_StatusGreeting(t *testing.T) {
	g := startTestGateway(t, func([]byte) {})
	conn := dialGateway(t, g)

	var status StatusMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&status))

	assert.Equal(t, TypeStatus, status.Type)
	assert.Equal(t, "127.0.0.1", status.DestinationHost)
	assert.Equal(t, 7000, status.DestinationPort)
	assert.NotEmpty(t, status.Message)
}

func TestGateway_ForwardsInArrivalOrder(t *testing.T) {
	received := make(chan []byte, 16)
	g := startTestGateway(t, func(payload []byte) { received <- payload })
	conn := dialGateway(t, g)

	// discard the greeting
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		payload := fmt.Sprintf(`{"address":"/seq/%d"}`, i)
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	}

	for i := 0; i < n; i++ {
		select {
		case payload := <-received:
			assert.JSONEq(t, fmt.Sprintf(`{"address":"/seq/%d"}`, i), string(payload))
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestGateway_SessionSurvivesFailingPipeline(t *testing.T) {
	// a forward pipeline that always fails internally must not kill the session
	calls := make(chan []byte, 4)
	g := startTestGateway(t, func(payload []byte) {
		calls <- payload
	})
	conn := dialGateway(t, g)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json at all")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"address":"/still/alive"}`)))

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("session stopped delivering messages")
		}
	}
}

func TestGateway_BroadcastReachesClients(t *testing.T) {
	g := startTestGateway(t, func([]byte) {})
	conn := dialGateway(t, g)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.NoError(t, err)

	// registration is asynchronous; wait for the hub to pick the session up
	require.Eventually(t, func() bool { return g.Sessions() == 1 }, time.Second, 10*time.Millisecond)

	event := map[string]any{"type": "osc", "address": "/engine/fps", "args": []any{60.0}}
	data, err := json.Marshal(event)
	require.NoError(t, err)
	g.Broadcast(data)

	var got map[string]any
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "osc", got["type"])
	assert.Equal(t, "/engine/fps", got["address"])
}

func TestGateway_Healthz(t *testing.T) {
	g := startTestGateway(t, func([]byte) {})

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", g.Addr().Port))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "127.0.0.1:7000", body["destination"])
}
