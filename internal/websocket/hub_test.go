package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func newTestClient(hub *Hub) *Client {
	return &Client{
		hub:         hub,
		send:        make(chan []byte, 8),
		id:          "test-client",
		connectedAt: time.Now(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for hub.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("client count never reached %d, got %d", want, hub.ClientCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHub_RegisterSendsConnectionMessage(t *testing.T) {
	hub := testHub(t)
	client := newTestClient(hub)

	hub.register <- client
	waitForClients(t, hub, 1)

	select {
	case data := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, TypeConnection, msg.Type)
	case <-time.After(time.Second):
		t.Fatal("no connection message received")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := testHub(t)

	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.register <- a
	hub.register <- b
	waitForClients(t, hub, 2)

	// Drain connection messages.
	<-a.send
	<-b.send

	hub.BroadcastRefresh()

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			assert.Equal(t, TypeRefresh, msg.Type)
			assert.False(t, msg.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("broadcast not received")
		}
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := testHub(t)
	client := newTestClient(hub)

	hub.register <- client
	waitForClients(t, hub, 1)

	hub.unregister <- client
	waitForClients(t, hub, 0)

	// Channel is closed after draining pending messages.
	for {
		if _, ok := <-client.send; !ok {
			return
		}
	}
}

func TestHub_BroadcastDataUpdatePayload(t *testing.T) {
	hub := testHub(t)
	client := newTestClient(hub)
	hub.register <- client
	waitForClients(t, hub, 1)
	<-client.send

	hub.BroadcastDataUpdate("timeline", map[string]interface{}{"rows": 600})

	select {
	case data := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, TypeDataUpdate, msg.Type)
		payload, ok := msg.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "timeline", payload["type"])
	case <-time.After(time.Second):
		t.Fatal("data update not received")
	}
}
