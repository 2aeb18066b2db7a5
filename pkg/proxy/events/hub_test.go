package events

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), true)
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial event stream: %v", err)
	}
	return conn
}

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := newTestHub()
	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	conn := dial(t, server)
	t.Cleanup(func() { _ = conn.Close() })

	waitForClientCount(t, hub, 1)

	hub.Broadcast(ProxyTraffic, TrafficPayload{Method: "GET", URL: "https://example.com/x", Status: 200})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast message: %v", err)
	}

	var envelope struct {
		Event string         `json:"event"`
		Data  TrafficPayload `json:"data"`
	}
	if err := json.Unmarshal(msg, &envelope); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v", err)
	}
	if envelope.Event != ProxyTraffic {
		t.Errorf("expected event %q, got %q", ProxyTraffic, envelope.Event)
	}
	if envelope.Data.URL != "https://example.com/x" {
		t.Errorf("unexpected payload: %+v", envelope.Data)
	}
}

func TestHubClientCountDropsOnDisconnect(t *testing.T) {
	hub := newTestHub()
	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	conn := dial(t, server)
	waitForClientCount(t, hub, 1)

	_ = conn.Close()
	waitForClientCount(t, hub, 0)
}

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected client count %d, got %d", want, hub.ClientCount())
}
