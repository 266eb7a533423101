package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func (h *Hub) connectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func waitForConnections(t *testing.T, hub *Hub, expected int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.connectionCount() == expected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d connections, got %d", expected, hub.connectionCount())
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := &Hub{}
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	waitForConnections(t, hub, 1)

	payload := `{"type":"override_changed","roomId":"sala1"}`
	hub.Broadcast([]byte(payload))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if string(msg) != payload {
		t.Errorf("Expected %q, got %q", payload, string(msg))
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := &Hub{}
	server := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}

	waitForConnections(t, hub, 1)
	conn.Close()
	waitForConnections(t, hub, 0)

	// Broadcasting to an empty hub is harmless.
	hub.Broadcast([]byte(`{}`))
}
