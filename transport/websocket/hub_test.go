package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/battleships/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: normalizeID(sessionID),
		send:      make(chan []byte, sendBufferSize),
	}
}

func testState(t *testing.T) *engine.GameState {
	t.Helper()
	config := &engine.GameConfig{Name: "Test", BoardSize: 4, NumShips: 1}
	game, err := engine.NewEngineWithShips(config, []engine.Coordinate{{Row: 2, Col: 2}})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if _, err := game.Guess(engine.Coordinate{Row: 0, Col: 0}); err != nil {
		t.Fatalf("Guess failed: %v", err)
	}
	return game.GetState()
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if hub.ClientCount("test-session") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}
	if hub.ClientCount("TEST-SESSION") != 1 {
		t.Error("Session lookup should ignore case")
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "multi")
	client2 := newTestClient(hub, "multi")

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount("multi") != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount("multi"))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount("multi") != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount("multi"))
	}
	if !hub.sessions["multi"][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub, "abcd")
	other := newTestClient(hub, "ffff")
	hub.registerClient(client)
	hub.registerClient(other)

	hub.BroadcastToSession("ABCD", testState(t))

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %q", EventStateUpdate, message.Event)
		}
		if message.GameState == nil {
			t.Fatal("Expected game state in message")
		}
		if message.GameState.Misses != 1 || message.GameState.RemainingTurns != 15 {
			t.Errorf("GameState not correctly transmitted: %+v", message.GameState)
		}
		if message.GameState.Board[0][0] != engine.Miss {
			t.Error("Expected miss on the transmitted board")
		}
		if strings.Contains(string(data), `"ships"`) {
			t.Error("Ship positions must not be broadcast")
		}
	case <-time.After(time.Second):
		t.Fatal("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client in another session should not receive the update")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" {
			t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
		}
		if message.Event != "custom-event" {
			t.Errorf("Expected event 'custom-event', got %s", message.Event)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	default:
		t.Fatal("Expected a queued broadcast message")
	}
}

func TestHubBroadcastDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})

	go func() {
		// Nobody runs the hub; the queue fills and further updates are dropped
		for i := 0; i < sendBufferSize*2; i++ {
			hub.BroadcastEvent("full", "tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked on a full queue")
	}
	if len(hub.broadcast) != sendBufferSize {
		t.Errorf("Expected a full queue of %d, got %d", sendBufferSize, len(hub.broadcast))
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newTestClient(hub, "closing")
	hub.registerClient(client)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if hub.ClientCount("closing") != 0 {
		t.Error("Clients should be closed when the hub stops")
	}
}

func newWSServer(hub *Hub, initial *engine.GameState) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"), initial)
	}))
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?sessionId=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := startHub(t)
	server := newWSServer(hub, nil)
	defer server.Close()

	conn := dial(t, server, "ws01")
	waitFor(t, func() bool { return hub.ClientCount("ws01") == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount("ws01") == 0 })
}

func TestWebSocketInitialStateAndUpdates(t *testing.T) {
	hub := startHub(t)
	initial := testState(t)
	server := newWSServer(hub, initial)
	defer server.Close()

	conn := dial(t, server, "msg1")
	defer conn.Close()

	first := readMessage(t, conn)
	if first.Event != EventConnected {
		t.Errorf("Expected %q as first event, got %q", EventConnected, first.Event)
	}
	if first.GameState == nil || first.GameState.Size != 4 {
		t.Fatalf("Expected initial 4x4 state, got %+v", first.GameState)
	}

	waitFor(t, func() bool { return hub.ClientCount("msg1") == 1 })

	update := initial.Clone()
	update.RemainingTurns = 3
	hub.BroadcastToSession("msg1", update)

	second := readMessage(t, conn)
	if second.Event != EventStateUpdate {
		t.Errorf("Expected %q, got %q", EventStateUpdate, second.Event)
	}
	if second.GameState.RemainingTurns != 3 {
		t.Errorf("Expected 3 remaining turns, got %d", second.GameState.RemainingTurns)
	}
}
