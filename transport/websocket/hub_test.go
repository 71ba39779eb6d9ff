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
	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
)

func testState(roomID int) service.RoomState {
	return service.RoomState{
		RoomID:   roomID,
		Cards:    card.Generate()[:3],
		Status:   engine.StatusOngoing,
		DeckSize: 78,
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.rooms == nil {
		t.Error("Hub rooms map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
	if hub.logger == nil {
		t.Error("Hub logger is nil")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(nil)

	client1 := &Client{hub: hub, roomID: 3, send: make(chan []byte, 1)}
	client2 := &Client{hub: hub, roomID: 3, send: make(chan []byte, 1)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if got := hub.ClientCount(3); got != 2 {
		t.Errorf("Expected 2 clients in room, got %d", got)
	}

	hub.unregisterClient(client1)
	if got := hub.ClientCount(3); got != 1 {
		t.Errorf("Expected 1 client remaining, got %d", got)
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected send channel of unregistered client to be closed")
	}

	// Unregistering twice is a no-op
	hub.unregisterClient(client1)

	hub.unregisterClient(client2)
	if _, exists := hub.rooms[3]; exists {
		t.Error("Room should have been cleaned up after last client unregistered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub(nil)

	inRoom := &Client{hub: hub, roomID: 1, send: make(chan []byte, 1)}
	otherRoom := &Client{hub: hub, roomID: 2, send: make(chan []byte, 1)}
	hub.registerClient(inRoom)
	hub.registerClient(otherRoom)

	hub.broadcastMessage(&Message{RoomID: 1, Event: EventSetClaimed, State: testState(1)})

	select {
	case data := <-inRoom.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to decode message: %v", err)
		}
		if msg.Event != EventSetClaimed || msg.RoomID != 1 {
			t.Errorf("Unexpected message %+v", msg)
		}
		if len(msg.State.Cards) != 3 || msg.State.DeckSize != 78 {
			t.Errorf("Unexpected state %+v", msg.State)
		}
	default:
		t.Error("Client in room did not receive the message")
	}

	select {
	case <-otherRoom.send:
		t.Error("Client in another room received the message")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)

	slow := &Client{hub: hub, roomID: 1, send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{RoomID: 1, Event: EventCardsAdded, State: testState(1)})

	if got := hub.ClientCount(1); got != 0 {
		t.Errorf("Expected slow client to be dropped, %d clients remain", got)
	}
}

func TestHubBroadcastQueueFull(t *testing.T) {
	hub := NewHub(nil)

	// Run is not started so nothing drains the queue
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.BroadcastToRoom(1, EventCardsAdded, testState(1))
	}

	if got := len(hub.broadcast); got != broadcastBuffer {
		t.Errorf("Expected queue to hold %d messages, got %d", broadcastBuffer, got)
	}
}

func waitForClients(t *testing.T, hub *Hub, roomID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(roomID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in room %d, got %d", want, roomID, hub.ClientCount(roomID))
}

func TestHubEndToEnd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 7)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 7, 1)

	hub.BroadcastToRoom(7, EventPlayerJoined, testState(7))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	if msg.Event != EventPlayerJoined || msg.RoomID != 7 {
		t.Errorf("Unexpected message %+v", msg)
	}

	// Closing the connection unregisters the client
	conn.Close()
	waitForClients(t, hub, 7, 0)
}

func TestHubShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 1)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, 1, 1)
	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after hub shutdown")
	}
}
