package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/set-game/game/service"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending broadcasts before new ones are dropped.
	broadcastBuffer = 256
)

// Room events
const (
	EventPlayerJoined = "player_joined"
	EventSetClaimed   = "set_claimed"
	EventCardsAdded   = "cards_added"
	EventGameEnded    = "game_ended"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is a room event pushed to every client watching the room
type Message struct {
	RoomID int               `json:"gameId"`
	Event  string            `json:"event"`
	State  service.RoomState `json:"state"`
}

// Client is a single WebSocket connection watching one room
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	roomID int
}

// Hub maintains the set of active clients and broadcasts room events
type Hub struct {
	// Registered clients by room id, written only by Run
	mu    sync.RWMutex
	rooms map[int]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[int]map[*Client]bool),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Named("websocket"),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
// All client connections are closed on return.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to roomID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		roomID: roomID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastToRoom queues an event for every client in the room.
// The event is dropped when the queue is full.
func (h *Hub) BroadcastToRoom(roomID int, event string, state service.RoomState) {
	message := &Message{
		RoomID: roomID,
		Event:  event,
		State:  state,
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast queue full, dropping event",
			zap.Int("room", roomID), zap.String("event", event))
	}
}

// ClientCount returns the number of clients watching roomID
func (h *Hub) ClientCount(roomID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.rooms[client.roomID] == nil {
		h.rooms[client.roomID] = make(map[*Client]bool)
	}
	h.rooms[client.roomID][client] = true
	total := len(h.rooms[client.roomID])
	h.mu.Unlock()

	h.logger.Debug("client registered", zap.Int("room", client.roomID), zap.Int("clients", total))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.roomID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.rooms, client.roomID)
	}

	h.logger.Debug("client unregistered", zap.Int("room", client.roomID), zap.Int("clients", len(clients)))
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[message.RoomID] {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.rooms {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// readPump drains the connection so pongs and close frames are processed
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump sends queued events and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
