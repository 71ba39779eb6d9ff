// Package websocket pushes room events to browser and bot clients.
//
// The websocket package implements:
//   - Room-aware WebSocket connections
//   - Event broadcasting after every state change of a room
//   - Connection lifecycle management with keepalive pings
//
// Architecture:
//
// A central Hub owns all connections. Its Run loop is the only writer of the
// room membership map; each connection has a read pump and a write pump
// goroutine. Broadcasts are queued on a buffered channel and dropped when the
// queue is full, so a game operation never blocks on a slow client.
//
// Message Protocol:
//
// Clients only receive. Every message is one JSON text frame:
//
//	{"gameId": 0, "event": "set_claimed", "state": {"gameId": 0, "cards": [...], "status": "ongoing", "deckSize": 66}}
//
// Events are player_joined, set_claimed, cards_added and game_ended.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	// in an HTTP handler, after resolving the caller's room
//	hub.ServeWS(w, r, roomID)
//
//	// after a state change
//	hub.BroadcastToRoom(roomID, websocket.EventSetClaimed, state)
//
// Concurrency:
//
// BroadcastToRoom and ClientCount are safe to call from any goroutine.
// Cancelling the context passed to Run closes every connection.
package websocket
