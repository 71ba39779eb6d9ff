// Package api provides the HTTP REST API of the Set game server and a typed
// client for it.
//
// The api package implements:
//   - Account registration
//   - Room creation, listing and entry
//   - Gameplay in the caller's current room (field, pick, add, scores)
//   - WebSocket upgrade for room events
//   - Health check
//
// Endpoints:
//
// Every game endpoint is a POST with a JSON body carrying accessToken.
//
// Accounts:
//   - POST /user/register {nickname, password} -> {nickname, accessToken}
//
// Rooms:
//   - POST /set/room/create -> {gameId}
//   - POST /set/room/list -> {games: [{id}]}
//   - POST /set/room/enter {gameId} -> {gameId}
//
// Gameplay:
//   - POST /set/field -> {cards, status, score, deckSize}
//   - POST /set/pick {cards: [id, id, id]} -> {isSet, score, outcome}
//   - POST /set/add -> {added}
//   - POST /set/scores -> {users: [{name, score}]}
//
// Other:
//   - GET /ws?accessToken=... - event stream of the caller's room
//   - GET /health
//
// Response Format:
//
// Every response carries an envelope next to its payload:
//
//	{"success": false, "exception": {"message": "Invalid access token", "kind": "auth"}}
//
// Domain failures answer 200 with success false. Bodies that cannot be
// decoded answer 400. A rejected pick still reports isSet and score.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8000", server)
//
//	client := api.NewClient("http://localhost:8000", nil)
//	reg, err := client.Register(ctx, "alice", "secret")
package api
