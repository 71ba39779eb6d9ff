// Package mcp exposes the Set game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool calls the REST API through
// api.Client, so an MCP agent plays exactly like any other HTTP player.
//
// Tools:
//   - register, create_room, list_rooms, enter_room
//   - get_field, pick_set, add_cards, get_scores
//   - find_set (hint computed from the field, never sent to the server)
//   - game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8000")
//
//	// stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP
//	http.Handle("/mcp", client.Handler())
package mcp
