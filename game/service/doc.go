// Package service provides the business logic layer for the Set server.
//
// The service package implements:
//   - Registration and access-token authentication
//   - Room creation, listing and entry
//   - Gameplay in the caller's current room (field, pick, add, scores)
//   - Classification of failures into error kinds
//
// Core Interfaces:
//
// GameService is the request-level API used by every transport.
// Registry is the user and room storage it consumes; session.Manager
// implements it.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the game engine. It authenticates the token, resolves the caller's room
// and delegates to the room's engine.Game. Each room has its own Game, so
// operations in different rooms never contend.
//
// Usage:
//
//	manager := session.NewManager(engine.DefaultRules())
//	gameService := service.NewGameService(manager, logger)
//
//	reg, err := gameService.Register(ctx, "alice", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	room, _ := gameService.CreateRoom(ctx, reg.AccessToken)
//	gameService.EnterRoom(ctx, reg.AccessToken, room.ID)
//	result, err := gameService.PickSet(ctx, reg.AccessToken, []int{4, 17, 62})
//
// Errors:
//
// Every returned error is an *Error carrying an ErrorKind. Transports map
// kinds to status codes and messages; KindOf extracts the kind. A rejected
// pick returns a PickResult with the unchanged score together with its error.
package service
