// Package session provides the user and room registry for the Set server.
//
// The session package implements:
//   - Registration with random access tokens and bcrypt password verifiers
//   - Sequential, never reused room ids
//   - Room membership tracking per user
//   - Pluggable key-value stores for the user and room tables
//
// Core Types:
//
// Manager is the registry. It is constructed once at process start and
// injected into the game service. Store is the key-value abstraction the
// Manager keeps its tables in; MemoryStore is the in-memory implementation.
// PasswordHasher abstracts the password verifier scheme.
//
// Concurrency:
//
// Stores are safe for concurrent reads and writes. The Manager additionally
// serializes room id allocation with the room table insert, and every write
// to a user profile, so two rooms never share an id and concurrent joins by
// the same token apply one after the other.
//
// Usage:
//
//	manager := session.NewManager(engine.DefaultRules())
//
//	user, err := manager.Register("alice", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	room, _ := manager.CreateRoom()
//	if err := manager.JoinRoom(user.Token, room.ID); err != nil {
//		log.Fatal(err)
//	}
//
// Lifetime:
//
// Users and rooms are never deleted; everything lives until the process exits.
package session
