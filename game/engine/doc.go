// Package engine provides the game session state machine for a Set room.
//
// The engine package implements:
//   - Deck shuffling and dealing of the opening field
//   - Atomic validate-and-apply of a player's pick
//   - Manual dealing of extra cards
//   - Score bookkeeping and end-of-game detection
//
// Core Types:
//
// Game owns one room's deck, field and scoreboard. Rules holds the dealing
// parameters (field size and manual draw size). Snapshot is an immutable
// copy of a Game's state published after every mutation.
//
// Usage:
//
//	game, err := engine.NewGame(engine.DefaultRules())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game.Join(token)
//	outcome := game.Pick(token, []int{4, 17, 62})
//	if outcome.IsSet() {
//		fmt.Println("claimed, score", outcome.Score)
//	}
//
// Concurrency:
//
// A Game is safe for concurrent use. Mutations on the same Game are
// serialized by its mutex; different games never contend. Reads are served
// from the last published Snapshot without locking, so they may lag a
// mutation that is still running.
//
// Game States:
//
// A game starts "ongoing" and becomes "ended" once a successful pick leaves
// the deck empty and fewer than three cards on the field. Ended games reject
// every pick; AddCards never changes the status.
package engine
