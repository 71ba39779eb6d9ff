// Package card provides the Set card catalog and the matching predicate.
//
// The card package implements:
//   - The fixed universe of 81 cards (4 attributes x 3 values)
//   - Set validation for a triple of cards
//   - Set completion and search helpers for hints and bots
//
// Card Identity:
//
// Every card carries an ID in 0..80 assigned by the canonical enumeration
// (color, shape, fill, count, with count varying fastest). Two cards are the
// same card when their IDs match; attributes are derived from the ID.
//
// Usage:
//
//	deck := card.Generate()
//	if card.IsValidSet(deck[0], deck[1], deck[2]) {
//		// counts 1,2,3 with identical color, shape and fill
//	}
//
//	if triple, ok := card.FindSet(field); ok {
//		fmt.Println(triple[0].ID, triple[1].ID, triple[2].ID)
//	}
//
// The package is pure and holds no mutable state; shuffling is the
// responsibility of the game engine.
package card
