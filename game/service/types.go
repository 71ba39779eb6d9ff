package service

import (
	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/engine"
)

// RegisterResult is returned after a successful registration
type RegisterResult struct {
	Nickname    string `json:"nickname"`
	AccessToken string `json:"accessToken"`
}

// RoomInfo identifies a room
type RoomInfo struct {
	ID int `json:"id"`
}

// RoomState is the public view of a room shared by all of its players
type RoomState struct {
	RoomID   int           `json:"gameId"`
	Cards    []card.Card   `json:"cards"`
	Status   engine.Status `json:"status"`
	DeckSize int           `json:"deckSize"`
}

// FieldView is a room's state as seen by one player
type FieldView struct {
	RoomState
	Score int `json:"score"`
}

// PickResult contains the result of a pick.
// Outcome distinguishes a wrong triple from a pick that was not evaluated.
type PickResult struct {
	IsSet   bool              `json:"isSet"`
	Score   int               `json:"score"`
	Outcome engine.PickResult `json:"outcome"`
	Room    RoomState         `json:"-"`
}

// AddCardsResult reports how many cards were dealt
type AddCardsResult struct {
	Added int       `json:"added"`
	Room  RoomState `json:"-"`
}

// UserScore is one scoreboard line
type UserScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func newRoomState(roomID int, snap *engine.Snapshot) RoomState {
	cards := make([]card.Card, len(snap.Field))
	copy(cards, snap.Field)
	return RoomState{
		RoomID:   roomID,
		Cards:    cards,
		Status:   snap.Status,
		DeckSize: snap.DeckSize,
	}
}
