package api

import (
	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
)

// Exception describes why a request failed
type Exception struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// Envelope is embedded in every response body
type Envelope struct {
	Success   bool       `json:"success"`
	Exception *Exception `json:"exception"`
}

func (e *Envelope) envelope() *Envelope {
	return e
}

// Requests

type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type TokenRequest struct {
	AccessToken string `json:"accessToken"`
}

type EnterRoomRequest struct {
	AccessToken string `json:"accessToken"`
	GameID      *int   `json:"gameId"`
}

type PickRequest struct {
	AccessToken string `json:"accessToken"`
	Cards       []int  `json:"cards"`
}

// Responses

type RegisterResponse struct {
	Envelope
	Nickname    string `json:"nickname"`
	AccessToken string `json:"accessToken"`
}

type RoomResponse struct {
	Envelope
	GameID int `json:"gameId"`
}

type ListRoomsResponse struct {
	Envelope
	Games []service.RoomInfo `json:"games"`
}

type FieldResponse struct {
	Envelope
	Cards    []card.Card   `json:"cards"`
	Status   engine.Status `json:"status"`
	Score    int           `json:"score"`
	DeckSize int           `json:"deckSize"`
}

type PickResponse struct {
	Envelope
	IsSet   bool              `json:"isSet"`
	Score   int               `json:"score"`
	Outcome engine.PickResult `json:"outcome"`
}

type AddCardsResponse struct {
	Envelope
	Added int `json:"added"`
}

type ScoresResponse struct {
	Envelope
	Users []service.UserScore `json:"users"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
