package service

import (
	"context"
	"time"

	"github.com/wricardo/set-game/game/engine"
)

// GameService defines all request-level game operations.
// Every operation except Register authenticates with an access token.
type GameService interface {
	// Accounts
	Register(ctx context.Context, nickname, password string) (*RegisterResult, error)

	// Rooms
	CreateRoom(ctx context.Context, token string) (*RoomInfo, error)
	ListRooms(ctx context.Context, token string) ([]RoomInfo, error)
	EnterRoom(ctx context.Context, token string, roomID int) (*RoomState, error)
	CurrentRoom(ctx context.Context, token string) (*RoomInfo, error)

	// Gameplay in the caller's current room
	GetField(ctx context.Context, token string) (*FieldView, error)
	PickSet(ctx context.Context, token string, cardIDs []int) (*PickResult, error)
	AddCards(ctx context.Context, token string) (*AddCardsResult, error)
	GetScores(ctx context.Context, token string) ([]UserScore, error)
}

// Registry defines user and room storage operations
type Registry interface {
	Register(nickname, password string) (User, error)
	ResolveToken(token string) (User, error)
	CreateRoom() (*Room, error)
	Room(id int) (*Room, error)
	Rooms() []*Room
	JoinRoom(token string, roomID int) error
	ResolveUserRoom(token string) (*Room, error)
}

// User is a registered player profile
type User struct {
	Token        string
	Nickname     string
	PasswordHash string
	RoomID       *int
	RegisteredAt time.Time
}

// CurrentRoom returns the id of the room the user last entered
func (u User) CurrentRoom() (int, bool) {
	if u.RoomID == nil {
		return 0, false
	}
	return *u.RoomID, true
}

// Room is a game session registered under a numeric id
type Room struct {
	ID        int
	Game      *engine.Game
	CreatedAt time.Time
}
