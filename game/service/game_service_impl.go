package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/wricardo/set-game/game/engine"
	"go.uber.org/zap"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	registry Registry
	logger   *zap.Logger
}

// NewGameService creates a new game service instance
func NewGameService(registry Registry, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		registry: registry,
		logger:   logger.Named("service"),
	}
}

// Register creates a new user and hands back its access token
func (s *gameServiceImpl) Register(ctx context.Context, nickname, password string) (*RegisterResult, error) {
	if nickname == "" || password == "" {
		return nil, newError(KindValidation, ErrEmptyCredentials)
	}

	user, err := s.registry.Register(nickname, password)
	if err != nil {
		if errors.Is(err, ErrEmptyCredentials) {
			return nil, newError(KindValidation, err)
		}
		return nil, newError(KindInternal, fmt.Errorf("failed to register user: %w", err))
	}

	s.logger.Info("user registered", zap.String("nickname", user.Nickname))

	return &RegisterResult{
		Nickname:    user.Nickname,
		AccessToken: user.Token,
	}, nil
}

// CreateRoom allocates a new room; the caller is not entered into it
func (s *gameServiceImpl) CreateRoom(ctx context.Context, token string) (*RoomInfo, error) {
	user, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}

	room, err := s.registry.CreateRoom()
	if err != nil {
		return nil, newError(KindInternal, fmt.Errorf("failed to create room: %w", err))
	}

	s.logger.Info("room created", zap.Int("room", room.ID), zap.String("by", user.Nickname))
	return &RoomInfo{ID: room.ID}, nil
}

// ListRooms returns every room ordered by id
func (s *gameServiceImpl) ListRooms(ctx context.Context, token string) ([]RoomInfo, error) {
	if _, err := s.authenticate(token); err != nil {
		return nil, err
	}

	return lo.Map(s.registry.Rooms(), func(r *Room, _ int) RoomInfo {
		return RoomInfo{ID: r.ID}
	}), nil
}

// EnterRoom makes roomID the caller's current room
func (s *gameServiceImpl) EnterRoom(ctx context.Context, token string, roomID int) (*RoomState, error) {
	user, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}

	if err := s.registry.JoinRoom(token, roomID); err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			return nil, newError(KindNotFound, err)
		case errors.Is(err, ErrUserNotFound):
			return nil, newError(KindAuth, err)
		default:
			return nil, newError(KindInternal, fmt.Errorf("failed to join room %d: %w", roomID, err))
		}
	}

	room, err := s.registry.Room(roomID)
	if err != nil {
		return nil, newError(KindNotFound, err)
	}

	s.logger.Info("player joined", zap.Int("room", roomID), zap.String("nickname", user.Nickname))

	state := newRoomState(room.ID, room.Game.Snapshot())
	return &state, nil
}

// CurrentRoom returns the caller's current room
func (s *gameServiceImpl) CurrentRoom(ctx context.Context, token string) (*RoomInfo, error) {
	_, room, err := s.currentRoom(token)
	if err != nil {
		return nil, err
	}
	return &RoomInfo{ID: room.ID}, nil
}

// GetField returns the cards in play together with the caller's score
func (s *gameServiceImpl) GetField(ctx context.Context, token string) (*FieldView, error) {
	_, room, err := s.currentRoom(token)
	if err != nil {
		return nil, err
	}

	snap := room.Game.Snapshot()
	return &FieldView{
		RoomState: newRoomState(room.ID, snap),
		Score:     snap.Score(token),
	}, nil
}

// PickSet submits a triple of card ids.
//
// A pick the game refused to evaluate returns both a result carrying the
// unchanged score and a KindValidation or KindGameEnded error.
func (s *gameServiceImpl) PickSet(ctx context.Context, token string, cardIDs []int) (*PickResult, error) {
	_, room, err := s.currentRoom(token)
	if err != nil {
		return nil, err
	}

	outcome := room.Game.Pick(token, cardIDs)
	result := &PickResult{
		IsSet:   outcome.IsSet(),
		Score:   outcome.Score,
		Outcome: outcome.Result,
		Room:    newRoomState(room.ID, room.Game.Snapshot()),
	}

	if outcome.Result == engine.PickRejected {
		kind := KindValidation
		if errors.Is(outcome.Reason, engine.ErrGameEnded) {
			kind = KindGameEnded
		}
		return result, newError(kind, outcome.Reason)
	}

	return result, nil
}

// AddCards deals extra cards into the caller's room
func (s *gameServiceImpl) AddCards(ctx context.Context, token string) (*AddCardsResult, error) {
	_, room, err := s.currentRoom(token)
	if err != nil {
		return nil, err
	}

	added := room.Game.AddCards()
	return &AddCardsResult{
		Added: added,
		Room:  newRoomState(room.ID, room.Game.Snapshot()),
	}, nil
}

// GetScores returns the scoreboard of the caller's room, highest first.
// Players with equal scores keep their join order.
func (s *gameServiceImpl) GetScores(ctx context.Context, token string) ([]UserScore, error) {
	_, room, err := s.currentRoom(token)
	if err != nil {
		return nil, err
	}

	snap := room.Game.Snapshot()
	scores := lo.Map(snap.Players, func(player string, _ int) UserScore {
		name := "Unknown"
		if u, err := s.registry.ResolveToken(player); err == nil {
			name = u.Nickname
		}
		return UserScore{Name: name, Score: snap.Score(player)}
	})

	slices.SortStableFunc(scores, func(a, b UserScore) int {
		return b.Score - a.Score
	})

	return scores, nil
}

func (s *gameServiceImpl) authenticate(token string) (User, error) {
	user, err := s.registry.ResolveToken(token)
	if err != nil {
		return User{}, newError(KindAuth, fmt.Errorf("invalid access token: %w", err))
	}
	return user, nil
}

func (s *gameServiceImpl) currentRoom(token string) (User, *Room, error) {
	user, err := s.authenticate(token)
	if err != nil {
		return User{}, nil, err
	}

	room, err := s.registry.ResolveUserRoom(token)
	if err != nil {
		if errors.Is(err, ErrNotInRoom) || errors.Is(err, ErrRoomNotFound) {
			return User{}, nil, newError(KindNotInRoom, err)
		}
		return User{}, nil, newError(KindInternal, err)
	}
	return user, room, nil
}
