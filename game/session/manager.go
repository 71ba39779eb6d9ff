package session

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
	"go.uber.org/zap"
)

// Manager maps access tokens to users and room ids to game sessions
type Manager struct {
	users  Store[string, service.User]
	rooms  Store[int, *service.Room]
	hasher PasswordHasher
	rules  engine.Rules
	logger *zap.Logger

	// mu serializes room id allocation and profile writes
	mu         sync.Mutex
	nextRoomID int
}

// Option configures a Manager
type Option func(*Manager)

// WithStores replaces the in-memory user and room stores
func WithStores(users Store[string, service.User], rooms Store[int, *service.Room]) Option {
	return func(m *Manager) {
		m.users = users
		m.rooms = rooms
	}
}

// WithHasher replaces the default bcrypt password hasher
func WithHasher(hasher PasswordHasher) Option {
	return func(m *Manager) {
		m.hasher = hasher
	}
}

// WithLogger sets the logger used for registry events
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new registry whose rooms are dealt with rules
func NewManager(rules engine.Rules, opts ...Option) *Manager {
	m := &Manager{
		users:  NewMemoryStore[string, service.User](),
		rooms:  NewMemoryStore[int, *service.Room](),
		hasher: NewBcryptHasher(0),
		rules:  rules,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("session")
	return m
}

// Register stores a new user under a fresh random token
func (m *Manager) Register(nickname, password string) (service.User, error) {
	if nickname == "" || password == "" {
		return service.User{}, service.ErrEmptyCredentials
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return service.User{}, err
	}

	user := service.User{
		Nickname:     nickname,
		PasswordHash: hash,
		RegisteredAt: time.Now(),
	}

	for {
		token, err := generateToken()
		if err != nil {
			return service.User{}, err
		}
		user.Token = token
		if m.users.PutIfAbsent(token, user) {
			return user, nil
		}
		m.logger.Warn("token collision, regenerating")
	}
}

// ResolveToken returns the user registered under token
func (m *Manager) ResolveToken(token string) (service.User, error) {
	user, ok := m.users.Get(token)
	if !ok {
		return service.User{}, service.ErrUserNotFound
	}
	return user, nil
}

// CreateRoom starts a new game under the next sequential id
func (m *Manager) CreateRoom() (*service.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, err := engine.NewGame(m.rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	room := &service.Room{
		ID:        m.nextRoomID,
		Game:      game,
		CreatedAt: time.Now(),
	}
	m.rooms.Put(room.ID, room)
	m.nextRoomID++

	m.logger.Debug("room allocated", zap.Int("room", room.ID))
	return room, nil
}

// Room retrieves a room by id
func (m *Manager) Room(id int) (*service.Room, error) {
	room, ok := m.rooms.Get(id)
	if !ok {
		return nil, service.ErrRoomNotFound
	}
	return room, nil
}

// Rooms returns all rooms ordered by id
func (m *Manager) Rooms() []*service.Room {
	rooms := m.rooms.Values()
	slices.SortFunc(rooms, func(a, b *service.Room) int {
		return a.ID - b.ID
	})
	return rooms
}

// JoinRoom makes roomID the user's current room, replacing any earlier one,
// and adds the user to that room's scoreboard
func (m *Manager) JoinRoom(token string, roomID int) error {
	room, ok := m.rooms.Get(roomID)
	if !ok {
		return service.ErrRoomNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users.Get(token)
	if !ok {
		return service.ErrUserNotFound
	}

	id := roomID
	user.RoomID = &id
	m.users.Put(token, user)
	room.Game.Join(token)

	return nil
}

// ResolveUserRoom returns the room the user last joined
func (m *Manager) ResolveUserRoom(token string) (*service.Room, error) {
	user, err := m.ResolveToken(token)
	if err != nil {
		return nil, err
	}

	roomID, ok := user.CurrentRoom()
	if !ok {
		return nil, service.ErrNotInRoom
	}
	return m.Room(roomID)
}

// Count returns the number of registered users and rooms
func (m *Manager) Count() (users, rooms int) {
	return m.users.Len(), m.rooms.Len()
}

// generateToken returns a random (v4) UUID as 32 hex characters
func generateToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
