package session

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
	"golang.org/x/crypto/bcrypt"
)

func newTestManager() *Manager {
	return NewManager(engine.DefaultRules(), WithHasher(NewBcryptHasher(bcrypt.MinCost)))
}

func TestManager_Register(t *testing.T) {
	manager := newTestManager()

	t.Run("stores a verifier, not the password", func(t *testing.T) {
		user, err := manager.Register("alice", "secret")
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		if user.Nickname != "alice" {
			t.Errorf("Expected nickname 'alice', got '%s'", user.Nickname)
		}
		if len(user.Token) != 32 {
			t.Errorf("Expected 32 character token, got %q", user.Token)
		}
		if user.PasswordHash == "" || user.PasswordHash == "secret" {
			t.Errorf("Expected hashed password, got %q", user.PasswordHash)
		}
		verifier := NewBcryptHasher(bcrypt.MinCost)
		if !verifier.Verify(user.PasswordHash, "secret") {
			t.Error("Expected verifier to accept the password")
		}
		if verifier.Verify(user.PasswordHash, "wrong") {
			t.Error("Expected verifier to reject a wrong password")
		}
		if _, ok := user.CurrentRoom(); ok {
			t.Error("Expected new user to have no room")
		}
	})

	t.Run("long password", func(t *testing.T) {
		long := strings.Repeat("p", 100)
		user, err := manager.Register("dave", long)
		if err != nil {
			t.Fatalf("Failed to register with a 100 byte password: %v", err)
		}
		if user.Token == "" {
			t.Error("Expected a token for a long password")
		}
		if !NewBcryptHasher(bcrypt.MinCost).Verify(user.PasswordHash, long) {
			t.Error("Expected verifier to accept the long password")
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		if _, err := manager.Register("", "secret"); !errors.Is(err, service.ErrEmptyCredentials) {
			t.Errorf("Expected ErrEmptyCredentials, got %v", err)
		}
		if _, err := manager.Register("bob", ""); !errors.Is(err, service.ErrEmptyCredentials) {
			t.Errorf("Expected ErrEmptyCredentials, got %v", err)
		}
	})

	t.Run("same nickname gets a distinct token", func(t *testing.T) {
		a, _ := manager.Register("carol", "x")
		b, _ := manager.Register("carol", "x")
		if a.Token == b.Token {
			t.Error("Expected unique tokens")
		}
	})
}

func TestManager_ResolveToken(t *testing.T) {
	manager := newTestManager()
	user, _ := manager.Register("alice", "secret")

	got, err := manager.ResolveToken(user.Token)
	if err != nil {
		t.Fatalf("Failed to resolve token: %v", err)
	}
	if got.Nickname != "alice" {
		t.Errorf("Expected 'alice', got '%s'", got.Nickname)
	}

	if _, err := manager.ResolveToken("nope"); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestManager_CreateRoom(t *testing.T) {
	manager := newTestManager()

	for want := 0; want < 3; want++ {
		room, err := manager.CreateRoom()
		if err != nil {
			t.Fatalf("Failed to create room: %v", err)
		}
		if room.ID != want {
			t.Errorf("Expected room id %d, got %d", want, room.ID)
		}
		if len(room.Game.Field()) != engine.DefaultFieldSize {
			t.Errorf("Expected a dealt field, got %d cards", len(room.Game.Field()))
		}
	}

	rooms := manager.Rooms()
	for i, room := range rooms {
		if room.ID != i {
			t.Errorf("Expected rooms ordered by id, got %d at %d", room.ID, i)
		}
	}

	t.Run("invalid rules", func(t *testing.T) {
		bad := NewManager(engine.Rules{FieldSize: 0, DrawSize: 3})
		if _, err := bad.CreateRoom(); err == nil {
			t.Error("Expected error for invalid rules")
		}
		if _, rooms := bad.Count(); rooms != 0 {
			t.Errorf("Expected no room stored, got %d", rooms)
		}
	})
}

func TestManager_ConcurrentCreateRoom(t *testing.T) {
	manager := newTestManager()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, err := manager.CreateRoom()
			if err != nil {
				t.Errorf("Failed to create room: %v", err)
				return
			}
			ids <- room.ID
		}()
	}
	wg.Wait()
	close(ids)

	var got []int
	for id := range ids {
		got = append(got, id)
	}
	sort.Ints(got)
	for i, id := range got {
		if id != i {
			t.Fatalf("Expected ids 0..%d without gaps or duplicates, got %v", n-1, got)
		}
	}
}

func TestManager_JoinRoom(t *testing.T) {
	manager := newTestManager()
	user, _ := manager.Register("alice", "secret")
	first, _ := manager.CreateRoom()
	second, _ := manager.CreateRoom()

	t.Run("unknown room", func(t *testing.T) {
		if err := manager.JoinRoom(user.Token, 42); !errors.Is(err, service.ErrRoomNotFound) {
			t.Errorf("Expected ErrRoomNotFound, got %v", err)
		}
		if _, err := manager.ResolveUserRoom(user.Token); !errors.Is(err, service.ErrNotInRoom) {
			t.Errorf("Expected ErrNotInRoom, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if err := manager.JoinRoom("nope", first.ID); !errors.Is(err, service.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("join and supersede", func(t *testing.T) {
		if err := manager.JoinRoom(user.Token, first.ID); err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		room, err := manager.ResolveUserRoom(user.Token)
		if err != nil || room.ID != first.ID {
			t.Fatalf("Expected room %d, got %v (%v)", first.ID, room, err)
		}
		if _, ok := first.Game.Snapshot().Scores[user.Token]; !ok {
			t.Error("Expected user on the first room's scoreboard")
		}

		if err := manager.JoinRoom(user.Token, second.ID); err != nil {
			t.Fatalf("Failed to join: %v", err)
		}
		room, _ = manager.ResolveUserRoom(user.Token)
		if room.ID != second.ID {
			t.Errorf("Expected room %d after switching, got %d", second.ID, room.ID)
		}
		if _, ok := first.Game.Snapshot().Scores[user.Token]; !ok {
			t.Error("Expected score in the first room to persist")
		}
	})

	t.Run("resolve unknown token", func(t *testing.T) {
		if _, err := manager.ResolveUserRoom("nope"); !errors.Is(err, service.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestManager_WithStores(t *testing.T) {
	users := NewMemoryStore[string, service.User]()
	rooms := NewMemoryStore[int, *service.Room]()
	manager := NewManager(engine.DefaultRules(),
		WithStores(users, rooms),
		WithHasher(NewBcryptHasher(bcrypt.MinCost)),
	)

	user, _ := manager.Register("alice", "secret")
	manager.CreateRoom()

	if _, ok := users.Get(user.Token); !ok {
		t.Error("Expected user in the injected store")
	}
	if rooms.Len() != 1 {
		t.Errorf("Expected 1 room in the injected store, got %d", rooms.Len())
	}
}
