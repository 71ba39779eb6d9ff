package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/set-game/api"
	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/engine"
	"github.com/wricardo/set-game/game/service"
	"github.com/wricardo/set-game/game/session"
	"golang.org/x/crypto/bcrypt"
)

func newBackend(t *testing.T, rules engine.Rules) *httptest.Server {
	t.Helper()
	manager := session.NewManager(rules,
		session.WithHasher(session.NewBcryptHasher(bcrypt.MinCost)))
	server := httptest.NewServer(api.NewServer(service.NewGameService(manager, nil), nil, nil))
	t.Cleanup(server.Close)
	return server
}

func TestBotPlaysToTheEnd(t *testing.T) {
	backend := newBackend(t, engine.DefaultRules())
	bot := NewBot(api.NewClient(backend.URL, nil), nil, 0, 0)

	summary, err := bot.Play(context.Background(), "bot", "pw", NewRoom)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if summary.RoomID != 0 {
		t.Errorf("Expected room 0, got %d", summary.RoomID)
	}
	if summary.Misses != 0 {
		t.Errorf("A bot picking real sets should never miss, got %d", summary.Misses)
	}
	if summary.Score != summary.Sets {
		t.Errorf("Expected score %d to equal sets claimed, got %d", summary.Sets, summary.Score)
	}
	if summary.Ended && summary.Sets != card.DeckSize/card.SetSize {
		t.Errorf("An ended game means every card was claimed, got %d sets", summary.Sets)
	}
	if !summary.Ended && summary.Reason == "" {
		t.Error("Expected a reason for stopping")
	}
	if len(summary.Scores) != 1 || summary.Scores[0].Name != "bot" {
		t.Errorf("Unexpected scoreboard %+v", summary.Scores)
	}
}

func TestBotTurnLimit(t *testing.T) {
	backend := newBackend(t, engine.DefaultRules())
	bot := NewBot(api.NewClient(backend.URL, nil), nil, 0, 2)

	summary, err := bot.Play(context.Background(), "bot", "pw", NewRoom)
	if !errors.Is(err, ErrTooManyTurns) {
		t.Fatalf("Expected ErrTooManyTurns, got %v", err)
	}
	if summary == nil || summary.Sets+summary.Draws != 2 {
		t.Errorf("Expected two turns to be played, got %+v", summary)
	}
}

func TestBotUnknownRoom(t *testing.T) {
	backend := newBackend(t, engine.DefaultRules())
	bot := NewBot(api.NewClient(backend.URL, nil), nil, 0, 0)

	_, err := bot.Play(context.Background(), "bot", "pw", 5)
	if !api.IsRemoteKind(err, service.KindNotFound) {
		t.Errorf("Expected not_found error, got %v", err)
	}
}

func TestBotsShareARoom(t *testing.T) {
	backend := newBackend(t, engine.DefaultRules())
	client := api.NewClient(backend.URL, nil)

	host, err := client.Register(context.Background(), "host", "pw")
	if err != nil {
		t.Fatal(err)
	}
	roomID, err := client.CreateRoom(context.Background(), host.AccessToken)
	if err != nil {
		t.Fatal(err)
	}

	type result struct {
		summary *Summary
		err     error
	}
	results := make(chan result, 2)
	for _, name := range []string{"one", "two"} {
		go func(name string) {
			s, err := NewBot(client, nil, 0, 0).Play(context.Background(), name, "pw", roomID)
			results <- result{s, err}
		}(name)
	}

	total := 0
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("Play failed: %v", r.err)
		}
		total = max(total, r.summary.Sets)
	}
	if total == 0 {
		t.Error("Expected at least one set to be claimed")
	}
}

func TestSimulate(t *testing.T) {
	stats, err := Simulate(50, 7, engine.DefaultRules())
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if stats.Games != 50 || stats.Ended+stats.Stuck != 50 {
		t.Errorf("Every game must end or get stuck: %+v", stats)
	}
	if stats.MaxField < engine.DefaultFieldSize {
		t.Errorf("Field never reached its opening size: %d", stats.MaxField)
	}
	if stats.Sets < stats.Ended*card.DeckSize/card.SetSize {
		t.Errorf("Ended games must claim all 27 sets: %+v", stats)
	}

	again, _ := Simulate(50, 7, engine.DefaultRules())
	if again != stats {
		t.Error("Simulation with the same seed must be deterministic")
	}

	if _, err := Simulate(1, 1, engine.Rules{FieldSize: 1, DrawSize: 3}); err == nil {
		t.Error("Expected invalid rules to be reported")
	}
}

func TestAppAnalyze(t *testing.T) {
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"setbot", "analyze", "--games", "5", "--seed", "3"})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	for _, want := range []string{"Games simulated:        5", "Sets in full deck:      1080"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, out.String())
		}
	}
}

func TestAppRooms(t *testing.T) {
	backend := newBackend(t, engine.DefaultRules())

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{"setbot", "--server", backend.URL, "rooms"})
	if err != nil {
		t.Fatalf("rooms failed: %v", err)
	}
	if !strings.Contains(out.String(), "Rooms: 0") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestAppPlay(t *testing.T) {
	backend := newBackend(t, engine.DefaultRules())

	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), []string{
		"setbot", "--server", backend.URL, "play", "--delay", "0s", "--nickname", "cli",
	})
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if !strings.Contains(out.String(), "1. cli:") {
		t.Errorf("Expected scoreboard in output, got %q", out.String())
	}
}
