package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/wricardo/set-game/api"
	"github.com/wricardo/set-game/game/config"
	"github.com/wricardo/set-game/game/engine"
	"go.uber.org/zap"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Set Game Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *fieldSize != engine.DefaultFieldSize || *drawSize != engine.DefaultDrawSize {
		t.Errorf("Rule flags should default to the standard rules, got %d/%d", *fieldSize, *drawSize)
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SET_PORT", "7000")
	t.Setenv("SET_FIELD_SIZE", "9")

	if err := flag.Set("port", "7100"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { flag.Set("port", "8000") })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.Port != 7100 {
		t.Errorf("Expected flag port 7100, got %d", cfg.Port)
	}
	if cfg.Rules.FieldSize != 9 {
		t.Errorf("Expected env field size 9, got %d", cfg.Rules.FieldSize)
	}
}

func TestRunHTTPServer(t *testing.T) {
	cfg := &config.Config{Host: "127.0.0.1", Rules: engine.DefaultRules(), BcryptCost: 4}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	baseURL := "http://" + listener.Addr().String()

	gameService, manager := initializeServices(cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runHTTPServer(ctx, cfg, gameService, zap.NewNop(), listener)
	}()

	client := api.NewClient(baseURL, nil)
	deadline := time.Now().Add(2 * time.Second)
	for client.Health(context.Background()) != nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not come up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	reg, err := client.Register(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := client.CreateRoom(context.Background(), reg.AccessToken); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	// the MCP endpoint is mounted next to the API
	resp, err := http.Get(baseURL + "/mcp")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected /mcp to answer 405 to GET, got %d", resp.StatusCode)
	}

	if users, rooms := manager.Count(); users != 1 || rooms != 1 {
		t.Errorf("Expected 1 user and 1 room, got %d and %d", users, rooms)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
