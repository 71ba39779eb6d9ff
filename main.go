// Command set-game starts the Set card game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, the room WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (SET_*, optionally via .env) and are
// overridden by flags: host/port, debug logging, dealing rules, version
// output, and optional ngrok tunneling for external access during development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/set-game/api"
	"github.com/wricardo/set-game/game/config"
	"github.com/wricardo/set-game/game/service"
	"github.com/wricardo/set-game/game/session"
	"github.com/wricardo/set-game/transport/mcp"
	"github.com/wricardo/set-game/transport/websocket"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Set Game Server"
)

// Command-line flags. A flag that is set wins over its environment variable.
var (
	port         = flag.Int("port", 8000, "HTTP server port (env SET_PORT)")
	host         = flag.String("host", "localhost", "HTTP server host (env SET_HOST)")
	debug        = flag.Bool("debug", false, "Enable debug logging (env SET_DEBUG)")
	fieldSize    = flag.Int("field-size", 12, "Cards kept on the field (env SET_FIELD_SIZE)")
	drawSize     = flag.Int("draw-size", 3, "Cards dealt by add (env SET_DRAW_SIZE)")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel (env NGROK_ENABLED)")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (env NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (env NGROK_DOMAIN)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	dotenv, dotenvErr := config.LoadDotEnv()

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if dotenvErr != nil {
		logger.Warn("error loading .env file", zap.Error(dotenvErr))
	} else if dotenv {
		logger.Info("loaded environment variables from .env file")
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	logger.Info("starting",
		zap.String("app", AppName),
		zap.String("version", Version),
		zap.String("mode", mode),
		zap.Int("field_size", cfg.Rules.FieldSize),
		zap.Int("draw_size", cfg.Rules.DrawSize))

	gameService, manager := initializeServices(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		err = runStdioMCPWithInternalServer(ctx, cfg, gameService, logger)
	case "server", "http":
		err = runHTTPServer(ctx, cfg, gameService, logger, nil)
	default:
		logger.Fatal("unknown mode, use 'server' (default) or 'stdio-mcp'", zap.String("mode", mode))
	}

	if err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	users, rooms := manager.Count()
	logger.Info("server stopped", zap.Int("users", users), zap.Int("rooms", rooms))
}

// loadConfig reads the environment and applies explicitly set flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "host":
			cfg.Host = *host
		case "debug":
			cfg.Debug = *debug
		case "field-size":
			cfg.Rules.FieldSize = *fieldSize
		case "draw-size":
			cfg.Rules.DrawSize = *drawSize
		case "ngrok":
			cfg.Ngrok.Enabled = *ngrokEnabled
		case "ngrok-auth":
			cfg.Ngrok.AuthToken = *ngrokAuth
		case "ngrok-domain":
			cfg.Ngrok.Domain = *ngrokDomain
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initializeServices wires the registry and the game service
func initializeServices(cfg *config.Config, logger *zap.Logger) (service.GameService, *session.Manager) {
	manager := session.NewManager(cfg.Rules,
		session.WithHasher(session.NewBcryptHasher(cfg.BcryptCost)),
		session.WithLogger(logger))

	return service.NewGameService(manager, logger), manager
}

// newHandler combines the REST API, the WebSocket hub and the /mcp endpoint.
// The MCP tools call the REST API back at baseURL.
func newHandler(gameService service.GameService, hub *websocket.Hub, baseURL string, logger *zap.Logger) http.Handler {
	apiServer := api.NewServer(gameService, hub, logger)
	apiServer.Handle("/mcp", mcp.NewClient(baseURL).Handler())
	return apiServer
}

// runHTTPServer serves until ctx is cancelled. A nil listener listens on
// cfg.Addr(). If ngrok is enabled it also serves through a public tunnel.
func runHTTPServer(ctx context.Context, cfg *config.Config, gameService service.GameService, logger *zap.Logger, listener net.Listener) error {
	if listener == nil {
		var err error
		if listener, err = net.Listen("tcp", cfg.Addr()); err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
	}
	addr := listener.Addr().String()

	hub := websocket.NewHub(logger)
	handler := newHandler(gameService, hub, "http://"+addr, logger)

	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server listening",
			zap.String("rest", "http://"+addr+"/set"),
			zap.String("websocket", "ws://"+addr+"/ws?accessToken=<token>"),
			zap.String("mcp", "http://"+addr+"/mcp"))

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	if cfg.Ngrok.Enabled {
		g.Go(func() error {
			serveNgrok(ctx, cfg.Ngrok, handler, logger)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is cancelled.
// Tunnel failures are logged and never stop the local server.
func serveNgrok(ctx context.Context, cfg config.NgrokConfig, handler http.Handler, logger *zap.Logger) {
	if cfg.AuthToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use -ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
		logger.Info("using custom ngrok domain", zap.String("domain", cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	url := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", url),
		zap.String("websocket", url+"/ws?accessToken=<token>"),
		zap.String("mcp", url+"/mcp"))

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on cfg.Addr(); if there is none, it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg *config.Config, gameService service.GameService, logger *zap.Logger) error {
	externalURL := "http://" + cfg.Addr()
	logger.Info("checking for external API server", zap.String("url", externalURL))

	probeCtx, cancelProbe := context.WithTimeout(ctx, 2*time.Second)
	defer cancelProbe()

	ctx, stopAll := context.WithCancel(ctx)
	defer stopAll()
	g, ctx := errgroup.WithContext(ctx)

	baseURL := externalURL
	if err := api.NewClient(externalURL, nil).Health(probeCtx); err != nil {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()
		logger.Info("no external API server found, starting internal HTTP server", zap.String("url", baseURL))

		g.Go(func() error {
			return runHTTPServer(ctx, cfg, gameService, logger, listener)
		})
	} else {
		logger.Info("external API server found, using it for MCP")
	}

	mcpClient := mcp.NewClient(baseURL)
	g.Go(func() error {
		// stdin closed: stop the internal server as well
		defer stopAll()
		return server.ServeStdio(mcpClient.GetMCPServer())
	})

	return g.Wait()
}
