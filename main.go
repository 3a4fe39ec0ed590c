// Command subhunter starts the Sub Hunter game server.
//
// It supports three commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" – plays in the terminal, one shot per line
//
// Settings come from the environment (and a .env file); flags override them.
// An optional ngrok tunnel gives easy external access during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/subhunter/api"
	"github.com/wricardo/subhunter/game/config"
	"github.com/wricardo/subhunter/game/service"
	"github.com/wricardo/subhunter/game/session"
	"github.com/wricardo/subhunter/transport/mcp"
	"github.com/wricardo/subhunter/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Sub Hunter Server"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if envErr != nil && !os.IsNotExist(envErr) {
		log.Warn().Err(envErr).Msg("failed to load .env file")
	}

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("subhunter exited")
		os.Exit(1)
	}
}

// newApp builds the command tree. Flags have no defaults of their own:
// unset flags leave the environment settings in place.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "subhunter",
		Usage:   "find the hidden submarine",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host (env HOST, default localhost)"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port (env PORT, default 8080)"},
			&cli.StringFlag{Name: "config-dir", Usage: "directory containing board configurations (env CONFIG_DIR)"},
			&cli.BoolFlag{Name: "debug", Usage: "enable the debug overlay (env DEBUG)"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error (env LOG_LEVEL)"},
			&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel (env NGROK_ENABLED)"},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token (env NGROK_AUTHTOKEN)"},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (env NGROK_DOMAIN)"},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "board configuration ID (default: the server default)"},
					&cli.Uint64Flag{Name: "seed", Usage: "seed for submarine placement"},
				},
				Action: runPlay,
			},
		},
	}
}

// loadSettings reads the environment, applies flag overrides and sets up logging
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		settings.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Port = cmd.Int("port")
	}
	if cmd.IsSet("config-dir") {
		settings.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("debug") {
		settings.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("log-level") {
		settings.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("ngrok") {
		settings.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		settings.NgrokAuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		settings.NgrokDomain = cmd.String("ngrok-domain")
	}

	setupLogging(settings.Level())
	return settings, nil
}

// setupLogging writes to stderr so stdout stays free for MCP stdio and the terminal game
func setupLogging(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// initializeServices wires session/config managers and the game service
func initializeServices(settings *config.Settings) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager, service.WithDebug(settings.Debug))

	return gameService, sessionManager, nil
}

// newHandler mounts the API server at root and the MCP proxy at /mcp
func newHandler(apiServer *api.Server, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpClient.HTTPHandler())
	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	gameService, sessionManager, err := initializeServices(settings)
	if err != nil {
		return err
	}

	hub := websocket.NewHub()
	addr := net.JoinHostPort(settings.Host, fmt.Sprint(settings.Port))
	handler := newHandler(api.NewServer(gameService, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("version", Version).Str("addr", addr).Bool("debug", settings.Debug).Msg("starting " + AppName)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Info().
			Str("api", "http://"+addr+"/api").
			Str("docs", "http://"+addr+"/docs/").
			Str("websocket", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sessionCleanupRoutine(gctx, sessionManager, settings.CleanupInterval, settings.SessionTTL)
		return nil
	})

	if settings.NgrokEnabled {
		g.Go(func() error {
			return runNgrok(gctx, settings, handler)
		})
	}

	err = g.Wait()
	log.Info().Msg("server stopped")
	return err
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(ttl)
		}
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done. A
// missing auth token disables the tunnel without stopping the server.
func runNgrok(ctx context.Context, settings *config.Settings, handler http.Handler) error {
	authToken := settings.NgrokAuthToken
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return nil
	}

	var opts []ngrokConfig.HTTPEndpointOption
	if settings.NgrokDomain != "" {
		opts = append(opts, ngrokConfig.WithDomain(settings.NgrokDomain))
	}

	tun, err := ngrok.Listen(ctx, ngrokConfig.HTTPEndpoint(opts...), ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return nil
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("mcp", ngrokURL+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
	return nil
}

// externalServerAvailable reports whether a Sub Hunter server answers at baseURL
func externalServerAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at the
// configured host and port; if none answers, it starts an internal HTTP API
// on a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	externalURL := "http://" + net.JoinHostPort(settings.Host, fmt.Sprint(settings.Port))
	if externalServerAvailable(ctx, externalURL) {
		log.Info().Str("url", externalURL).Msg("MCP stdio server ready (using external HTTP server)")
		return server.ServeStdio(mcp.NewClient(externalURL).GetMCPServer())
	}

	gameService, _, err := initializeServices(settings)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("internal http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpServer.Close()
	})

	baseURL := "http://" + listener.Addr().String()
	log.Info().Str("url", baseURL).Msg("MCP stdio server ready (using internal HTTP server)")

	g.Go(func() error {
		// stdin closed: stop the internal server too
		defer cancel()
		return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
	})

	return g.Wait()
}
