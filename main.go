// Command battleships-server starts the Battleships game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server with the REST API, WebSocket updates,
//     the HTML form game at / and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (and a .env file) and can be overridden by flags.
// Optional ngrok tunneling gives easy external access during development.
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/battleships/api"
	"github.com/wricardo/battleships/game/config"
	"github.com/wricardo/battleships/game/service"
	"github.com/wricardo/battleships/game/session"
	"github.com/wricardo/battleships/transport/mcp"
	"github.com/wricardo/battleships/transport/websocket"
	"github.com/wricardo/battleships/web"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Battleships Game Server"
)

// serverConfig holds process settings read from the environment
type serverConfig struct {
	Port       int           `env:"PORT" envDefault:"8080"`
	Host       string        `env:"HOST" envDefault:"localhost"`
	ConfigDir  string        `env:"CONFIG_DIR" envDefault:"configs"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`
	SecretKey  string        `env:"SECRET_KEY"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Debug      bool          `env:"DEBUG"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`

	ShowVersion bool
}

// Addr is the host:port the HTTP server listens on
func (c serverConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// loadConfig reads settings from the environment, then applies command-line flags.
// It returns the remaining arguments, the first of which selects the mode.
func loadConfig(args []string) (serverConfig, []string, error) {
	cfg, err := env.ParseAs[serverConfig]()
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.NgrokAuthToken == "" {
		cfg.NgrokAuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	fs.StringVar(&cfg.ConfigDir, "config-dir", cfg.ConfigDir, "Directory containing game presets")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Remove sessions idle for longer than this")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.NgrokEnabled, "ngrok", cfg.NgrokEnabled, "Enable ngrok tunnel")
	fs.StringVar(&cfg.NgrokAuthToken, "ngrok-auth", cfg.NgrokAuthToken, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	fs.StringVar(&cfg.NgrokDomain, "ngrok-domain", cfg.NgrokDomain, "Custom ngrok domain (optional)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}
	if cfg.SessionTTL <= 0 {
		return cfg, nil, fmt.Errorf("session TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, fs.Args(), nil
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintf(out, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
	fmt.Fprintf(out, "%s v%s\n\n", AppName, Version)
	fmt.Fprintf(out, "Available modes:\n")
	fmt.Fprintf(out, "  server, http     Run HTTP server with API, web game, WebSocket, and MCP endpoint (default)\n")
	fmt.Fprintf(out, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
	fmt.Fprintf(out, "  mcp-stdio        Alias for stdio-mcp\n")
	fmt.Fprintf(out, "  mcp              Alias for stdio-mcp\n")
	fmt.Fprintf(out, "\nOptions:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
	fmt.Fprintf(out, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
	fmt.Fprintf(out, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
}

// setupLogging configures the global zerolog logger. Logs always go to stderr
// so stdout stays free for the MCP stdio protocol.
func setupLogging(cfg serverConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Debug {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Caller().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// main parses settings, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	cfg, args, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	setupLogging(cfg)

	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}
	log.Info().Str("version", Version).Str("mode", mode).Msgf("Starting %s", AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameService, sessions, err := initializeServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	go sessionCleanupRoutine(ctx, sessions, cfg.SessionTTL, cleanupInterval(cfg.SessionTTL))

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(ctx, cfg, gameService)

	case "server", "http":
		runHTTPServer(ctx, cfg, gameService)

	default:
		log.Fatal().Str("mode", mode).Msg("Unknown mode. Use 'server' (default) or 'stdio-mcp'")
	}
}

// initializeServices wires the session and config managers into the game service
func initializeServices(cfg serverConfig) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)
	return gameService, sessionManager, nil
}

// resolveSecret returns the cookie signing key. Without SECRET_KEY a random key is
// generated, so web sessions do not survive a restart.
func resolveSecret(cfg serverConfig) ([]byte, error) {
	if cfg.SecretKey != "" {
		return []byte(cfg.SecretKey), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}
	log.Warn().Msg("SECRET_KEY is not set; using a random key, web games will not survive a restart")
	return secret, nil
}

// buildHandler combines the REST API, the web game and the /mcp endpoint
func buildHandler(cfg serverConfig, gameService service.GameService, hub *websocket.Hub, baseURL string) (http.Handler, error) {
	secret, err := resolveSecret(cfg)
	if err != nil {
		return nil, err
	}

	webHandler, err := web.NewHandler(gameService, secret,
		web.WithCookieTTL(cfg.SessionTTL),
		web.WithBroadcaster(hub),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create web handler: %w", err)
	}

	apiServer := api.NewServer(gameService, hub)
	apiServer.Mount(webHandler)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return mainRouter, nil
}

// mcpHandler serves single MCP JSON-RPC messages over HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runHTTPServer serves the game until ctx is canceled.
// If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg serverConfig, gameService service.GameService) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	addr := cfg.Addr()
	mainRouter, err := buildHandler(cfg, gameService, hub, "http://"+addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build HTTP handler")
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("web", fmt.Sprintf("http://%s/", addr)).
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is canceled
func runNgrokTunnel(ctx context.Context, cfg serverConfig, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Info().Str("domain", cfg.NgrokDomain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().
		Str("url", ngrokURL).
		Str("web", ngrokURL+"/").
		Str("api", ngrokURL+"/api").
		Str("mcp", ngrokURL+"/mcp").
		Msg("Ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

// cleanupInterval checks for idle sessions a few times per TTL, at most hourly
func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge, until ctx is canceled.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Info().Int("removed", removed).Int("remaining", manager.Count()).Msg("Cleaned up expired sessions")
			}
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on the configured address; if there is none, it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg serverConfig, gameService service.GameService) {
	externalURL := "http://" + cfg.Addr()
	log.Info().Str("url", externalURL).Msg("Checking for external API server")

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get available port")
		}
		baseURL = "http://" + listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("url", baseURL).Msg("Internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatal().Err(err).Msg("MCP stdio server error")
	}
}

// apiAvailable reports whether a game API answers health checks at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
