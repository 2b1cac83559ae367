// Package server serves the statistics shell, its pages and the REST API
// used when the shell runs in a browser.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/deckstats/internal/assets"
	"github.com/ramonehamilton/deckstats/internal/charts"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/server/handlers"
	"github.com/ramonehamilton/deckstats/internal/server/websocket"
)

// Server represents the HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	// Browser auto-open configuration
	openBrowser bool

	allowedOrigins []string
	watch          bool

	// WebSocket hub for real-time events
	wsHub   *websocket.Hub
	ownsHub bool

	stats        handlers.StatsAPI
	graphsSource GraphsSource
	labels       Labels
	assets       *AssetHandler

	cancelWatch context.CancelFunc
}

// Config holds configuration for the server.
type Config struct {
	Port           int
	OpenBrowser    bool // Whether to open the shell in a browser on startup
	AllowedOrigins []string
	OverrideDir    string // Directory whose files replace bundled assets
	Watch          bool   // Watch OverrideDir and report changes
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8765,
		AllowedOrigins: []string{"http://localhost:8765"},
	}
}

// Deps are the collaborators the server routes to.
type Deps struct {
	// Stats backs /api/v1/stats. Nil leaves those routes out.
	Stats  handlers.StatsAPI
	Graphs GraphsSource
	Labels Labels

	// Events receives AssetsChangedEvent. Optional.
	Events events.Dispatcher

	// Hub is used instead of a new hub when set, so a socket host created
	// before the server shares it. The caller runs and stops a hub it passes.
	Hub *websocket.Hub
}

// NewServer creates a new server.
func NewServer(cfg *Config, deps Deps) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	wsHub := deps.Hub
	if wsHub == nil {
		wsHub = websocket.NewHub(cfg.AllowedOrigins)
	}

	s := &Server{
		router:         chi.NewRouter(),
		port:           cfg.Port,
		openBrowser:    cfg.OpenBrowser,
		allowedOrigins: cfg.AllowedOrigins,
		watch:          cfg.Watch,
		wsHub:          wsHub,
		ownsHub:        deps.Hub == nil,
		stats:          deps.Stats,
		graphsSource:   deps.Graphs,
		labels:         deps.Labels,
		assets:         NewAssetHandler(assets.NewStore(cfg.OverrideDir), deps.Events),
	}

	s.assets.Fallback(charts.EChartsScript, charts.EChartsCDN)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Content-Type enforcement for requests with bodies
	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json content-type for requests with bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the router. The desktop app serves it through the Wails
// asset server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the hub and the override watcher, then listens in a goroutine.
func (s *Server) Start() error {
	if s.ownsHub {
		go s.wsHub.Run()
	}
	s.StartWatch()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[Server] Listening on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[Server] Error: %v", err)
		}
	}()

	if s.openBrowser {
		url := fmt.Sprintf("http://localhost:%d/", s.port)
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := openBrowser(url); err != nil {
				log.Printf("[Server] Failed to open browser: %v", err)
			} else {
				log.Printf("[Server] Opened browser to %s", url)
			}
		}()
	}

	return nil
}

// StartWatch watches the override directory when configured. It is a no-op
// when already watching.
func (s *Server) StartWatch() {
	if !s.watch || s.cancelWatch != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelWatch = cancel
	go func() {
		if err := s.assets.Watch(ctx); err != nil {
			log.Printf("[Server] Asset watcher stopped: %v", err)
		}
	}()
}

// openBrowser opens the specified URL in the default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// Shutdown stops the watcher and the hub and gracefully shuts down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelWatch != nil {
		s.cancelWatch()
		s.cancelWatch = nil
	}
	if s.ownsHub {
		s.wsHub.Stop()
	}
	if s.httpServer == nil {
		return nil
	}

	log.Println("[Server] Shutting down...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
