// Package main serves the statistics dialog to a browser. The shell page at
// http://localhost:<port>/ connects over /ws and receives the same surface
// commands the desktop window does, which makes it usable without the Wails
// runtime for development and E2E tests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/deckstats/internal/config"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/gui"
	"github.com/ramonehamilton/deckstats/internal/printer"
	"github.com/ramonehamilton/deckstats/internal/server"
	"github.com/ramonehamilton/deckstats/internal/server/websocket"
	"github.com/ramonehamilton/deckstats/internal/storage"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
	"github.com/ramonehamilton/deckstats/internal/surface"
	"github.com/ramonehamilton/deckstats/internal/webview"
)

var (
	port        = flag.Int("port", 0, "Server port (default: from config)")
	dbPath      = flag.String("db-path", "", "Database path (default: from config)")
	configPath  = flag.String("config", "", "Config file (default: ~/.deckstats/config.toml)")
	openBrowser = flag.Bool("open", false, "Open the shell in the default browser")
	exportDir   = flag.String("export-dir", "", "Directory for PDF exports until one has been used (default: home directory)")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	fmt.Println("deckstats - statistics server")
	fmt.Println("=============================")
	fmt.Printf("Database: %s\n", cfg.Storage.Path)

	dbConfig := storage.DefaultConfig(cfg.Storage.Path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := gui.NewServices(ctx, cfg, storage.NewService(db))
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	// The socket host and the server share one hub.
	hub := websocket.NewHub(cfg.Server.AllowedOrigins)
	go hub.Run()
	defer hub.Stop()

	host := webview.NewSocketHost(hub)
	stats := gui.NewStatsFacade(services)
	host.OnBridgeCommand(stats.BridgeCommand)

	services.Surfaces = surface.NewFactory(host, services.Loop, printer.New(), surface.Options{Strict: cfg.App.DebugMode})
	services.Shell = gui.Shell{
		Picker:   &gui.DirectoryPicker{Dir: defaultExportDir(), Dirs: services.Storage},
		Browser:  gui.NewEventBrowser(services.Events),
		Notifier: gui.NewEventNotifier(services.Events),
		Window:   &gui.BrowserWindow{Size: geometry(cfg)},
	}
	services.Events.Register(events.NewForwardingObserver("WebSocket", hub, "stats:", "browser:", "assets:"))

	go func() {
		if err := services.Loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("UI loop stopped: %v", err)
		}
	}()

	srv := server.NewServer(&server.Config{
		Port:           cfg.Server.Port,
		OpenBrowser:    *openBrowser,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OverrideDir:    cfg.Assets.OverrideDir,
		Watch:          cfg.Assets.Watch,
	}, server.Deps{
		Stats:  stats,
		Graphs: services.Reports,
		Labels: services.Labels,
		Events: services.Events,
		Hub:    hub,
	})
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Println()
	fmt.Printf("Shell at http://localhost:%d/?deck=<id>\n", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")

	stats.Shutdown()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("Server stopped.")
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadFrom(*configPath)
	}
	return config.Load()
}

func defaultExportDir() string {
	if *exportDir != "" {
		return *exportDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Failed to get home directory: %v", err)
		return "."
	}
	return home
}

func geometry(cfg *config.Config) models.WindowGeometry {
	return models.WindowGeometry{Width: cfg.Window.DefaultWidth, Height: cfg.Window.DefaultHeight}
}
