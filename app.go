package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ramonehamilton/deckstats/internal/config"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/gui"
	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/printer"
	"github.com/ramonehamilton/deckstats/internal/server"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/storage"
	"github.com/ramonehamilton/deckstats/internal/surface"
	"github.com/ramonehamilton/deckstats/internal/webview"
)

// App is the desktop statistics window.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	db       *storage.DB
	services *gui.Services
	stats    *gui.StatsFacade
	server   *server.Server
	host     *webview.WindowHost

	quitting atomic.Bool
}

// NewApp opens the collection and builds everything that does not need the
// Wails runtime.
func NewApp(cfg *config.Config) (*App, error) {
	dbConfig := storage.DefaultConfig(cfg.Storage.Path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	services, err := gui.NewServices(context.Background(), cfg, storage.NewService(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	stats := gui.NewStatsFacade(services)
	srv := server.NewServer(&server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OverrideDir:    cfg.Assets.OverrideDir,
		Watch:          cfg.Assets.Watch,
	}, server.Deps{
		Stats:  stats,
		Graphs: services.Reports,
		Labels: services.Labels,
		Events: services.Events,
	})

	return &App{db: db, services: services, stats: stats, server: srv}, nil
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	s := a.services
	s.Context = a.ctx

	a.host = webview.NewWindowHost(webview.NewRuntime(ctx))
	a.host.OnBridgeCommand(a.stats.BridgeCommand)

	window := gui.NewWailsWindow(ctx)
	if g, err := s.Storage.Geometry(a.ctx, statsview.NameGraphs); err == nil {
		window.Restore(g)
	}

	s.Surfaces = surface.NewFactory(a.host, s.Loop, printer.New(), surface.Options{Strict: s.Config.App.DebugMode})
	s.Shell = gui.Shell{
		Picker:   gui.NewWailsFilePicker(ctx, s.Storage),
		Browser:  gui.NewEventBrowser(s.Events),
		Notifier: gui.NewEventNotifier(s.Events),
		Window:   window,
	}
	s.Events.Register(events.NewForwardingObserver("WailsFrontend", gui.NewWailsEmitter(ctx), "stats:", "browser:", "assets:"))
	s.Events.Register(&closeObserver{app: a})

	go func() {
		if err := s.Loop.Run(a.ctx); err != nil && a.ctx.Err() == nil {
			log.Printf("[App] UI loop stopped: %v", err)
		}
	}()
	a.server.StartWatch()
}

// domReady opens the dialog once the shell page can receive surface commands.
func (a *App) domReady(ctx context.Context) {
	go func() {
		if err := a.stats.OpenCurrentDeck(); err != nil {
			log.Printf("[App] Failed to open statistics: %v", err)
			wailsruntime.MessageDialog(ctx, wailsruntime.MessageDialogOptions{
				Type:    wailsruntime.ErrorDialog,
				Title:   a.services.Labels.T(i18n.Stats),
				Message: err.Error(),
			})
		}
	}()
}

// shutdown is called when the app shuts down
func (a *App) shutdown(ctx context.Context) {
	a.quitting.Store(true)
	a.stats.Shutdown()
	if err := a.server.Shutdown(ctx); err != nil {
		log.Printf("[App] Server shutdown: %v", err)
	}
	if a.host != nil {
		a.host.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.db.Close(); err != nil {
		log.Printf("[App] Error closing database: %v", err)
	}
}

// closeObserver quits the app once the user closed the last dialog. Switching
// between dialogs closes one and opens the other in the same loop task, so the
// check is posted behind it.
type closeObserver struct {
	app *App
}

func (o *closeObserver) OnEvent(event events.Event) error {
	s := o.app.services
	s.Loop.Post(func() {
		if s.Registry.IsOpen(statsview.NameGraphs) || s.Registry.IsOpen(statsview.NameLegacy) {
			return
		}
		if o.app.quitting.CompareAndSwap(false, true) {
			wailsruntime.Quit(o.app.ctx)
		}
	})
	return nil
}

func (o *closeObserver) GetName() string { return "closeObserver" }

func (o *closeObserver) ShouldHandle(eventType string) bool { return eventType == events.TypeClosed }
