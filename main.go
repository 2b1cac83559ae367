package main

import (
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/ramonehamilton/deckstats/internal/config"
	"github.com/ramonehamilton/deckstats/internal/i18n"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	err = wails.Run(&options.App{
		Title:     app.services.Labels.T(i18n.Stats),
		Width:     cfg.Window.DefaultWidth,
		Height:    cfg.Window.DefaultHeight,
		MinWidth:  cfg.Window.MinWidth,
		MinHeight: cfg.Window.DefaultHeight / 2,
		AssetServer: &assetserver.Options{
			Handler: app.server.Handler(),
		},
		OnStartup:  app.startup,
		OnDomReady: app.domReady,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app.stats,
		},
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}
