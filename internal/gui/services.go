package gui

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/deckstats/internal/async"
	"github.com/ramonehamilton/deckstats/internal/config"
	"github.com/ramonehamilton/deckstats/internal/dialogs"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/storage"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

// Shell holds the front-end specific collaborators of the stats dialog.
// The desktop app and browser mode fill it differently.
type Shell struct {
	Picker   statsview.FilePicker
	Browser  statsview.Browser
	Notifier statsview.Notifier
	Window   statsview.Window
}

// Services contains all shared services needed by facades.
type Services struct {
	// Context for the application
	Context context.Context

	Config  *config.Config
	Storage *storage.Service
	Reports *report.Source
	Labels  *i18n.Translator

	// UI loop every controller call runs on
	Loop *async.Loop

	Registry *dialogs.Registry
	Events   *events.EventDispatcher
	Surfaces surface.Factory
	Shell    Shell
}

// NewServices creates the services shared by every front end over an open
// storage service. Surfaces and Shell depend on the front end and are left
// for the caller.
func NewServices(ctx context.Context, cfg *config.Config, svc *storage.Service) (*Services, error) {
	labels, err := i18n.New(cfg.App.Language)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(events.NewLoggingObserver(cfg.App.DebugMode))
	return &Services{
		Context:  ctx,
		Config:   cfg,
		Storage:  svc,
		Reports:  report.NewSource(svc, labels),
		Labels:   labels,
		Loop:     async.NewLoop(),
		Registry: dialogs.NewRegistry(),
		Events:   dispatcher,
	}, nil
}

// AppError represents an application error with a user-friendly message.
type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"` // Wrapped error for errors.Is/As chain
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func appError(message string, err error) *AppError {
	if err == nil {
		return &AppError{Message: message}
	}
	return &AppError{Message: message + ": " + err.Error(), Err: err}
}
