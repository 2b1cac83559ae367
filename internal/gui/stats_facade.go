package gui

import (
	"context"
	"errors"
	"log"

	"github.com/ramonehamilton/deckstats/internal/dialogs"
	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// StatsFacade is bound to the front end and drives the statistics dialog.
// Every call hops onto the UI loop; only one dialog is shown at a time.
type StatsFacade struct {
	services *Services

	// Only touched on the UI loop.
	current *statsview.Controller
}

// NewStatsFacade creates a new StatsFacade.
func NewStatsFacade(services *Services) *StatsFacade {
	return &StatsFacade{services: services}
}

func (f *StatsFacade) ctx() context.Context {
	if f.services.Context != nil {
		return f.services.Context
	}
	return context.Background()
}

// onLoop runs fn on the UI loop and converts its error for the front end.
func (f *StatsFacade) onLoop(action string, fn func() error) error {
	if f.services.Loop == nil {
		return &AppError{Message: "Statistics view not initialized"}
	}
	if err := f.services.Loop.Call(f.ctx(), fn); err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return appError("Failed to "+action, err)
	}
	return nil
}

// OpenStats shows the paginated statistics page for deckID.
func (f *StatsFacade) OpenStats(deckID int64) error {
	return f.open(statsview.NameGraphs, deckID)
}

// OpenLegacyStats shows the legacy aggregate report for deckID.
func (f *StatsFacade) OpenLegacyStats(deckID int64) error {
	return f.open(statsview.NameLegacy, deckID)
}

// OpenCurrentDeck shows the paginated page for the collection's current deck.
func (f *StatsFacade) OpenCurrentDeck() error {
	if f.services.Storage == nil {
		return &AppError{Message: "Database not initialized"}
	}
	deck, err := f.services.Storage.CurrentDeck(f.ctx())
	if err != nil {
		return appError("Failed to find current deck", err)
	}
	return f.OpenStats(deck.ID)
}

func (f *StatsFacade) open(name string, deckID int64) error {
	return f.onLoop("open statistics", func() error {
		if f.current != nil && f.current.Name() != name && !f.current.Snapshot().Closed {
			// The host region shows one dialog at a time.
			if err := f.current.Close(); err != nil {
				log.Printf("[StatsFacade] Closing %s: %v", f.current.Name(), err)
			}
		}

		d, created, err := f.services.Registry.Open(name, func() (dialogs.Closer, error) {
			return f.newController(name), nil
		})
		if err != nil {
			return err
		}
		ctl := d.(*statsview.Controller)
		f.current = ctl
		if !created {
			f.services.Shell.Window.Activate()
			return nil
		}
		if name == statsview.NameLegacy {
			return ctl.InitializeLegacy(deckID)
		}
		return ctl.Initialize(deckID)
	})
}

func (f *StatsFacade) newController(name string) *statsview.Controller {
	s := f.services
	opts := statsview.Options{Name: name}
	if s.Config != nil {
		opts.Debug = s.Config.App.DebugMode
		opts.BridgeRate = s.Config.Bridge.CommandsPerSecond
		opts.BridgeBurst = s.Config.Bridge.Burst
		if p, err := selection.ParsePeriod(s.Config.Stats.DefaultPeriod); err == nil {
			opts.DefaultPeriod = p
		}
	}
	deps := statsview.Deps{
		Loop:     s.Loop,
		Surfaces: s.Surfaces,
		Reports:  s.Reports,
		Picker:   s.Shell.Picker,
		Browser:  s.Shell.Browser,
		Notifier: s.Shell.Notifier,
		Window:   s.Shell.Window,
		Registry: s.Registry,
		Labels:   s.Labels,
	}
	if s.Storage != nil {
		deps.Decks = s.Storage
		deps.Cards = s.Storage.Cards()
		deps.Geometry = s.Storage
	}
	if s.Events != nil {
		deps.Events = s.Events
	}
	return statsview.New(deps, opts)
}

// active returns the open controller or an error for the front end.
func (f *StatsFacade) active() (*statsview.Controller, error) {
	if f.current == nil || f.current.Snapshot().Closed {
		return nil, &AppError{Message: "Statistics are not open", Err: statsview.ErrClosed}
	}
	return f.current, nil
}

// SelectDeck switches the report to deckID.
func (f *StatsFacade) SelectDeck(deckID int64) error {
	return f.onLoop("change deck", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		return ctl.OnSubjectChanged(deckID)
	})
}

// SelectCard shows the card info report of cardID.
func (f *StatsFacade) SelectCard(cardID int64) error {
	return f.onLoop("show card", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		return ctl.OnCardSelected(cardID)
	})
}

// SetWholeCollection switches the legacy report scope.
func (f *StatsFacade) SetWholeCollection(whole bool) error {
	return f.onLoop("change scope", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		return ctl.OnScopeChanged(whole)
	})
}

// SetPeriod changes the legacy report period ("month", "year" or "life").
func (f *StatsFacade) SetPeriod(period string) error {
	p, err := selection.ParsePeriod(period)
	if err != nil {
		return appError("Invalid period", err)
	}
	return f.onLoop("change period", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		return ctl.OnPeriodChanged(p)
	})
}

// SavePDF exports the shown legacy report. The result arrives as a tooltip
// or notice event.
func (f *StatsFacade) SavePDF() error {
	return f.onLoop("save PDF", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		if err := ctl.ExportCurrentViewToPDF(); err != nil {
			if errors.Is(err, statsview.ErrExportUnsupported) {
				return &AppError{Message: "Only card and legacy reports can be saved as PDF", Err: err}
			}
			return err
		}
		return nil
	})
}

// Close closes the statistics dialog.
func (f *StatsFacade) Close() error {
	return f.onLoop("close statistics", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		return ctl.Close()
	})
}

// CardChoices lists the cards of the selected deck.
func (f *StatsFacade) CardChoices() ([]int64, error) {
	type result struct {
		ids []int64
		err error
	}
	ch := make(chan result, 1)
	err := f.onLoop("list cards", func() error {
		ctl, err := f.active()
		if err != nil {
			return err
		}
		ctl.CardChoices().Then(func(ids []int64, err error) {
			ch <- result{ids, err}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	select {
	case r := <-ch:
		if r.err != nil {
			return nil, appError("Failed to list cards", r.err)
		}
		return r.ids, nil
	case <-f.ctx().Done():
		return nil, appError("Failed to list cards", f.ctx().Err())
	}
}

// State returns the dialog state, or nil when nothing is open.
func (f *StatsFacade) State() (*statsview.Snapshot, error) {
	var snap *statsview.Snapshot
	err := f.onLoop("read state", func() error {
		if f.current != nil {
			s := f.current.Snapshot()
			snap = &s
		}
		return nil
	})
	return snap, err
}

// ListDecks returns all decks for the deck chooser.
func (f *StatsFacade) ListDecks() ([]*models.Deck, error) {
	if f.services.Storage == nil {
		return nil, &AppError{Message: "Database not initialized"}
	}
	decks, err := f.services.Storage.Decks().List(f.ctx())
	if err != nil {
		return nil, appError("Failed to list decks", err)
	}
	return decks, nil
}

// BridgeCommand routes a command posted by rendered content to the open
// dialog. It does not wait for the command to run.
func (f *StatsFacade) BridgeCommand(cmd string) {
	f.services.Loop.Post(func() {
		if f.current == nil {
			log.Printf("[StatsFacade] Bridge command %q with no dialog open", cmd)
			return
		}
		f.current.OnBridgeCommand(cmd)
	})
}

// Shutdown closes every open dialog and waits until they have closed.
func (f *StatsFacade) Shutdown() {
	done := make(chan struct{})
	err := f.services.Loop.Call(f.ctx(), func() error {
		f.services.Registry.CloseAll(func() { close(done) })
		return nil
	})
	if err != nil {
		log.Printf("[StatsFacade] Shutdown: %v", err)
		return
	}
	<-done
}
