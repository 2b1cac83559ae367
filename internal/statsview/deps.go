package statsview

import (
	"context"
	"time"

	"github.com/ramonehamilton/deckstats/internal/async"
	"github.com/ramonehamilton/deckstats/internal/dialogs"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

// ReportSource builds report content.
type ReportSource interface {
	Aggregate(ctx context.Context, subject selection.Subject, period selection.Period) (*report.Report, error)
	SingleCard(ctx context.Context, cardID int64, includeRevlog bool) (*report.Report, error)
}

// DeckPersistence records the collection's current deck.
type DeckPersistence interface {
	SetCurrentDeck(ctx context.Context, deckID int64) error
}

// CardLister lists the cards of a deck for the card selector.
type CardLister interface {
	ListIDsByDeck(ctx context.Context, deckID int64) ([]int64, error)
}

// SaveRequest describes a save dialog.
type SaveRequest struct {
	Title string
	Key   string // Remembers the last directory per key
	Ext   string
	Name  string // Suggested file name
}

// FilePicker asks the user where to save. An empty path means cancelled.
type FilePicker interface {
	ChooseSaveDestination(ctx context.Context, req SaveRequest) (string, error)
}

// Browser opens the card browser with a search.
type Browser interface {
	OpenAndSearch(ctx context.Context, query string) error
}

// Notifier shows transient messages and non-fatal errors.
type Notifier interface {
	Tooltip(msg string)
	Notice(err error)
}

// Window is the dialog window hosting the surface.
type Window interface {
	Show()
	Activate()
	Geometry() models.WindowGeometry
	Close()
}

// GeometryStore persists window geometry by dialog name.
type GeometryStore interface {
	SaveGeometry(ctx context.Context, name string, g models.WindowGeometry) error
}

// Labels resolves localized strings.
type Labels interface {
	T(key string, params ...string) string
}

// Deps are the collaborators of a Controller. Cards and Events are optional.
type Deps struct {
	Loop     *async.Loop
	Surfaces surface.Factory
	Reports  ReportSource
	Decks    DeckPersistence
	Cards    CardLister
	Picker   FilePicker
	Browser  Browser
	Notifier Notifier
	Window   Window
	Geometry GeometryStore
	Registry *dialogs.Registry
	Labels   Labels
	Events   events.Dispatcher
	Clock    func() time.Time
}

// Options tune a Controller.
type Options struct {
	// Name registers the dialog and keys its saved geometry.
	Name string

	// DefaultPeriod is the period the legacy aggregate report starts with.
	DefaultPeriod selection.Period

	// BridgeRate and BridgeBurst throttle bridge commands.
	BridgeRate  float64
	BridgeBurst int

	Debug bool
}

// Dialog names.
const (
	NameGraphs = "NewDeckStats"
	NameLegacy = "DeckStats"
)

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = NameGraphs
	}
	if o.BridgeRate <= 0 {
		o.BridgeRate = 5
	}
	if o.BridgeBurst <= 0 {
		o.BridgeBurst = 10
	}
	return o
}
