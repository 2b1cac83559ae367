// Package statsview implements the statistics dialog controller. It owns the
// view selection, decides which surface is mounted, swaps surfaces in place
// and routes bridge commands from rendered content.
package statsview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/deckstats/internal/async"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

// GraphsPage is the page key of the paginated statistics page.
const GraphsPage = "graphs"

// Controller drives one statistics dialog.
//
// Every exported method must be called on the UI loop. Background work runs
// on goroutines and completes back on the loop; completions that arrive after
// Close, or after a newer request superseded them, are dropped.
type Controller struct {
	deps Deps
	opts Options

	ctx    context.Context
	cancel context.CancelFunc
	token  *async.Token

	sel     *selection.Model
	slot    surface.Slot
	limiter *rate.Limiter

	initialized bool
	closed      bool

	// Generation counters; a completion only applies if its counter is current.
	deckGen   uint64
	cardGen   uint64
	renderGen uint64

	pendingCard int64

	// Deck last saved as current, and the deck the mounted surface was last
	// asked to show. A failed deck change reverts to savedDeck.
	savedDeck int64
	savedGen  uint64
	shownDeck int64
}

// New creates a controller. Nothing is shown until Initialize.
func New(deps Deps, opts Options) *Controller {
	opts = opts.withDefaults()
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	sel := selection.NewModel()
	sel.SetPeriod(opts.DefaultPeriod)
	return &Controller{
		deps:    deps,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		token:   async.NewToken(),
		sel:     sel,
		limiter: rate.NewLimiter(rate.Limit(opts.BridgeRate), opts.BridgeBurst),
	}
}

// Name returns the dialog name the controller registers under.
func (c *Controller) Name() string {
	return c.opts.Name
}

func (c *Controller) ready() error {
	if c.closed {
		return ErrClosed
	}
	if !c.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Initialize shows the paginated graphs page for deckID.
func (c *Controller) Initialize(deckID int64) error {
	return c.initialize(deckID, surface.KindPaginated)
}

// InitializeLegacy shows the legacy aggregate report for deckID.
func (c *Controller) InitializeLegacy(deckID int64) error {
	return c.initialize(deckID, surface.KindLegacy)
}

func (c *Controller) initialize(deckID int64, kind surface.Kind) error {
	if c.closed {
		return ErrClosed
	}
	if c.initialized {
		return ErrAlreadyInitialized
	}

	c.sel.SetDeck(deckID)
	c.savedDeck, c.shownDeck = deckID, deckID
	sf, err := c.mount(kind)
	if err != nil {
		return err
	}
	if kind == surface.KindPaginated {
		if err := sf.Load(c.graphsSource()); err != nil {
			return fmt.Errorf("load graphs page: %w", err)
		}
	} else {
		c.renderAggregate()
	}

	c.initialized = true
	c.deps.Window.Show()
	c.deps.Window.Activate()
	c.deps.Registry.Register(c.opts.Name, c)
	log.Printf("[StatsView] Opened %s with %s surface for %s", c.opts.Name, kind, c.sel.Current())
	c.emitView()
	return nil
}

// mount disposes the mounted surface, if any, then creates and mounts a new one.
func (c *Controller) mount(kind surface.Kind) (surface.Surface, error) {
	sf, err := c.slot.Swap(func() (surface.Surface, error) {
		return c.deps.Surfaces(kind, c.token)
	})
	if err != nil {
		return nil, fmt.Errorf("mount %s surface: %w", kind, err)
	}
	return sf, nil
}

func (c *Controller) graphsSource() surface.Source {
	subject := c.sel.Current().Subject
	params := url.Values{}
	params.Set("deck", strconv.FormatInt(subject.DeckID, 10))
	return surface.PageSource(GraphsPage, params)
}

// OnSubjectChanged switches the report to deckID. The current deck is saved
// first; the view reloads only once that succeeded. When the latest change
// fails, the selection falls back to the last deck that was saved.
func (c *Controller) OnSubjectChanged(deckID int64) error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.sel.Kind() != selection.KindAggregate {
		return fmt.Errorf("change deck while showing %s: %w", c.sel.Current(), ErrInvalidTransition)
	}

	if !c.sel.SetDeck(deckID) {
		return nil
	}
	target := c.sel.Current()

	c.deckGen++
	gen := c.deckGen
	ctx := c.ctx
	decks := c.deps.Decks
	async.Go(c.deps.Loop, c.token, func() (struct{}, error) {
		return struct{}{}, decks.SetCurrentDeck(ctx, deckID)
	}).Then(func(_ struct{}, err error) {
		if err == nil && gen > c.savedGen {
			c.savedDeck, c.savedGen = deckID, gen
		}
		if gen != c.deckGen || !c.sel.Current().Equal(target) {
			c.debugf("Dropping stale deck change to %d", deckID)
			return
		}
		if err != nil {
			log.Printf("[StatsView] Failed to save current deck %d: %v", deckID, err)
			c.revertDeck()
			c.deps.Notifier.Notice(newPersistenceError(deckID, err))
			return
		}
		c.shownDeck = deckID
		c.reload()
		c.emitView()
	})
	return nil
}

// revertDeck selects the last saved deck again. The surface only reloads if
// an overlapping change saved a deck it is not showing yet.
func (c *Controller) revertDeck() {
	subject := c.sel.Current().Subject
	subject.DeckID = c.savedDeck
	c.sel.SetSubject(subject)
	if c.shownDeck != c.savedDeck {
		c.shownDeck = c.savedDeck
		c.reload()
	}
	c.emitView()
}

// reload shows the current aggregate selection on the mounted surface.
func (c *Controller) reload() {
	sf := c.slot.Current()
	if sf == nil {
		return
	}
	switch sf.Kind() {
	case surface.KindPaginated:
		if err := sf.Load(c.graphsSource()); err != nil {
			log.Printf("[StatsView] Failed to reload graphs page: %v", err)
		}
	case surface.KindLegacy:
		c.renderAggregate()
	}
}

// renderAggregate builds the legacy aggregate report for the current
// selection and loads it once ready.
func (c *Controller) renderAggregate() {
	c.renderGen++
	gen := c.renderGen
	cur := c.sel.Current()
	ctx := c.ctx
	reports := c.deps.Reports

	async.Go(c.deps.Loop, c.token, func() (*report.Report, error) {
		return reports.Aggregate(ctx, cur.Subject, cur.Period)
	}).Then(func(rep *report.Report, err error) {
		if gen != c.renderGen || !c.sel.Current().Equal(cur) {
			c.debugf("Dropping stale %s report", cur)
			return
		}
		if err != nil {
			log.Printf("[StatsView] Failed to build %s report: %v", cur, err)
			c.deps.Notifier.Notice(newReportError(0, err))
			return
		}
		sf := c.slot.Current()
		if sf == nil || sf.Kind() != surface.KindLegacy {
			return
		}
		if err := sf.Load(LegacySource(rep)); err != nil {
			log.Printf("[StatsView] Failed to load %s report: %v", cur, err)
		}
	})
}

// LegacySource wraps a report for a legacy surface, with its asset references
// mounted under the legacy root.
func LegacySource(rep *report.Report) surface.Source {
	return surface.MarkupSource(
		surface.RewriteAssetPaths(rep.HTML),
		surface.MountAssets(rep.Scripts),
		surface.MountAssets(rep.Styles),
	)
}

// OnCardSelected replaces the view with the card info report of cardID.
//
// The report is requested first; the mounted surface is only disposed and
// replaced by a legacy one once it has arrived. A failed request leaves the
// view unchanged and reports a ReportGenerationError.
func (c *Controller) OnCardSelected(cardID int64) error {
	if err := c.ready(); err != nil {
		return err
	}

	cur := c.sel.Current()
	showing := cur.Kind == selection.KindSingleCard && cur.CardID == cardID
	if c.pendingCard == cardID || (c.pendingCard == 0 && showing) {
		return nil
	}

	c.cardGen++
	if showing {
		// Supersedes the in-flight request and keeps the shown card.
		c.pendingCard = 0
		return nil
	}
	gen := c.cardGen
	c.pendingCard = cardID
	ctx := c.ctx
	reports := c.deps.Reports

	async.Go(c.deps.Loop, c.token, func() (*report.Report, error) {
		return reports.SingleCard(ctx, cardID, false)
	}).Then(func(rep *report.Report, err error) {
		if gen != c.cardGen {
			c.debugf("Dropping stale report for card %d", cardID)
			return
		}
		c.pendingCard = 0
		if err != nil {
			log.Printf("[StatsView] Failed to build report for card %d: %v", cardID, err)
			c.deps.Notifier.Notice(newReportError(cardID, err))
			return
		}
		c.showCard(cardID, rep)
	})
	return nil
}

func (c *Controller) showCard(cardID int64, rep *report.Report) {
	// Aggregate renders still in flight must not land on the card view.
	c.renderGen++

	sf, err := c.mount(surface.KindLegacy)
	if err != nil {
		log.Printf("[StatsView] %v", err)
		c.deps.Notifier.Notice(newReportError(cardID, err))
		return
	}
	c.sel.SetCard(cardID)
	if err := sf.Load(LegacySource(rep)); err != nil {
		log.Printf("[StatsView] Failed to load report for card %d: %v", cardID, err)
		c.deps.Notifier.Notice(newReportError(cardID, err))
	}
	c.emitView()
}

// OnScopeChanged switches the legacy aggregate report between the selected
// deck and the whole collection. The paginated page manages its own scope,
// so the call is accepted and ignored there.
func (c *Controller) OnScopeChanged(wholeCollection bool) error {
	return c.changeAggregate("scope", func() bool {
		return c.sel.SetWholeCollection(wholeCollection)
	})
}

// OnPeriodChanged changes the period of the legacy aggregate report. Like
// OnScopeChanged it is a no-op on the paginated page.
func (c *Controller) OnPeriodChanged(period selection.Period) error {
	return c.changeAggregate("period", func() bool {
		return c.sel.SetPeriod(period)
	})
}

func (c *Controller) changeAggregate(what string, apply func() bool) error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.slot.Kind() == surface.KindPaginated {
		c.debugf("Ignoring %s change on the paginated page", what)
		return nil
	}
	if c.sel.Kind() != selection.KindAggregate {
		return fmt.Errorf("change %s while showing %s: %w", what, c.sel.Current(), ErrInvalidTransition)
	}
	if apply() {
		c.renderAggregate()
		c.emitView()
	}
	return nil
}

// CardChoices lists the cards of the selected deck for the card selector.
// The future is not tied to the dialog, so it resolves even when the dialog
// closes while the listing runs.
func (c *Controller) CardChoices() *async.Future[[]int64] {
	if err := c.ready(); err != nil {
		return async.Rejected[[]int64](c.deps.Loop, nil, err)
	}
	if c.deps.Cards == nil {
		return async.Rejected[[]int64](c.deps.Loop, nil, errors.New("card listing not available"))
	}
	deckID := c.sel.Current().Subject.DeckID
	ctx := c.ctx
	cards := c.deps.Cards
	return async.Go(c.deps.Loop, nil, func() ([]int64, error) {
		return cards.ListIDsByDeck(ctx, deckID)
	})
}

// Snapshot describes the controller state.
type Snapshot struct {
	Selection   selection.Selection `json:"selection"`
	Surface     string              `json:"surface"`
	PendingCard int64               `json:"pendingCard,omitempty"`
	Closed      bool                `json:"closed"`
}

// Snapshot returns the current selection and mounted surface kind.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Selection:   c.sel.Current(),
		PendingCard: c.pendingCard,
		Closed:      c.closed,
	}
	if k := c.slot.Kind(); k != 0 {
		s.Surface = k.String()
	}
	return s
}

// Close disposes the mounted surface, drops pending work, saves the window
// geometry and closes the window.
func (c *Controller) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.cancel()

	if err := c.slot.Unmount(); err != nil {
		log.Printf("[StatsView] Dispose on close reported: %v", err)
	}
	c.token.Cancel()

	if err := c.deps.Geometry.SaveGeometry(context.Background(), c.opts.Name, c.deps.Window.Geometry()); err != nil {
		log.Printf("[StatsView] Failed to save geometry for %s: %v", c.opts.Name, err)
	}
	c.deps.Registry.MarkClosed(c.opts.Name)
	c.deps.Window.Close()
	c.dispatch(events.New(events.TypeClosed, events.ClosedEvent{Name: c.opts.Name}))
	log.Printf("[StatsView] Closed %s", c.opts.Name)
	return nil
}

// CloseWithCallback closes the dialog and then runs fn.
func (c *Controller) CloseWithCallback(fn func()) {
	if err := c.Close(); err != nil && !errors.Is(err, ErrClosed) {
		log.Printf("[StatsView] Close failed: %v", err)
	}
	if fn != nil {
		fn()
	}
}

func (c *Controller) emitView() {
	cur := c.sel.Current()
	ev := events.ViewChangedEvent{Selection: cur.String(), Surface: c.slot.Kind().String()}
	if cur.Kind == selection.KindSingleCard {
		ev.CardID = cur.CardID
	} else {
		ev.DeckID = cur.Subject.DeckID
	}
	c.dispatch(events.New(events.TypeViewChanged, ev))
}

func (c *Controller) dispatch(e events.Event) {
	if c.deps.Events != nil {
		c.deps.Events.Dispatch(e)
	}
}

func (c *Controller) debugf(format string, args ...any) {
	if c.opts.Debug {
		log.Printf("[StatsView] "+format, args...)
	}
}
