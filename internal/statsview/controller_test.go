package statsview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

func openGraphs(t *testing.T, h *harness, deckID int64) {
	t.Helper()
	require.NoError(t, h.ctl.Initialize(deckID))
	h.settle(t)
}

func TestInitialize_ShowsGraphsPage(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	snap := h.ctl.Snapshot()
	assert.Equal(t, selection.KindAggregate, snap.Selection.Kind)
	assert.Equal(t, int64(42), snap.Selection.Subject.DeckID)
	assert.False(t, snap.Selection.Subject.WholeCollection)
	assert.Equal(t, "paginated", snap.Surface)

	require.Len(t, h.surfaces, 1)
	src := h.surface(1).last()
	assert.Equal(t, "/graphs?deck=42", src.URL())

	assert.Equal(t, []string{"create:paginated#1", "load:paginated#1"}, h.j.all())
	assert.Equal(t, 1, h.window.shown)
	assert.Equal(t, 1, h.window.activated)
	assert.True(t, h.registry.IsOpen(NameGraphs))

	require.NotEmpty(t, h.events.events)
	ev, ok := events.Payload[events.ViewChangedEvent](h.events.events[0])
	require.True(t, ok)
	assert.Equal(t, "deck:42/month", ev.Selection)
	assert.Equal(t, "paginated", ev.Surface)
}

func TestInitialize_Twice(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	assert.ErrorIs(t, h.ctl.Initialize(42), ErrAlreadyInitialized)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	h := newHarness(t, Options{})
	assert.ErrorIs(t, h.ctl.OnSubjectChanged(1), ErrNotInitialized)
	assert.ErrorIs(t, h.ctl.OnCardSelected(1), ErrNotInitialized)
	assert.ErrorIs(t, h.ctl.ExportCurrentViewToPDF(), ErrNotInitialized)
}

func TestInitializeLegacy_RendersAggregate(t *testing.T) {
	h := newHarness(t, Options{Name: NameLegacy, DefaultPeriod: selection.PeriodYear})
	require.NoError(t, h.ctl.InitializeLegacy(5))
	h.settle(t)

	assert.Equal(t, "legacy", h.ctl.Snapshot().Surface)
	src := h.surface(1).last()
	assert.Contains(t, src.Markup, "deck:5 year")
	assert.Contains(t, src.Markup, `src="/_anki/pages/logo.png"`)
	assert.Equal(t, []string{"/_anki/js/bridge.js"}, src.Scripts)
	assert.Equal(t, []string{"/_anki/pages/graphs.css"}, src.Styles)
	assert.True(t, h.registry.IsOpen(NameLegacy))
}

func TestOnSubjectChanged_PersistsThenReloads(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.OnSubjectChanged(7))
	h.settle(t)

	assert.Equal(t, int64(7), h.ctl.Snapshot().Selection.Subject.DeckID)
	assert.Equal(t, "/graphs?deck=7", h.surface(1).last().URL())
	assert.Equal(t, []string{
		"create:paginated#1", "load:paginated#1",
		"persist:7", "load:paginated#1",
	}, h.j.all())
	assert.Len(t, h.surfaces, 1, "deck change reloads in place")
}

func TestOnSubjectChanged_SameDeckIsNoop(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.OnSubjectChanged(42))
	h.settle(t)

	assert.Equal(t, []string{"create:paginated#1", "load:paginated#1"}, h.j.all())
}

func TestOnSubjectChanged_PersistenceFailureReverts(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	h.decks.err = errBackend

	require.NoError(t, h.ctl.OnSubjectChanged(7))
	h.settle(t)

	assert.Equal(t, int64(42), h.ctl.Snapshot().Selection.Subject.DeckID)
	assert.Equal(t, "/graphs?deck=42", h.surface(1).last().URL())
	assert.Len(t, h.surface(1).loads, 1, "no reload after a failed save")

	require.Len(t, h.notifier.notices, 1)
	var perr *PersistenceError
	require.ErrorAs(t, h.notifier.notices[0], &perr)
	assert.Equal(t, int64(7), perr.DeckID)
	assert.ErrorIs(t, perr, errBackend)
}

func TestOnSubjectChanged_OverlappingFailureFallsBackToSavedDeck(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	gate := make(chan struct{})
	h.decks.gates[8] = gate
	h.decks.fail[8] = errBackend

	require.NoError(t, h.ctl.OnSubjectChanged(7))
	require.NoError(t, h.ctl.OnSubjectChanged(8))
	h.waitFor(t, func() bool { return h.ctl.savedDeck == 7 })
	assert.Equal(t, "/graphs?deck=42", h.surface(1).last().URL(), "superseded save does not reload")

	close(gate)
	h.settle(t)

	snap := h.ctl.Snapshot()
	assert.Equal(t, int64(7), snap.Selection.Subject.DeckID)
	assert.Equal(t, "/graphs?deck=7", h.surface(1).last().URL())
	require.Len(t, h.notifier.notices, 1)
	var perr *PersistenceError
	require.ErrorAs(t, h.notifier.notices[0], &perr)
	assert.Equal(t, int64(8), perr.DeckID)

	last, ok := events.Payload[events.ViewChangedEvent](h.events.events[len(h.events.events)-1])
	require.True(t, ok)
	assert.Equal(t, int64(7), last.DeckID)
}

func TestOnSubjectChanged_OverlappingFailuresKeepShownDeck(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	h.decks.fail[7] = errBackend
	h.decks.fail[8] = errBackend

	require.NoError(t, h.ctl.OnSubjectChanged(7))
	require.NoError(t, h.ctl.OnSubjectChanged(8))
	h.settle(t)

	assert.Equal(t, int64(42), h.ctl.Snapshot().Selection.Subject.DeckID)
	assert.Equal(t, "/graphs?deck=42", h.surface(1).last().URL())
	assert.Len(t, h.surface(1).loads, 1)
	assert.Len(t, h.notifier.notices, 1, "the superseded failure is not reported")
}

func TestOnSubjectChanged_RejectedForSingleCard(t *testing.T) {
	h := newHarness(t, Options{})
	h.reports.cards[777] = cardReport(777)
	openGraphs(t, h, 42)
	require.NoError(t, h.ctl.OnCardSelected(777))
	h.settle(t)

	assert.ErrorIs(t, h.ctl.OnSubjectChanged(7), ErrInvalidTransition)
}

func TestOnCardSelected_SwapsToLegacy(t *testing.T) {
	h := newHarness(t, Options{})
	h.reports.cards[777] = cardReport(777)
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.OnCardSelected(777))
	h.settle(t)

	assert.Equal(t, []string{
		"create:paginated#1", "load:paginated#1",
		"report:card:777",
		"dispose:paginated#1",
		"create:legacy#2", "load:legacy#2",
	}, h.j.all())
	assert.True(t, h.surface(1).Disposed())
	assert.Equal(t, []bool{false}, h.reports.revlogs)

	snap := h.ctl.Snapshot()
	assert.Equal(t, selection.KindSingleCard, snap.Selection.Kind)
	assert.Equal(t, int64(777), snap.Selection.CardID)
	assert.Equal(t, "legacy", snap.Surface)

	src := h.surface(2).last()
	assert.Contains(t, src.Markup, `<script src="/_anki/js/x.js">`)
	assert.Contains(t, src.Markup, `<link href='/_anki/pages/print.css'>`)
	assert.Contains(t, src.Markup, "see pages/ for more", "plain text is not rewritten")
	assert.Equal(t, []string{"/_anki/js/bridge.js", "/_anki/pages/card-info.js"}, src.Scripts)
	assert.Equal(t, []string{"/_anki/pages/card-info-base.css", "/_anki/pages/card-info.css"}, src.Styles)

	last := h.events.events[len(h.events.events)-1]
	ev, ok := events.Payload[events.ViewChangedEvent](last)
	require.True(t, ok)
	assert.Equal(t, "card:777", ev.Selection)
	assert.Equal(t, int64(777), ev.CardID)
}

func TestOnCardSelected_FailureKeepsView(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.OnCardSelected(999))
	h.settle(t)

	assert.False(t, h.surface(1).Disposed())
	assert.Len(t, h.surfaces, 1)
	assert.Equal(t, "paginated", h.ctl.Snapshot().Surface)
	assert.Equal(t, selection.KindAggregate, h.ctl.Snapshot().Selection.Kind)

	require.Len(t, h.notifier.notices, 1)
	var rerr *ReportGenerationError
	require.ErrorAs(t, h.notifier.notices[0], &rerr)
	assert.Equal(t, int64(999), rerr.CardID)
	assert.ErrorIs(t, rerr, report.ErrCardNotFound)
}

func TestOnCardSelected_SameCardIsNoop(t *testing.T) {
	h := newHarness(t, Options{})
	h.reports.cards[777] = cardReport(777)
	openGraphs(t, h, 42)
	require.NoError(t, h.ctl.OnCardSelected(777))
	h.settle(t)
	before := h.j.all()

	require.NoError(t, h.ctl.OnCardSelected(777))
	h.settle(t)

	assert.Equal(t, before, h.j.all())
}

func TestOnCardSelected_StaleResultDropped(t *testing.T) {
	h := newHarness(t, Options{})
	h.reports.cards[1] = cardReport(1)
	h.reports.cards[2] = cardReport(2)
	gate := make(chan struct{})
	h.reports.gates[1] = gate
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.OnCardSelected(1))
	require.NoError(t, h.ctl.OnCardSelected(2))
	h.waitFor(t, func() bool {
		return h.ctl.Snapshot().Selection.CardID == 2
	})

	close(gate)
	h.settle(t)

	snap := h.ctl.Snapshot()
	assert.Equal(t, int64(2), snap.Selection.CardID)
	assert.Zero(t, snap.PendingCard)
	assert.Len(t, h.surfaces, 2, "the stale report mounts nothing")
	assert.Contains(t, h.surface(2).last().Markup, "card 2")
}

func TestOnCardSelected_BackToShownCardSupersedes(t *testing.T) {
	h := newHarness(t, Options{})
	h.reports.cards[1] = cardReport(1)
	h.reports.cards[2] = cardReport(2)
	openGraphs(t, h, 42)
	require.NoError(t, h.ctl.OnCardSelected(1))
	h.settle(t)

	gate := make(chan struct{})
	h.reports.gates[2] = gate
	require.NoError(t, h.ctl.OnCardSelected(2))
	require.NoError(t, h.ctl.OnCardSelected(1))
	close(gate)
	h.settle(t)

	assert.Equal(t, int64(1), h.ctl.Snapshot().Selection.CardID)
	assert.Len(t, h.surfaces, 2)
}

func TestScopeAndPeriod_IgnoredOnPaginated(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	before := h.ctl.Snapshot()

	require.NoError(t, h.ctl.OnScopeChanged(true))
	require.NoError(t, h.ctl.OnPeriodChanged(selection.PeriodLife))
	h.settle(t)

	assert.Equal(t, before, h.ctl.Snapshot())
	assert.Empty(t, h.reports.aggregate)
}

func TestScopeAndPeriod_RerenderLegacy(t *testing.T) {
	h := newHarness(t, Options{Name: NameLegacy})
	require.NoError(t, h.ctl.InitializeLegacy(5))
	h.settle(t)

	require.NoError(t, h.ctl.OnPeriodChanged(selection.PeriodYear))
	h.settle(t)
	assert.Contains(t, h.surface(1).last().Markup, "deck:5 year")

	require.NoError(t, h.ctl.OnScopeChanged(true))
	h.settle(t)
	assert.Contains(t, h.surface(1).last().Markup, "collection year")

	assert.Equal(t, []string{"deck:5/month", "deck:5/year", "collection/year"}, h.reports.aggregate)
}

func TestScopeAndPeriod_RejectedForSingleCard(t *testing.T) {
	h := newHarness(t, Options{Name: NameLegacy})
	h.reports.cards[3] = cardReport(3)
	require.NoError(t, h.ctl.InitializeLegacy(5))
	h.settle(t)
	require.NoError(t, h.ctl.OnCardSelected(3))
	h.settle(t)

	assert.ErrorIs(t, h.ctl.OnPeriodChanged(selection.PeriodLife), ErrInvalidTransition)
}

func TestAggregateFailure_Notifies(t *testing.T) {
	h := newHarness(t, Options{Name: NameLegacy})
	h.reports.aggErr = report.ErrDeckNotFound
	require.NoError(t, h.ctl.InitializeLegacy(5))
	h.settle(t)

	require.Len(t, h.notifier.notices, 1)
	var rerr *ReportGenerationError
	require.ErrorAs(t, h.notifier.notices[0], &rerr)
	assert.ErrorIs(t, rerr, report.ErrDeckNotFound)
	assert.Empty(t, h.surface(1).loads)
}

func TestCardChoices(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	var got []int64
	h.ctl.CardChoices().Then(func(ids []int64, err error) {
		require.NoError(t, err)
		got = ids
	})
	h.settle(t)

	assert.Equal(t, []int64{777, 778}, got)
}

func TestCardChoices_ResolvesWhenClosedMidway(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	gate := make(chan struct{})
	h.cards.gate = gate

	var (
		done   bool
		gotErr error
	)
	h.ctl.CardChoices().Then(func(_ []int64, err error) {
		done = true
		gotErr = err
	})
	require.NoError(t, h.ctl.Close())
	close(gate)
	h.settle(t)

	assert.True(t, done, "the caller is answered after close")
	assert.ErrorIs(t, gotErr, context.Canceled)
}

func TestCardChoices_AfterClose(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)
	require.NoError(t, h.ctl.Close())

	var gotErr error
	h.ctl.CardChoices().Then(func(_ []int64, err error) { gotErr = err })
	h.settle(t)
	assert.ErrorIs(t, gotErr, ErrClosed)
}

func TestClose(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.Close())

	assert.True(t, h.surface(1).Disposed())
	assert.Equal(t, 1, h.window.closed)
	assert.False(t, h.registry.IsOpen(NameGraphs))
	assert.Equal(t, h.window.geometry, h.geometry.saved[NameGraphs])
	assert.True(t, h.ctl.Snapshot().Closed)
	assert.Empty(t, h.ctl.Snapshot().Surface)

	last := h.events.events[len(h.events.events)-1]
	assert.Equal(t, events.TypeClosed, last.Type)

	assert.ErrorIs(t, h.ctl.Close(), ErrClosed)
	assert.ErrorIs(t, h.ctl.OnCardSelected(1), ErrClosed)
	assert.ErrorIs(t, h.ctl.OnSubjectChanged(1), ErrClosed)
	assert.ErrorIs(t, h.ctl.ExportCurrentViewToPDF(), ErrClosed)
	assert.False(t, h.ctl.OnBridgeCommand("browserSearch:deck:current"))
}

func TestClose_DropsPendingWork(t *testing.T) {
	h := newHarness(t, Options{})
	h.reports.cards[777] = cardReport(777)
	gate := make(chan struct{})
	h.reports.gates[777] = gate
	openGraphs(t, h, 42)

	require.NoError(t, h.ctl.OnCardSelected(777))
	require.NoError(t, h.ctl.Close())
	close(gate)
	h.settle(t)

	assert.Len(t, h.surfaces, 1, "no surface created after close")
	assert.Empty(t, h.notifier.notices)
}

func TestCloseWithCallback(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	calls := 0
	h.ctl.CloseWithCallback(func() { calls++ })
	h.ctl.CloseWithCallback(func() { calls++ })

	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, h.window.closed)
}

func TestRegistryClosesController(t *testing.T) {
	h := newHarness(t, Options{})
	openGraphs(t, h, 42)

	done := false
	h.registry.CloseAll(func() { done = true })

	assert.True(t, done)
	assert.True(t, h.ctl.Snapshot().Closed)
}

func TestErrorMessages(t *testing.T) {
	perr := newPersistenceError(7, errBackend)
	assert.True(t, strings.Contains(perr.Error(), "7"))
	assert.True(t, errors.Is(perr, errBackend))

	rerr := newReportError(9, report.ErrCardNotFound)
	assert.Contains(t, rerr.Error(), "9")
	assert.Equal(t, surface.ErrSurfaceDisposed, ErrSurfaceDisposed)
}
