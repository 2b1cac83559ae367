package statsview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ramonehamilton/deckstats/internal/async"
	"github.com/ramonehamilton/deckstats/internal/dialogs"
	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/i18n"
	"github.com/ramonehamilton/deckstats/internal/report"
	"github.com/ramonehamilton/deckstats/internal/selection"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
	"github.com/ramonehamilton/deckstats/internal/surface"
)

// journal records collaborator calls in order. Reports run on goroutines, so
// it is locked.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// fakeSurface is an instrumented surface. Script evaluation and export
// resolve through the loop like the real ones.
type fakeSurface struct {
	id       int
	kind     surface.Kind
	loop     *async.Loop
	token    *async.Token
	j        *journal
	loads    []surface.Source
	disposed bool

	exportErr error
}

func (s *fakeSurface) name() string { return fmt.Sprintf("%s#%d", s.kind, s.id) }

func (s *fakeSurface) Kind() surface.Kind { return s.kind }

func (s *fakeSurface) Disposed() bool { return s.disposed }

func (s *fakeSurface) Load(src surface.Source) error {
	if s.disposed {
		return surface.ErrSurfaceDisposed
	}
	if n := len(s.loads); n > 0 && s.loads[n-1].Equal(src) {
		return nil
	}
	s.loads = append(s.loads, src)
	s.j.add("load:%s", s.name())
	return nil
}

func (s *fakeSurface) last() surface.Source {
	return s.loads[len(s.loads)-1]
}

func (s *fakeSurface) EvaluateScript(script string) *async.Future[string] {
	s.j.add("eval:%s:%s", s.name(), script)
	return async.Go(s.loop, s.token, func() (string, error) { return "", nil })
}

func (s *fakeSurface) ExportToPDF(path string) *async.Future[struct{}] {
	s.j.add("export:%s:%s", s.name(), path)
	err := s.exportErr
	return async.Go(s.loop, s.token, func() (struct{}, error) {
		if err != nil {
			return struct{}{}, &surface.ExportIOError{Path: path, Err: err}
		}
		return struct{}{}, nil
	})
}

func (s *fakeSurface) Dispose() error {
	if s.disposed {
		return surface.ErrSurfaceDisposed
	}
	s.disposed = true
	s.token.Cancel()
	s.j.add("dispose:%s", s.name())
	return nil
}

type fakeReports struct {
	j         *journal
	cards     map[int64]*report.Report
	cardErr   error
	aggErr    error
	gates     map[int64]chan struct{}
	mu        sync.Mutex
	revlogs   []bool
	aggregate []string
}

func (r *fakeReports) Aggregate(_ context.Context, subject selection.Subject, period selection.Period) (*report.Report, error) {
	r.mu.Lock()
	r.aggregate = append(r.aggregate, fmt.Sprintf("%s/%s", subject, period))
	r.mu.Unlock()
	r.j.add("report:%s/%s", subject, period)
	if r.aggErr != nil {
		return nil, r.aggErr
	}
	return &report.Report{
		HTML:    fmt.Sprintf(`<div class="agg">%s %s</div><img src="pages/logo.png">`, subject, period),
		Scripts: []string{"js/bridge.js"},
		Styles:  []string{"pages/graphs.css"},
	}, nil
}

func (r *fakeReports) SingleCard(_ context.Context, cardID int64, includeRevlog bool) (*report.Report, error) {
	r.mu.Lock()
	r.revlogs = append(r.revlogs, includeRevlog)
	gate := r.gates[cardID]
	r.mu.Unlock()
	r.j.add("report:card:%d", cardID)
	if gate != nil {
		<-gate
	}
	if r.cardErr != nil {
		return nil, r.cardErr
	}
	if rep, ok := r.cards[cardID]; ok {
		return rep, nil
	}
	return nil, fmt.Errorf("%w: %d", report.ErrCardNotFound, cardID)
}

func cardReport(cardID int64) *report.Report {
	return &report.Report{
		HTML: fmt.Sprintf(`<div id="card-info"><script src="js/x.js"></script>`+
			`<link href='pages/print.css'>card %d: see pages/ for more</div>`, cardID),
		Scripts: []string{"js/bridge.js", "pages/card-info.js"},
		Styles:  []string{"pages/card-info-base.css", "pages/card-info.css"},
	}
}

type fakeDecks struct {
	j     *journal
	err   error
	fail  map[int64]error
	gates map[int64]chan struct{}
	mu    sync.Mutex
}

func (d *fakeDecks) SetCurrentDeck(_ context.Context, deckID int64) error {
	d.mu.Lock()
	gate := d.gates[deckID]
	err := d.fail[deckID]
	d.mu.Unlock()
	d.j.add("persist:%d", deckID)
	if gate != nil {
		<-gate
	}
	if err != nil {
		return err
	}
	return d.err
}

type fakeCards struct {
	ids  map[int64][]int64
	gate chan struct{}
}

func (c *fakeCards) ListIDsByDeck(ctx context.Context, deckID int64) ([]int64, error) {
	if c.gate != nil {
		<-c.gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.ids[deckID], nil
}

type fakePicker struct {
	j    *journal
	path string
	err  error
	gate chan struct{}

	mu   sync.Mutex
	reqs []SaveRequest
}

func (p *fakePicker) ChooseSaveDestination(_ context.Context, req SaveRequest) (string, error) {
	p.mu.Lock()
	p.reqs = append(p.reqs, req)
	gate := p.gate
	p.mu.Unlock()
	p.j.add("pick:%s", req.Name)
	if gate != nil {
		<-gate
	}
	return p.path, p.err
}

type fakeBrowser struct {
	queries []string
}

func (b *fakeBrowser) OpenAndSearch(_ context.Context, query string) error {
	b.queries = append(b.queries, query)
	return nil
}

type fakeNotifier struct {
	tooltips []string
	notices  []error
}

func (n *fakeNotifier) Tooltip(msg string) { n.tooltips = append(n.tooltips, msg) }

func (n *fakeNotifier) Notice(err error) { n.notices = append(n.notices, err) }

type fakeWindow struct {
	shown, activated, closed int
	geometry                 models.WindowGeometry
}

func (w *fakeWindow) Show()                           { w.shown++ }
func (w *fakeWindow) Activate()                       { w.activated++ }
func (w *fakeWindow) Geometry() models.WindowGeometry { return w.geometry }
func (w *fakeWindow) Close()                          { w.closed++ }

type fakeGeometry struct {
	saved map[string]models.WindowGeometry
}

func (g *fakeGeometry) SaveGeometry(_ context.Context, name string, geo models.WindowGeometry) error {
	g.saved[name] = geo
	return nil
}

type recordedEvents struct {
	events []events.Event
}

func (r *recordedEvents) Dispatch(e events.Event) { r.events = append(r.events, e) }

var (
	errDisk    = errors.New("disk full")
	errBackend = errors.New("database is locked")
	fixedNow   = time.Date(2024, 3, 10, 14, 5, 9, 0, time.Local)
)

type harness struct {
	loop     *async.Loop
	j        *journal
	reports  *fakeReports
	decks    *fakeDecks
	cards    *fakeCards
	picker   *fakePicker
	browser  *fakeBrowser
	notifier *fakeNotifier
	window   *fakeWindow
	geometry *fakeGeometry
	registry *dialogs.Registry
	events   *recordedEvents
	surfaces []*fakeSurface
	ctl      *Controller

	exportErr error
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	j := &journal{}
	h := &harness{
		loop:     async.NewLoop(),
		j:        j,
		reports:  &fakeReports{j: j, cards: map[int64]*report.Report{}, gates: map[int64]chan struct{}{}},
		decks:    &fakeDecks{j: j, fail: map[int64]error{}, gates: map[int64]chan struct{}{}},
		cards:    &fakeCards{ids: map[int64][]int64{42: {777, 778}}},
		picker:   &fakePicker{j: j},
		browser:  &fakeBrowser{},
		notifier: &fakeNotifier{},
		window:   &fakeWindow{geometry: models.WindowGeometry{X: 1, Y: 2, Width: 900, Height: 700}},
		geometry: &fakeGeometry{saved: map[string]models.WindowGeometry{}},
		registry: dialogs.NewRegistry(),
		events:   &recordedEvents{},
	}
	factory := func(kind surface.Kind, parent *async.Token) (surface.Surface, error) {
		s := &fakeSurface{
			id:        len(h.surfaces) + 1,
			kind:      kind,
			loop:      h.loop,
			token:     parent.Child(),
			j:         j,
			exportErr: h.exportErr,
		}
		h.surfaces = append(h.surfaces, s)
		j.add("create:%s", s.name())
		return s, nil
	}
	h.ctl = New(Deps{
		Loop:     h.loop,
		Surfaces: factory,
		Reports:  h.reports,
		Decks:    h.decks,
		Cards:    h.cards,
		Picker:   h.picker,
		Browser:  h.browser,
		Notifier: h.notifier,
		Window:   h.window,
		Geometry: h.geometry,
		Registry: h.registry,
		Labels:   i18n.MustNew("en"),
		Events:   h.events,
		Clock:    func() time.Time { return fixedNow },
	}, opts)
	return h
}

func (h *harness) settle(t *testing.T) {
	t.Helper()
	h.waitFor(t, h.loop.Idle)
}

// waitFor drains the loop until cond holds.
func (h *harness) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		h.loop.Drain()
		if cond() {
			h.loop.Drain()
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func (h *harness) surface(n int) *fakeSurface {
	return h.surfaces[n-1]
}
