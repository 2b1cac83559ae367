package gui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// Notice kinds sent with events.NoticeEvent.
const (
	NoticePersistence = "persistence"
	NoticeReport      = "report"
	NoticeExport      = "export"
	NoticeError       = "error"
)

// EventNotifier shows tooltips and notices by dispatching events the front
// end listens for.
type EventNotifier struct {
	dispatcher events.Dispatcher
}

// NewEventNotifier creates a notifier dispatching through d.
func NewEventNotifier(d events.Dispatcher) *EventNotifier {
	return &EventNotifier{dispatcher: d}
}

func (n *EventNotifier) Tooltip(msg string) {
	n.dispatcher.Dispatch(events.New(events.TypeTooltip, events.TooltipEvent{Message: msg}))
}

func (n *EventNotifier) Notice(err error) {
	if err == nil {
		return
	}
	kind := NoticeKind(err)
	log.Printf("[Notifier] %s notice: %v", kind, err)
	n.dispatcher.Dispatch(events.New(events.TypeNotice, events.NoticeEvent{Kind: kind, Message: err.Error()}))
}

// NoticeKind classifies a controller error for the front end.
func NoticeKind(err error) string {
	var (
		persistErr *statsview.PersistenceError
		reportErr  *statsview.ReportGenerationError
		exportErr  *statsview.ExportIOError
	)
	switch {
	case errors.As(err, &persistErr):
		return NoticePersistence
	case errors.As(err, &reportErr):
		return NoticeReport
	case errors.As(err, &exportErr):
		return NoticeExport
	default:
		return NoticeError
	}
}

// EventBrowser asks the front end's card browser to run a search.
type EventBrowser struct {
	dispatcher events.Dispatcher
}

// NewEventBrowser creates a browser dispatching through d.
func NewEventBrowser(d events.Dispatcher) *EventBrowser {
	return &EventBrowser{dispatcher: d}
}

func (b *EventBrowser) OpenAndSearch(ctx context.Context, query string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.dispatcher.Dispatch(events.New(events.TypeBrowserSearch, events.BrowserSearchEvent{Query: query}))
	return nil
}

// SaveDirStore remembers the last directory used per save key.
type SaveDirStore interface {
	LastSaveDir(ctx context.Context, key string) (string, error)
	SetLastSaveDir(ctx context.Context, key, dir string) error
}

// DirectoryPicker saves without asking: files go to the last directory used
// for the key, or Dir. Browser mode has no native save dialog.
type DirectoryPicker struct {
	Dir  string
	Dirs SaveDirStore
}

func (p *DirectoryPicker) ChooseSaveDestination(ctx context.Context, req statsview.SaveRequest) (string, error) {
	dir := lastDir(ctx, p.Dirs, req.Key)
	if dir == "" {
		dir = p.Dir
	}
	if dir == "" {
		return "", errors.New("no save directory configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	path := withExt(filepath.Join(dir, req.Name), req.Ext)
	rememberDir(ctx, p.Dirs, req.Key, path)
	return path, nil
}

func lastDir(ctx context.Context, dirs SaveDirStore, key string) string {
	if dirs == nil || key == "" {
		return ""
	}
	dir, err := dirs.LastSaveDir(ctx, key)
	if err != nil {
		log.Printf("[FilePicker] Failed to read last directory for %s: %v", key, err)
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

func rememberDir(ctx context.Context, dirs SaveDirStore, key, path string) {
	if dirs == nil || key == "" {
		return
	}
	if err := dirs.SetLastSaveDir(ctx, key, filepath.Dir(path)); err != nil {
		log.Printf("[FilePicker] Failed to remember directory for %s: %v", key, err)
	}
}

func withExt(path, ext string) string {
	if ext == "" || strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

// BrowserWindow stands in for the dialog window in browser mode, where the
// browser tab owns the window.
type BrowserWindow struct {
	Size models.WindowGeometry
}

func (w *BrowserWindow) Show()     { log.Println("[BrowserWindow] Show") }
func (w *BrowserWindow) Activate() { log.Println("[BrowserWindow] Activate") }
func (w *BrowserWindow) Close()    { log.Println("[BrowserWindow] Close") }

func (w *BrowserWindow) Geometry() models.WindowGeometry {
	return w.Size
}
