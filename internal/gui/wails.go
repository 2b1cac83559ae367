package gui

import (
	"context"
	"fmt"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ramonehamilton/deckstats/internal/events"
	"github.com/ramonehamilton/deckstats/internal/statsview"
	"github.com/ramonehamilton/deckstats/internal/storage/models"
)

// WailsFilePicker asks with the native save dialog.
type WailsFilePicker struct {
	ctx  context.Context // Wails runtime context
	dirs SaveDirStore
}

// NewWailsFilePicker creates a picker for the window bound to ctx.
func NewWailsFilePicker(ctx context.Context, dirs SaveDirStore) *WailsFilePicker {
	return &WailsFilePicker{ctx: ctx, dirs: dirs}
}

func (p *WailsFilePicker) ChooseSaveDestination(ctx context.Context, req statsview.SaveRequest) (string, error) {
	ext := strings.TrimPrefix(req.Ext, ".")
	path, err := wailsruntime.SaveFileDialog(p.ctx, wailsruntime.SaveDialogOptions{
		DefaultDirectory: lastDir(ctx, p.dirs, req.Key),
		DefaultFilename:  req.Name,
		Title:            req.Title,
		Filters: []wailsruntime.FileFilter{
			{DisplayName: fmt.Sprintf("%s Files (*.%s)", strings.ToUpper(ext), ext), Pattern: "*." + ext},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		// User cancelled
		return "", nil
	}
	path = withExt(path, req.Ext)
	rememberDir(ctx, p.dirs, req.Key, path)
	return path, nil
}

// WailsWindow is the desktop window hosting the stats dialog.
type WailsWindow struct {
	ctx context.Context
}

// NewWailsWindow wraps the window bound to ctx.
func NewWailsWindow(ctx context.Context) *WailsWindow {
	return &WailsWindow{ctx: ctx}
}

func (w *WailsWindow) Show() {
	wailsruntime.WindowShow(w.ctx)
}

func (w *WailsWindow) Activate() {
	wailsruntime.WindowUnminimise(w.ctx)
	wailsruntime.WindowShow(w.ctx)
}

func (w *WailsWindow) Geometry() models.WindowGeometry {
	x, y := wailsruntime.WindowGetPosition(w.ctx)
	width, height := wailsruntime.WindowGetSize(w.ctx)
	return models.WindowGeometry{X: x, Y: y, Width: width, Height: height}
}

// Close hides the window; the application keeps running until quit.
func (w *WailsWindow) Close() {
	wailsruntime.WindowHide(w.ctx)
}

// Restore applies saved geometry. Zero geometry is ignored.
func (w *WailsWindow) Restore(g models.WindowGeometry) {
	if g.IsZero() {
		return
	}
	wailsruntime.WindowSetSize(w.ctx, g.Width, g.Height)
	wailsruntime.WindowSetPosition(w.ctx, g.X, g.Y)
}

// NewWailsEmitter forwards events to the front end through the Wails runtime.
func NewWailsEmitter(ctx context.Context) events.Emitter {
	return events.EmitterFunc(func(eventType string, data any) {
		wailsruntime.EventsEmit(ctx, eventType, data)
	})
}
