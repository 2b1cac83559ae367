package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/ramonehamilton/deckstats/internal/assets"
	"github.com/ramonehamilton/deckstats/internal/events"
)

// AssetHandler serves bundled web assets, preferring override files.
type AssetHandler struct {
	store     *assets.Store
	events    events.Dispatcher
	fallbacks map[string]string
}

// NewAssetHandler creates a handler over store. dispatcher may be nil.
func NewAssetHandler(store *assets.Store, dispatcher events.Dispatcher) *AssetHandler {
	return &AssetHandler{store: store, events: dispatcher, fallbacks: make(map[string]string)}
}

// Fallback redirects requests for name to url while neither the bundle nor
// the override directory carries it.
func (h *AssetHandler) Fallback(name, url string) {
	h.fallbacks[path.Clean(name)] = url
}

// Under serves the wildcard part of the route below dir, e.g. Under("js/")
// for /js/*.
func (h *AssetHandler) Under(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, dir+chi.URLParam(r, "*"))
	}
}

// File serves a single named asset.
func (h *AssetHandler) File(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, name)
	}
}

func (h *AssetHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	data, err := h.store.Read(name)
	switch {
	case errors.Is(err, assets.ErrInvalidPath):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, fs.ErrNotExist):
		if url, ok := h.fallbacks[path.Clean(name)]; ok {
			http.Redirect(w, r, url, http.StatusFound)
			return
		}
		http.NotFound(w, r)
		return
	case err != nil:
		log.Printf("[Assets] Failed to serve %s: %v", name, err)
		http.Error(w, "failed to read asset", http.StatusInternalServerError)
		return
	}

	tag := ETag(data)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	if _, err := w.Write(data); err != nil {
		log.Printf("[Assets] Write %s: %v", name, err)
	}
}

// ETag returns a strong entity tag for data.
func ETag(data []byte) string {
	sum := blake2b.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// Watch reports changes below the override directory as AssetsChangedEvent
// until ctx is done. It returns immediately when there is no override
// directory.
func (h *AssetHandler) Watch(ctx context.Context) error {
	dir := h.store.OverrideDir()
	if dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Printf("[Assets] Close watcher: %v", closeErr)
		}
	}()

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Printf("[Assets] Watching overrides in %s", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			h.changed(watcher, dir, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Assets] Watcher error: %v", err)
		}
	}
}

func (h *AssetHandler) changed(watcher *fsnotify.Watcher, dir string, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				log.Printf("[Assets] Failed to watch %s: %v", event.Name, err)
			}
			return
		}
	}
	rel, err := filepath.Rel(dir, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	log.Printf("[Assets] Override changed: %s", rel)
	if h.events != nil {
		h.events.Dispatch(events.New(events.TypeAssetsChanged, events.AssetsChangedEvent{Path: rel}))
	}
}
