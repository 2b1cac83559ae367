// Package dialogs tracks which singleton dialogs are open.
package dialogs

import (
	"log"
	"sync"
)

// Closer is a dialog that can be asked to close. The callback runs once it has.
type Closer interface {
	CloseWithCallback(fn func())
}

// Registry maps dialog names to their open instance.
type Registry struct {
	mu   sync.Mutex
	open map[string]Closer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{open: make(map[string]Closer)}
}

// Register records d as the open instance of name, replacing any previous one.
func (r *Registry) Register(name string, d Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open[name] = d
}

// MarkClosed forgets name. Marking a dialog that is not open is a no-op.
func (r *Registry) MarkClosed(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[name]; !ok {
		log.Printf("[Dialogs] %s marked closed but was not open", name)
		return
	}
	delete(r.open, name)
}

// Get returns the open instance of name.
func (r *Registry) Get(name string) (Closer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.open[name]
	return d, ok
}

// IsOpen reports whether name is open.
func (r *Registry) IsOpen(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Open returns the open instance of name, or creates one with create.
// The second result reports whether the instance was created.
func (r *Registry) Open(name string, create func() (Closer, error)) (Closer, bool, error) {
	if d, ok := r.Get(name); ok {
		return d, false, nil
	}
	d, err := create()
	if err != nil {
		return nil, false, err
	}
	r.Register(name, d)
	return d, true, nil
}

// CloseAll asks every open dialog to close and calls done after the last one has.
func (r *Registry) CloseAll(done func()) {
	r.mu.Lock()
	pending := make([]Closer, 0, len(r.open))
	for _, d := range r.open {
		pending = append(pending, d)
	}
	r.mu.Unlock()

	if len(pending) == 0 {
		done()
		return
	}
	remaining := len(pending)
	var mu sync.Mutex
	for _, d := range pending {
		d.CloseWithCallback(func() {
			mu.Lock()
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				done()
			}
		})
	}
}
