// Package webview implements surface hosts: the stats region of the desktop
// window, browser shells connected over a WebSocket, and a headless host for
// the command line.
package webview

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Shell event names. The shell page (assets/shell) listens for commands and
// reports script results and bridge commands back under these names.
const (
	EventCommand    = "surface:command"
	EventEvalResult = "surface:eval-result"
	EventBridge     = "bridge:command"
)

// Command operations understood by the shell.
const (
	OpNavigate = "navigate"
	OpHTML     = "html"
	OpEval     = "eval"
	OpReset    = "reset"
)

var (
	// ErrReset fails evaluations still pending when the view is reset.
	ErrReset = errors.New("view was reset")

	// ErrNoShell is returned when no shell is connected to receive commands.
	ErrNoShell = errors.New("no shell connected")
)

// Command is sent to the shell page.
type Command struct {
	Op     string `json:"op"`
	ID     string `json:"id,omitempty"`
	URL    string `json:"url,omitempty"`
	HTML   string `json:"html,omitempty"`
	Script string `json:"script,omitempty"`
}

// EvalResult is what the shell reports after running a script.
type EvalResult struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// EvalError is a script failure reported by the page.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string {
	return "script error: " + e.Message
}

// scriptHost implements surface.Host by sending commands to a shell.
type scriptHost struct {
	name string
	send func(Command) error

	mu      sync.Mutex
	pending map[string]func(string, error)
	bridge  func(string)
}

func newScriptHost(name string, send func(Command) error) *scriptHost {
	return &scriptHost{
		name:    name,
		send:    send,
		pending: make(map[string]func(string, error)),
	}
}

func (h *scriptHost) Navigate(url string) error {
	return h.send(Command{Op: OpNavigate, URL: url})
}

func (h *scriptHost) SetHTML(document string) error {
	return h.send(Command{Op: OpHTML, HTML: document})
}

func (h *scriptHost) Eval(script string, done func(string, error)) {
	id := uuid.NewString()
	h.mu.Lock()
	h.pending[id] = done
	h.mu.Unlock()

	if err := h.send(Command{Op: OpEval, ID: id, Script: script}); err != nil {
		if fn := h.take(id); fn != nil {
			fn("", err)
		}
	}
}

func (h *scriptHost) Reset() error {
	h.mu.Lock()
	pending := h.pending
	h.pending = make(map[string]func(string, error))
	h.mu.Unlock()

	for _, done := range pending {
		done("", ErrReset)
	}
	return h.send(Command{Op: OpReset})
}

// OnBridgeCommand sets the handler for bridge commands posted by content.
// It runs on the goroutine that received the command.
func (h *scriptHost) OnBridgeCommand(fn func(cmd string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bridge = fn
}

func (h *scriptHost) take(id string) func(string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	done := h.pending[id]
	delete(h.pending, id)
	return done
}

func (h *scriptHost) resolve(res EvalResult) {
	done := h.take(res.ID)
	if done == nil {
		log.Printf("[%s] Dropping result for unknown evaluation %s", h.name, res.ID)
		return
	}
	if res.Error != "" {
		done("", &EvalError{Message: res.Error})
		return
	}
	done(res.Result, nil)
}

func (h *scriptHost) bridgeCommand(cmd string) {
	h.mu.Lock()
	fn := h.bridge
	h.mu.Unlock()
	if fn == nil {
		log.Printf("[%s] No handler for bridge command %q", h.name, cmd)
		return
	}
	fn(cmd)
}
