package webview

import (
	"sync"
)

// Headless is a host without a display. It remembers what it was asked to
// show, which is all the command line and tests need.
type Headless struct {
	mu       sync.Mutex
	url      string
	document string
	scripts  []string
	resets   int
}

// NewHeadless returns an empty headless host.
func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Navigate(url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.url, h.document = url, ""
	return nil
}

func (h *Headless) SetHTML(document string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.url, h.document = "", document
	return nil
}

// Eval records script and completes with an empty result.
func (h *Headless) Eval(script string, done func(string, error)) {
	h.mu.Lock()
	h.scripts = append(h.scripts, script)
	h.mu.Unlock()
	done("", nil)
}

func (h *Headless) Reset() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.url, h.document = "", ""
	h.resets++
	return nil
}

// URL is the page last navigated to.
func (h *Headless) URL() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.url
}

// Document is the document last set.
func (h *Headless) Document() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.document
}

// Scripts lists evaluated scripts in order.
func (h *Headless) Scripts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.scripts...)
}
