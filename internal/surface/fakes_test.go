package surface

import (
	"errors"
	"testing"
	"time"

	"github.com/ramonehamilton/deckstats/internal/async"
)

type evalCall struct {
	script string
	done   func(string, error)
}

// recordingHost records every call and holds evaluations until the test answers them.
type recordingHost struct {
	calls []string
	evals []evalCall
	docs  []string

	navigateErr error
}

func (h *recordingHost) Navigate(url string) error {
	h.calls = append(h.calls, "navigate:"+url)
	return h.navigateErr
}

func (h *recordingHost) SetHTML(doc string) error {
	h.calls = append(h.calls, "html")
	h.docs = append(h.docs, doc)
	return nil
}

func (h *recordingHost) Eval(script string, done func(string, error)) {
	h.calls = append(h.calls, "eval:"+script)
	h.evals = append(h.evals, evalCall{script: script, done: done})
}

func (h *recordingHost) Reset() error {
	h.calls = append(h.calls, "reset")
	return nil
}

type fakePrinter struct {
	err   error
	paths []string
	docs  []string
}

func (p *fakePrinter) PrintHTML(doc, path string) error {
	p.paths = append(p.paths, path)
	p.docs = append(p.docs, doc)
	return p.err
}

var errDiskFull = errors.New("disk full")

func settle(t *testing.T, l *async.Loop) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		l.Drain()
		if l.Idle() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("loop did not settle")
		}
		time.Sleep(time.Millisecond)
	}
}
