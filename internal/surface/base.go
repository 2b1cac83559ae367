package surface

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ramonehamilton/deckstats/internal/async"
)

// Options tune surface behaviour.
type Options struct {
	// Strict makes use-after-dispose panic instead of being logged and ignored.
	Strict bool
}

var nextSurfaceID atomic.Uint64

// base holds the state and behaviour both variants share.
type base struct {
	kind  Kind
	id    uint64
	host  Host
	loop  *async.Loop
	token *async.Token
	opts  Options

	disposed bool
	loaded   bool
	current  Source
}

func newBase(kind Kind, host Host, loop *async.Loop, parent *async.Token, opts Options) base {
	token := async.NewToken()
	if parent != nil {
		token = parent.Child()
	}
	return base{
		kind:  kind,
		id:    nextSurfaceID.Add(1),
		host:  host,
		loop:  loop,
		token: token,
		opts:  opts,
	}
}

func (b *base) Kind() Kind {
	return b.kind
}

// ID distinguishes surface instances in logs and tests.
func (b *base) ID() uint64 {
	return b.id
}

func (b *base) Disposed() bool {
	return b.disposed
}

// Token is cancelled when the surface is disposed.
func (b *base) Token() *async.Token {
	return b.token
}

// Current returns the last loaded source.
func (b *base) Current() (Source, bool) {
	return b.current, b.loaded
}

func (b *base) check(op string) error {
	if !b.disposed {
		return nil
	}
	msg := fmt.Sprintf("%s surface #%d: %s after dispose", b.kind, b.id, op)
	if b.opts.Strict {
		panic(msg)
	}
	log.Printf("[Surface] Ignoring %s", msg)
	return ErrSurfaceDisposed
}

func (b *base) EvaluateScript(script string) *async.Future[string] {
	if err := b.check("evaluateScript"); err != nil {
		return async.Rejected[string](b.loop, b.token, err)
	}

	f := async.NewFuture[string](b.loop, b.token)
	release := b.loop.Hold()
	b.host.Eval(script, func(result string, err error) {
		f.Resolve(result, err)
		release()
	})
	return f
}

// printViaHost exports through a host that can print itself.
func (b *base) printViaHost(host PDFHost, path string) *async.Future[struct{}] {
	f := async.NewFuture[struct{}](b.loop, b.token)
	release := b.loop.Hold()
	host.PrintToPDF(path, func(err error) {
		if err != nil {
			err = &ExportIOError{Path: path, Err: err}
		}
		f.Resolve(struct{}{}, err)
		release()
	})
	return f
}

func (b *base) Dispose() error {
	if err := b.check("dispose"); err != nil {
		return err
	}
	b.disposed = true
	b.token.Cancel()

	if err := b.host.Reset(); err != nil {
		return fmt.Errorf("reset host for %s surface #%d: %w", b.kind, b.id, err)
	}
	return nil
}

func (b *base) remember(src Source) {
	b.current = src
	b.loaded = true
}

func (b *base) showing(src Source) bool {
	return b.loaded && b.current.Equal(src)
}
