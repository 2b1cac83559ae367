// Package async provides the single UI thread the stats view runs on.
//
// Every controller operation and every completion of background work runs on
// the Loop goroutine, one callback at a time and in posting order. Work that
// blocks (database access, file dialogs, PDF rendering, script evaluation in the
// web view) runs elsewhere and posts its result back with a Future.
package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopStopped is returned by Call when the loop stops before running fn.
var ErrLoopStopped = errors.New("ui loop stopped")

// Dispatcher runs callbacks on the UI thread.
type Dispatcher interface {
	Post(fn func())
}

// Loop is an unbounded, single-consumer callback queue.
type Loop struct {
	mu       sync.Mutex
	pending  []func()
	stopped  bool
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// inflight counts background work that will post back to the loop.
	inflight atomic.Int64
}

// NewLoop creates a loop. Callbacks run only while Run (or Drain) is being called.
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post queues fn. Safe from any goroutine, including the loop itself.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted callbacks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
			l.Drain()
		}
	}
}

// Drain runs everything queued so far, including callbacks queued by those
// callbacks, and returns how many ran. Tests call it directly instead of Run.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Call runs fn on the loop and waits for its result.
// It must not be called from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	l.Post(func() {
		result <- fn()
	})

	select {
	case err := <-result:
		return err
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the loop. Pending callbacks are discarded. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.pending = nil
		l.mu.Unlock()
		close(l.done)
	})
}

// Hold marks one unit of background work that will post back to the loop.
// The returned release must be called exactly once, after the post.
func (l *Loop) Hold() (release func()) {
	l.inflight.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { l.inflight.Add(-1) })
	}
}

// Idle reports whether nothing is queued and no held work is outstanding.
func (l *Loop) Idle() bool {
	l.mu.Lock()
	queued := len(l.pending)
	l.mu.Unlock()
	return queued == 0 && l.inflight.Load() == 0
}
