package async

import (
	"sync"
)

// Future is the eventual result of background work.
//
// Resolve may be called from any goroutine. Handlers registered with Then always
// run on the dispatcher, and are silently dropped if the future's token has been
// cancelled by the time they would run. Cancellation is checked on the UI thread
// at delivery, so a Cancel that happens on the UI thread before delivery wins.
type Future[T any] struct {
	disp  Dispatcher
	token *Token

	mu       sync.Mutex
	resolved bool
	value    T
	err      error
	handlers []func(T, error)
}

// NewFuture creates an unresolved future delivering on disp. token may be nil.
func NewFuture[T any](disp Dispatcher, token *Token) *Future[T] {
	return &Future[T]{disp: disp, token: token}
}

// Rejected returns a future already resolved with err.
func Rejected[T any](disp Dispatcher, token *Token, err error) *Future[T] {
	f := NewFuture[T](disp, token)
	var zero T
	f.Resolve(zero, err)
	return f
}

// Resolve settles the future. Only the first call has an effect.
func (f *Future[T]) Resolve(value T, err error) {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return
	}
	f.resolved = true
	f.value = value
	f.err = err
	handlers := f.handlers
	f.handlers = nil
	f.mu.Unlock()

	for _, h := range handlers {
		f.deliver(h, value, err)
	}
}

// Then registers fn to run on the dispatcher once the future resolves.
func (f *Future[T]) Then(fn func(T, error)) {
	f.mu.Lock()
	if !f.resolved {
		f.handlers = append(f.handlers, fn)
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()

	f.deliver(fn, value, err)
}

// Resolved reports whether the future has settled.
func (f *Future[T]) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

func (f *Future[T]) deliver(fn func(T, error), value T, err error) {
	f.disp.Post(func() {
		if f.token.Cancelled() {
			return
		}
		fn(value, err)
	})
}

// Go runs work on a new goroutine and returns its future on l.
// The loop counts the work as in flight until its result has been posted.
func Go[T any](l *Loop, token *Token, work func() (T, error)) *Future[T] {
	f := NewFuture[T](l, token)
	release := l.Hold()
	go func() {
		defer release()
		value, err := work()
		f.Resolve(value, err)
	}()
	return f
}
