package async

import (
	"sync"
)

// Token is a cancellation flag tied to the lifetime of an owner (a surface, a
// dialog). Cancelling a token never interrupts work; it only marks results
// produced for the owner as unwanted.
type Token struct {
	parent *Token
	once   sync.Once
	done   chan struct{}
}

// NewToken returns an uncancelled root token.
func NewToken() *Token {
	return &Token{done: make(chan struct{})}
}

// Child returns a token that is cancelled with t or on its own.
func (t *Token) Child() *Token {
	return &Token{parent: t, done: make(chan struct{})}
}

// Cancel marks the token cancelled. Idempotent.
func (t *Token) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether the token or any of its ancestors was cancelled.
// A nil token is never cancelled.
func (t *Token) Cancelled() bool {
	for tok := t; tok != nil; tok = tok.parent {
		select {
		case <-tok.done:
			return true
		default:
		}
	}
	return false
}

// Done is closed when this token (not its parent) is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.done
}
