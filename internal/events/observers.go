package events

import (
	"log"
	"strings"
)

// Emitter forwards an event to some front end.
type Emitter interface {
	Emit(eventType string, data any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(eventType string, data any)

// Emit calls f.
func (f EmitterFunc) Emit(eventType string, data any) { f(eventType, data) }

// ForwardingObserver forwards events whose type starts with one of its
// prefixes to an Emitter.
type ForwardingObserver struct {
	name     string
	emitter  Emitter
	prefixes []string
}

// NewForwardingObserver creates an observer forwarding to emitter. With no
// prefixes every event is forwarded.
func NewForwardingObserver(name string, emitter Emitter, prefixes ...string) *ForwardingObserver {
	return &ForwardingObserver{name: name, emitter: emitter, prefixes: prefixes}
}

// OnEvent forwards the payload.
func (o *ForwardingObserver) OnEvent(event Event) error {
	if o.emitter == nil {
		return nil
	}
	o.emitter.Emit(event.Type, event.Data)
	return nil
}

// GetName returns the observer's name.
func (o *ForwardingObserver) GetName() string {
	return o.name
}

// ShouldHandle matches the event type against the prefixes.
func (o *ForwardingObserver) ShouldHandle(eventType string) bool {
	if len(o.prefixes) == 0 {
		return true
	}
	for _, p := range o.prefixes {
		if strings.HasPrefix(eventType, p) {
			return true
		}
	}
	return false
}

// LoggingObserver logs all events for debugging purposes.
type LoggingObserver struct {
	name    string
	verbose bool
}

// NewLoggingObserver creates a new observer that logs events.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{
		name:    "LoggingObserver",
		verbose: verbose,
	}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[%s] Event: %s, Data: %+v", o.name, event.Type, event.Data)
	} else {
		log.Printf("[%s] Event: %s", o.name, event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(eventType string) bool {
	return true
}
