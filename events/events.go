// events/events.go
package events

import "log"

// Event is a single analytics event emitted after a core mutation succeeds.
type Event struct {
	Name   string
	Fields map[string]interface{}
}

// Sink receives analytics events. Emitting must never affect the outcome of
// the mutation that produced the event.
type Sink interface {
	Emit(e Event)
}

// LogSink writes events to the process log.
type LogSink struct{}

func (LogSink) Emit(e Event) {
	log.Printf("event %s: %v", e.Name, e.Fields)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}
