package telemetry

import (
	"strings"
	"sync"
	"time"
)

// EventLevel tags an operator log line.
type EventLevel string

const (
	EventInfo EventLevel = "info"
	EventWarn EventLevel = "warn"
)

// Event is one operator-visible log line.
type Event struct {
	Time    time.Time
	Level   EventLevel
	Message string
}

// ActionEvent is the log line for an operator-triggered action. Actions
// named RESTART... are logged as warnings.
func ActionEvent(at time.Time, name string) Event {
	level := EventInfo
	if strings.HasPrefix(name, "RESTART") {
		level = EventWarn
	}
	return Event{Time: at, Level: level, Message: "CMD: " + name + " — initiated by operator"}
}

// EventLog receives operator-visible log lines.
type EventLog interface {
	Log(e Event)
}

// EventLogFunc adapts a function to EventLog.
type EventLogFunc func(Event)

func (f EventLogFunc) Log(e Event) { f(e) }

// EventBuffer keeps the most recent events in memory.
type EventBuffer struct {
	mu     sync.Mutex
	max    int
	events []Event
}

// NewEventBuffer keeps at most max events (unbounded when max <= 0).
func NewEventBuffer(max int) *EventBuffer {
	return &EventBuffer{max: max}
}

func (b *EventBuffer) Log(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	if b.max > 0 && len(b.events) > b.max {
		b.events = b.events[len(b.events)-b.max:]
	}
}

// Events returns a copy of the buffered events, oldest first.
func (b *EventBuffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Len returns the number of buffered events.
func (b *EventBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
