package server

import (
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Logger Sink
// --------------------------------------------------------------------------

// LoggerSink writes every event to the server logger at info level
type LoggerSink struct{}

func (LoggerSink) Event(message string) {
	Logger.Infof("%s", message)
}

// --------------------------------------------------------------------------
// Event Log
// --------------------------------------------------------------------------

// EventEntry is one recorded event
type EventEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// EventLog keeps the most recent events in a ring buffer.
// It is served by the admin api.
type EventLog struct {
	mu      sync.Mutex
	entries []EventEntry
	next    int
	full    bool
}

// NewEventLog creates an event log holding at most capacity entries (minimum 1)
func NewEventLog(capacity int) *EventLog {
	return &EventLog{entries: make([]EventEntry, max(1, capacity))}
}

func (l *EventLog) Event(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = EventEntry{Time: time.Now(), Message: message}
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Entries returns the recorded events, oldest first
func (l *EventLog) Entries() []EventEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.full {
		return append([]EventEntry(nil), l.entries[:l.next]...)
	}
	out := make([]EventEntry, 0, len(l.entries))
	out = append(out, l.entries[l.next:]...)
	return append(out, l.entries[:l.next]...)
}

// --------------------------------------------------------------------------
// Multi Sink
// --------------------------------------------------------------------------

// MultiSink forwards every event to all of its sinks
type MultiSink []EventSink

func (m MultiSink) Event(message string) {
	for _, sink := range m {
		if sink != nil {
			sink.Event(message)
		}
	}
}
