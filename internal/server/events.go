package server

import (
	"sync"
	"time"
)

const maxEvents = 256

// Event kinds.
const (
	EventSelect   = "select"
	EventDeselect = "deselect"
)

// Event is a recorded selection transition.
type Event struct {
	Seq  uint64    `json:"seq"`
	Kind string    `json:"kind"`
	Node string    `json:"node"`
	At   time.Time `json:"at"`
}

// eventLog keeps the most recent events in a bounded buffer.
type eventLog struct {
	mu     sync.Mutex
	limit  int
	next   uint64
	events []Event
}

func newEventLog(limit int) *eventLog {
	return &eventLog{limit: limit, next: 1}
}

func (l *eventLog) add(kind, node string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, Event{Seq: l.next, Kind: kind, Node: node, At: time.Now().UTC()})
	l.next++
	if len(l.events) > l.limit {
		l.events = l.events[len(l.events)-l.limit:]
	}
}

// since returns the events with Seq > seq, oldest first.
func (l *eventLog) since(seq uint64) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []Event{}
	for _, e := range l.events {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}
