// Package logstream provides a bounded in-memory event buffer for run
// progress messages, drained by the CLI after a run or served over HTTP.
package logstream

import (
	"fmt"
	"sync"
	"time"
)

// Event is one progress message with its capture time.
type Event struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// Stream is a fixed-capacity ring of events. Push never blocks: when the
// buffer is full the oldest event is dropped and a counter incremented.
// A nil Stream accepts and discards everything.
type Stream struct {
	mu      sync.Mutex
	events  []Event
	cap     int
	dropped int64
}

// New returns a stream holding at most capacity events. Non-positive
// capacities fall back to a small default.
func New(capacity int) *Stream {
	if capacity <= 0 {
		capacity = 64
	}
	return &Stream{cap: capacity}
}

// Push appends a message, evicting the oldest event when full.
func (s *Stream) Push(msg string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) >= s.cap {
		s.events = s.events[1:]
		s.dropped++
	}
	s.events = append(s.events, Event{At: time.Now(), Message: msg})
}

// Pushf formats and pushes a message.
func (s *Stream) Pushf(format string, args ...any) {
	if s == nil {
		return
	}
	s.Push(fmt.Sprintf(format, args...))
}

// Drain returns all buffered events and resets the stream.
func (s *Stream) Drain() []Event {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// Dropped reports how many events were evicted since creation.
func (s *Stream) Dropped() int64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
