// Package subscriber tracks the live push channels of connected clients.
//
// A Subscriber owns a bounded outbound queue. Producers enqueue events with Send and the
// connection goroutine drains Events and writes them to the network, so a slow client only
// fills its own queue. The Registry holds the live set and hands out immutable snapshots.
package subscriber

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// EventConnection is sent once, right after a subscriber is registered.
	EventConnection = "connection"
	// EventReminderDue carries a due reminder.
	EventReminderDue = "reminder-due"

	// ConnectionEstablished is the payload of the connection event.
	ConnectionEstablished = "SSE Connection Established"
)

var (
	ErrClosed         = errors.New("subscriber closed")
	ErrSendTimeout    = errors.New("subscriber send timed out")
	ErrRegistryClosed = errors.New("subscriber registry closed")
)

// Event is one named message pushed to a subscriber.
type Event struct {
	ID   string // optional event id, the reminder id for reminder-due
	Name string
	Data any
}

// Subscriber is one open client stream.
type Subscriber struct {
	id        uuid.UUID
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a subscriber whose outbound queue holds up to buffer events (at least one).
func New(buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 1
	}

	return &Subscriber{
		id:     uuid.New(),
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
}

// ID returns the process-local identifier, used for logging.
func (s *Subscriber) ID() uuid.UUID { return s.id }

// Events returns the queue the connection goroutine drains.
func (s *Subscriber) Events() <-chan Event { return s.events }

// Done is closed once the subscriber is closed.
func (s *Subscriber) Done() <-chan struct{} { return s.done }

// Close marks the subscriber as gone. It is safe to call more than once.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Closed reports whether Close has been called.
func (s *Subscriber) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Send enqueues ev. It waits at most timeout for room in the queue; a non-positive
// timeout means the send fails immediately when the queue is full.
func (s *Subscriber) Send(ctx context.Context, ev Event, timeout time.Duration) error {
	if s.Closed() {
		return ErrClosed
	}

	select {
	case s.events <- ev:
		return nil
	default:
	}

	if timeout <= 0 {
		return ErrSendTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-timer.C:
		return ErrSendTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
