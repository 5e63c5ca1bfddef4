package subscriber

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wb-go/wbf/zlog"
)

// Registry is the set of live subscribers.
//
// Writers are serialised by mu and publish a fresh slice on every change; readers load the
// current slice without locking. A snapshot is therefore never torn and stays valid while
// subscribers come and go.
type Registry struct {
	mu          sync.Mutex
	closed      bool
	subscribers atomic.Pointer[[]*Subscriber]
	sendTimeout time.Duration
}

// NewRegistry creates an empty registry. sendTimeout bounds the confirmation send on Register.
func NewRegistry(sendTimeout time.Duration) *Registry {
	r := &Registry{sendTimeout: sendTimeout}
	empty := make([]*Subscriber, 0)
	r.subscribers.Store(&empty)

	return r
}

// Register adds s to the live set and sends it the connection event.
//
// The subscriber is removed automatically once ctx is done (client gone, stream timeout) or
// s is closed (write failure). When the confirmation cannot be delivered s is removed at once
// and the error is returned. After Close every registration fails with ErrRegistryClosed.
func (r *Registry) Register(ctx context.Context, s *Subscriber) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		s.Close()
		return ErrRegistryClosed
	}

	current := *r.subscribers.Load()
	for _, existing := range current {
		if existing == s {
			r.mu.Unlock()
			return nil
		}
	}

	next := make([]*Subscriber, len(current), len(current)+1)
	copy(next, current)
	next = append(next, s)
	r.subscribers.Store(&next)
	r.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.Done():
		}
		r.Unregister(s)
	}()

	zlog.Logger.Info().Str("subscriber", s.ID().String()).Int("live", len(next)).Msg("subscriber registered")

	ev := Event{Name: EventConnection, Data: ConnectionEstablished}
	if err := s.Send(ctx, ev, r.sendTimeout); err != nil {
		zlog.Logger.Error().Err(err).Str("subscriber", s.ID().String()).Msg("failed to send connection event")
		r.Unregister(s)
		return fmt.Errorf("send connection event: %w", err)
	}

	return nil
}

// Unregister removes s from the live set and closes it. It reports whether s was present;
// removing an absent subscriber is a no-op.
func (r *Registry) Unregister(s *Subscriber) bool {
	s.Close()

	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.subscribers.Load()
	idx := -1
	for i, existing := range current {
		if existing == s {
			idx = i
			break
		}
	}

	if idx < 0 {
		return false
	}

	next := make([]*Subscriber, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	r.subscribers.Store(&next)

	zlog.Logger.Info().Str("subscriber", s.ID().String()).Int("live", len(next)).Msg("subscriber unregistered")

	return true
}

// Close closes every live subscriber and rejects later registrations.
// It is meant for shutdown, so that open streams end and no new ones start.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	current := *r.subscribers.Load()
	empty := make([]*Subscriber, 0)
	r.subscribers.Store(&empty)
	r.mu.Unlock()

	for _, s := range current {
		s.Close()
	}

	zlog.Logger.Info().Int("closed", len(current)).Msg("subscriber registry closed")
}

// Snapshot returns the live subscribers in registration order.
//
// The returned slice is shared and must not be modified.
func (r *Registry) Snapshot() []*Subscriber {
	return *r.subscribers.Load()
}

// Len returns the number of live subscribers.
func (r *Registry) Len() int {
	return len(*r.subscribers.Load())
}
