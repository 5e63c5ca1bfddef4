package subscriber

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterSendsConnectionEvent(t *testing.T) {
	r := NewRegistry(time.Second)
	s := New(4)

	require.NoError(t, r.Register(context.Background(), s))
	assert.Equal(t, 1, r.Len())

	select {
	case ev := <-s.Events():
		assert.Equal(t, EventConnection, ev.Name)
		assert.Equal(t, ConnectionEstablished, ev.Data)
	default:
		t.Fatal("connection event not queued")
	}
}

func TestRegistry_RegisterTwiceKeepsOneEntry(t *testing.T) {
	r := NewRegistry(time.Second)
	s := New(4)

	require.NoError(t, r.Register(context.Background(), s))
	require.NoError(t, r.Register(context.Background(), s))

	assert.Len(t, r.Snapshot(), 1)
}

func TestRegistry_ConfirmationFailureRemovesSubscriber(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)

	full := New(1)
	require.NoError(t, full.Send(context.Background(), Event{Name: "stale"}, 0))

	err := r.Register(context.Background(), full)
	assert.ErrorIs(t, err, ErrSendTimeout)
	assert.Equal(t, 0, r.Len())
	assert.True(t, full.Closed())
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(time.Second)
	s := New(4)
	require.NoError(t, r.Register(context.Background(), s))

	assert.True(t, r.Unregister(s))
	assert.False(t, r.Unregister(s))
	assert.False(t, r.Unregister(New(1)))
	assert.Equal(t, 0, r.Len())
	assert.True(t, s.Closed())
}

func TestRegistry_ContextCancelRemovesSubscriber(t *testing.T) {
	r := NewRegistry(time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	s := New(4)
	require.NoError(t, r.Register(ctx, s))
	require.Equal(t, 1, r.Len())

	cancel()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Closed())
}

func TestRegistry_CloseRemovesSubscriber(t *testing.T) {
	r := NewRegistry(time.Second)
	s := New(4)
	require.NoError(t, r.Register(context.Background(), s))

	s.Close()

	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRegistry_SnapshotOrderAndStability(t *testing.T) {
	r := NewRegistry(time.Second)
	a, b, c := New(4), New(4), New(4)
	for _, s := range []*Subscriber{a, b, c} {
		require.NoError(t, r.Register(context.Background(), s))
	}

	snap := r.Snapshot()
	require.Equal(t, []*Subscriber{a, b, c}, snap)

	r.Unregister(b)

	// an earlier snapshot is not affected by later membership changes
	assert.Equal(t, []*Subscriber{a, b, c}, snap)
	assert.Equal(t, []*Subscriber{a, c}, r.Snapshot())
}

func TestRegistry_ConcurrentMembershipWhileIterating(t *testing.T) {
	r := NewRegistry(time.Second)

	const workers = 32
	const rounds = 50

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// reader: every snapshot must be duplicate free
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}

			seen := make(map[*Subscriber]struct{})
			for _, s := range r.Snapshot() {
				if _, dup := seen[s]; dup {
					t.Error("duplicate subscriber in snapshot")
					return
				}
				seen[s] = struct{}{}
			}
		}
	}()

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				s := New(2)
				if err := r.Register(context.Background(), s); err != nil {
					t.Errorf("register: %v", err)
					return
				}
				r.Unregister(s)
			}
		}()
	}

	wg.Wait()
	close(stop)
	<-readerDone

	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CloseEndsSubscribersAndRejectsNewOnes(t *testing.T) {
	r := NewRegistry(time.Second)
	a, b := New(4), New(4)

	require.NoError(t, r.Register(context.Background(), a))
	require.NoError(t, r.Register(context.Background(), b))

	r.Close()

	assert.Equal(t, 0, r.Len())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())

	late := New(4)
	err := r.Register(context.Background(), late)
	assert.ErrorIs(t, err, ErrRegistryClosed)
	assert.True(t, late.Closed())
	assert.Equal(t, 0, r.Len())

	// Calling it again is harmless.
	r.Close()
}
