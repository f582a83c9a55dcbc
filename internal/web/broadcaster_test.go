package web

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := newBroadcaster()

	ch, unsubscribe := b.subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, b.len())

	unsubscribe()
	assert.Equal(t, 0, b.len())

	_, ok := <-ch
	assert.False(t, ok, "channel is closed on unsubscribe")

	// A second call is a no-op.
	assert.NotPanics(t, unsubscribe)
}

func TestBroadcaster_Broadcast(t *testing.T) {
	b := newBroadcaster()

	ch1, unsub1 := b.subscribe()
	ch2, unsub2 := b.subscribe()
	defer unsub1()
	defer unsub2()

	b.broadcast()

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive broadcast", i+1)
		}
	}
}

func TestBroadcaster_MergesPendingPings(t *testing.T) {
	b := newBroadcaster()
	ch, unsubscribe := b.subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		b.broadcast()
		b.broadcast()
		b.broadcast()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("broadcast blocked on a slow subscriber")
	}

	<-ch
	select {
	case <-ch:
		t.Error("pings were not merged")
	default:
	}
}

func TestBroadcaster_ConcurrentAccess(t *testing.T) {
	b := newBroadcaster()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, unsubscribe := b.subscribe()
			b.broadcast()
			unsubscribe()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, b.len())
}
