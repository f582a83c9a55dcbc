package web

import "sync"

// broadcaster pings every subscriber when the grid changed. A ping carries
// no data; subscribers re-read the grid. Pings to a subscriber that has
// not consumed the previous one are merged into it.
type broadcaster struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{listeners: make(map[chan struct{}]struct{})}
}

// subscribe returns the ping channel and a function that unsubscribes and
// closes it.
func (b *broadcaster) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.listeners[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *broadcaster) broadcast() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (b *broadcaster) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
