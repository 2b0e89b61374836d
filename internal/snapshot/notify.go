package snapshot

import (
	"sync"
	"sync/atomic"
)

// Registry owns the current snapshot and notifies subscribers when it is
// swapped. Load is a single atomic pointer read, so evaluation never
// contends with reconfiguration.
type Registry struct {
	current atomic.Pointer[Snapshot]

	mu   sync.Mutex
	subs map[chan string]struct{}
}

// NewRegistry returns a registry seeded with the given snapshot.
func NewRegistry(s *Snapshot) *Registry {
	r := &Registry{subs: make(map[chan string]struct{})}
	r.current.Store(s)
	return r
}

// Load returns the current snapshot.
func (r *Registry) Load() *Snapshot {
	return r.current.Load()
}

// Update swaps in the new snapshot and notifies subscribers with its ETag.
func (r *Registry) Update(s *Snapshot) {
	r.current.Store(s)
	r.publishUpdate(s.ETag)
}

// Subscribe registers a listener for snapshot updates and returns its
// channel and an unsubscribe func. The channel carries the new ETag.
func (r *Registry) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 1)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	unsub := func() {
		r.mu.Lock()
		delete(r.subs, ch)
		close(ch)
		r.mu.Unlock()
	}
	return ch, unsub
}

// publishUpdate notifies all listeners without blocking; a slow listener
// misses intermediate updates rather than stalling the swap.
func (r *Registry) publishUpdate(etag string) {
	r.mu.Lock()
	for ch := range r.subs {
		select {
		case ch <- etag:
		default:
		}
	}
	r.mu.Unlock()
}
