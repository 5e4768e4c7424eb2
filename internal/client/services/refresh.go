package services

import "sync"

// RefreshSignal tells the registry view that the server-side listing may
// have changed. Bumps that arrive while a subscriber is still busy collapse
// into a single pending wake-up.
type RefreshSignal struct {
	mu     sync.Mutex
	gen    uint64
	subs   map[int]chan struct{}
	nextID int
}

func NewRefreshSignal() *RefreshSignal {
	return &RefreshSignal{subs: make(map[int]chan struct{})}
}

// Bump advances the counter and wakes every subscriber.
func (r *RefreshSignal) Bump() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	for _, ch := range r.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Generation returns how many times Bump has been called.
func (r *RefreshSignal) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

func (r *RefreshSignal) Subscribe() (<-chan struct{}, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	ch := make(chan struct{}, 1)
	r.subs[id] = ch

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}
