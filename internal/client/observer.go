package client

import "sync"

// subscribers is the observer list shared by the stores. Snapshots carry the
// sequence number the store assigned under its lock; delivery is serialized
// and a snapshot older than one already delivered is dropped, so the last
// value a subscriber sees is always the newest state.
type subscribers[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)

	deliver sync.Mutex
	last    uint64
}

// add registers fn and returns a function that removes it.
func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.fns, id)
	}
}

// notify calls every subscriber with v unless a newer snapshot went out
// first. Callers must not hold a store lock, and subscribers must not call
// mutating methods of the store that notifies them.
func (s *subscribers[T]) notify(seq uint64, v T) {
	s.deliver.Lock()
	defer s.deliver.Unlock()
	if seq <= s.last {
		return
	}
	s.last = seq

	s.mu.Lock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
