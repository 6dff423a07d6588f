package state

import "sync"

// Listener observes every dispatched action together with the state it
// produced.
type Listener func(a Action, s State)

type subscription struct {
	id int
	fn Listener
}

// Store is the single source of truth for todo state. All mutation goes
// through Dispatch, which applies one action at a time.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    int
	selectors *Selectors
}

// NewStore returns a store holding the initial state.
func NewStore() *Store {
	return &Store{
		state:     Initial(),
		selectors: NewSelectors(),
	}
}

// Dispatch reduces a into the current state and notifies listeners.
// Listeners run after the lock is released and may dispatch again.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	listeners := append([]subscription(nil), s.listeners...)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(a, next)
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Selectors returns the store's memoized views.
func (s *Store) Selectors() *Selectors {
	return s.selectors
}
