package cart

import "sync"

// Store keeps one cart per session id. Carts live for the lifetime of the
// process; a session that never commits simply abandons its cart, which
// needs no compensation because seats are only claimed at commit.
type Store struct {
	mu        sync.RWMutex
	carts     map[string]*Cart
	seatPrice int64
}

func NewStore(seatPrice int64) *Store {
	return &Store{carts: make(map[string]*Cart), seatPrice: seatPrice}
}

// Get returns the session's cart, creating an empty one on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[sessionID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	c = newCart(sessionID, s.seatPrice)
	s.carts[sessionID] = c
	return c
}

// Clear resets and drops the session's cart. Called by the coordinator
// after a successful commit and by the explicit reset endpoint.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok {
		c.Reset()
		delete(s.carts, sessionID)
	}
}
