package inflight

import "sync"

// Set tracks entity IDs with a pending mutation.
// One entity can have at most one pending mutation; distinct entities are independent.
type Set struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// Keys are scoped by entity kind so one Set can be shared across modules.
func CarKey(id string) string            { return "car:" + id }
func AccountKey(id string) string        { return "account:" + id }
func BookingKey(sessionID string) string { return "booking:" + sessionID }

func NewSet() *Set {
	return &Set{ids: make(map[string]struct{})}
}

// TryAcquire marks id as busy. It returns false if id is already busy.
func (s *Set) TryAcquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.ids[id]; busy {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Release clears the busy flag for id. Releasing a free id is a no-op.
func (s *Set) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

func (s *Set) Busy(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.ids[id]
	return busy
}
