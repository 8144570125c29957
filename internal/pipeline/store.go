package pipeline

import "sync"

// Store holds the most recent run result for concurrent readers. Results
// must not be mutated after Set.
type Store struct {
	mu  sync.RWMutex
	res *Result
}

func NewStore() *Store {
	return &Store{}
}

// Set publishes a new result, replacing any previous one.
func (s *Store) Set(res *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res = res
}

// Latest returns the most recently published result, or nil before the
// first successful run.
func (s *Store) Latest() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}
