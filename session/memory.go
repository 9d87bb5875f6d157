package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the token in process memory. It is the default backend
// and mirrors browser session storage: the token lives exactly as long as the
// process, so every run starts signed out.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently.
func (s *MemoryStore) Get(_ context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set, nil
}

// Set describes the set operation and its observable behavior.
//
// Set does not return an error for this backend; memory writes cannot fail.
func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		s.token, s.set = "", false
		return nil
	}
	s.token, s.set = token, true
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear is idempotent; clearing an empty store is a no-op.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.set = "", false
	return nil
}
