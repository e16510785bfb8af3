package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions maps a session id to its cart manager. Each session owns exactly
// one Manager for its lifetime; there are no ambient globals.
type Sessions struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Manager
}

// NewSessions builds an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{carts: map[uuid.UUID]*Manager{}}
}

// Get returns the manager for the session, creating one on first use.
func (s *Sessions) Get(sessionID uuid.UUID) *Manager {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manager, ok := s.carts[sessionID]; ok {
		return manager
	}
	manager := NewManager()
	s.carts[sessionID] = manager
	return manager
}

// Drop discards the session's cart, if any.
func (s *Sessions) Drop(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
