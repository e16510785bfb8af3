package checkout

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/autostore/storefront-backend/internal/cart"
)

var (
	errNilCarts     = errors.New("cart sessions required")
	errNilSubmitter = errors.New("submitter required")
)

// Sessions hands out one orchestrator per session, bound to that session's
// cart and the shared submitter.
type Sessions struct {
	mu            sync.Mutex
	carts         *cart.Sessions
	submitter     Submitter
	orchestrators map[uuid.UUID]*Orchestrator
}

// NewSessions builds the orchestrator registry.
func NewSessions(carts *cart.Sessions, submitter Submitter) (*Sessions, error) {
	if carts == nil {
		return nil, errNilCarts
	}
	if submitter == nil {
		return nil, errNilSubmitter
	}
	return &Sessions{
		carts:         carts,
		submitter:     submitter,
		orchestrators: map[uuid.UUID]*Orchestrator{},
	}, nil
}

// Get returns the session's orchestrator, creating it on first use.
func (s *Sessions) Get(sessionID uuid.UUID) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	if orchestrator, ok := s.orchestrators[sessionID]; ok {
		return orchestrator
	}
	orchestrator, err := NewOrchestrator(s.carts.Get(sessionID), s.submitter)
	if err != nil {
		// Both dependencies were checked at construction.
		panic(err)
	}
	s.orchestrators[sessionID] = orchestrator
	return orchestrator
}
