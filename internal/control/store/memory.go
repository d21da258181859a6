package store

import (
	"context"
	"sync"

	"coinscious/internal/control"
	id "coinscious/pkg/domain"
)

// InMemoryStore implements Store with local state under one mutex.
type InMemoryStore struct {
	mu     sync.RWMutex
	state  control.State
	frozen map[id.WalletAddress]bool
}

// NewInMemoryStore creates a control store seeded with the genesis role
// assignments.
func NewInMemoryStore(genesis control.State) *InMemoryStore {
	return &InMemoryStore{
		state:  genesis,
		frozen: make(map[id.WalletAddress]bool),
	}
}

func (s *InMemoryStore) Get(ctx context.Context) (control.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

func (s *InMemoryStore) Update(ctx context.Context, fn func(*control.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *InMemoryStore) IsFrozen(ctx context.Context, wallet id.WalletAddress) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen[wallet], nil
}

func (s *InMemoryStore) SetFrozen(ctx context.Context, wallet id.WalletAddress, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if frozen {
		s.frozen[wallet] = true
	} else {
		delete(s.frozen, wallet)
	}
	return nil
}
