package store

import (
	"context"
	"sync"

	"coinscious/internal/audit"
	id "coinscious/pkg/domain"
)

// InMemoryStore keeps events in a slice. Used in tests and when no database
// is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

// NewInMemoryStore creates an empty in-memory audit store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, filter Filter) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		e := s.events[i]
		if !matches(e, filter.Wallet) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func matches(e audit.Event, wallet id.WalletAddress) bool {
	if wallet.IsZero() {
		return true
	}
	return e.Actor == wallet || e.Destination == wallet || e.Source == wallet.String()
}
