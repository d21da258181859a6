package store

import (
	"context"
	"sync"

	"coinscious/internal/registry"
	id "coinscious/pkg/domain"
)

// InMemoryStore implements Store with a map. Used in tests and when no
// database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.WalletAddress]registry.WalletRecord
}

// NewInMemoryStore creates an empty in-memory wallet record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.WalletAddress]registry.WalletRecord),
	}
}

func (s *InMemoryStore) Get(ctx context.Context, wallet id.WalletAddress) (*registry.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[wallet]
	if !ok {
		return nil, ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (s *InMemoryStore) Put(ctx context.Context, rec *registry.WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Wallet] = *rec
	return nil
}

func (s *InMemoryStore) List(ctx context.Context) ([]*registry.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*registry.WalletRecord, 0, len(s.records))
	for _, rec := range s.records {
		copy := rec
		out = append(out, &copy)
	}
	return out, nil
}
