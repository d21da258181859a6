package store

import (
	"context"
	"sync"

	id "coinscious/pkg/domain"
)

type balanceKey struct {
	wallet    id.WalletAddress
	partition id.Partition
}

// InMemoryStore implements Store with maps under one mutex, matching the
// one-operation-at-a-time commit model.
type InMemoryStore struct {
	mu       sync.RWMutex
	balances map[balanceKey]int64
	supply   map[id.Partition]int64
}

// NewInMemoryStore creates an empty in-memory ledger store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		balances: make(map[balanceKey]int64),
		supply:   make(map[id.Partition]int64),
	}
}

func (s *InMemoryStore) Balance(ctx context.Context, wallet id.WalletAddress, partition id.Partition) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[balanceKey{wallet, partition}], nil
}

func (s *InMemoryStore) Supply(ctx context.Context, partition id.Partition) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply[partition], nil
}

func (s *InMemoryStore) View(ctx context.Context, partition id.Partition) (PartitionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := PartitionView{
		Supply:   s.supply[partition],
		Balances: make(map[id.WalletAddress]int64),
	}
	for key, balance := range s.balances {
		if key.partition == partition && balance != 0 {
			view.Balances[key.wallet] = balance
		}
	}
	return view, nil
}

func (s *InMemoryStore) ApplyIssue(ctx context.Context, partition id.Partition, to id.WalletAddress, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[balanceKey{to, partition}] += amount
	s.supply[partition] += amount
	return nil
}

func (s *InMemoryStore) ApplyRedeem(ctx context.Context, partition id.Partition, from id.WalletAddress, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := balanceKey{from, partition}
	if s.balances[key] < amount {
		return ErrInsufficientBalance
	}
	s.balances[key] -= amount
	s.supply[partition] -= amount
	return nil
}

func (s *InMemoryStore) ApplyTransfer(ctx context.Context, partition id.Partition, from, to id.WalletAddress, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromKey := balanceKey{from, partition}
	if s.balances[fromKey] < amount {
		return ErrInsufficientBalance
	}
	s.balances[fromKey] -= amount
	s.balances[balanceKey{to, partition}] += amount
	return nil
}
