//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"coinscious/internal/ledger/store"
	id "coinscious/pkg/domain"
	"coinscious/pkg/testutil/containers"
)

const ledgerDDL = `
CREATE TABLE IF NOT EXISTS balances (
    wallet    TEXT NOT NULL,
    partition TEXT NOT NULL,
    balance   BIGINT NOT NULL CHECK (balance >= 0),
    PRIMARY KEY (wallet, partition)
);
CREATE TABLE IF NOT EXISTS partition_supply (
    partition TEXT PRIMARY KEY,
    supply    BIGINT NOT NULL CHECK (supply >= 0)
)`

const (
	aliceAddr = id.WalletAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	bobAddr   = id.WalletAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.Exec(s.T(), ledgerDDL)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE balances", "TRUNCATE partition_supply")
}

func (s *PostgresLedgerSuite) TestIssueRedeemTransfer() {
	ctx := context.Background()

	s.Require().NoError(s.store.ApplyIssue(ctx, id.PartitionRegD, aliceAddr, 1000))

	balance, err := s.store.Balance(ctx, aliceAddr, id.PartitionRegD)
	s.Require().NoError(err)
	s.Equal(int64(1000), balance)

	supply, err := s.store.Supply(ctx, id.PartitionRegD)
	s.Require().NoError(err)
	s.Equal(int64(1000), supply)

	s.Require().NoError(s.store.ApplyTransfer(ctx, id.PartitionRegD, aliceAddr, bobAddr, 400))
	s.Require().NoError(s.store.ApplyRedeem(ctx, id.PartitionRegD, bobAddr, 100))

	view, err := s.store.View(ctx, id.PartitionRegD)
	s.Require().NoError(err)
	s.Equal(int64(900), view.Supply)
	s.Equal(int64(600), view.Balances[aliceAddr])
	s.Equal(int64(300), view.Balances[bobAddr])
}

func (s *PostgresLedgerSuite) TestInsufficientBalance() {
	ctx := context.Background()
	s.Require().NoError(s.store.ApplyIssue(ctx, id.PartitionRegD, aliceAddr, 100))

	err := s.store.ApplyTransfer(ctx, id.PartitionRegD, aliceAddr, bobAddr, 200)
	s.Require().ErrorIs(err, store.ErrInsufficientBalance)

	err = s.store.ApplyRedeem(ctx, id.PartitionRegD, aliceAddr, 200)
	s.Require().ErrorIs(err, store.ErrInsufficientBalance)

	// Nothing moved.
	balance, err := s.store.Balance(ctx, aliceAddr, id.PartitionRegD)
	s.Require().NoError(err)
	s.Equal(int64(100), balance)
}

func (s *PostgresLedgerSuite) TestPartitionsAreIsolated() {
	ctx := context.Background()
	s.Require().NoError(s.store.ApplyIssue(ctx, id.PartitionRegD, aliceAddr, 100))

	err := s.store.ApplyTransfer(ctx, id.PartitionRegS, aliceAddr, bobAddr, 50)
	s.Require().ErrorIs(err, store.ErrInsufficientBalance)

	supply, err := s.store.Supply(ctx, id.PartitionRegS)
	s.Require().NoError(err)
	s.Zero(supply)
}

// Concurrent debits against one balance must never take it negative; the
// guarded UPDATE decides the winners.
func (s *PostgresLedgerSuite) TestConcurrentDebits() {
	ctx := context.Background()
	s.Require().NoError(s.store.ApplyIssue(ctx, id.PartitionRegD, aliceAddr, 10))

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.store.ApplyTransfer(ctx, id.PartitionRegD, aliceAddr, bobAddr, 1)
		}()
	}
	wg.Wait()
	close(results)

	applied := 0
	for err := range results {
		if err == nil {
			applied++
		} else {
			s.Require().ErrorIs(err, store.ErrInsufficientBalance)
		}
	}
	s.Equal(10, applied)

	balance, err := s.store.Balance(ctx, aliceAddr, id.PartitionRegD)
	s.Require().NoError(err)
	s.Zero(balance)
}
