//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coinscious/internal/registry"
	"coinscious/internal/registry/store"
	id "coinscious/pkg/domain"
	"coinscious/pkg/testutil/containers"
)

const walletRecordsDDL = `
CREATE TABLE IF NOT EXISTS wallet_records (
    wallet          TEXT PRIMARY KEY,
    country         TEXT NOT NULL,
    accredited      BOOLEAN NOT NULL,
    us_tax_resident BOOLEAN NOT NULL,
    lockup_until    TIMESTAMPTZ,
    expires_at      TIMESTAMPTZ,
    whitelisted     BOOLEAN NOT NULL,
    revoked         BOOLEAN NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL
)`

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.Exec(s.T(), walletRecordsDDL)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE wallet_records")
}

func (s *PostgresStoreSuite) record(wallet id.WalletAddress) *registry.WalletRecord {
	return &registry.WalletRecord{
		Wallet: wallet,
		Claims: registry.Claims{
			Country:    "DE",
			Accredited: true,
		},
		Whitelisted: true,
		UpdatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	wallet := id.WalletAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	rec := s.record(wallet)
	rec.Claims.LockupUntil = time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	s.Require().NoError(s.store.Put(ctx, rec))

	got, err := s.store.Get(ctx, wallet)
	s.Require().NoError(err)
	s.Equal(rec.Wallet, got.Wallet)
	s.Equal(rec.Claims.Country, got.Claims.Country)
	s.Equal(rec.Claims.Accredited, got.Claims.Accredited)
	s.True(rec.Claims.LockupUntil.Equal(got.Claims.LockupUntil))
	s.True(got.Claims.ExpiresAt.IsZero())
	s.True(got.Whitelisted)
	s.False(got.Revoked)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	s.Require().ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPutUpserts() {
	ctx := context.Background()
	wallet := id.WalletAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	s.Require().NoError(s.store.Put(ctx, s.record(wallet)))

	updated := s.record(wallet)
	updated.Revoked = true
	updated.Whitelisted = false
	s.Require().NoError(s.store.Put(ctx, updated))

	got, err := s.store.Get(ctx, wallet)
	s.Require().NoError(err)
	s.True(got.Revoked)
	s.False(got.Whitelisted)
}

func (s *PostgresStoreSuite) TestList() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, s.record("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")))
	s.Require().NoError(s.store.Put(ctx, s.record("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")))

	records, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(records, 2)
}
