//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"coinscious/internal/control"
	"coinscious/internal/control/store"
	id "coinscious/pkg/domain"
	"coinscious/pkg/testutil/containers"
)

const controlDDL = `
CREATE TABLE IF NOT EXISTS control_state (
    singleton          BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
    paused             BOOLEAN NOT NULL,
    admin_wallet       TEXT NOT NULL,
    oracle_wallet      TEXT NOT NULL,
    controller_wallet  TEXT NOT NULL,
    pending_controller TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS frozen_wallets (
    wallet TEXT PRIMARY KEY
)`

var genesis = control.State{
	Admin:      "0x1111111111111111111111111111111111111111",
	Oracle:     "0x2222222222222222222222222222222222222222",
	Controller: "0x3333333333333333333333333333333333333333",
}

type PostgresControlSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresControlSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresControlSuite))
}

func (s *PostgresControlSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.Exec(s.T(), controlDDL)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresControlSuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE control_state", "TRUNCATE frozen_wallets")
	s.Require().NoError(s.store.Seed(context.Background(), genesis))
}

func (s *PostgresControlSuite) TestSeedIsIdempotent() {
	ctx := context.Background()

	// A second seed with different wallets must not clobber live state.
	other := genesis
	other.Admin = "0x9999999999999999999999999999999999999999"
	s.Require().NoError(s.store.Seed(ctx, other))

	st, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.Equal(genesis.Admin, st.Admin)
}

func (s *PostgresControlSuite) TestUpdateRoundTrip() {
	ctx := context.Background()

	err := s.store.Update(ctx, func(st *control.State) error {
		st.Paused = true
		st.PendingController = "0x4444444444444444444444444444444444444444"
		return nil
	})
	s.Require().NoError(err)

	st, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.True(st.Paused)
	s.Equal(id.WalletAddress("0x4444444444444444444444444444444444444444"), st.PendingController)
}

func (s *PostgresControlSuite) TestUpdateAbortsOnError() {
	ctx := context.Background()

	wantErr := func(st *control.State) error {
		st.Paused = true
		return context.Canceled
	}
	s.Require().Error(s.store.Update(ctx, wantErr))

	st, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.False(st.Paused)
}

func (s *PostgresControlSuite) TestFreezeFlags() {
	ctx := context.Background()
	wallet := id.WalletAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	frozen, err := s.store.IsFrozen(ctx, wallet)
	s.Require().NoError(err)
	s.False(frozen)

	s.Require().NoError(s.store.SetFrozen(ctx, wallet, true))
	// Idempotent.
	s.Require().NoError(s.store.SetFrozen(ctx, wallet, true))

	frozen, err = s.store.IsFrozen(ctx, wallet)
	s.Require().NoError(err)
	s.True(frozen)

	s.Require().NoError(s.store.SetFrozen(ctx, wallet, false))
	frozen, err = s.store.IsFrozen(ctx, wallet)
	s.Require().NoError(err)
	s.False(frozen)
}
