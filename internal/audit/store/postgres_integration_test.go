//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"coinscious/internal/audit"
	"coinscious/internal/audit/store"
	id "coinscious/pkg/domain"
	"coinscious/pkg/testutil/containers"
)

const auditDDL = `
CREATE TABLE IF NOT EXISTS audit_events (
    id          UUID PRIMARY KEY,
    ts          TIMESTAMPTZ NOT NULL,
    action      TEXT NOT NULL,
    actor       TEXT NOT NULL,
    role        TEXT NOT NULL,
    source      TEXT NOT NULL,
    destination TEXT NOT NULL,
    partition   TEXT NOT NULL,
    amount      BIGINT NOT NULL,
    allowed     BOOLEAN NOT NULL,
    reason      TEXT NOT NULL,
    note        TEXT NOT NULL,
    request_id  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_events_ts_idx ON audit_events (ts DESC)`

type PostgresAuditSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresAuditSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAuditSuite))
}

func (s *PostgresAuditSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.Exec(s.T(), auditDDL)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresAuditSuite) SetupTest() {
	s.postgres.Exec(s.T(), "TRUNCATE audit_events")
}

func (s *PostgresAuditSuite) event(action audit.Action, ts time.Time) audit.Event {
	return audit.Event{
		ID:          uuid.New(),
		Timestamp:   ts,
		Action:      action,
		Actor:       "0x3333333333333333333333333333333333333333",
		Source:      "external",
		Destination: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Partition:   id.PartitionRegD,
		Amount:      100,
		Allowed:     true,
		Reason:      id.ReasonOK,
	}
}

func (s *PostgresAuditSuite) TestAppendAndList() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionIssue, base)))
	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionTransfer, base.Add(time.Second))))
	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionRedeem, base.Add(2*time.Second))))

	events, err := s.store.List(ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(events, 3)

	// Newest first.
	s.Equal(audit.ActionRedeem, events[0].Action)
	s.Equal(audit.ActionIssue, events[2].Action)
}

func (s *PostgresAuditSuite) TestListLimit() {
	ctx := context.Background()
	base := time.Now().UTC()

	for i := range 5 {
		s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionIssue, base.Add(time.Duration(i)*time.Second))))
	}

	events, err := s.store.List(ctx, store.Filter{Limit: 2})
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *PostgresAuditSuite) TestListWalletFilter() {
	ctx := context.Background()
	base := time.Now().UTC()

	other := s.event(audit.ActionIssue, base)
	other.Destination = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	s.Require().NoError(s.store.Append(ctx, other))
	s.Require().NoError(s.store.Append(ctx, s.event(audit.ActionIssue, base.Add(time.Second))))

	events, err := s.store.List(ctx, store.Filter{
		Wallet: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	})
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(id.WalletAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), events[0].Destination)
}
